package model

import "time"

// SkillCount is one entry of the most-offered-skills leaderboard.
type SkillCount struct {
	Skill string `db:"skill" json:"skill"`
	Count int    `db:"count" json:"count"`
}

// UserStats summarizes the user population.
type UserStats struct {
	Total  int `json:"total"`
	Banned int `json:"banned"`
}

// SwapStats summarizes swaps overall and per lifecycle state.
type SwapStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// PlatformStats carries marketplace-wide aggregates.
type PlatformStats struct {
	AverageRating float64      `json:"average_rating"`
	TopSkills     []SkillCount `json:"top_skills"`
}

// AdminStats is the admin dashboard payload.
type AdminStats struct {
	Users    UserStats     `json:"users"`
	Swaps    SwapStats     `json:"swaps"`
	Platform PlatformStats `json:"platform"`
}

// BroadcastRequest is a platform-wide announcement from an admin.
type BroadcastRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// BroadcastResponse acknowledges an announcement. Delivery is out of scope;
// the payload is echoed back so the dashboard can render a confirmation.
type BroadcastResponse struct {
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Type    string    `json:"type"`
	SentAt  time.Time `json:"sent_at"`
	SentBy  int64     `json:"sent_by"`
}
