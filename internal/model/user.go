package model

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

// User represents a marketplace member profile
type User struct {
	ID             int64          `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Email          string         `db:"email" json:"email"`
	PasswordHashed string         `db:"password_hashed" json:"-"` // "-" hides from JSON output
	Location       *string        `db:"location" json:"location"`
	ProfilePhoto   *string        `db:"profile_photo" json:"profile_photo"`
	PhotoKey       *string        `db:"photo_key" json:"-"`
	SkillsOffered  pq.StringArray `db:"skills_offered" json:"skills_offered"`
	SkillsWanted   pq.StringArray `db:"skills_wanted" json:"skills_wanted"`
	Availability   string         `db:"availability" json:"availability"`
	IsPublic       bool           `db:"is_public" json:"is_public"`
	Rating         float64        `db:"rating" json:"rating"`
	TotalRatings   int            `db:"total_ratings" json:"total_ratings"`
	IsAdmin        bool           `db:"is_admin" json:"is_admin"`
	IsBanned       bool           `db:"is_banned" json:"is_banned"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// DefaultAvailability is assigned at registration until the user sets one.
const DefaultAvailability = "Not specified"

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries a partial profile update. A nil field means
// "leave unchanged"; a non-nil field replaces the stored value, so clients
// can clear a field by sending its empty value explicitly.
type UpdateProfileRequest struct {
	Name          *string   `json:"name"`
	Location      *string   `json:"location"`
	ProfilePhoto  *string   `json:"profile_photo"`
	SkillsOffered *[]string `json:"skills_offered"`
	SkillsWanted  *[]string `json:"skills_wanted"`
	Availability  *string   `json:"availability"`
	IsPublic      *bool     `json:"is_public"`
}

// SkillSearchType selects which skill list a search matches against.
type SkillSearchType string

const (
	SearchOffered SkillSearchType = "offered"
	SearchWanted  SkillSearchType = "wanted"
	SearchBoth    SkillSearchType = "both"
)

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when registering with an email already in use
	ErrEmailExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrProfilePrivate is returned when a caller reads a private profile they don't own
	ErrProfilePrivate = errors.New("this profile is private")

	// ErrCannotBanAdmin is returned when an admin account is targeted by a ban
	ErrCannotBanAdmin = errors.New("cannot ban an admin user")
)

// AuthResponse is returned after successful registration or login
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}
