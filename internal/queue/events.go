package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the swap activity stream
const (
	EventSwapCreated       = "swap_created"
	EventSwapStatusChanged = "swap_status_changed"
	EventSwapDeleted       = "swap_deleted"
	EventFeedbackAdded     = "feedback_added"
	EventUserBanned        = "user_banned"
	EventUserUnbanned      = "user_unbanned"
	EventProfileUpdated    = "profile_updated"
)

// Stream and consumer group names
const (
	StreamSwaps        = "stream:swaps"
	ConsumerGroupStats = "stats_workers"
)

// SwapEvent is published on every swap or moderation mutation. Workers use
// it to keep derived read paths (stats cache, search cache) fresh.
type SwapEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when the mutation happened

	// Swap events
	SwapID  int64  `json:"swap_id,omitempty"`
	ActorID int64  `json:"actor_id,omitempty"`
	Status  string `json:"status,omitempty"`

	// Feedback events
	TargetUserID int64 `json:"target_user_id,omitempty"`
	Rating       int   `json:"rating,omitempty"`

	// Moderation and profile events
	UserID int64 `json:"user_id,omitempty"`
}

// NewSwapCreatedEvent records a new pending swap.
func NewSwapCreatedEvent(swapID, actorID int64) SwapEvent {
	return SwapEvent{
		Type:      EventSwapCreated,
		Timestamp: time.Now().Unix(),
		SwapID:    swapID,
		ActorID:   actorID,
	}
}

// NewSwapStatusChangedEvent records a lifecycle transition.
func NewSwapStatusChangedEvent(swapID, actorID int64, status string) SwapEvent {
	return SwapEvent{
		Type:      EventSwapStatusChanged,
		Timestamp: time.Now().Unix(),
		SwapID:    swapID,
		ActorID:   actorID,
		Status:    status,
	}
}

// NewSwapDeletedEvent records removal of a pending swap.
func NewSwapDeletedEvent(swapID, actorID int64) SwapEvent {
	return SwapEvent{
		Type:      EventSwapDeleted,
		Timestamp: time.Now().Unix(),
		SwapID:    swapID,
		ActorID:   actorID,
	}
}

// NewFeedbackAddedEvent records a rating submission against targetUserID.
func NewFeedbackAddedEvent(swapID, actorID, targetUserID int64, rating int) SwapEvent {
	return SwapEvent{
		Type:         EventFeedbackAdded,
		Timestamp:    time.Now().Unix(),
		SwapID:       swapID,
		ActorID:      actorID,
		TargetUserID: targetUserID,
		Rating:       rating,
	}
}

// NewUserBannedEvent records an admin ban.
func NewUserBannedEvent(userID, actorID int64) SwapEvent {
	return SwapEvent{
		Type:      EventUserBanned,
		Timestamp: time.Now().Unix(),
		UserID:    userID,
		ActorID:   actorID,
	}
}

// NewUserUnbannedEvent records an admin unban.
func NewUserUnbannedEvent(userID, actorID int64) SwapEvent {
	return SwapEvent{
		Type:      EventUserUnbanned,
		Timestamp: time.Now().Unix(),
		UserID:    userID,
		ActorID:   actorID,
	}
}

// NewProfileUpdatedEvent records a profile change that can affect search results.
func NewProfileUpdatedEvent(userID int64) SwapEvent {
	return SwapEvent{
		Type:      EventProfileUpdated,
		Timestamp: time.Now().Unix(),
		UserID:    userID,
	}
}

// ToMap converts the event to a map for Redis XADD. Streams store
// field-value pairs, so the full event is serialized into a "data" field.
func (e SwapEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseSwapEvent parses a SwapEvent from Redis stream message values.
func ParseSwapEvent(values map[string]interface{}) (SwapEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return SwapEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event SwapEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return SwapEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
