package model

import (
	"errors"
	"time"
)

// SwapStatus tracks a swap request through its lifecycle.
type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapAccepted  SwapStatus = "accepted"
	SwapRejected  SwapStatus = "rejected"
	SwapCancelled SwapStatus = "cancelled"
)

// IsValid reports whether s is one of the known lifecycle states.
func (s SwapStatus) IsValid() bool {
	switch s {
	case SwapPending, SwapAccepted, SwapRejected, SwapCancelled:
		return true
	}
	return false
}

// Feedback is one party's rating of the other, attached to a specific swap.
type Feedback struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// FeedbackEnvelope groups the two per-role feedback slots.
type FeedbackEnvelope struct {
	FromRequestor *Feedback `json:"from_requestor,omitempty"`
	FromRecipient *Feedback `json:"from_recipient,omitempty"`
}

// Swap represents a proposed exchange of skills between two users.
// The feedback columns are flattened for Postgres; SyncFeedback rebuilds
// the envelope after a scan and must be called by repositories.
type Swap struct {
	ID           int64      `db:"id" json:"id"`
	RequestorID  int64      `db:"requestor_id" json:"requestor_id"`
	RecipientID  int64      `db:"recipient_id" json:"recipient_id"`
	SkillOffered string     `db:"skill_offered" json:"skill_offered"`
	SkillWanted  string     `db:"skill_wanted" json:"skill_wanted"`
	Message      *string    `db:"message" json:"message"`
	Status       SwapStatus `db:"status" json:"status"`

	ReqRating   *int    `db:"req_rating" json:"-"`
	ReqComment  *string `db:"req_comment" json:"-"`
	RecpRating  *int    `db:"recp_rating" json:"-"`
	RecpComment *string `db:"recp_comment" json:"-"`

	Feedback FeedbackEnvelope `db:"-" json:"feedback"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SyncFeedback rebuilds the JSON feedback envelope from the flattened columns.
func (s *Swap) SyncFeedback() {
	s.Feedback = FeedbackEnvelope{}
	if s.ReqRating != nil {
		fb := &Feedback{Rating: *s.ReqRating}
		if s.ReqComment != nil {
			fb.Comment = *s.ReqComment
		}
		s.Feedback.FromRequestor = fb
	}
	if s.RecpRating != nil {
		fb := &Feedback{Rating: *s.RecpRating}
		if s.RecpComment != nil {
			fb.Comment = *s.RecpComment
		}
		s.Feedback.FromRecipient = fb
	}
}

// IsRequestor reports whether userID initiated this swap.
func (s *Swap) IsRequestor(userID int64) bool {
	return s.RequestorID == userID
}

// IsRecipient reports whether userID is the target of this swap.
func (s *Swap) IsRecipient(userID int64) bool {
	return s.RecipientID == userID
}

// IsParty reports whether userID is either side of this swap.
func (s *Swap) IsParty(userID int64) bool {
	return s.IsRequestor(userID) || s.IsRecipient(userID)
}

// PartySummary is the public display slice of a swap party.
type PartySummary struct {
	ID           int64   `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Email        string  `db:"email" json:"email,omitempty"`
	ProfilePhoto *string `db:"profile_photo" json:"profile_photo"`
}

// SwapDetail is a swap with both parties' display fields attached,
// as returned from list endpoints.
type SwapDetail struct {
	Swap
	Requestor PartySummary `db:"requestor" json:"requestor"`
	Recipient PartySummary `db:"recipient" json:"recipient"`
}

// CreateSwapRequest represents the payload for opening a swap request.
type CreateSwapRequest struct {
	RecipientID  int64   `json:"recipient_id"`
	SkillOffered string  `json:"skill_offered"`
	SkillWanted  string  `json:"skill_wanted"`
	Message      *string `json:"message"`
}

// UpdateSwapStatusRequest carries the desired lifecycle state.
type UpdateSwapStatusRequest struct {
	Status SwapStatus `json:"status"`
}

// AddFeedbackRequest carries one party's rating of the other.
type AddFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

var (
	// ErrSwapNotFound is returned when a swap cannot be found
	ErrSwapNotFound = errors.New("swap request not found")

	// ErrNotAuthorized is returned when the actor may not perform this action on this swap
	ErrNotAuthorized = errors.New("not authorized")

	// ErrOnlyRecipient is returned when someone other than the recipient tries to accept or reject
	ErrOnlyRecipient = errors.New("only the recipient can accept or reject requests")

	// ErrOnlyRequestor is returned when someone other than the requestor tries to cancel
	ErrOnlyRequestor = errors.New("only the requestor can cancel requests")

	// ErrInvalidStatus is returned for a status outside the lifecycle set
	ErrInvalidStatus = errors.New("invalid swap status")

	// ErrFeedbackNotAccepted is returned when feedback targets a swap that isn't accepted
	ErrFeedbackNotAccepted = errors.New("can only add feedback to accepted swaps")

	// ErrInvalidRating is returned for a star value outside 1..5
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrDeleteNotPending is returned when deleting a swap that already left pending
	ErrDeleteNotPending = errors.New("can only delete pending swap requests")

	// ErrMissingFields is returned when a required request field is absent
	ErrMissingFields = errors.New("please provide all required fields")
)
