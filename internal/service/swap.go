package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skillswap/internal/logx"
	"skillswap/internal/model"
	"skillswap/internal/queue"
	"skillswap/internal/repository"
)

// partyRole names which side of a swap an actor must hold for an action.
type partyRole int

const (
	roleEither partyRole = iota
	roleRequestor
	roleRecipient
)

// statusPermissions is the authorization matrix for status transitions:
// accept/reject belong to the recipient, cancel to the requestor. Keeping
// it as a table makes the matrix testable in isolation.
var statusPermissions = map[model.SwapStatus]struct {
	role partyRole
	err  error
}{
	model.SwapPending:   {roleEither, model.ErrNotAuthorized},
	model.SwapAccepted:  {roleRecipient, model.ErrOnlyRecipient},
	model.SwapRejected:  {roleRecipient, model.ErrOnlyRecipient},
	model.SwapCancelled: {roleRequestor, model.ErrOnlyRequestor},
}

// SwapService owns the swap request lifecycle: creation, listing, status
// transitions, feedback and deletion, with per-role authorization.
type SwapService struct {
	swapRepo  repository.SwapRepository
	userRepo  repository.UserRepository
	rating    *RatingService
	publisher queue.Publisher
}

func NewSwapService(swapRepo repository.SwapRepository, userRepo repository.UserRepository, rating *RatingService, publisher queue.Publisher) *SwapService {
	return &SwapService{
		swapRepo:  swapRepo,
		userRepo:  userRepo,
		rating:    rating,
		publisher: publisher,
	}
}

// Create opens a new swap request from actorID against req.RecipientID.
// The request starts pending. A requestor may target themselves; nothing
// in the lifecycle breaks, so it is not rejected here.
func (s *SwapService) Create(ctx context.Context, actorID int64, req *model.CreateSwapRequest) (*model.Swap, error) {
	if req.RecipientID == 0 || strings.TrimSpace(req.SkillOffered) == "" || strings.TrimSpace(req.SkillWanted) == "" {
		return nil, model.ErrMissingFields
	}

	if _, err := s.userRepo.GetByID(ctx, req.RecipientID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to check recipient: %w", err)
	}

	swap := &model.Swap{
		RequestorID:  actorID,
		RecipientID:  req.RecipientID,
		SkillOffered: req.SkillOffered,
		SkillWanted:  req.SkillWanted,
		Message:      req.Message,
	}

	if err := s.swapRepo.Create(ctx, swap); err != nil {
		return nil, fmt.Errorf("failed to create swap: %w", err)
	}

	s.publish(ctx, queue.NewSwapCreatedEvent(swap.ID, actorID))
	return swap, nil
}

// List returns all swaps where the actor is requestor or recipient,
// newest first, with each party's display fields attached.
func (s *SwapService) List(ctx context.Context, actorID int64) ([]model.SwapDetail, error) {
	return s.swapRepo.ListForUser(ctx, actorID)
}

// SetStatus applies a lifecycle transition after checking the actor's role
// against the permission table. The current status is deliberately not
// checked, so a terminal swap can be re-transitioned; see DESIGN.md.
func (s *SwapService) SetStatus(ctx context.Context, actorID, swapID int64, status model.SwapStatus) (*model.Swap, error) {
	if !status.IsValid() {
		return nil, model.ErrInvalidStatus
	}

	swap, err := s.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}

	if !swap.IsParty(actorID) {
		return nil, model.ErrNotAuthorized
	}

	perm := statusPermissions[status]
	switch perm.role {
	case roleRecipient:
		if !swap.IsRecipient(actorID) {
			return nil, perm.err
		}
	case roleRequestor:
		if !swap.IsRequestor(actorID) {
			return nil, perm.err
		}
	}

	updated, err := s.swapRepo.UpdateStatus(ctx, swapID, status)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.NewSwapStatusChangedEvent(swapID, actorID, string(status)))
	return updated, nil
}

// AddFeedback writes the actor's feedback slot on an accepted swap and folds
// the star value into the other party's running average. Resubmission
// overwrites the slot but still adds another count to the aggregate.
func (s *SwapService) AddFeedback(ctx context.Context, actorID, swapID int64, req *model.AddFeedbackRequest) (*model.Swap, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, model.ErrInvalidRating
	}

	swap, err := s.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}

	if swap.Status != model.SwapAccepted {
		return nil, model.ErrFeedbackNotAccepted
	}

	if !swap.IsParty(actorID) {
		return nil, model.ErrNotAuthorized
	}

	fromRequestor := swap.IsRequestor(actorID)
	updated, err := s.swapRepo.SetFeedback(ctx, swapID, fromRequestor, model.Feedback{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return nil, err
	}

	targetID := swap.RecipientID
	if !fromRequestor {
		targetID = swap.RequestorID
	}

	if _, err := s.rating.RecordRating(ctx, targetID, req.Rating); err != nil {
		return nil, err
	}

	s.publish(ctx, queue.NewFeedbackAddedEvent(swapID, actorID, targetID, req.Rating))
	return updated, nil
}

// Delete removes a swap. Only the requestor may delete, and only while the
// swap is still pending.
func (s *SwapService) Delete(ctx context.Context, actorID, swapID int64) error {
	swap, err := s.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		return err
	}

	if !swap.IsRequestor(actorID) {
		return model.ErrNotAuthorized
	}

	if swap.Status != model.SwapPending {
		return model.ErrDeleteNotPending
	}

	if err := s.swapRepo.Delete(ctx, swapID); err != nil {
		return err
	}

	s.publish(ctx, queue.NewSwapDeletedEvent(swapID, actorID))
	return nil
}

// publish sends an event best-effort; a failed publish never fails the
// request that triggered it.
func (s *SwapService) publish(ctx context.Context, event queue.SwapEvent) {
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.Publish(ctx, queue.StreamSwaps, event); err != nil {
		logx.Error(err, "swap event publish failed", "type", event.Type)
	}
}
