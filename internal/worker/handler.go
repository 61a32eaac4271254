package worker

import (
	"context"
	"fmt"
	"time"

	"skillswap/internal/cache"
	"skillswap/internal/logx"
	"skillswap/internal/queue"
)

// Invalidator is the slice of the response cache the workers need. Abstracting
// it keeps the worker independent of the Redis client in tests.
type Invalidator interface {
	InvalidateStats(ctx context.Context) error
	InvalidateSearch(ctx context.Context) error
}

// Handler consumes swap activity events and keeps derived read paths fresh.
// The write path never touches the caches directly; every mutation only
// publishes an event and the workers do the invalidation.
type Handler struct {
	cache Invalidator
}

// NewHandler creates a new event handler.
func NewHandler(cache Invalidator) *Handler {
	return &Handler{cache: cache}
}

// HandleEvent routes an event to the appropriate invalidation.
func (h *Handler) HandleEvent(ctx context.Context, event queue.SwapEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventSwapCreated, queue.EventSwapStatusChanged, queue.EventSwapDeleted:
		err = h.handleSwapChanged(ctx, event)
	case queue.EventFeedbackAdded:
		err = h.handleFeedbackAdded(ctx, event)
	case queue.EventUserBanned, queue.EventUserUnbanned:
		err = h.handleBanChanged(ctx, event)
	case queue.EventProfileUpdated:
		err = h.handleProfileUpdated(ctx, event)
	default:
		logx.Warn("unknown event type", "type", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		logx.Error(err, "event handling failed", "type", event.Type, "duration", time.Since(startTime))
		return err
	}

	logx.Info("event handled", "type", event.Type, "duration", time.Since(startTime))
	return nil
}

// handleSwapChanged drops the cached stats report after any swap mutation.
func (h *Handler) handleSwapChanged(ctx context.Context, event queue.SwapEvent) error {
	if err := h.cache.InvalidateStats(ctx); err != nil {
		return fmt.Errorf("invalidate stats: %w", err)
	}
	return nil
}

// handleFeedbackAdded drops both read paths: feedback changes the stats
// report and the rated user's search result snapshot.
func (h *Handler) handleFeedbackAdded(ctx context.Context, event queue.SwapEvent) error {
	if err := h.cache.InvalidateStats(ctx); err != nil {
		return fmt.Errorf("invalidate stats: %w", err)
	}
	if err := h.cache.InvalidateSearch(ctx); err != nil {
		return fmt.Errorf("invalidate search: %w", err)
	}
	return nil
}

// handleBanChanged drops both read paths: banned users leave search results
// and the stats report counts them separately.
func (h *Handler) handleBanChanged(ctx context.Context, event queue.SwapEvent) error {
	if err := h.cache.InvalidateStats(ctx); err != nil {
		return fmt.Errorf("invalidate stats: %w", err)
	}
	if err := h.cache.InvalidateSearch(ctx); err != nil {
		return fmt.Errorf("invalidate search: %w", err)
	}
	return nil
}

// handleProfileUpdated drops cached search results, since skills and
// visibility may have changed.
func (h *Handler) handleProfileUpdated(ctx context.Context, event queue.SwapEvent) error {
	if err := h.cache.InvalidateSearch(ctx); err != nil {
		return fmt.Errorf("invalidate search: %w", err)
	}
	return nil
}

var _ Invalidator = (cache.ResponseCache)(nil)
