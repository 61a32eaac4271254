package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"skillswap/internal/httputil"
	"skillswap/internal/logx"
	"skillswap/internal/model"
	"skillswap/internal/service"
	"skillswap/internal/transport/http/middleware"
)

// SwapHandler exposes the swap request lifecycle over HTTP.
type SwapHandler struct {
	swapService *service.SwapService
}

func NewSwapHandler(swapService *service.SwapService) *SwapHandler {
	return &SwapHandler{swapService: swapService}
}

// Create opens a new swap request against another user
// POST /api/swaps
func (h *SwapHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreateSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	swap, err := h.swapService.Create(r.Context(), actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMissingFields):
			httputil.WriteValidationError(w, "Please provide recipient, skillOffered and skillWanted")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "Recipient not found")
		default:
			logx.Error(err, "swap create failed", "user_id", actorID)
			httputil.WriteInternalError(w, "Failed to create swap request")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, swap)
}

// List returns every swap the caller participates in, newest first
// GET /api/swaps
func (h *SwapHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	swaps, err := h.swapService.List(r.Context(), actorID)
	if err != nil {
		logx.Error(err, "swap list failed", "user_id", actorID)
		httputil.WriteInternalError(w, "Failed to list swap requests")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, swaps)
}

// UpdateStatus moves a swap to a new lifecycle status
// PUT /api/swaps/{id}/status
func (h *SwapHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	swapID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid swap ID")
		return
	}

	var req model.UpdateSwapStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	swap, err := h.swapService.SetStatus(r.Context(), actorID, swapID, req.Status)
	if err != nil {
		h.writeSwapError(w, err, actorID, swapID, "swap status update failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, swap)
}

// AddFeedback records the caller's rating and comment on an accepted swap
// POST /api/swaps/{id}/feedback
func (h *SwapHandler) AddFeedback(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	swapID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid swap ID")
		return
	}

	var req model.AddFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	swap, err := h.swapService.AddFeedback(r.Context(), actorID, swapID, &req)
	if err != nil {
		h.writeSwapError(w, err, actorID, swapID, "swap feedback failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, swap)
}

// Delete withdraws a pending swap request
// DELETE /api/swaps/{id}
func (h *SwapHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	swapID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid swap ID")
		return
	}

	if err := h.swapService.Delete(r.Context(), actorID, swapID); err != nil {
		h.writeSwapError(w, err, actorID, swapID, "swap delete failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int64{"id": swapID})
}

// writeSwapError maps swap domain errors onto the response envelope.
func (h *SwapHandler) writeSwapError(w http.ResponseWriter, err error, actorID, swapID int64, logMsg string) {
	switch {
	case errors.Is(err, model.ErrSwapNotFound):
		httputil.WriteNotFound(w, "Swap request not found")
	case errors.Is(err, model.ErrOnlyRecipient):
		httputil.WriteUnauthorized(w, "Only the recipient can perform this action")
	case errors.Is(err, model.ErrOnlyRequestor):
		httputil.WriteUnauthorized(w, "Only the requestor can perform this action")
	case errors.Is(err, model.ErrNotAuthorized):
		httputil.WriteUnauthorized(w, "Not authorized for this swap request")
	case errors.Is(err, model.ErrInvalidStatus):
		httputil.WriteValidationError(w, "Invalid status value")
	case errors.Is(err, model.ErrInvalidRating):
		httputil.WriteValidationError(w, "Rating must be between 1 and 5")
	case errors.Is(err, model.ErrFeedbackNotAccepted):
		httputil.WriteInvalidState(w, "Feedback is only allowed on accepted swaps")
	case errors.Is(err, model.ErrDeleteNotPending):
		httputil.WriteInvalidState(w, "Only pending swap requests can be deleted")
	default:
		logx.Error(err, logMsg, "user_id", actorID, "swap_id", swapID)
		httputil.WriteInternalError(w, "Failed to process swap request")
	}
}
