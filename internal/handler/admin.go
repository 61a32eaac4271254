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

// AdminHandler exposes moderation and reporting endpoints. All routes are
// mounted behind the admin middleware, so callers are already verified.
type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers returns every account, including banned and private ones
// GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		logx.Error(err, "admin list users failed")
		httputil.WriteInternalError(w, "Failed to list users")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, users)
}

// BanUser marks an account as banned
// PUT /api/admin/users/{id}/ban
func (h *AdminHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, true)
}

// UnbanUser lifts a ban
// PUT /api/admin/users/{id}/unban
func (h *AdminHandler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, false)
}

func (h *AdminHandler) setBanned(w http.ResponseWriter, r *http.Request, banned bool) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	if banned {
		err = h.adminService.BanUser(r.Context(), actorID, userID)
	} else {
		err = h.adminService.UnbanUser(r.Context(), actorID, userID)
	}
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrCannotBanAdmin):
			httputil.WriteValidationError(w, "Admin accounts cannot be banned")
		default:
			logx.Error(err, "admin ban update failed", "user_id", userID)
			httputil.WriteInternalError(w, "Failed to update user")
		}
		return
	}

	msg := "User banned successfully"
	if !banned {
		msg = "User unbanned successfully"
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// ListSwaps returns every swap on the platform with party details
// GET /api/admin/swaps
func (h *AdminHandler) ListSwaps(w http.ResponseWriter, r *http.Request) {
	swaps, err := h.adminService.ListSwaps(r.Context())
	if err != nil {
		logx.Error(err, "admin list swaps failed")
		httputil.WriteInternalError(w, "Failed to list swaps")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, swaps)
}

// Stats returns the aggregated platform report
// GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		logx.Error(err, "admin stats failed")
		httputil.WriteInternalError(w, "Failed to compute stats")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}

// Broadcast records a platform-wide announcement
// POST /api/admin/broadcast
func (h *AdminHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	var req model.BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.adminService.Broadcast(r.Context(), actorID, &req)
	if err != nil {
		if errors.Is(err, model.ErrMissingFields) {
			httputil.WriteValidationError(w, "Title and message are required")
			return
		}
		logx.Error(err, "admin broadcast failed")
		httputil.WriteInternalError(w, "Failed to send broadcast")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
