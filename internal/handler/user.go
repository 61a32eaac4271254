package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"skillswap/internal/httputil"
	"skillswap/internal/logx"
	"skillswap/internal/model"
	"skillswap/internal/service"
	"skillswap/internal/transport/http/middleware"
)

// UserHandler groups account and profile endpoints.
type UserHandler struct {
	userService  *service.UserService
	authService  *service.AuthService
	mediaService *service.MediaService
}

// NewUserHandler wires dependencies for user endpoints. mediaService may be
// nil when object storage is not configured; photo upload then returns 503.
func NewUserHandler(userService *service.UserService, authService *service.AuthService, mediaService *service.MediaService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		authService:  authService,
		mediaService: mediaService,
	}
}

// Register handles account creation
// POST /api/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMissingFields):
			httputil.WriteValidationError(w, "Please add all required fields")
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteConflict(w, "User already exists")
		default:
			logx.Error(err, "register failed")
			httputil.WriteInternalError(w, "Failed to register")
		}
		return
	}

	pair, err := h.authService.GenerateTokenPair(r.Context(), user.ID)
	if err != nil {
		logx.Error(err, "token issue failed", "user_id", user.ID)
		httputil.WriteInternalError(w, "Failed to generate tokens")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, model.AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// Login handles user login
// POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.WriteValidationError(w, "Email and password are required")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid credentials")
			return
		}
		logx.Error(err, "login failed")
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	pair, err := h.authService.GenerateTokenPair(r.Context(), user.ID)
	if err != nil {
		logx.Error(err, "token issue failed", "user_id", user.ID)
		httputil.WriteInternalError(w, "Failed to generate tokens")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// Refresh rotates the refresh token and issues a new pair
// POST /api/users/refresh
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.RefreshToken == "" {
		httputil.WriteValidationError(w, "Refresh token is required")
		return
	}

	pair, _, err := h.authService.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrRefreshTokenNotFound):
			httputil.WriteUnauthorized(w, "Invalid refresh token")
		case errors.Is(err, model.ErrRefreshTokenExpired):
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenExpired, "Refresh token has expired")
		case errors.Is(err, model.ErrRefreshTokenReused):
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenReused, "Refresh token reuse detected. Please login again.")
		default:
			logx.Error(err, "refresh failed")
			httputil.WriteInternalError(w, "Failed to refresh tokens")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pair)
}

// Logout revokes the presented refresh token
// POST /api/users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req model.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.RefreshToken == "" {
		httputil.WriteValidationError(w, "Refresh token is required")
		return
	}

	if err := h.authService.RevokeRefreshToken(r.Context(), req.RefreshToken); err != nil &&
		!errors.Is(err, model.ErrRefreshTokenNotFound) {
		logx.Error(err, "logout failed")
		httputil.WriteInternalError(w, "Failed to logout")
		return
	}

	// Already-revoked tokens still count as logged out
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// GetProfile returns the authenticated user's own profile
// GET /api/users/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		logx.Error(err, "get profile failed", "user_id", userID)
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// UpdateProfile merges provided fields into the authenticated user's profile
// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		logx.Error(err, "update profile failed", "user_id", userID)
		httputil.WriteInternalError(w, "Failed to update profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// UploadPhoto accepts a multipart photo, stores it and updates the profile
// POST /api/users/profile/photo
func (h *UserHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	if h.mediaService == nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, httputil.ErrCodeInternal, "Photo storage is not configured")
		return
	}

	maxFormSize := int64(model.MaxPhotoSizeBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Photo exceeds 5MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		httputil.WriteValidationError(w, "Photo file is required")
		return
	}
	defer file.Close()

	upload, err := h.mediaService.UploadProfilePhoto(r.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Photo exceeds 5MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			logx.Error(err, "photo upload failed", "user_id", userID)
			httputil.WriteInternalError(w, "Failed to upload photo")
		}
		return
	}

	user, err := h.userService.SetPhoto(r.Context(), userID, upload)
	if err != nil {
		logx.Error(err, "photo persist failed", "user_id", userID)
		httputil.WriteInternalError(w, "Failed to save photo")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// Search finds public users by skill substring
// GET /api/users/search?skill=...&type=offered|wanted
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	skill := r.URL.Query().Get("skill")
	searchType := model.SkillSearchType(r.URL.Query().Get("type"))

	users, err := h.userService.Search(r.Context(), skill, searchType)
	if err != nil {
		logx.Error(err, "search failed", "skill", skill)
		httputil.WriteInternalError(w, "Failed to search users")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, users)
}

// GetByID returns another user's profile, subject to the visibility rule
// GET /api/users/{id}
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	var viewerID *int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	user, err := h.userService.GetVisibleProfile(r.Context(), userID, viewerID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrProfilePrivate):
			httputil.WriteForbidden(w, "This profile is private")
		default:
			logx.Error(err, "get user failed", "user_id", userID)
			httputil.WriteInternalError(w, "Failed to get user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}
