package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"skillswap/internal/handler"
	"skillswap/internal/httputil"
	"skillswap/internal/limiter"
	"skillswap/internal/logx"
	authmw "skillswap/internal/transport/http/middleware"
)

// Login and registration are the only unauthenticated write endpoints, so
// they get a per-IP token bucket.
const (
	AuthRate  = 0.5
	AuthBurst = 5
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	UserHandler  *handler.UserHandler
	SwapHandler  *handler.SwapHandler
	AdminHandler *handler.AdminHandler
	UserGetter   authmw.UserGetter
	JWTSecret    string

	Environment    string
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if cfg.Environment != "production" {
		corsAllowedOrigins = []string{"*"}
	} else if len(cfg.AllowedOrigins) > 0 {
		corsAllowedOrigins = cfg.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger)
	r.Use(middleware.Recoverer)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/users", func(users chi.Router) {
			// Public routes - no authentication required
			users.With(authLimiter.Middleware).Post("/", cfg.UserHandler.Register)
			users.With(authLimiter.Middleware).Post("/login", cfg.UserHandler.Login)
			users.Post("/refresh", cfg.UserHandler.Refresh)

			// Search and public profiles work without a token, but an
			// authenticated owner may view their own private profile.
			users.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/search", cfg.UserHandler.Search)
			users.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}", cfg.UserHandler.GetByID)

			// Protected routes - require authentication
			users.Group(func(users chi.Router) {
				users.Use(authmw.AuthMiddleware(cfg.JWTSecret))

				users.Post("/logout", cfg.UserHandler.Logout)
				users.Get("/profile", cfg.UserHandler.GetProfile)
				users.Put("/profile", cfg.UserHandler.UpdateProfile)
				users.Post("/profile/photo", cfg.UserHandler.UploadPhoto)
			})
		})

		api.Route("/swaps", func(swaps chi.Router) {
			swaps.Use(authmw.AuthMiddleware(cfg.JWTSecret))

			swaps.Post("/", cfg.SwapHandler.Create)
			swaps.Get("/", cfg.SwapHandler.List)
			swaps.Put("/{id}/status", cfg.SwapHandler.UpdateStatus)
			swaps.Post("/{id}/feedback", cfg.SwapHandler.AddFeedback)
			swaps.Delete("/{id}", cfg.SwapHandler.Delete)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(authmw.AuthMiddleware(cfg.JWTSecret))
			admin.Use(authmw.RequireAdmin(cfg.UserGetter))

			admin.Get("/users", cfg.AdminHandler.ListUsers)
			admin.Put("/users/{id}/ban", cfg.AdminHandler.BanUser)
			admin.Put("/users/{id}/unban", cfg.AdminHandler.UnbanUser)
			admin.Get("/swaps", cfg.AdminHandler.ListSwaps)
			admin.Get("/stats", cfg.AdminHandler.Stats)
			admin.Post("/message", cfg.AdminHandler.Broadcast)
		})
	})

	return r
}
