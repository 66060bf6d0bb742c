package api

import (
	"log/slog"

	"github.com/draftforge/draftforge/internal/api/handlers"
	"github.com/draftforge/draftforge/internal/api/middleware"
	"github.com/draftforge/draftforge/internal/auth"
	"github.com/draftforge/draftforge/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	Store          store.Store
	DB             *gorm.DB // nil when the memory store is active; used for health only
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    auth.Lifecycle
	FrontendURL    string
	SMTPConfigured bool
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Rate limiting - applied globally to prevent abuse
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow all in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		// Default to localhost for development - configure in production
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis, cfg.SMTPConfigured)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.FrontendURL, cfg.Logger)
	userHandler := handlers.NewUserHandler(cfg.AuthService, cfg.Logger)
	proposalHandler := handlers.NewProposalHandler(cfg.Store, cfg.Logger)
	sowHandler := handlers.NewSOWHandler(cfg.Store, cfg.Logger)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Browser-facing verification link from the email
	r.Get("/verify-email", authHandler.VerifyEmailPage)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/verify-email", authHandler.VerifyEmail)
		r.Post("/auth/resend-verification", authHandler.ResendVerification)
		r.Post("/auth/forgot-password", authHandler.ForgotPassword)
		r.Post("/auth/reset-password", authHandler.ResetPassword)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Get("/user/profile", userHandler.Profile)

			r.Route("/proposals", func(r chi.Router) {
				r.Get("/", proposalHandler.List)
				r.Post("/", proposalHandler.Create)
				r.Get("/{id}", proposalHandler.Get)
				r.Put("/{id}", proposalHandler.Update)
				r.Delete("/{id}", proposalHandler.Delete)
			})

			r.Route("/sows", func(r chi.Router) {
				r.Get("/", sowHandler.List)
				r.Post("/", sowHandler.Create)
				r.Get("/{id}", sowHandler.Get)
				r.Put("/{id}", sowHandler.Update)
				r.Delete("/{id}", sowHandler.Delete)
			})
		})
	})

	return &Router{r}
}
