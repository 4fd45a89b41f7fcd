package router

import (
	"net/http"
	"time"

	"clothing-store/internal/auth"
	"clothing-store/internal/config"
	"clothing-store/internal/handler"
	"clothing-store/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Products *handler.ProductHandler
	Orders   *handler.OrderHandler
	Auth     *handler.AuthHandler
	Health   *handler.HealthHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(cfg *config.Config, h Handlers, authService auth.Service, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// RequestID -> Recovery -> RealIP -> Logging -> Metrics -> CORS
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", h.Health.Check)
	r.Handle("/metrics", promhttp.Handler())

	requireAdmin := middleware.Authenticate(authService, cfg.Auth.CookieName, logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Check)

		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter(cfg.Auth.LoginRateLimit)).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/verify", h.Auth.Verify)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Get("/{id}", h.Products.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/", h.Products.Create)
				r.Put("/{id}", h.Products.Update)
				r.Delete("/{id}", h.Products.Delete)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.Orders.Create)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Get("/", h.Orders.List)
				r.Get("/{id}", h.Orders.Get)
				r.Put("/{id}/status", h.Orders.UpdateStatus)
			})
		})
	})

	return r
}

// loginLimiter allows perMinute login attempts per client IP. Zero disables it.
func loginLimiter(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			handler.WriteErrorMessage(w, http.StatusTooManyRequests, "Too many login attempts, please try again later")
		}),
	)
}
