package router

import (
	"net/http"

	"cafe-sklad-api/internal/handler"
	"cafe-sklad-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler          *handler.Handler
	AuthHandler      *handler.AuthHandler
	InventoryHandler *handler.InventoryHandler
	HistoryHandler   *handler.HistoryHandler
	ScanHandler      *handler.ScanHandler
	AuthMiddleware   func(http.Handler) http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Token"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// PUBLIC routes
	r.Get("/api/status", cfg.Handler.Status)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", cfg.Handler.Health)
		r.Get("/ready", cfg.Handler.Ready)

		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		// AUTHENTICATED routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthMiddleware)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			r.Get("/auth/me", cfg.AuthHandler.Me)

			r.Route("/items", func(r chi.Router) {
				r.Get("/", cfg.InventoryHandler.List)
				r.Post("/", cfg.InventoryHandler.Create)
				r.Get("/{id}", cfg.InventoryHandler.Get)
				r.Delete("/{id}", cfg.InventoryHandler.Delete)
				r.Post("/{id}/adjust", cfg.InventoryHandler.Adjust)
				r.Get("/{id}/qrcode", cfg.InventoryHandler.QRCode)
			})

			r.Post("/scan", cfg.ScanHandler.Resolve)
			r.Post("/scan/reduce", cfg.ScanHandler.Reduce)

			r.Get("/history", cfg.HistoryHandler.List)
		})
	})

	return r
}
