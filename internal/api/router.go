package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/davisrp/timingboard/internal/auth"
	"github.com/davisrp/timingboard/internal/metrics"
	"github.com/davisrp/timingboard/internal/middleware"
)

// maxJSONBody limits JSON request bodies. Image uploads get their own limit.
const maxJSONBody = 1 << 20 // 1 MB

// NewRouter creates the main router with all application routes.
func (h *Handler) NewRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(metrics.Middleware)
	r.Use(middleware.HTTPLogging(h.logger, []string{"email", "title", "description", "q", "role"}))

	// Public endpoints (no auth)
	r.Get("/health", h.HandleHealth)
	r.Get("/ready", h.HandleReady)
	r.Get("/media/{key}", h.HandleGetMedia)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodySize(maxJSONBody))
			r.Post("/auth/signup", h.HandleSignUp)
			r.Post("/auth/login", h.HandleLogin)
		})

		// Authenticated API (session token)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(h.tokens))

			r.Get("/auth/session", h.HandleSession)
			r.Get("/zones", h.HandleListZones)
			r.Get("/events", h.HandleEvents)

			// Admin-only mutations
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)

				r.Group(func(r chi.Router) {
					r.Use(middleware.MaxBodySize(maxJSONBody))
					r.Post("/zones", h.HandleCreateZone)
					r.Post("/zones/{id}/claim", h.HandleClaimZone)
					r.Delete("/zones/{id}", h.HandleDeleteZone)
					r.Get("/profiles", h.HandleListProfiles)
					r.Post("/profiles/{id}/role", h.HandleSetProfileRole)
					r.Post("/loglevel", h.HandleSetLogLevel)
				})

				r.Post("/images", h.HandleUploadImage)
			})
		})
	})

	return r
}
