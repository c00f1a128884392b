/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

SECURITY NOTE:
  Identity comes from the X-User-Id header with no verification. This is
  a placeholder until a real auth provider is wired in front.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-Id"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/habits", func(r chi.Router) {
			r.Get("/", h.ListHabits)
			r.Post("/", h.CreateHabit)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetHabit)
				r.Patch("/", h.UpdateHabit)
				r.Delete("/", h.DeleteHabit)

				r.Route("/logs", func(r chi.Router) {
					r.Get("/", h.ListLogs)
					r.Post("/", h.CreateLog)
					r.Post("/increment", h.IncrementLog)

					r.Route("/{date}", func(r chi.Router) {
						r.Patch("/", h.UpdateLog)
						r.Delete("/", h.DeleteLog)

						r.Route("/entries", func(r chi.Router) {
							r.Post("/", h.AddEntry)
							r.Delete("/last", h.RemoveLastEntry)
							r.Patch("/{entryId}", h.UpdateEntry)
							r.Delete("/{entryId}", h.DeleteEntry)
						})
					})
				})
			})
		})
	})

	return r
}
