/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/parse, /api/calculate, /api/overtime   Stateless engine
  /api/calendar/*                             Production calendar
  /api/people/*                               People, entries, statements
  /api/entries/*                              Entry deletion
  /metrics                                    Prometheus scrape endpoint

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultOrigins are allowed when no CORS origins are configured.
var DefaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, origins []string) *chi.Mux {
	if len(origins) == 0 {
		origins = DefaultOrigins
	}
	// Credentials are never sent to a wildcard origin.
	credentials := !slices.Contains(origins, "*")

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: credentials,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Engine routes
		r.Post("/parse", h.Parse)
		r.Post("/calculate", h.Calculate)
		r.Post("/overtime", h.Overtime)
		r.Get("/calendar/{year}/{month}", h.GetCalendarMonth)

		// People routes
		r.Route("/people", func(r chi.Router) {
			r.Get("/", h.ListPeople)
			r.Post("/", h.CreatePerson)
			r.Get("/{id}", h.GetPerson)
			r.Put("/{id}/settings", h.UpdateSettings)
			r.Get("/{id}/entries", h.ListEntries)
			r.Post("/{id}/entries", h.CreateEntry)
			r.Get("/{id}/statement", h.GetStatement)
			r.Get("/{id}/runs", h.ListRuns)
		})

		// Entry routes
		r.Route("/entries", func(r chi.Router) {
			r.Delete("/{id}", h.DeleteEntry)
		})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.Metrics.Registry, promhttp.HandlerOpts{}))

	return r
}
