// Package api exposes the deduction engine over HTTP. The server holds only
// the engine and the immutable table store, so requests are safe to serve
// concurrently; ordering of periods for a single employee is the caller's
// contract, not enforced here.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates the router with middleware and all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/calculate", h.Calculate)
		r.Post("/batch", h.CalculateBatch)
		r.Get("/tables", h.ListTables)
		r.Get("/tables/{year}/{edition}", h.GetTable)
	})

	return r
}

// ListenAndServe starts the HTTP server on addr.
func ListenAndServe(addr string, h *Handler) error {
	return http.ListenAndServe(addr, NewRouter(h))
}
