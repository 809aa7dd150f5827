package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"creative-approval-engine/internal/observability"
)

// RouterOptions carries the transport settings the router needs.
type RouterOptions struct {
	CORSOrigins []string
}

func Router(h *ApprovalHandler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(observability.Measure)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Handle("/metrics", observability.MetricsHandler())

	// evaluation timeout is enforced by ApprovalHandler
	r.Post("/creative-approval", h.CreativeApproval)
	return r
}
