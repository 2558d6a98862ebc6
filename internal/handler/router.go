package handler

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the webhook, the read API, and the health endpoints.
func NewRouter(h *Handler, health *Health) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	r.Post("/api/webhook", h.HandleWebhook)

	r.Route("/api/interviews", func(r chi.Router) {
		r.Post("/generate", h.Generate)
		r.Get("/trending", h.ListTrendingInterviews)
		r.Get("/latest", h.ListLatestInterviews)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetInterview)
			r.Get("/feedback", h.GetFeedback)
			r.Get("/comparison", h.GetComparison)
		})
	})

	r.Route("/api/users/{userId}", func(r chi.Router) {
		r.Get("/interviews", h.ListUserInterviews)
		r.Get("/completed", h.ListCompletedInterviews)
	})

	return r
}
