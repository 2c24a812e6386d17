package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the HTTP surface: health, metrics, and the API endpoints.
func NewRouter(qh *QueryHandler, mh *MessageHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", qh.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/query", qh.Query)
		r.Post("/send-message", mh.SendMessage)
		r.Get("/sample-questions/{locale}", qh.SampleQuestions)
	})

	return r
}
