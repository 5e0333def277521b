package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Routes(m *Middleware, corsOrigins []string, rateLimitRPM int, timeout time.Duration) *chi.Mux {
	r := chi.NewRouter()
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	// Global middleware
	r.Use(m.RequestID)
	r.Use(m.RequestLogger)
	r.Use(m.Recoverer)
	r.Use(m.SecurityHeaders)
	r.Use(m.Compress)
	if timeout > 0 {
		r.Use(m.Timeout(timeout))
	}
	r.Use(middleware.Heartbeat("/ping"))

	// CORS and rate limiting are opt-in
	if len(corsOrigins) > 0 {
		r.Use(m.CORS(corsOrigins))
	}
	if rateLimitRPM > 0 {
		r.Use(m.RateLimit(rateLimitRPM))
	}

	// Health endpoints
	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)

	r.Get("/", h.Index)

	// Static segments take precedence over {post_id}
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Get("/sentiment_threshold", h.GetPostsBySentiment)
		r.Get("/date", h.GetPostsByDate)
		r.Get("/{post_id}", h.GetPost)
	})

	return r
}
