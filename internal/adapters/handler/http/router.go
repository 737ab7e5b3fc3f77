package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/quorumpoll/quorum/internal/core/ports"
	"github.com/quorumpoll/quorum/internal/metrics"
)

// NewHandler wires the full route table. Everything under the
// authenticated group requires a valid identity token; /metrics and
// /healthz stay open for scrapers and probes.
func NewHandler(
	pollHandler *PollHandler,
	userHandler *UserHandler,
	identity ports.IdentityProvider,
	collector *metrics.Collector,
	rateLimiter *RateLimiter,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(collector.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", collector.Handler())

	r.Group(func(r chi.Router) {
		r.Use(Authenticator(identity))
		if rateLimiter != nil {
			r.Use(rateLimiter.Middleware)
		}

		r.Get("/me", userHandler.GetMe)
		r.Post("/create", pollHandler.Create)
		r.Get("/list", pollHandler.List)
		r.Get("/categories", pollHandler.Categories)

		r.Route("/{id}", func(r chi.Router) {
			r.Post("/vote", pollHandler.Vote)
			r.Get("/details", pollHandler.Details)
			r.Post("/close", pollHandler.Close)
			r.Delete("/delete", pollHandler.Delete)
		})
	})

	return r
}
