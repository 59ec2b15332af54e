package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atinyakov/frus/internal/middleware"
)

// NewRouter constructs the gateway handler.
//
// Routes:
//
//	GET  /healthz         → 200 "ok"
//	GET  /metrics         → Prometheus exposition (when gatherer is set)
//	*    /api/*           → backend proxy
//	GET  /                → bounce to /main/
//	GET  /main, /main/    → h.Home
//	GET  /main/about      → h.About
//	POST /main/shorten    → h.Shorten
//	POST /login           → h.Login
//	POST /register        → h.Register
//	POST /logout          → h.Logout
//	GET  /{code}          → h.Visit
//
// Middleware chain: Recoverer, WithRequestLogging, metrics.Instrument (when
// metrics is set); page routes also get TokenAuth.
func NewRouter(
	h *Handler,
	backend http.Handler,
	metrics *middleware.Metrics,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))
	if metrics != nil {
		r.Use(metrics.Instrument)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if backend != nil {
		r.Handle("/api/*", backend)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.TokenAuth)

		r.Get("/", h.Visit)
		r.Get("/main", h.Home)
		r.Get("/main/", h.Home)
		r.Get("/main/about", h.About)
		r.Post("/main/shorten", h.Shorten)
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Post("/logout", h.Logout)
		r.Get("/{code}", h.Visit)
	})

	return r
}
