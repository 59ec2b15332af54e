// Package http serves the FRUS web gateway: short code redirects, the home
// page panels, the login and shorten forms, and a proxy to the backend API.
//
// Every request gets its own client store seeded with the caller's token.
// Navigation requested by a flow becomes an HTTP redirect, and token
// persistence becomes a cookie.
package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/frus/internal/client/creator"
	"github.com/atinyakov/frus/internal/client/nav"
	"github.com/atinyakov/frus/internal/client/store"
	"github.com/atinyakov/frus/internal/middleware"
	"github.com/atinyakov/frus/internal/models"
)

// Handler serves the gateway pages.
type Handler struct {
	// Creators runs the client flows against the backend.
	Creators *creator.Creators
	// Log is the request-independent logger; nil means no logging.
	Log *zap.Logger
	// Metrics, when set, counts redirect outcomes.
	Metrics *middleware.Metrics
	// DevChecks enables the store's in-place mutation check.
	DevChecks bool
}

func (h *Handler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

// session builds the per-request store. Effects write the token cookie to w
// and record navigation in the returned recorder.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*store.Store, *nav.Recorder) {
	log := h.logger()
	rec := nav.NewRecorder(log)
	tokens := &cookieTokenStore{
		w:      w,
		token:  middleware.GetTokenFromContext(r.Context()),
		secure: r.TLS != nil,
	}

	opts := []store.Option{
		store.WithLogger(log),
		store.WithEffect(creator.Effects(tokens, rec, log)),
	}
	if h.DevChecks {
		opts = append(opts, store.WithImmutableCheck())
	}
	return store.New(models.NewState(tokens.token), opts...), rec
}

// follow turns the last navigation of a flow into a redirect and reports
// whether it did. GET requests get 302, form posts 303.
func follow(w http.ResponseWriter, r *http.Request, rec *nav.Recorder) bool {
	loc := rec.Last()
	if loc.Kind == nav.KindNone {
		return false
	}
	code := http.StatusFound
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		code = http.StatusSeeOther
	}
	http.Redirect(w, r, loc.Target, code)
	return true
}

func (h *Handler) observeRedirect(outcome string) {
	if h.Metrics != nil {
		h.Metrics.ObserveRedirect(outcome)
	}
}
