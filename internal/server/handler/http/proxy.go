package http

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/frus/internal/client/api"
)

// NewBackendProxy forwards requests unchanged to the backend at backendURL,
// tagging each with a request id when the caller sent none.
func NewBackendProxy(backendURL string, log *zap.Logger) (http.Handler, error) {
	target, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", backendURL)
	}

	p := httputil.NewSingleHostReverseProxy(target)
	director := p.Director
	p.Director = func(r *http.Request) {
		director(r)
		if r.Header.Get(api.RequestIDHeader) == "" {
			r.Header.Set(api.RequestIDHeader, uuid.NewString())
		}
	}
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Error("backend unavailable", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "backend unavailable", http.StatusBadGateway)
	}
	return p, nil
}
