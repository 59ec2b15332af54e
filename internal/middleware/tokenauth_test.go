package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// dummyHandler records whether it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

func TestTokenAuth_Anonymous(t *testing.T) {
	dummy := &dummyHandler{}
	h := TokenAuth(dummy)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/main/", nil)
	h.ServeHTTP(rec, req)

	if !dummy.called {
		t.Fatal("expected next handler to be called for anonymous request")
	}
	if got := GetTokenFromContext(dummy.ctx); got != "" {
		t.Errorf("expected no token, got %q", got)
	}
}

func TestTokenAuth_Header(t *testing.T) {
	dummy := &dummyHandler{}
	h := TokenAuth(dummy)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/main/", nil)
	req.Header.Set("Authorization", "Token abc")
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "from-cookie"})
	h.ServeHTTP(rec, req)

	if got := GetTokenFromContext(dummy.ctx); got != "abc" {
		t.Errorf("expected header token abc, got %q", got)
	}
}

func TestTokenAuth_Cookie(t *testing.T) {
	dummy := &dummyHandler{}
	h := TokenAuth(dummy)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/main/", nil)
	req.Header.Set("Authorization", "Bearer ignored")
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "from-cookie"})
	h.ServeHTTP(rec, req)

	if got := GetTokenFromContext(dummy.ctx); got != "from-cookie" {
		t.Errorf("expected cookie token, got %q", got)
	}
}

func TestGetTokenFromContext_Missing(t *testing.T) {
	if got := GetTokenFromContext(context.Background()); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
