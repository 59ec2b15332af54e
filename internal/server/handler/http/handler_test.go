package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/frus/internal/client/api"
	"github.com/atinyakov/frus/internal/client/creator"
	"github.com/atinyakov/frus/internal/middleware"
	"github.com/atinyakov/frus/internal/models"
)

// fakeBackend implements api.API with fixed answers.
type fakeBackend struct {
	token       string
	tokenErr    error
	user        models.UserSummary
	popular     []models.URLSummary
	popularErr  error
	longURL     string
	visitErr    error
	shortURL    string
	shortenErr  error
	influential []models.UserSummary

	gotVisit        string
	gotShortenToken string
}

var _ api.API = (*fakeBackend)(nil)

func (f *fakeBackend) GetToken(context.Context, string, string) (string, error) {
	return f.token, f.tokenErr
}

func (f *fakeBackend) CreateUser(context.Context, api.RegisterRequest) (string, error) {
	return f.token, f.tokenErr
}

func (f *fakeBackend) GetUser(context.Context, string) (models.UserSummary, error) {
	if f.user.FirstName == "" {
		return models.UserSummary{}, errors.New("unknown user")
	}
	return f.user, nil
}

func (f *fakeBackend) GetPopularURLs(context.Context) ([]models.URLSummary, error) {
	return f.popular, f.popularErr
}

func (f *fakeBackend) GetMostRecentURLs(context.Context) ([]models.URLSummary, error) {
	return []models.URLSummary{}, nil
}

func (f *fakeBackend) VisitURL(_ context.Context, shortURL string) (string, error) {
	f.gotVisit = shortURL
	return f.longURL, f.visitErr
}

func (f *fakeBackend) ShortenURL(_ context.Context, token, _, _ string) (api.ShortenResult, error) {
	f.gotShortenToken = token
	return api.ShortenResult{ShortURL: f.shortURL}, f.shortenErr
}

func (f *fakeBackend) GetInfluentialUsers(context.Context) ([]models.UserSummary, error) {
	if f.influential == nil {
		return []models.UserSummary{}, nil
	}
	return f.influential, nil
}

func newTestRouter(t *testing.T, backend *fakeBackend) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(reg)
	h := &Handler{
		Creators:  creator.New(backend, nil),
		Log:       zap.NewNop(),
		Metrics:   metrics,
		DevChecks: true,
	}
	return NewRouter(h, nil, metrics, reg, zap.NewNop())
}

func do(t *testing.T, router http.Handler, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func tokenCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", middleware.TokenCookie)
	return nil
}

func TestVisit_Resolved(t *testing.T) {
	backend := &fakeBackend{longURL: "example.com/page"}
	router := newTestRouter(t, backend)

	rec := do(t, router, http.MethodGet, "/abc12", nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://example.com/page", rec.Header().Get("Location"))
	assert.Equal(t, "bit.ly/abc12", backend.gotVisit)
}

func TestVisit_Failures(t *testing.T) {
	tests := []struct {
		message string
		status  int
		header  string
	}{
		{"No matching URL found", http.StatusNotFound, "No matching URL found!"},
		{"URL has been deleted", http.StatusGone, "URL has been deleted!"},
		{"URL has been deactivated", http.StatusGone, "URL has been deactivated!"},
		{"Something odd", http.StatusBadRequest, "Bad request!"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			backend := &fakeBackend{visitErr: &api.Error{StatusCode: 404, Message: tt.message}}
			router := newTestRouter(t, backend)

			rec := do(t, router, http.MethodGet, "/abc12", nil)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `<h1 class="error-header">`+tt.header+`</h1>`)
			assert.Empty(t, rec.Header().Get("Location"))
		})
	}
}

func TestVisit_RootBouncesHome(t *testing.T) {
	backend := &fakeBackend{}
	router := newTestRouter(t, backend)

	rec := do(t, router, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/main/", rec.Header().Get("Location"))
	assert.Empty(t, backend.gotVisit)

	metrics := do(t, router, http.MethodGet, "/metrics", nil)
	assert.Contains(t, metrics.Body.String(), `frus_redirects_total{outcome="bounced"} 1`)
}

func TestHome(t *testing.T) {
	backend := &fakeBackend{
		popularErr:  errors.New("down"),
		influential: []models.UserSummary{{FirstName: "Grace", LastName: "Hopper"}},
	}
	router := newTestRouter(t, backend)

	rec := do(t, router, http.MethodGet, "/main/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<li>No URL on this list</li>")
	assert.Contains(t, body, "<li>Grace Hopper</li>")
	assert.Contains(t, body, `action="/login"`)
}

func TestShorten(t *testing.T) {
	t.Run("invalid url", func(t *testing.T) {
		router := newTestRouter(t, &fakeBackend{})

		rec := do(t, router, http.MethodPost, "/main/shorten", url.Values{"long_url": {"example.com"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `<p class="shorten-status">Enter a valid URL</p>`)
	})

	t.Run("anonymous", func(t *testing.T) {
		backend := &fakeBackend{shortURL: "bit.ly/x1"}
		router := newTestRouter(t, backend)

		rec := do(t, router, http.MethodPost, "/main/shorten", url.Values{"long_url": {"http://example.com"}})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `<p class="short-url">bit.ly/x1</p>`)
		assert.Empty(t, backend.gotShortenToken)
	})

	t.Run("with token cookie", func(t *testing.T) {
		backend := &fakeBackend{shortURL: "bit.ly/mine"}
		router := newTestRouter(t, backend)

		rec := do(t, router, http.MethodPost, "/main/shorten",
			url.Values{"long_url": {"http://example.com"}, "vanity": {"mine"}},
			&http.Cookie{Name: middleware.TokenCookie, Value: "tok"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "tok", backend.gotShortenToken)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router := newTestRouter(t, &fakeBackend{token: "abc"})

		rec := do(t, router, http.MethodPost, "/login", url.Values{"email": {"ada@example.com"}, "password": {"secret1"}})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/main/about", rec.Header().Get("Location"))
		c := tokenCookie(t, rec)
		assert.Equal(t, "abc", c.Value)
		assert.True(t, c.HttpOnly)
	})

	t.Run("backend rejects", func(t *testing.T) {
		router := newTestRouter(t, &fakeBackend{tokenErr: &api.Error{StatusCode: 401, Message: "Invalid credentials"}})

		rec := do(t, router, http.MethodPost, "/login",
			url.Values{"email": {"ada@example.com"}, "password": {"bad"}},
			&http.Cookie{Name: middleware.TokenCookie, Value: "stale"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Authentication Error: 401 Invalid credentials")
		assert.Negative(t, tokenCookie(t, rec).MaxAge, "stale cookie is cleared")
	})

	t.Run("invalid email", func(t *testing.T) {
		router := newTestRouter(t, &fakeBackend{})

		rec := do(t, router, http.MethodPost, "/login", url.Values{"email": {"ada"}, "password": {"x"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `<p class="form-error">Enter a valid email!</p>`)
	})
}

func TestRegister(t *testing.T) {
	form := url.Values{
		"first_name":       {"Ada"},
		"last_name":        {"Lovelace"},
		"email":            {"ada@example.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	}

	router := newTestRouter(t, &fakeBackend{token: "reg"})
	rec := do(t, router, http.MethodPost, "/register", form)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/main", rec.Header().Get("Location"))
	assert.Equal(t, "reg", tokenCookie(t, rec).Value)

	form.Set("confirm_password", "other12")
	rec = do(t, router, http.MethodPost, "/register", form)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Passwords must be a match!")
}

func TestLogout(t *testing.T) {
	router := newTestRouter(t, &fakeBackend{})

	rec := do(t, router, http.MethodPost, "/logout", nil, &http.Cookie{Name: middleware.TokenCookie, Value: "abc"})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Negative(t, tokenCookie(t, rec).MaxAge)
}

func TestAbout(t *testing.T) {
	router := newTestRouter(t, &fakeBackend{user: models.UserSummary{FirstName: "Ada", LastName: "Lovelace"}})

	rec := do(t, router, http.MethodGet, "/main/about", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/main/", rec.Header().Get("Location"))

	rec = do(t, router, http.MethodGet, "/main/about", nil, &http.Cookie{Name: middleware.TokenCookie, Value: "abc"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<span class="user">Ada Lovelace</span>`)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, &fakeBackend{})

	rec := do(t, router, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
