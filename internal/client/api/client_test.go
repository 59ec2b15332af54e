package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/frus/internal/models"
)

// roundTripperFunc lets a test stand in for the network.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newBackend(t *testing.T, register func(r chi.Router)) *Client {
	t.Helper()
	r := chi.NewRouter()
	r.Route(apiPrefix, register)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL + "/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGetToken(t *testing.T) {
	c := newBackend(t, func(r chi.Router) {
		r.Get("/token", func(w http.ResponseWriter, r *http.Request) {
			email, password, ok := r.BasicAuth()
			if !ok || email != "ada@example.com" || password != "secret1" {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized", "message": "Invalid credentials"})
				return
			}
			_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
			assert.NoError(t, err, "request id must be a uuid")
			writeJSON(w, http.StatusOK, map[string]any{"token": "tok-1", "expiration": 3600})
		})
	})

	tok, err := c.GetToken(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	_, err = c.GetToken(context.Background(), "ada@example.com", "wrong")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestGetToken_StatusCodeInBody(t *testing.T) {
	c := newBackend(t, func(r chi.Router) {
		r.Get("/token", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusForbidden, map[string]any{"status_code": 499, "message": "Supply a username and password"})
		})
	})

	_, err := c.GetToken(context.Background(), "", "")
	status, msg := StatusAndMessage(err)
	assert.Equal(t, 499, status)
	assert.Equal(t, "Supply a username and password", msg)
}

func TestGetToken_EmptyToken(t *testing.T) {
	c := newBackend(t, func(r chi.Router) {
		r.Get("/token", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{})
		})
	})

	_, err := c.GetToken(context.Background(), "a@b.co", "x")
	status, msg := StatusAndMessage(err)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Invalid token", msg)
}

func TestCreateUser(t *testing.T) {
	c := newBackend(t, func(r chi.Router) {
		r.Post("/register", func(w http.ResponseWriter, r *http.Request) {
			var req RegisterRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Email == "taken@example.com" {
				writeJSON(w, http.StatusForbidden, map[string]any{"error": "forbidden", "message": "Email already exist."})
				return
			}
			if req.Password != req.ConfirmPassword {
				writeJSON(w, http.StatusForbidden, map[string]any{
					"error":   "forbidden",
					"message": map[string][]string{"password": {"Password must match"}, "email": {"Invalid email address."}},
				})
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "User creation successful"})
		})
	})

	tok, err := c.CreateUser(context.Background(), RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Empty(t, tok, "this backend issues no token on registration")

	_, err = c.CreateUser(context.Background(), RegisterRequest{Email: "taken@example.com"})
	_, msg := StatusAndMessage(err)
	assert.Equal(t, "Email already exist.", msg)

	_, err = c.CreateUser(context.Background(), RegisterRequest{Email: "x@example.com", Password: "a", ConfirmPassword: "b"})
	_, msg = StatusAndMessage(err)
	assert.Equal(t, "email: Invalid email address.; password: Password must match", msg)
}

func TestGetUser(t *testing.T) {
	c := newBackend(t, func(r chi.Router) {
		r.Get("/user", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Token tok-1", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": map[string]any{
				"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com",
			}})
		})
	})

	u, err := c.GetUser(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", u.FullName())
}

func TestURLLists(t *testing.T) {
	c := newBackend(t, func(r chi.Router) {
		r.Get("/shorturl/popular", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"popular_urls": []map[string]any{{"short_url": "bit.ly/pop"}}})
		})
		r.Get("/shorturl/recent", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": []map[string]any{
				{"short_url": "bit.ly/new", "short_url_url": 7},
			}})
		})
	})

	popular, err := c.GetPopularURLs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.URLSummary{{ShortURL: "bit.ly/pop"}}, popular)

	recent, err := c.GetMostRecentURLs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.URLSummary{{ShortURL: "bit.ly/new", ID: 7}}, recent)
}

func TestURLLists_NotFound(t *testing.T) {
	c := newBackend(t, func(r chi.Router) {
		r.Get("/shorturl/recent", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found", "message": "No url found"})
		})
	})

	_, err := c.GetMostRecentURLs(context.Background())
	status, msg := StatusAndMessage(err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No url found", msg)
}

func TestVisitURL(t *testing.T) {
	c := newBackend(t, func(r chi.Router) {
		r.Post("/visit", func(w http.ResponseWriter, r *http.Request) {
			var in map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			switch in["short_url"] {
			case "bit.ly/ok":
				writeJSON(w, http.StatusOK, map[string]any{"long_url": "example.com/page"})
			case "bit.ly/gone":
				writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found", "message": "URL has been deleted"})
			default:
				writeJSON(w, http.StatusOK, map[string]any{})
			}
		})
	})

	long, err := c.VisitURL(context.Background(), "bit.ly/ok")
	require.NoError(t, err)
	assert.Equal(t, "example.com/page", long)

	_, err = c.VisitURL(context.Background(), "bit.ly/gone")
	_, msg := StatusAndMessage(err)
	assert.Equal(t, "URL has been deleted", msg)

	_, err = c.VisitURL(context.Background(), "bit.ly/unknown")
	_, msg = StatusAndMessage(err)
	assert.Equal(t, "No matching URL found", msg)
}

func TestShortenURL(t *testing.T) {
	c := newBackend(t, func(r chi.Router) {
		r.Post("/shorten", func(w http.ResponseWriter, r *http.Request) {
			var in shortenRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			switch {
			case r.Header.Get("Authorization") == "":
				writeJSON(w, http.StatusOK, map[string]any{"url": map[string]any{"short_url": "bit.ly/anon1"}})
			case in.Vanity == "taken":
				writeJSON(w, http.StatusBadRequest, map[string]any{"message": []string{"Vanity string 'taken' has been taken"}})
			default:
				writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "bit.ly/" + in.Vanity, "message2": "Url shortened before"})
			}
		})
	})

	res, err := c.ShortenURL(context.Background(), "", "http://example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "bit.ly/anon1", res.ShortURL)
	assert.Nil(t, res.Info)

	res, err = c.ShortenURL(context.Background(), "tok", "http://example.com", "mine")
	require.NoError(t, err)
	assert.Equal(t, "bit.ly/mine", res.ShortURL)
	require.NotNil(t, res.Info)
	assert.Equal(t, "Url shortened before", *res.Info)

	_, err = c.ShortenURL(context.Background(), "tok", "http://example.com", "taken")
	status, msg := StatusAndMessage(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Vanity string 'taken' has been taken", msg)
}

func TestGetInfluentialUsers(t *testing.T) {
	c := newBackend(t, func(r chi.Router) {
		r.Get("/users/influential", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"users": []map[string]any{
				{"first_name": "Grace", "last_name": "Hopper", "number_of_visits": 12},
			}})
		})
	})

	users, err := c.GetInfluentialUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.UserSummary{{FirstName: "Grace", LastName: "Hopper", Visits: 12}}, users)
}

func TestDo_NetworkError(t *testing.T) {
	c := NewClient("http://example.com", WithHTTPClient(&http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("network down")
		}),
	}))

	_, err := c.GetPopularURLs(context.Background())
	require.Error(t, err)
	status, msg := StatusAndMessage(err)
	assert.Zero(t, status)
	assert.Contains(t, msg, "network down")
}

func TestDo_InvalidJSON(t *testing.T) {
	c := NewClient("http://example.com", WithHTTPClient(&http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusOK, Header: make(http.Header), Body: io.NopCloser(strings.NewReader("not-json"))}, nil
		}),
	}))

	_, err := c.GetInfluentialUsers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid response")
}

func TestDo_PlainTextError(t *testing.T) {
	c := NewClient("http://example.com", WithHTTPClient(&http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusInternalServerError, Header: make(http.Header), Body: io.NopCloser(strings.NewReader("internal error\n"))}, nil
		}),
	}))

	_, err := c.VisitURL(context.Background(), "bit.ly/x")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "server error: 500 internal error", apiErr.Error())
}

func TestDo_RateLimitHonoursContext(t *testing.T) {
	calls := 0
	c := NewClient("http://example.com",
		WithRateLimit(0.001, 1),
		WithHTTPClient(&http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			calls++
			return &http.Response{StatusCode: http.StatusOK, Header: make(http.Header), Body: io.NopCloser(strings.NewReader(`{"users":[]}`))}, nil
		})}),
	)

	_, err := c.GetInfluentialUsers(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.GetInfluentialUsers(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
	assert.Equal(t, 1, calls)
}

func TestMessage_Unmarshal(t *testing.T) {
	cases := map[string]string{
		`"plain"`:                     "plain",
		`["a","b"]`:                   "a; b",
		`{"b":["x"],"a":"y"}`:         "a: y; b: x",
		`null`:                        "",
		`{"password":["must match"]}`: "password: must match",
	}
	for in, want := range cases {
		var m Message
		require.NoError(t, json.Unmarshal([]byte(in), &m), in)
		assert.Equal(t, want, string(m), in)
	}

	var m Message
	assert.Error(t, json.Unmarshal([]byte(`42`), &m))
}
