package http

import (
	"context"
	"net/http"
	"time"

	"github.com/atinyakov/frus/internal/client/storage"
	"github.com/atinyakov/frus/internal/middleware"
)

// tokenMaxAge matches the backend's token lifetime.
const tokenMaxAge = time.Hour

// cookieTokenStore persists the token as a response cookie. It must be
// written to before the response header is sent.
type cookieTokenStore struct {
	w      http.ResponseWriter
	token  string
	secure bool
}

var _ storage.TokenStore = (*cookieTokenStore)(nil)

func (c *cookieTokenStore) Token(_ context.Context) (string, error) {
	if c.token == "" {
		return "", storage.ErrNoToken
	}
	return c.token, nil
}

func (c *cookieTokenStore) SetToken(_ context.Context, token string) error {
	c.token = token
	http.SetCookie(c.w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokenMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *cookieTokenStore) RemoveToken(_ context.Context) error {
	c.token = ""
	http.SetCookie(c.w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
