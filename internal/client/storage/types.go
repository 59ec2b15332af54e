// Package storage persists the single auth token the client holds.
package storage

import (
	"context"
	"errors"
)

// TokenKey is the well-known key the token is stored under.
const TokenKey = "token"

// ErrNoToken is returned when no token is stored.
var ErrNoToken = errors.New("no token stored")

// TokenStore keeps the auth token between runs.
type TokenStore interface {
	// Token returns the stored token or ErrNoToken.
	Token(ctx context.Context) (string, error)
	// SetToken replaces the stored token.
	SetToken(ctx context.Context, token string) error
	// RemoveToken deletes the stored token. Removing a missing token is not an error.
	RemoveToken(ctx context.Context) error
}

// LoadToken returns the stored token, or "" when there is none.
func LoadToken(ctx context.Context, ts TokenStore) (string, error) {
	tok, err := ts.Token(ctx)
	if errors.Is(err, ErrNoToken) {
		return "", nil
	}
	return tok, err
}
