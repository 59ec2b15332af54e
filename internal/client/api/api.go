// Package api talks to the FRUS backend over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/atinyakov/frus/internal/models"
)

// API is the set of backend calls the client core performs.
type API interface {
	// GetToken exchanges credentials for an auth token.
	GetToken(ctx context.Context, email, password string) (string, error)
	// CreateUser registers a user. The returned token is empty when the
	// backend does not issue one on registration.
	CreateUser(ctx context.Context, req RegisterRequest) (string, error)
	// GetUser returns the profile of the token's owner.
	GetUser(ctx context.Context, token string) (models.UserSummary, error)
	GetPopularURLs(ctx context.Context) ([]models.URLSummary, error)
	GetMostRecentURLs(ctx context.Context) ([]models.URLSummary, error)
	// VisitURL resolves a short URL to its long URL.
	VisitURL(ctx context.Context, shortURL string) (string, error)
	// ShortenURL shortens longURL. token may be empty for anonymous callers;
	// vanity may be empty when no custom alias is wanted.
	ShortenURL(ctx context.Context, token, longURL, vanity string) (ShortenResult, error)
	GetInfluentialUsers(ctx context.Context) ([]models.UserSummary, error)
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ShortenResult is a successful shortening.
type ShortenResult struct {
	ShortURL string
	// Info is the backend's note, nil when absent.
	Info *string
}

// Error is a non-2xx answer from the backend.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("server error: %d %s", e.StatusCode, e.Message)
}

// StatusAndMessage extracts what the UI shows for err: the backend status
// code and message for *Error, or 0 and the error text otherwise.
func StatusAndMessage(err error) (int, string) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, apiErr.Message
	}
	if err == nil {
		return 0, ""
	}
	return 0, err.Error()
}

// Message is a backend message. The backend sends a string, a list of
// strings, or a map of field name to messages; all flatten to one string.
type Message string

func (m *Message) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = Message(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*m = Message(strings.Join(list, "; "))
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err == nil {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			var inner Message
			if err := inner.UnmarshalJSON(fields[k]); err != nil {
				return err
			}
			parts = append(parts, fmt.Sprintf("%s: %s", k, inner))
		}
		*m = Message(strings.Join(parts, "; "))
		return nil
	}

	return fmt.Errorf("unsupported message %s", data)
}

type errorBody struct {
	StatusCode int     `json:"status_code"`
	Error      string  `json:"error"`
	Message    Message `json:"message"`
}
