// Package models defines the client-side state tree and the records
// the backend sends for short URLs and users.
package models

import "slices"

// URLSummary is a short URL as listed on the home page panels.
type URLSummary struct {
	// ShortURL is the shortened form, e.g. "bit.ly/abc12".
	ShortURL string `json:"short_url"`
	// ID is the backend identifier, when sent.
	ID int64 `json:"short_url_url,omitempty"`
	// LongURL is the target, when sent.
	LongURL string `json:"long_url,omitempty"`
	// Visits is the visit count, when sent.
	Visits int64 `json:"visits,omitempty"`
}

// UserSummary is a user as listed on the influential users panel.
type UserSummary struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Visits    int64  `json:"number_of_visits,omitempty"`
}

// FullName joins first and last name.
func (u UserSummary) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// EmptyListPlaceholder is the single entry shown when a URL list could not be loaded.
const EmptyListPlaceholder = "No URL on this list"

// PlaceholderURLs returns the fallback content of a URL list panel.
func PlaceholderURLs() []URLSummary {
	return []URLSummary{{ShortURL: EmptyListPlaceholder}}
}

// AuthState is the authentication slice.
// A non-empty Token implies IsAuthenticated.
type AuthState struct {
	IsAuthenticating bool
	IsAuthenticated  bool
	StatusText       string
	Token            string
	UserName         string
}

// InitialAuthState returns the logged-out state. When token is non-empty
// (restored from storage) the state starts authenticated.
func InitialAuthState(token string) AuthState {
	return AuthState{
		IsAuthenticated: token != "",
		Token:           token,
	}
}

// RedirectPhase tracks the short code resolution.
type RedirectPhase int

const (
	PhaseIdle RedirectPhase = iota
	PhaseResolving
	PhaseResolved
	PhaseFailed
)

func (p RedirectPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolving:
		return "resolving"
	case PhaseResolved:
		return "resolved"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// VisitDetails is the outcome of resolving a short code. Route and
// ErrorMessage are never both set.
type VisitDetails struct {
	Phase        RedirectPhase
	Route        string
	ErrorMessage string
}

// URLsState is the urls slice.
// Shortened implies a non-empty ShortURL.
type URLsState struct {
	PopularURLs    []URLSummary
	MostRecentURLs []URLSummary
	// LongURL mirrors the shorten form input.
	LongURL           string
	ShortURL          string
	Shortened         bool
	DisplayStatusText bool
	ShortenStatusText string
	// ShortenInfo is the extra note the backend returns to logged in users.
	ShortenInfo  string
	VisitDetails VisitDetails
}

// UsersState is the users slice.
type UsersState struct {
	InfluentialUsers []UserSummary
}

// State is the whole client state tree.
type State struct {
	Auth  AuthState
	URLs  URLsState
	Users UsersState
}

// NewState returns the initial state, authenticated when token is non-empty.
func NewState(token string) *State {
	return &State{
		Auth: InitialAuthState(token),
		URLs: URLsState{
			PopularURLs:    []URLSummary{},
			MostRecentURLs: []URLSummary{},
		},
		Users: UsersState{InfluentialUsers: []UserSummary{}},
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.URLs.PopularURLs = slices.Clone(s.URLs.PopularURLs)
	c.URLs.MostRecentURLs = slices.Clone(s.URLs.MostRecentURLs)
	c.Users.InfluentialUsers = slices.Clone(s.Users.InfluentialUsers)
	return &c
}
