// Package action defines the closed set of actions the client store accepts.
//
// Every action is a plain value describing an intent or the outcome of a
// backend call. Constructing an action never performs I/O: token persistence
// and navigation run in the store's effect handler after the state commits.
package action

import (
	"github.com/atinyakov/frus/internal/models"
)

// Kind identifies an action.
type Kind int

const (
	KindLoginUserRequest Kind = iota + 1
	KindLoginUserSuccess
	KindLoginUserFailure
	KindLogoutUser
	KindRegisterUserRequest
	KindRegisterUserSuccess
	KindRegisterUserFailure
	KindLoadUserDetailsSuccess
	KindShortenLongURLRequest
	KindShortenLongURLSuccess
	KindShortenLongURLUserSuccess
	KindShortenLongURLFailure
	KindShortenLongURLUserFailure
	KindLoadPopularURLRequest
	KindLoadPopularURLSuccess
	KindLoadMostRecentURLRequest
	KindLoadMostRecentURLSuccess
	KindLoadInfluentialUsersRequest
	KindLoadInfluentialUsersSuccess
	KindGetRouteToRedirectRequest
	KindGetRouteToRedirectSuccess
	KindGetRouteToRedirectFailure
	KindRedirectToRoute
	KindUpdateState
)

var kindNames = map[Kind]string{
	KindLoginUserRequest:            "LOGIN_USER_REQUEST",
	KindLoginUserSuccess:            "LOGIN_USER_SUCCESS",
	KindLoginUserFailure:            "LOGIN_USER_FAILURE",
	KindLogoutUser:                  "LOGOUT_USER",
	KindRegisterUserRequest:         "REGISTER_USER_REQUEST",
	KindRegisterUserSuccess:         "REGISTER_USER_SUCCESS",
	KindRegisterUserFailure:         "REGISTER_USER_FAILURE",
	KindLoadUserDetailsSuccess:      "LOAD_USER_DETAILS_SUCCESS",
	KindShortenLongURLRequest:       "SHORTEN_LONG_URL_REQUEST",
	KindShortenLongURLSuccess:       "SHORTEN_LONG_URL_SUCCESS",
	KindShortenLongURLUserSuccess:   "SHORTEN_LONG_URL_USER_SUCCESS",
	KindShortenLongURLFailure:       "SHORTEN_LONG_URL_FAILURE",
	KindShortenLongURLUserFailure:   "SHORTEN_LONG_URL_USER_FAILURE",
	KindLoadPopularURLRequest:       "LOAD_POPULAR_URL_REQUEST",
	KindLoadPopularURLSuccess:       "LOAD_POPULAR_URL_SUCCESS",
	KindLoadMostRecentURLRequest:    "LOAD_MOST_RECENT_URL_REQUEST",
	KindLoadMostRecentURLSuccess:    "LOAD_MOST_RECENT_URL_SUCCESS",
	KindLoadInfluentialUsersRequest: "LOAD_INFLUENTIAL_USERS_REQUEST",
	KindLoadInfluentialUsersSuccess: "LOAD_INFLUENTIAL_USERS_SUCCESS",
	KindGetRouteToRedirectRequest:   "GET_ROUTE_TO_REDIRECT_REQUEST",
	KindGetRouteToRedirectSuccess:   "GET_ROUTE_TO_REDIRECT_SUCCESS",
	KindGetRouteToRedirectFailure:   "GET_ROUTE_TO_REDIRECT_FAILURE",
	KindRedirectToRoute:             "REDIRECT_TO_ROUTE",
	KindUpdateState:                 "UPDATE_STATE",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Kinds lists every action kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for k := KindLoginUserRequest; k <= KindUpdateState; k++ {
		out = append(out, k)
	}
	return out
}

// Action is implemented only by the types in this package.
type Action interface {
	Kind() Kind
	sealed()
}

type base struct{}

func (base) sealed() {}

type (
	LoginUserRequest struct{ base }

	// LoginUserSuccess carries the token issued by the backend.
	LoginUserSuccess struct {
		base
		Token string
	}

	// LoginUserFailure carries the backend status code and message.
	LoginUserFailure struct {
		base
		Status     int
		StatusText string
	}

	LogoutUser struct{ base }

	RegisterUserRequest struct{ base }

	RegisterUserSuccess struct {
		base
		Token string
	}

	RegisterUserFailure struct {
		base
		Status     int
		StatusText string
	}

	// LoadUserDetailsSuccess carries the profile of the logged in user.
	LoadUserDetailsSuccess struct {
		base
		User models.UserSummary
	}

	ShortenLongURLRequest struct{ base }

	// ShortenLongURLSuccess is dispatched for anonymous callers.
	ShortenLongURLSuccess struct {
		base
		ShortURL string
	}

	// ShortenLongURLUserSuccess is dispatched for authenticated callers.
	// Info is nil when the backend sent no note.
	ShortenLongURLUserSuccess struct {
		base
		ShortURL string
		Info     *string
	}

	ShortenLongURLFailure struct {
		base
		StatusText string
	}

	ShortenLongURLUserFailure struct {
		base
		StatusText string
	}

	LoadPopularURLRequest struct{ base }

	LoadPopularURLSuccess struct {
		base
		URLs []models.URLSummary
	}

	LoadMostRecentURLRequest struct{ base }

	LoadMostRecentURLSuccess struct {
		base
		URLs []models.URLSummary
	}

	LoadInfluentialUsersRequest struct{ base }

	LoadInfluentialUsersSuccess struct {
		base
		Users []models.UserSummary
	}

	GetRouteToRedirectRequest struct {
		base
		ShortURL string
	}

	// GetRouteToRedirectSuccess carries the resolved long URL. The effect
	// handler assigns the location to it after the state commits.
	GetRouteToRedirectSuccess struct {
		base
		LongURL string
	}

	GetRouteToRedirectFailure struct {
		base
		Message string
	}

	// RedirectToRoute asks for a client-side navigation to Route.
	RedirectToRoute struct {
		base
		Route string
	}

	// UpdateState merges Patch into the urls slice.
	UpdateState struct {
		base
		Patch URLsPatch
	}
)

func (LoginUserRequest) Kind() Kind            { return KindLoginUserRequest }
func (LoginUserSuccess) Kind() Kind            { return KindLoginUserSuccess }
func (LoginUserFailure) Kind() Kind            { return KindLoginUserFailure }
func (LogoutUser) Kind() Kind                  { return KindLogoutUser }
func (RegisterUserRequest) Kind() Kind         { return KindRegisterUserRequest }
func (RegisterUserSuccess) Kind() Kind         { return KindRegisterUserSuccess }
func (RegisterUserFailure) Kind() Kind         { return KindRegisterUserFailure }
func (LoadUserDetailsSuccess) Kind() Kind      { return KindLoadUserDetailsSuccess }
func (ShortenLongURLRequest) Kind() Kind       { return KindShortenLongURLRequest }
func (ShortenLongURLSuccess) Kind() Kind       { return KindShortenLongURLSuccess }
func (ShortenLongURLUserSuccess) Kind() Kind   { return KindShortenLongURLUserSuccess }
func (ShortenLongURLFailure) Kind() Kind       { return KindShortenLongURLFailure }
func (ShortenLongURLUserFailure) Kind() Kind   { return KindShortenLongURLUserFailure }
func (LoadPopularURLRequest) Kind() Kind       { return KindLoadPopularURLRequest }
func (LoadPopularURLSuccess) Kind() Kind       { return KindLoadPopularURLSuccess }
func (LoadMostRecentURLRequest) Kind() Kind    { return KindLoadMostRecentURLRequest }
func (LoadMostRecentURLSuccess) Kind() Kind    { return KindLoadMostRecentURLSuccess }
func (LoadInfluentialUsersRequest) Kind() Kind { return KindLoadInfluentialUsersRequest }
func (LoadInfluentialUsersSuccess) Kind() Kind { return KindLoadInfluentialUsersSuccess }
func (GetRouteToRedirectRequest) Kind() Kind   { return KindGetRouteToRedirectRequest }
func (GetRouteToRedirectSuccess) Kind() Kind   { return KindGetRouteToRedirectSuccess }
func (GetRouteToRedirectFailure) Kind() Kind   { return KindGetRouteToRedirectFailure }
func (RedirectToRoute) Kind() Kind             { return KindRedirectToRoute }
func (UpdateState) Kind() Kind                 { return KindUpdateState }

// URLsPatch lists the urls slice fields UpdateState may overwrite.
// Nil fields are left untouched.
type URLsPatch struct {
	LongURL           *string
	ShortURL          *string
	Shortened         *bool
	DisplayStatusText *bool
	ShortenStatusText *string
}

// Empty reports whether the patch sets nothing.
func (p URLsPatch) Empty() bool {
	return p.LongURL == nil && p.ShortURL == nil && p.Shortened == nil &&
		p.DisplayStatusText == nil && p.ShortenStatusText == nil
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }
