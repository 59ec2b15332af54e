// Package reducer folds actions into the client state tree.
//
// Reducers are pure. They never write to the state they receive; a changed
// slice is always a fresh value, and Root returns the very pointer it was
// given when no slice reacted to the action.
package reducer

import (
	"fmt"

	"github.com/atinyakov/frus/internal/client/action"
	"github.com/atinyakov/frus/internal/models"
)

const (
	loggedInText   = "You have been successfully logged in."
	registeredText = "You have been successfully registered."
)

// Auth reduces the authentication slice. The second result reports
// whether the action was handled.
func Auth(s models.AuthState, a action.Action) (models.AuthState, bool) {
	switch a := a.(type) {
	case action.LoginUserRequest:
		s.IsAuthenticating = true
		s.StatusText = ""
	case action.LoginUserSuccess:
		s = authenticated(a.Token, loggedInText)
	case action.LoginUserFailure:
		s = unauthenticated(failureText("Authentication Error", a.Status, a.StatusText))
	case action.RegisterUserRequest:
		s.IsAuthenticating = true
		s.StatusText = ""
	case action.RegisterUserSuccess:
		s = authenticated(a.Token, registeredText)
	case action.RegisterUserFailure:
		s = unauthenticated(failureText("Registration Error", a.Status, a.StatusText))
	case action.LoadUserDetailsSuccess:
		if !s.IsAuthenticated {
			return s, false
		}
		s.UserName = a.User.FullName()
	case action.LogoutUser:
		s = models.InitialAuthState("")
	default:
		return s, false
	}
	return s, true
}

func authenticated(token, status string) models.AuthState {
	return models.AuthState{
		IsAuthenticated: token != "",
		Token:           token,
		StatusText:      status,
	}
}

func unauthenticated(status string) models.AuthState {
	return models.AuthState{StatusText: status}
}

func failureText(prefix string, status int, text string) string {
	if status == 0 {
		return fmt.Sprintf("%s: %s", prefix, text)
	}
	return fmt.Sprintf("%s: %d %s", prefix, status, text)
}
