package reducer

import (
	"github.com/atinyakov/frus/internal/client/action"
	"github.com/atinyakov/frus/internal/models"
)

// Root composes the slice reducers field by field. It returns s itself when
// no slice handled a.
func Root(s *models.State, a action.Action) *models.State {
	auth, authChanged := Auth(s.Auth, a)
	urls, urlsChanged := URLs(s.URLs, a)
	users, usersChanged := Users(s.Users, a)
	if !authChanged && !urlsChanged && !usersChanged {
		return s
	}
	return &models.State{Auth: auth, URLs: urls, Users: users}
}
