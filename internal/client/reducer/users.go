package reducer

import (
	"slices"

	"github.com/atinyakov/frus/internal/client/action"
	"github.com/atinyakov/frus/internal/models"
)

// Users reduces the users slice.
func Users(s models.UsersState, a action.Action) (models.UsersState, bool) {
	switch a := a.(type) {
	case action.LoadInfluentialUsersSuccess:
		s.InfluentialUsers = slices.Clone(a.Users)
		return s, true
	}
	return s, false
}
