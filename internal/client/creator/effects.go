package creator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/frus/internal/client/action"
	"github.com/atinyakov/frus/internal/client/nav"
	"github.com/atinyakov/frus/internal/client/storage"
	"github.com/atinyakov/frus/internal/client/store"
	"github.com/atinyakov/frus/internal/models"
)

const effectTimeout = 5 * time.Second

// Effects returns the store effect that persists the token and navigates.
// tokens and navigator may be nil to skip that half.
//
//   - LOGIN_USER_SUCCESS stores the token and goes to RouteAbout.
//   - REGISTER_USER_SUCCESS stores the token and goes to RouteMain.
//   - LOGIN_USER_FAILURE, REGISTER_USER_FAILURE and LOGOUT_USER remove it.
//   - GET_ROUTE_TO_REDIRECT_SUCCESS leaves the app for the long URL.
//   - REDIRECT_TO_ROUTE goes to the route.
func Effects(tokens storage.TokenStore, navigator nav.Navigator, log *zap.Logger) store.Effect {
	if log == nil {
		log = zap.NewNop()
	}

	persist := func(token string) {
		if tokens == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), effectTimeout)
		defer cancel()

		var err error
		if token == "" {
			err = tokens.RemoveToken(ctx)
		} else {
			err = tokens.SetToken(ctx, token)
		}
		if err != nil {
			log.Error("failed to persist token", zap.Error(err))
		}
	}
	push := func(route string) {
		if navigator != nil {
			navigator.Push(route)
		}
	}

	return func(a action.Action, _ *models.State) {
		switch a := a.(type) {
		case action.LoginUserSuccess:
			persist(a.Token)
			push(RouteAbout)
		case action.RegisterUserSuccess:
			persist(a.Token)
			push(RouteMain)
		case action.LoginUserFailure, action.RegisterUserFailure, action.LogoutUser:
			persist("")
		case action.GetRouteToRedirectSuccess:
			if navigator != nil {
				navigator.Assign(nav.Absolute(a.LongURL))
			}
		case action.RedirectToRoute:
			push(a.Route)
		}
	}
}
