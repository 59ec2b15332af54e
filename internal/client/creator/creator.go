// Package creator holds the asynchronous flows of the client. Each flow is a
// store.Thunk that dispatches a request action, talks to the backend, and
// dispatches the outcome.
//
// Error policy per endpoint:
//   - login, register and shorten failures become *_FAILURE actions;
//   - popular and most recent URL loads never fail: on error they dispatch a
//     success carrying models.PlaceholderURLs();
//   - influential users failures are returned to the caller and nothing
//     else is dispatched;
//   - form validation failures return *validate.Error without a network call,
//     except for shortening which surfaces them through UPDATE_STATE.
package creator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/atinyakov/frus/internal/client/action"
	"github.com/atinyakov/frus/internal/client/api"
	"github.com/atinyakov/frus/internal/client/store"
	"github.com/atinyakov/frus/internal/client/validate"
	"github.com/atinyakov/frus/internal/models"
)

// Routes the client navigates to.
const (
	RouteRoot  = "/"
	RouteHome  = "/main/"
	RouteMain  = "/main"
	RouteAbout = "/main/about"
)

// DefaultShortURLPrefix is prepended to a visited short code.
const DefaultShortURLPrefix = "bit.ly/"

// DefaultSharedLoadTimeout bounds a list load shared by concurrent callers.
const DefaultSharedLoadTimeout = 15 * time.Second

// Creators builds the flows bound to one backend.
type Creators struct {
	api    api.API
	log    *zap.Logger
	prefix string
	group  singleflight.Group

	sharedTimeout time.Duration
}

// Option configures Creators.
type Option func(*Creators)

// WithShortURLPrefix sets the prefix turning a short code into a short URL.
func WithShortURLPrefix(p string) Option {
	return func(c *Creators) { c.prefix = p }
}

// WithSharedLoadTimeout bounds list loads shared between callers.
func WithSharedLoadTimeout(d time.Duration) Option {
	return func(c *Creators) { c.sharedTimeout = d }
}

// New returns Creators calling backend. log may be nil.
func New(backend api.API, log *zap.Logger, opts ...Option) *Creators {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Creators{
		api:    backend,
		log:    log,
		prefix: DefaultShortURLPrefix,

		sharedTimeout: DefaultSharedLoadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginUser exchanges credentials for a token.
func (c *Creators) LoginUser(email, password string) store.Thunk {
	return func(ctx context.Context, dispatch store.Dispatch, _ store.GetState) error {
		if msg := validate.Login(email, password); msg != "" {
			return &validate.Error{Text: msg}
		}

		dispatch(action.LoginUserRequest{})
		token, err := c.api.GetToken(ctx, email, password)
		if err != nil {
			status, msg := api.StatusAndMessage(err)
			c.log.Info("login failed", zap.Int("status", status), zap.String("reason", msg))
			dispatch(action.LoginUserFailure{Status: status, StatusText: msg})
			return nil
		}

		dispatch(action.LoginUserSuccess{Token: token})
		c.loadUserDetails(ctx, dispatch, token)
		return nil
	}
}

// RegisterUser creates an account. When the backend issues no token on
// registration the same credentials are used to log in.
func (c *Creators) RegisterUser(form validate.RegisterForm) store.Thunk {
	return func(ctx context.Context, dispatch store.Dispatch, _ store.GetState) error {
		if msg := form.Check(); msg != "" {
			return &validate.Error{Text: msg}
		}

		dispatch(action.RegisterUserRequest{})
		token, err := c.api.CreateUser(ctx, api.RegisterRequest{
			FirstName:       form.FirstName,
			LastName:        form.LastName,
			Email:           form.Email,
			Password:        form.Password,
			ConfirmPassword: form.ConfirmPassword,
		})
		if err == nil && token == "" {
			token, err = c.api.GetToken(ctx, form.Email, form.Password)
		}
		if err != nil {
			status, msg := api.StatusAndMessage(err)
			c.log.Info("registration failed", zap.Int("status", status), zap.String("reason", msg))
			dispatch(action.RegisterUserFailure{Status: status, StatusText: msg})
			return nil
		}

		dispatch(action.RegisterUserSuccess{Token: token})
		c.loadUserDetails(ctx, dispatch, token)
		return nil
	}
}

// LoadUserDetails fetches the profile of the token holder, for example after
// a token was restored from storage. It does nothing when logged out, and a
// failure only leaves the user name unset.
func (c *Creators) LoadUserDetails() store.Thunk {
	return func(ctx context.Context, dispatch store.Dispatch, getState store.GetState) error {
		if token := getState().Auth.Token; token != "" {
			c.loadUserDetails(ctx, dispatch, token)
		}
		return nil
	}
}

func (c *Creators) loadUserDetails(ctx context.Context, dispatch store.Dispatch, token string) {
	user, err := c.api.GetUser(ctx, token)
	if err != nil {
		c.log.Warn("failed to load user details", zap.Error(err))
		return
	}
	dispatch(action.LoadUserDetailsSuccess{User: user})
}

// ShortenURL shortens longURL. vanity is passed to the backend untouched and
// may be empty. Authenticated callers get the *_USER_* outcome actions.
func (c *Creators) ShortenURL(longURL, vanity string) store.Thunk {
	return func(ctx context.Context, dispatch store.Dispatch, getState store.GetState) error {
		if !validate.URL(longURL) {
			dispatch(action.UpdateState{Patch: action.URLsPatch{
				DisplayStatusText: action.Ptr(true),
				ShortenStatusText: action.Ptr(validate.MsgInvalidURL),
			}})
			return nil
		}

		token := getState().Auth.Token
		dispatch(action.ShortenLongURLRequest{})
		res, err := c.api.ShortenURL(ctx, token, longURL, vanity)
		if err != nil {
			_, msg := api.StatusAndMessage(err)
			if token != "" {
				dispatch(action.ShortenLongURLUserFailure{StatusText: msg})
			} else {
				dispatch(action.ShortenLongURLFailure{StatusText: msg})
			}
			return nil
		}

		if token != "" {
			dispatch(action.ShortenLongURLUserSuccess{ShortURL: res.ShortURL, Info: res.Info})
		} else {
			dispatch(action.ShortenLongURLSuccess{ShortURL: res.ShortURL})
		}
		return nil
	}
}

// LoadPopularURLs loads the popular panel. It never returns an error.
func (c *Creators) LoadPopularURLs() store.Thunk {
	return func(ctx context.Context, dispatch store.Dispatch, _ store.GetState) error {
		dispatch(action.LoadPopularURLRequest{})
		urls, err := c.urls(ctx, "popular", c.api.GetPopularURLs)
		if err != nil {
			c.log.Warn("failed to load popular urls", zap.Error(err))
			urls = models.PlaceholderURLs()
		}
		dispatch(action.LoadPopularURLSuccess{URLs: urls})
		return nil
	}
}

// LoadMostRecentURLs loads the most recent panel. It never returns an error.
func (c *Creators) LoadMostRecentURLs() store.Thunk {
	return func(ctx context.Context, dispatch store.Dispatch, _ store.GetState) error {
		dispatch(action.LoadMostRecentURLRequest{})
		urls, err := c.urls(ctx, "recent", c.api.GetMostRecentURLs)
		if err != nil {
			c.log.Warn("failed to load most recent urls", zap.Error(err))
			urls = models.PlaceholderURLs()
		}
		dispatch(action.LoadMostRecentURLSuccess{URLs: urls})
		return nil
	}
}

// LoadInfluentialUsers loads the leaderboard. A backend failure is returned
// and no outcome action is dispatched.
func (c *Creators) LoadInfluentialUsers() store.Thunk {
	return func(ctx context.Context, dispatch store.Dispatch, _ store.GetState) error {
		dispatch(action.LoadInfluentialUsersRequest{})
		v, err := c.shared(ctx, "influential", func(ctx context.Context) (any, error) {
			return c.api.GetInfluentialUsers(ctx)
		})
		if err != nil {
			return fmt.Errorf("load influential users: %w", err)
		}
		dispatch(action.LoadInfluentialUsersSuccess{Users: v.([]models.UserSummary)})
		return nil
	}
}

// LoadHomePage runs the three panel loads concurrently. Only the influential
// users load can fail, and its failure does not cut the other loads short.
func (c *Creators) LoadHomePage() store.Thunk {
	return func(ctx context.Context, dispatch store.Dispatch, getState store.GetState) error {
		var g errgroup.Group
		for _, t := range []store.Thunk{c.LoadPopularURLs(), c.LoadMostRecentURLs(), c.LoadInfluentialUsers()} {
			g.Go(func() error { return t(ctx, dispatch, getState) })
		}
		return g.Wait()
	}
}

// GetRouteToRedirect resolves a short code. An empty code bounces to the
// home route without resolving anything.
func (c *Creators) GetRouteToRedirect(code string) store.Thunk {
	return func(ctx context.Context, dispatch store.Dispatch, _ store.GetState) error {
		code = strings.Trim(strings.TrimSpace(code), "/")
		if code == "" {
			dispatch(action.RedirectToRoute{Route: RouteHome})
			return nil
		}

		shortURL := c.ShortURL(code)
		dispatch(action.GetRouteToRedirectRequest{ShortURL: shortURL})
		longURL, err := c.api.VisitURL(ctx, shortURL)
		if err != nil {
			_, msg := api.StatusAndMessage(err)
			if msg == "" {
				msg = err.Error()
			}
			c.log.Info("short url not resolved", zap.String("short_url", shortURL), zap.String("reason", msg))
			dispatch(action.GetRouteToRedirectFailure{Message: msg})
			return nil
		}
		dispatch(action.GetRouteToRedirectSuccess{LongURL: longURL})
		return nil
	}
}

// ShortURL expands a short code with the configured prefix. A code already
// carrying the prefix is returned as is.
func (c *Creators) ShortURL(code string) string {
	if strings.HasPrefix(code, c.prefix) {
		return code
	}
	return c.prefix + code
}

// Logout forgets the token.
func (c *Creators) Logout() store.Thunk {
	return func(_ context.Context, dispatch store.Dispatch, _ store.GetState) error {
		dispatch(action.LogoutUser{})
		return nil
	}
}

// LogoutAndRedirect forgets the token and goes to the root route.
func (c *Creators) LogoutAndRedirect() store.Thunk {
	return func(_ context.Context, dispatch store.Dispatch, _ store.GetState) error {
		dispatch(action.LogoutUser{})
		dispatch(action.RedirectToRoute{Route: RouteRoot})
		return nil
	}
}

// UpdateState merges patch into the urls slice.
func (c *Creators) UpdateState(patch action.URLsPatch) store.Thunk {
	return func(_ context.Context, dispatch store.Dispatch, _ store.GetState) error {
		dispatch(action.UpdateState{Patch: patch})
		return nil
	}
}

func (c *Creators) urls(ctx context.Context, key string, fetch func(context.Context) ([]models.URLSummary, error)) ([]models.URLSummary, error) {
	v, err := c.shared(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.URLSummary), nil
}

// shared collapses concurrent identical loads into one backend call. A
// caller whose ctx ends stops waiting. The call keeps the starter's ctx
// values but not its cancellation, so one caller leaving does not fail the
// others; it is bounded by sharedTimeout instead.
func (c *Creators) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.sharedTimeout)
		defer cancel()
		return fn(callCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
