package creator

import (
	"context"
	"time"

	"github.com/atinyakov/frus/internal/client/store"
)

// Runner executes thunks; *store.Store is one.
type Runner interface {
	Run(ctx context.Context, t store.Thunk) error
}

// StartAutoRefresh reloads the URL panels every interval until ctx ends.
// Both loads soft-fail, so nothing here can error.
func (c *Creators) StartAutoRefresh(ctx context.Context, r Runner, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = r.Run(ctx, c.LoadPopularURLs())
				_ = r.Run(ctx, c.LoadMostRecentURLs())
			}
		}
	}()
}
