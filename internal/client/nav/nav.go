// Package nav carries out the navigation side effects of the client: moving
// between in-app routes and leaving the app for a resolved long URL.
package nav

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Navigator moves the user around.
type Navigator interface {
	// Push moves to an in-app route such as "/main/".
	Push(route string)
	// Assign leaves the app for an external URL.
	Assign(url string)
}

// Absolute prefixes http:// when url carries no scheme.
func Absolute(url string) string {
	if url == "" || strings.Contains(url, "://") {
		return url
	}
	return "http://" + url
}

// Kind says which Navigator method produced a Location.
type Kind int

const (
	KindNone Kind = iota
	KindRoute
	KindExternal
)

// Location is where a Recorder was last sent.
type Location struct {
	Kind Kind
	// Target is the route for KindRoute and the absolute URL for KindExternal.
	Target string
}

// Recorder remembers every navigation, optionally logging it. It is safe for
// concurrent use.
type Recorder struct {
	mu      sync.Mutex
	history []Location
	log     *zap.Logger
}

// NewRecorder returns a Recorder logging through log; nil disables logging.
func NewRecorder(log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{log: log}
}

func (r *Recorder) Push(route string) {
	r.record(Location{Kind: KindRoute, Target: route})
	r.log.Info("navigate", zap.String("route", route))
}

func (r *Recorder) Assign(url string) {
	abs := Absolute(url)
	r.record(Location{Kind: KindExternal, Target: abs})
	r.log.Info("leave app", zap.String("url", abs))
}

func (r *Recorder) record(l Location) {
	r.mu.Lock()
	r.history = append(r.history, l)
	r.mu.Unlock()
}

// Last returns the most recent navigation, or the zero Location.
func (r *Recorder) Last() Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return Location{}
	}
	return r.history[len(r.history)-1]
}

// History returns a copy of all navigations in order.
func (r *Recorder) History() []Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Location, len(r.history))
	copy(out, r.history)
	return out
}
