// Package view binds rendering code to the store: selectors pick the part of
// the state a view needs and renderers turn it into text.
package view

import (
	"sync"

	"github.com/atinyakov/frus/internal/client/store"
	"github.com/atinyakov/frus/internal/models"
)

// Redirect page headers.
const (
	HeaderNoMatch     = "No matching URL found!"
	HeaderDeleted     = "URL has been deleted!"
	HeaderDeactivated = "URL has been deactivated!"
	HeaderBadRequest  = "Bad request!"
)

// ErrorHeader maps a resolution error message to the header the redirect
// page shows. An empty message shows nothing.
func ErrorHeader(msg string) string {
	switch msg {
	case "":
		return ""
	case "No matching URL found":
		return HeaderNoMatch
	case "URL has been deleted":
		return HeaderDeleted
	case "URL has been deactivated":
		return HeaderDeactivated
	}
	return HeaderBadRequest
}

// Subscriber is the part of *store.Store views bind to.
type Subscriber interface {
	GetState() *models.State
	Subscribe(fn store.Listener) func()
}

// Connect calls render with select(state) now and again after every dispatch
// that changes the selected value. It returns the unsubscribe function.
func Connect[T comparable](s Subscriber, selectFn func(*models.State) T, render func(T)) func() {
	return ConnectFunc(s, selectFn, func(a, b T) bool { return a == b }, render)
}

// ConnectFunc is Connect for values compared with equal.
func ConnectFunc[T any](s Subscriber, selectFn func(*models.State) T, equal func(a, b T) bool, render func(T)) func() {
	b := &binding[T]{selectFn: selectFn, equal: equal, render: render}
	unsubscribe := s.Subscribe(b.update)
	b.update(s.GetState())
	return unsubscribe
}

type binding[T any] struct {
	mu       sync.Mutex
	selectFn func(*models.State) T
	equal    func(a, b T) bool
	render   func(T)
	last     T
	primed   bool
}

func (b *binding[T]) update(s *models.State) {
	v := b.selectFn(s)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.primed && b.equal(b.last, v) {
		return
	}
	b.last, b.primed = v, true
	b.render(v)
}
