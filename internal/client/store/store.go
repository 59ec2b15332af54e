// Package store holds the client state and serializes every transition.
//
// A Store is an explicit value: create one per client session (the shell
// creates one at start, the gateway one per request) and hand it to the
// components that need it.
package store

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/frus/internal/client/action"
	"github.com/atinyakov/frus/internal/client/reducer"
	"github.com/atinyakov/frus/internal/models"
)

// Dispatch delivers a plain action to the store.
type Dispatch func(action.Action)

// GetState returns the committed state. Callers must not modify it.
type GetState func() *models.State

// Thunk is an asynchronous flow. It receives dispatch and getState and may
// perform I/O between dispatches.
type Thunk func(ctx context.Context, dispatch Dispatch, getState GetState) error

// Reducer computes the next state.
type Reducer func(*models.State, action.Action) *models.State

// Effect runs after an action has been committed, with the new state.
// Effects own side effects such as token persistence and navigation.
type Effect func(a action.Action, s *models.State)

// Listener is notified once per dispatch after effects ran.
type Listener func(s *models.State)

// Option configures a Store.
type Option func(*Store)

// WithEffect appends an effect handler.
func WithEffect(e Effect) Option {
	return func(s *Store) { s.effects = append(s.effects, e) }
}

// WithLogger logs every dispatched action at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithReducer replaces reducer.Root.
func WithReducer(r Reducer) Option {
	return func(s *Store) { s.reducer = r }
}

// WithImmutableCheck makes the store panic when the committed state is
// modified in place, either by a reducer or by a reader between dispatches.
// Meant for development builds and tests.
func WithImmutableCheck() Option {
	return func(s *Store) { s.checkImmutable = true }
}

type subscription struct {
	id int
	fn Listener
}

// delivery is one committed transition waiting for its effects and listeners.
type delivery struct {
	a    action.Action
	next *models.State
	subs []subscription
}

// Store is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	state    *models.State
	reducer  Reducer
	effects  []Effect
	subs     []subscription
	nextID   int
	log      *zap.Logger
	dispatch uint64

	// pending holds committed transitions in commit order; draining is set
	// while one goroutine delivers them.
	pending  []delivery
	draining bool

	checkImmutable bool
	snapshot       *models.State
}

// New creates a store holding initial.
func New(initial *models.State, opts ...Option) *Store {
	if initial == nil {
		initial = models.NewState("")
	}
	s := &Store{
		state:   initial,
		reducer: reducer.Root,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.checkImmutable {
		s.snapshot = initial.Clone()
	}
	return s
}

// GetState returns the committed state.
func (s *Store) GetState() *models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces a, commits the result, runs effects and then notifies
// subscribers. Effects and listeners see transitions in commit order. When
// another goroutine is already delivering, or a listener dispatches, the
// transition is handed to that delivery and Dispatch returns before it runs.
func (s *Store) Dispatch(a action.Action) {
	prev, next, seq, deliver := s.commit(a)

	s.log.Debug("action dispatched",
		zap.Stringer("kind", a.Kind()),
		zap.Uint64("seq", seq),
		zap.Bool("changed", prev != next),
	)

	if deliver {
		s.drain()
	}
}

// drain delivers pending transitions until none are left.
func (s *Store) drain() {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.pending = nil
			s.draining = false
			s.mu.Unlock()
			panic(r)
		}
	}()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		d := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		for _, e := range s.effects {
			e(d.a, d.next)
		}
		for _, sub := range d.subs {
			sub.fn(d.next)
		}
	}
}

// Run executes a thunk with this store's dispatch and getState.
func (s *Store) Run(ctx context.Context, t Thunk) error {
	return t(ctx, s.Dispatch, s.GetState)
}

// Subscribe registers fn and returns a function removing it. Calling the
// returned function more than once is harmless.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool { return sub.id == id })
	}
}

// commit reduces a under the lock and queues its delivery. deliver reports
// whether the caller must drain the queue.
func (s *Store) commit(a action.Action) (prev, next *models.State, seq uint64, deliver bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev = s.state
	if s.checkImmutable {
		s.verifyUnchanged(prev, "between dispatches", a)
	}
	next = s.reducer(prev, a)
	if s.checkImmutable {
		s.verifyUnchanged(prev, "by reducer", a)
		if next != prev {
			s.snapshot = next.Clone()
		}
	}

	s.state = next
	s.dispatch++
	s.pending = append(s.pending, delivery{a: a, next: next, subs: slices.Clone(s.subs)})
	deliver = !s.draining
	s.draining = true
	return prev, next, s.dispatch, deliver
}

func (s *Store) verifyUnchanged(st *models.State, where string, a action.Action) {
	if !reflect.DeepEqual(st, s.snapshot) {
		panic(fmt.Sprintf("store: state mutated in place %s (handling %s)", where, a.Kind()))
	}
}
