package session

import (
	"context"
	"fmt"
	"sync"
)

// State is the authentication state of one browser scope.
// IsAuthenticated is true iff User is non-nil.
type State struct {
	IsAuthenticated bool
	User            *UserRecord
}

func (s State) clone() State {
	if s.User == nil {
		return State{}
	}
	u := *s.User
	return State{IsAuthenticated: true, User: &u}
}

// Observer is called after every state transition of a store.
type Observer func(scope string, from, to State)

// Store holds the session state of a single browser scope and mirrors the
// user's token into durable storage under TokenKey.
type Store struct {
	scope  string
	tokens TokenStore

	mu        sync.Mutex
	state     State
	observers []Observer
}

func newStore(scope string, tokens TokenStore, initial State) *Store {
	return &Store{
		scope:  scope,
		tokens: tokens,
		state:  initial.clone(),
	}
}

// Scope returns the browser scope this store belongs to.
func (s *Store) Scope() string {
	return s.scope
}

// Current returns a copy of the current state.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// OnChange registers an observer for subsequent transitions.
func (s *Store) OnChange(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Login persists user.Token and marks the scope authenticated as user.
// On error the state is left unchanged.
func (s *Store) Login(ctx context.Context, user UserRecord) error {
	if err := user.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.tokens.Put(ctx, s.scope, TokenKey, user.Token); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("session: persist token: %w", err)
	}
	from := s.state.clone()
	s.state = State{IsAuthenticated: true, User: &user}
	observers := append([]Observer(nil), s.observers...)
	to := s.state.clone()
	s.mu.Unlock()

	notify(observers, s.scope, from, to)
	return nil
}

// Logout marks the scope unauthenticated and removes the persisted token.
// The in-memory state is cleared even when the delete fails. Calling it on
// a logged-out scope only repeats the delete.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	from := s.state.clone()
	s.state = State{}
	err := s.tokens.Delete(ctx, s.scope, TokenKey)
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	if from.IsAuthenticated {
		notify(observers, s.scope, from, State{})
	}

	if err != nil {
		return fmt.Errorf("session: delete token: %w", err)
	}
	return nil
}

func notify(observers []Observer, scope string, from, to State) {
	for _, fn := range observers {
		fn(scope, from, to)
	}
}
