package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"admin-dashboard/internal/logger"
)

var errTokenGone = errors.New("session: persisted token missing")

// TokenParser rebuilds a user record from a persisted token.
type TokenParser interface {
	ParseUser(token string) (UserRecord, error)
}

type Option func(*Manager)

// WithRestore makes a scope without a store start authenticated when it
// still holds a token that the parser accepts.
func WithRestore(p TokenParser) Option {
	return func(m *Manager) {
		m.restore = p
	}
}

// WithTokenCheck makes every read of an authenticated scope verify its
// token with p. A rejected token logs the scope out.
func WithTokenCheck(p TokenParser) Option {
	return func(m *Manager) {
		m.check = p
	}
}

// WithObserver registers fn on every store the manager creates.
func WithObserver(fn Observer) Option {
	return func(m *Manager) {
		m.observers = append(m.observers, fn)
	}
}

// Manager owns the session stores of all browser scopes for the lifetime
// of the process. Create it at startup and Close it on shutdown.
//
// Only signed-in scopes keep a store: reads never create one, and logout
// or expiry drops it.
type Manager struct {
	tokens    TokenStore
	restore   TokenParser
	check     TokenParser
	observers []Observer

	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager(tokens TokenStore, opts ...Option) *Manager {
	m := &Manager{
		tokens: tokens,
		stores: make(map[string]*Store),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Scope returns the store for scope, creating it on first use. A new store
// starts logged out unless restore is enabled and succeeds.
func (m *Manager) Scope(ctx context.Context, scope string) *Store {
	if s, ok := m.Lookup(scope); ok {
		return s
	}
	// storage read happens outside m.mu
	return m.insert(scope, m.initialState(ctx, scope))
}

// Lookup returns the store for scope without creating one.
func (m *Manager) Lookup(scope string) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[scope]
	return s, ok
}

// Len reports how many scopes have a store.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

// Current returns the state of scope without creating a store for it.
// An authenticated state whose token has expired is logged out first.
func (m *Manager) Current(ctx context.Context, scope string) State {
	s, ok := m.Lookup(scope)
	if !ok {
		st := m.initialState(ctx, scope)
		if !st.IsAuthenticated {
			return State{}
		}
		s = m.insert(scope, st)
	}

	st := s.Current()
	if !st.IsAuthenticated {
		return st
	}

	expired, err := m.expired(ctx, scope, st.User.Token)
	if err != nil {
		logger.Warn("session token check failed", map[string]any{
			"error": err.Error(),
		})
		return State{}
	}
	if expired != nil {
		m.expire(ctx, scope, s, expired)
		return State{}
	}
	return st
}

// Login signs scope in as user, creating its store when needed.
func (m *Manager) Login(ctx context.Context, scope string, user UserRecord) error {
	s := m.Scope(ctx, scope)
	if err := s.Login(ctx, user); err != nil {
		if !s.Current().IsAuthenticated {
			m.evict(scope, s)
		}
		return err
	}

	// a concurrent sweep may have dropped s while it was logged out
	m.mu.Lock()
	if _, ok := m.stores[scope]; !ok {
		m.stores[scope] = s
	}
	m.mu.Unlock()
	return nil
}

// Logout signs scope out and drops its store. A scope without a store
// still has its persisted token removed.
func (m *Manager) Logout(ctx context.Context, scope string) error {
	m.mu.Lock()
	s, ok := m.stores[scope]
	delete(m.stores, scope)
	m.mu.Unlock()

	if ok {
		return s.Logout(ctx)
	}
	if scope == "" {
		return nil
	}
	if err := m.tokens.Delete(ctx, scope, TokenKey); err != nil {
		return fmt.Errorf("session: delete token: %w", err)
	}
	return nil
}

// Sweep drops stores that are logged out or whose token has expired and
// reports how many were dropped.
func (m *Manager) Sweep(ctx context.Context) int {
	m.mu.Lock()
	snapshot := make(map[string]*Store, len(m.stores))
	for scope, s := range m.stores {
		snapshot[scope] = s
	}
	m.mu.Unlock()

	dropped := 0
	for scope, s := range snapshot {
		st := s.Current()
		if !st.IsAuthenticated {
			if m.evict(scope, s) {
				dropped++
			}
			continue
		}

		expired, err := m.expired(ctx, scope, st.User.Token)
		if err != nil {
			logger.Warn("session sweep check failed", map[string]any{
				"error": err.Error(),
			})
			continue
		}
		if expired != nil {
			m.expire(ctx, scope, s, expired)
			dropped++
		}
	}
	return dropped
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(ctx); n > 0 {
				logger.Debug("session sweep", map[string]any{"dropped": n})
			}
		}
	}
}

func (m *Manager) insert(scope string, initial State) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[scope]; ok {
		return s
	}
	s := newStore(scope, m.tokens, initial)
	for _, fn := range m.observers {
		s.OnChange(fn)
	}
	m.stores[scope] = s
	return s
}

// evict drops s if it is still the store of scope.
func (m *Manager) evict(scope string, s *Store) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cur, ok := m.stores[scope]; ok && cur == s {
		delete(m.stores, scope)
		return true
	}
	return false
}

func (m *Manager) expire(ctx context.Context, scope string, s *Store, reason error) {
	logger.Info("session expired", map[string]any{
		"reason": reason.Error(),
	})
	m.evict(scope, s)
	if err := s.Logout(ctx); err != nil {
		logger.Warn("expired session cleanup failed", map[string]any{
			"error": err.Error(),
		})
	}
}

// expired returns a non-nil reason when token no longer backs a session:
// its durable copy is gone or the token check rejects it. err reports a
// storage failure, in which case nothing is known about the token.
func (m *Manager) expired(ctx context.Context, scope, token string) (reason, err error) {
	_, ok, err := m.tokens.Get(ctx, scope, TokenKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return errTokenGone, nil
	}
	if m.check != nil {
		if _, err := m.check.ParseUser(token); err != nil {
			return err, nil
		}
	}
	return nil, nil
}

func (m *Manager) initialState(ctx context.Context, scope string) State {
	if m.restore == nil || scope == "" {
		return State{}
	}

	raw, ok, err := m.tokens.Get(ctx, scope, TokenKey)
	if err != nil {
		logger.Warn("session restore read failed", map[string]any{
			"error": err.Error(),
		})
		return State{}
	}
	if !ok {
		return State{}
	}

	user, err := m.restore.ParseUser(raw)
	if err != nil {
		logger.Info("session restore rejected token", map[string]any{
			"error": err.Error(),
		})
		return State{}
	}
	user.Token = raw
	return State{IsAuthenticated: true, User: &user}
}

// Close drops every in-memory store and closes the token store when it
// holds a connection.
func (m *Manager) Close() error {
	m.mu.Lock()
	m.stores = make(map[string]*Store)
	m.mu.Unlock()

	if c, ok := m.tokens.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
