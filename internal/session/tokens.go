package session

import (
	"context"
	"errors"
	"sync"
)

// TokenKey is the durable storage key holding the signed-in user's token.
const TokenKey = "token"

var errEmptyScope = errors.New("session: empty scope")

// TokenStore is durable key-value storage partitioned by browser scope.
// Deleting an absent key is not an error.
type TokenStore interface {
	Put(ctx context.Context, scope, key, value string) error
	Get(ctx context.Context, scope, key string) (value string, ok bool, err error)
	Delete(ctx context.Context, scope, key string) error
}

// MemoryTokenStore keeps values in process memory. It does not survive a
// restart and is meant for development and tests.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{scopes: make(map[string]map[string]string)}
}

func (m *MemoryTokenStore) Put(_ context.Context, scope, key, value string) error {
	if scope == "" {
		return errEmptyScope
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	kv, ok := m.scopes[scope]
	if !ok {
		kv = make(map[string]string)
		m.scopes[scope] = kv
	}
	kv[key] = value
	return nil
}

func (m *MemoryTokenStore) Get(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.scopes[scope][key]
	return v, ok, nil
}

func (m *MemoryTokenStore) Delete(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kv, ok := m.scopes[scope]
	if !ok {
		return nil
	}
	delete(kv, key)
	if len(kv) == 0 {
		delete(m.scopes, scope)
	}
	return nil
}
