package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

type stubParser struct {
	users map[string]UserRecord
}

func (p stubParser) ParseUser(token string) (UserRecord, error) {
	u, ok := p.users[token]
	if !ok {
		return UserRecord{}, errors.New("unknown token")
	}
	return u, nil
}

func TestManagerScopeReturnsSameStore(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	m := NewManager(NewMemoryTokenStore())

	a := m.Scope(ctx, "a")
	c.Assert(m.Scope(ctx, "a"), qt.Equals, a)
	c.Assert(m.Scope(ctx, "b"), qt.Not(qt.Equals), a)
	c.Assert(m.Len(), qt.Equals, 2)

	_, ok := m.Lookup("c")
	c.Assert(ok, qt.IsFalse)
}

func TestManagerScopesAreIsolated(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	m := NewManager(NewMemoryTokenStore())

	c.Assert(m.Scope(ctx, "a").Login(ctx, UserRecord{Token: "abc"}), qt.IsNil)
	c.Assert(m.Scope(ctx, "a").Current().IsAuthenticated, qt.IsTrue)
	c.Assert(m.Scope(ctx, "b").Current().IsAuthenticated, qt.IsFalse)
}

func TestManagerRestore(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	parser := stubParser{users: map[string]UserRecord{
		"good": {UserID: "u-1", Email: "ada@example.com"},
	}}

	tests := []struct {
		name     string
		restore  bool
		token    string
		wantAuth bool
	}{
		{name: "disabled keeps stub behaviour", restore: false, token: "good", wantAuth: false},
		{name: "enabled with valid token", restore: true, token: "good", wantAuth: true},
		{name: "enabled with rejected token", restore: true, token: "bad", wantAuth: false},
		{name: "enabled without token", restore: true, token: "", wantAuth: false},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			tokens := NewMemoryTokenStore()
			if tt.token != "" {
				c.Assert(tokens.Put(ctx, "a", TokenKey, tt.token), qt.IsNil)
			}

			var opts []Option
			if tt.restore {
				opts = append(opts, WithRestore(parser))
			}
			st := NewManager(tokens, opts...).Scope(ctx, "a").Current()

			c.Assert(st.IsAuthenticated, qt.Equals, tt.wantAuth)
			if tt.wantAuth {
				c.Assert(st.User.Token, qt.Equals, tt.token)
				c.Assert(st.User.Email, qt.Equals, "ada@example.com")
			} else {
				c.Assert(st.User, qt.IsNil)
			}
		})
	}
}

func TestManagerRestartWithoutRestoreIsLoggedOut(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	tokens := NewMemoryTokenStore()

	first := NewManager(tokens)
	c.Assert(first.Scope(ctx, "a").Login(ctx, UserRecord{Token: "abc"}), qt.IsNil)
	c.Assert(first.Close(), qt.IsNil)

	second := NewManager(tokens)
	c.Assert(second.Scope(ctx, "a").Current().IsAuthenticated, qt.IsFalse)

	v, ok, err := tokens.Get(ctx, "a", TokenKey)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, "abc")
}

func TestManagerObserversAttachToNewStores(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	var scopes []string
	m := NewManager(NewMemoryTokenStore(), WithObserver(func(scope string, _, _ State) {
		scopes = append(scopes, scope)
	}))

	c.Assert(m.Scope(ctx, "a").Login(ctx, UserRecord{Token: "x"}), qt.IsNil)
	c.Assert(m.Scope(ctx, "b").Login(ctx, UserRecord{Token: "y"}), qt.IsNil)
	c.Assert(m.Scope(ctx, "a").Logout(ctx), qt.IsNil)

	c.Assert(scopes, qt.DeepEquals, []string{"a", "b", "a"})
}

func TestManagerCloseDropsStores(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	m := NewManager(NewMemoryTokenStore())
	m.Scope(ctx, "a")

	c.Assert(m.Close(), qt.IsNil)
	c.Assert(m.Len(), qt.Equals, 0)
}

func TestNewScopeID(t *testing.T) {
	c := qt.New(t)
	a, err := NewScopeID()
	c.Assert(err, qt.IsNil)
	b, err := NewScopeID()
	c.Assert(err, qt.IsNil)
	c.Assert(a, qt.Not(qt.Equals), b)
	c.Assert(len(a), qt.Equals, 43)
}

func TestManagerCurrentDoesNotCreateStores(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	m := NewManager(NewMemoryTokenStore(), WithRestore(stubParser{}))

	for i := 0; i < 1000; i++ {
		st := m.Current(ctx, fmt.Sprintf("unknown-%d", i))
		c.Assert(st.IsAuthenticated, qt.IsFalse)
	}
	c.Assert(m.Len(), qt.Equals, 0)
}

func TestManagerCurrentRestoresOnlyValidTokens(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	tokens := NewMemoryTokenStore()
	c.Assert(tokens.Put(ctx, "a", TokenKey, "good"), qt.IsNil)
	c.Assert(tokens.Put(ctx, "b", TokenKey, "bad"), qt.IsNil)

	m := NewManager(tokens, WithRestore(stubParser{users: map[string]UserRecord{
		"good": {UserID: "u-1"},
	}}))

	c.Assert(m.Current(ctx, "a").IsAuthenticated, qt.IsTrue)
	c.Assert(m.Current(ctx, "b").IsAuthenticated, qt.IsFalse)
	c.Assert(m.Len(), qt.Equals, 1)
}

func TestManagerLoginLogoutLifecycle(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	tokens := NewMemoryTokenStore()
	m := NewManager(tokens)

	c.Assert(m.Login(ctx, "a", UserRecord{}), qt.ErrorIs, ErrMissingToken)
	c.Assert(m.Len(), qt.Equals, 0)

	c.Assert(m.Login(ctx, "a", UserRecord{Token: "abc"}), qt.IsNil)
	c.Assert(m.Current(ctx, "a").IsAuthenticated, qt.IsTrue)
	c.Assert(m.Len(), qt.Equals, 1)

	c.Assert(m.Logout(ctx, "a"), qt.IsNil)
	c.Assert(m.Len(), qt.Equals, 0)
	c.Assert(m.Current(ctx, "a").IsAuthenticated, qt.IsFalse)
	_, ok, err := tokens.Get(ctx, "a", TokenKey)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)

	// no store: the persisted token is still removed
	c.Assert(tokens.Put(ctx, "b", TokenKey, "left"), qt.IsNil)
	c.Assert(m.Logout(ctx, "b"), qt.IsNil)
	_, ok, err = tokens.Get(ctx, "b", TokenKey)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)
}

func TestManagerCurrentExpiresWithDurableToken(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	tokens := NewMemoryTokenStore()

	var transitions []State
	m := NewManager(tokens, WithObserver(func(_ string, _, to State) {
		transitions = append(transitions, to)
	}))
	c.Assert(m.Login(ctx, "a", UserRecord{Token: "abc"}), qt.IsNil)

	c.Assert(tokens.Delete(ctx, "a", TokenKey), qt.IsNil)

	c.Assert(m.Current(ctx, "a").IsAuthenticated, qt.IsFalse)
	c.Assert(m.Len(), qt.Equals, 0)
	c.Assert(transitions, qt.HasLen, 2)
	c.Assert(transitions[1].IsAuthenticated, qt.IsFalse)
}

func TestManagerCurrentRejectsFailedTokenCheck(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	tokens := NewMemoryTokenStore()
	m := NewManager(tokens, WithTokenCheck(stubParser{users: map[string]UserRecord{
		"fresh": {},
	}}))

	c.Assert(m.Login(ctx, "a", UserRecord{Token: "fresh"}), qt.IsNil)
	c.Assert(m.Login(ctx, "b", UserRecord{Token: "stale"}), qt.IsNil)

	c.Assert(m.Current(ctx, "a").IsAuthenticated, qt.IsTrue)
	c.Assert(m.Current(ctx, "b").IsAuthenticated, qt.IsFalse)

	_, ok, err := tokens.Get(ctx, "b", TokenKey)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)
}

func TestManagerSweep(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	tokens := NewMemoryTokenStore()
	m := NewManager(tokens)

	m.Scope(ctx, "idle")
	c.Assert(m.Login(ctx, "live", UserRecord{Token: "x"}), qt.IsNil)
	c.Assert(m.Login(ctx, "gone", UserRecord{Token: "y"}), qt.IsNil)
	c.Assert(tokens.Delete(ctx, "gone", TokenKey), qt.IsNil)

	c.Assert(m.Sweep(ctx), qt.Equals, 2)
	c.Assert(m.Len(), qt.Equals, 1)
	_, ok := m.Lookup("live")
	c.Assert(ok, qt.IsTrue)
}

// gatedTokens blocks reads of one scope until release is closed.
type gatedTokens struct {
	*MemoryTokenStore
	scope   string
	entered chan struct{}
	release chan struct{}
}

func (g *gatedTokens) Get(ctx context.Context, scope, key string) (string, bool, error) {
	if scope == g.scope {
		close(g.entered)
		<-g.release
	}
	return g.MemoryTokenStore.Get(ctx, scope, key)
}

func TestManagerRestoreReadDoesNotBlockOtherScopes(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	tokens := &gatedTokens{
		MemoryTokenStore: NewMemoryTokenStore(),
		scope:            "slow",
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	m := NewManager(tokens, WithRestore(stubParser{}))

	slowDone := make(chan struct{})
	go func() {
		defer close(slowDone)
		m.Scope(ctx, "slow")
	}()
	<-tokens.entered

	fastDone := make(chan struct{})
	go func() {
		defer close(fastDone)
		m.Scope(ctx, "fast")
	}()

	select {
	case <-fastDone:
	case <-time.After(5 * time.Second):
		c.Fatal("scope creation blocked behind another scope's storage read")
	}

	close(tokens.release)
	<-slowDone
	c.Assert(m.Len(), qt.Equals, 2)
}
