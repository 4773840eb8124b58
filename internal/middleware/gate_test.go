package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/route"
	"admin-dashboard/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func requestWithScope(path, scope string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if scope != "" {
		r.AddCookie(&http.Cookie{Name: session.CookieName, Value: scope})
	}
	return r
}

func TestRequireSession(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	sessions := session.NewManager(session.NewMemoryTokenStore())
	c.Assert(sessions.Scope(ctx, "in").Login(ctx, session.UserRecord{Token: "abc", Name: "Ada"}), qt.IsNil)

	gate := NewGate(sessions, nil)

	var seen route.Decision
	var seenUser session.UserRecord
	h := gate.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = DecisionFromContext(r.Context())
		seenUser, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	c.Run("no scope cookie redirects", func(c *qt.C) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithScope("/sales", ""))
		c.Assert(rec.Code, qt.Equals, http.StatusFound)
		c.Assert(rec.Header().Get("Location"), qt.Equals, "/login")
	})

	c.Run("logged out scope redirects", func(c *qt.C) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithScope("/sales", "out"))
		c.Assert(rec.Code, qt.Equals, http.StatusFound)
		c.Assert(rec.Header().Get("Location"), qt.Equals, "/login")
	})

	c.Run("logged in scope passes with user", func(c *qt.C) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithScope("/inventory", "in"))
		c.Assert(rec.Code, qt.Equals, http.StatusOK)
		c.Assert(seen.Page.Name, qt.Equals, "inventory")
		c.Assert(seen.Layout, qt.IsTrue)
		c.Assert(seenUser.Name, qt.Equals, "Ada")
	})

	c.Run("unknown path is not found", func(c *qt.C) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithScope("/nope", "in"))
		c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
	})
}

func TestRequireSessionFollowsLogout(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	sessions := session.NewManager(session.NewMemoryTokenStore())
	store := sessions.Scope(ctx, "s")
	gate := NewGate(sessions, nil)
	h := gate.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func() int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithScope("/", "s"))
		return rec.Code
	}

	c.Assert(serve(), qt.Equals, http.StatusFound)
	c.Assert(store.Login(ctx, session.UserRecord{Token: "abc"}), qt.IsNil)
	c.Assert(serve(), qt.Equals, http.StatusOK)
	c.Assert(store.Logout(ctx), qt.IsNil)
	c.Assert(serve(), qt.Equals, http.StatusFound)
}

func TestEnsureScope(t *testing.T) {
	c := qt.New(t)

	var got string
	h := EnsureScope(session.CookieOptions{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ScopeFromContext(r.Context())
	}))

	c.Run("issues cookie on first visit", func(c *qt.C) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithScope("/login", ""))

		cookies := rec.Result().Cookies()
		c.Assert(cookies, qt.HasLen, 1)
		c.Assert(cookies[0].Name, qt.Equals, session.CookieName)
		c.Assert(cookies[0].HttpOnly, qt.IsTrue)
		c.Assert(cookies[0].Value, qt.Equals, got)
		c.Assert(got, qt.Not(qt.Equals), "")
	})

	c.Run("keeps existing scope", func(c *qt.C) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithScope("/login", "known"))

		c.Assert(rec.Result().Cookies(), qt.HasLen, 0)
		c.Assert(got, qt.Equals, "known")
	})
}

func TestGinBridge(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	sessions := session.NewManager(session.NewMemoryTokenStore())
	c.Assert(sessions.Scope(ctx, "in").Login(ctx, session.UserRecord{Token: "abc", Email: "ada@example.com"}), qt.IsNil)

	r := gin.New()
	r.Use(GinRequireSession(NewGate(sessions, nil)))
	r.GET("/reports", func(c *gin.Context) {
		u, _ := UserFromContext(c.Request.Context())
		c.String(http.StatusOK, u.Email)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, requestWithScope("/reports", "in"))
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Equals, "ada@example.com")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, requestWithScope("/reports", "out"))
	c.Assert(rec.Code, qt.Equals, http.StatusFound)
	c.Assert(rec.Header().Get("Location"), qt.Equals, "/login")
	c.Assert(rec.Body.String(), qt.Not(qt.Contains), "@")
}

func TestRequireSessionIgnoresUnknownScopes(t *testing.T) {
	c := qt.New(t)
	sessions := session.NewManager(session.NewMemoryTokenStore())
	h := NewGate(sessions, nil).RequireSession(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 1000; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithScope("/sales", "forged-"+strconv.Itoa(i)))
		c.Assert(rec.Code, qt.Equals, http.StatusFound)
	}
	c.Assert(sessions.Len(), qt.Equals, 0)
}
