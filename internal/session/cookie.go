package session

import (
	"net/http"
	"time"
)

const (
	CookieName = "dashboard_scope"

	// scopeLifetime bounds how long a browser keeps its scope id.
	scopeLifetime = 365 * 24 * time.Hour
)

// CookieOptions defines how scope cookies are issued.
type CookieOptions struct {
	Path     string
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
	Domain   string
}

// normalize applies safe defaults without breaking callers
func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/"
	}
	if !o.HttpOnly {
		o.HttpOnly = true
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// ScopeFromRequest returns the scope id carried by the request, if any.
func ScopeFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// SetCookie issues the scope cookie to the client.
func SetCookie(w http.ResponseWriter, scope string, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    scope,
		Path:     opts.Path,
		Domain:   opts.Domain,
		Expires:  time.Now().Add(scopeLifetime),
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}
