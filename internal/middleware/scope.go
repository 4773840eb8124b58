package middleware

import (
	"context"
	"net/http"

	"admin-dashboard/internal/logger"
	"admin-dashboard/internal/session"
)

type scopeContextKeyType struct{}

var scopeKey = scopeContextKeyType{}

// ScopeFromContext returns the browser scope resolved by EnsureScope.
func ScopeFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(scopeKey).(string)
	return s, ok && s != ""
}

// EnsureScope makes sure the browser carries a scope cookie, issuing one
// on first visit, and attaches the scope id to the request context.
func EnsureScope(opts session.CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, ok := session.ScopeFromRequest(r)
			if !ok {
				var err error
				scope, err = session.NewScopeID()
				if err != nil {
					logger.Error("scope id generation failed", map[string]any{
						"error": err.Error(),
					})
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
				session.SetCookie(w, scope, opts)
			}

			ctx := context.WithValue(r.Context(), scopeKey, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
