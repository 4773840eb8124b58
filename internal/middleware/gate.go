package middleware

import (
	"context"
	"net/http"

	"admin-dashboard/internal/metrics"
	"admin-dashboard/internal/route"
	"admin-dashboard/internal/session"
)

// unexported, collision-proof context keys
type userContextKeyType struct{}
type decisionContextKeyType struct{}

var (
	userKey     = userContextKeyType{}
	decisionKey = decisionContextKeyType{}
)

// UserFromContext returns the authenticated user attached by the gate.
func UserFromContext(ctx context.Context) (session.UserRecord, bool) {
	u, ok := ctx.Value(userKey).(session.UserRecord)
	return u, ok
}

// DecisionFromContext returns the gate decision for the current request.
func DecisionFromContext(ctx context.Context) (route.Decision, bool) {
	d, ok := ctx.Value(decisionKey).(route.Decision)
	return d, ok
}

// Gate guards the protected subtree with the session of the request's
// browser scope.
type Gate struct {
	Sessions *session.Manager
	Metrics  *metrics.Registry
}

func NewGate(sessions *session.Manager, m *metrics.Registry) *Gate {
	return &Gate{Sessions: sessions, Metrics: m}
}

func (g *Gate) state(r *http.Request) session.State {
	scope, ok := session.ScopeFromRequest(r)
	if !ok {
		return session.State{}
	}
	return g.Sessions.Current(r.Context(), scope)
}

// RequireSession renders protected pages only for an authenticated scope;
// otherwise it redirects to the login page.
func (g *Gate) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := g.state(r)
		d := route.Decide(st.IsAuthenticated, r.URL.Path)

		if g.Metrics != nil {
			g.Metrics.GateDecisions.WithLabelValues(d.Outcome.String()).Inc()
		}

		switch d.Outcome {
		case route.Redirect:
			http.Redirect(w, r, d.Location, http.StatusFound)
			return
		case route.NotFound:
			http.NotFound(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), decisionKey, d)
		if st.User != nil {
			ctx = context.WithValue(ctx, userKey, *st.User)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
