package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"admin-dashboard/internal/session"
)

func TestObserveTransition(t *testing.T) {
	c := qt.New(t)
	r := New()

	in := session.State{IsAuthenticated: true, User: &session.UserRecord{Token: "abc"}}
	out := session.State{}

	r.ObserveTransition("s", out, in)
	r.ObserveTransition("s", in, in)
	r.ObserveTransition("s", in, out)

	c.Assert(testutil.ToFloat64(r.Transitions.WithLabelValues("logged_in")), qt.Equals, 2.0)
	c.Assert(testutil.ToFloat64(r.Transitions.WithLabelValues("logged_out")), qt.Equals, 1.0)
	c.Assert(testutil.ToFloat64(r.AuthenticatedScopes), qt.Equals, 0.0)
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := qt.New(t)
	r := New()
	r.GateDecisions.WithLabelValues("redirect").Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	c.Assert(err, qt.IsNil)
	c.Assert(string(body), qt.Contains, `dashboard_gate_decisions_total{outcome="redirect"} 1`)
}
