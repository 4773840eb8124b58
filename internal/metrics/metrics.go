// Package metrics exposes Prometheus counters for session transitions and
// gate decisions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"admin-dashboard/internal/session"
)

const namespace = "dashboard"

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Session metrics
	Transitions         *prometheus.CounterVec
	AuthenticatedScopes prometheus.Gauge
	LoginFailures       *prometheus.CounterVec

	// Gate metrics
	GateDecisions *prometheus.CounterVec
}

func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transitions_total",
			Help:      "Session state transitions by target state.",
		}, []string{"to"}),
		AuthenticatedScopes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "authenticated_scopes",
			Help:      "Browser scopes currently logged in.",
		}),
		LoginFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_failures_total",
			Help:      "Rejected login attempts by method.",
		}, []string{"method"}),
		GateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_decisions_total",
			Help:      "Route gate decisions by outcome.",
		}, []string{"outcome"}),
	}

	r.reg.MustRegister(
		r.Transitions,
		r.AuthenticatedScopes,
		r.LoginFailures,
		r.GateDecisions,
		collectors.NewGoCollector(),
	)
	return r
}

// ObserveTransition is a session.Observer.
func (r *Registry) ObserveTransition(_ string, from, to session.State) {
	switch {
	case !from.IsAuthenticated && to.IsAuthenticated:
		r.Transitions.WithLabelValues("logged_in").Inc()
		r.AuthenticatedScopes.Inc()
	case from.IsAuthenticated && !to.IsAuthenticated:
		r.Transitions.WithLabelValues("logged_out").Inc()
		r.AuthenticatedScopes.Dec()
	case to.IsAuthenticated:
		// user switch without logout
		r.Transitions.WithLabelValues("logged_in").Inc()
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
