package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dms_portal"

// Registry holds all portal metrics.
type Registry struct {
	registry *prometheus.Registry

	// Portal request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Navigation metrics
	GateDecisions *prometheus.CounterVec
	Logins        *prometheus.CounterVec
	Logouts       *prometheus.CounterVec

	// Backend gateway metrics
	GatewayCalls    *prometheus.CounterVec
	GatewayDuration *prometheus.HistogramVec

	// Session metrics
	SessionsActive prometheus.Gauge
}

var (
	globalRegistry *Registry
	globalOnce     sync.Once
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// NewRegistry creates a registry with Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Portal HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Portal HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		GateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_decisions_total",
			Help:      "Guard decisions for protected routes.",
		}, []string{"route", "decision"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		Logouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logouts_total",
			Help:      "Logout attempts by result.",
		}, []string{"result"}),
		GatewayCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_calls_total",
			Help:      "Backend API calls by method, endpoint and status.",
		}, []string{"method", "endpoint", "status"}),
		GatewayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_call_duration_seconds",
			Help:      "Backend API call latency.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"method", "endpoint"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Tab sessions held by the memory backend.",
		}),
	}

	reg.MustRegister(
		r.RequestsTotal,
		r.RequestDuration,
		r.GateDecisions,
		r.Logins,
		r.Logouts,
		r.GatewayCalls,
		r.GatewayDuration,
		r.SessionsActive,
	)
	return r
}

// Handler returns the /metrics handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Handler returns the /metrics handler for the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Recording methods are no-ops on a nil *Registry.

// RecordRequest counts one portal request.
func (r *Registry) RecordRequest(route, method, status string) {
	if r == nil {
		return
	}
	r.RequestsTotal.WithLabelValues(route, method, status).Inc()
}

// ObserveRequestDuration records portal request latency.
func (r *Registry) ObserveRequestDuration(route, method string, seconds float64) {
	if r == nil {
		return
	}
	r.RequestDuration.WithLabelValues(route, method).Observe(seconds)
}

// RecordGate counts one guard decision.
func (r *Registry) RecordGate(route, decision string) {
	if r == nil {
		return
	}
	r.GateDecisions.WithLabelValues(route, decision).Inc()
}

// RecordLogin counts a login attempt ("ok", "invalid", "error").
func (r *Registry) RecordLogin(result string) {
	if r == nil {
		return
	}
	r.Logins.WithLabelValues(result).Inc()
}

// RecordLogout counts a logout attempt ("ok", "failed").
func (r *Registry) RecordLogout(result string) {
	if r == nil {
		return
	}
	r.Logouts.WithLabelValues(result).Inc()
}

// RecordGatewayCall counts one backend call and its latency.
func (r *Registry) RecordGatewayCall(method, endpoint, status string, seconds float64) {
	if r == nil {
		return
	}
	r.GatewayCalls.WithLabelValues(method, endpoint, status).Inc()
	r.GatewayDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

// SetSessionsActive sets the active tab session gauge.
func (r *Registry) SetSessionsActive(n float64) {
	if r == nil {
		return
	}
	r.SessionsActive.Set(n)
}
