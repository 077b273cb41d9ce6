// Package httpserver hosts the portal over HTTP/HTTPS.
//
// It wires the portal route table behind a stdlib net/http mux together
// with the infrastructure endpoints:
//
//   - /health: liveness, always 200
//   - /ready: readiness, pings the backend and the session store
//   - /metrics: Prometheus exposition
//   - /static/: embedded stylesheet
//
// Features:
//
//   - Middleware chain: Recover, RequestID, RateLimit, Audit
//   - Per-client token bucket rate limiting (golang.org/x/time/rate)
//   - Graceful shutdown
package httpserver
