// Package metric exposes Prometheus metrics for the DMS portal.
//
// Metrics include:
//
//   - Portal request counts and latency by route
//   - Guard decisions (authorized / redirecting)
//   - Backend gateway calls and latency by endpoint and status
//   - Active tab sessions in the memory backend
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
