package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/dms-portal/internal/infra/buildinfo"
	"github.com/yndnr/dms-portal/internal/telemetry/logger"
)

// DefaultReadyTimeout bounds the readiness checks of one /ready call.
const DefaultReadyTimeout = 3 * time.Second

// ReadyCheck is one dependency probed by /ready.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Portal serves every path not claimed by an infrastructure endpoint.
	Portal http.Handler

	// Static serves /static/.
	Static http.Handler

	// Metrics serves /metrics. Nil leaves the endpoint unregistered.
	Metrics http.Handler

	// ReadyChecks are run by /ready.
	ReadyChecks []ReadyCheck

	// ReadyTimeout bounds all ready checks together.
	ReadyTimeout time.Duration

	// RateLimiter limits portal requests per client. Nil disables limiting.
	RateLimiter *RateLimiter

	// Logger for request logging.
	Logger logger.Logger

	// EnableAudit logs every portal request.
	EnableAudit bool
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		ReadyTimeout: DefaultReadyTimeout,
		EnableAudit:  true,
	}
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	readyTimeout := cfg.ReadyTimeout
	if readyTimeout <= 0 {
		readyTimeout = DefaultReadyTimeout
	}

	// Order: Recover -> RequestID -> SecurityHeaders -> RateLimit -> Audit -> Portal
	portalMiddlewares := []Middleware{Recover(log), RequestID(), SecurityHeaders()}
	if cfg.RateLimiter != nil {
		portalMiddlewares = append(portalMiddlewares, cfg.RateLimiter.Middleware())
	}
	if cfg.EnableAudit {
		portalMiddlewares = append(portalMiddlewares, Audit(log))
	}

	mux := http.NewServeMux()

	infra := func(h http.Handler) http.Handler {
		return Chain(h, Recover(log), RequestID())
	}
	mux.Handle("GET /health", infra(http.HandlerFunc(handleHealth)))
	mux.Handle("GET /ready", infra(readyHandler(cfg.ReadyChecks, readyTimeout, log)))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", infra(cfg.Metrics))
	}
	if cfg.Static != nil {
		mux.Handle("GET /static/", Chain(cfg.Static, Recover(log), SecurityHeaders()))
	}
	if cfg.Portal != nil {
		mux.Handle("/", Chain(cfg.Portal, portalMiddlewares...))
	}

	return mux
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

func readyHandler(checks []ReadyCheck, timeout time.Duration, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		resp := healthResponse{Status: "ready", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				logger.ForContext(log, r.Context()).Warn("readiness check failed", "check", c.Name, "error", err)
				resp.Checks[c.Name] = "unavailable"
				resp.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[c.Name] = "ok"
		}
		writeJSON(w, status, resp)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
