package command

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/yndnr/dms-portal/internal/gateway"
	"github.com/yndnr/dms-portal/internal/portal"
	"github.com/yndnr/dms-portal/internal/server/config"
	"github.com/yndnr/dms-portal/internal/server/httpserver"
	"github.com/yndnr/dms-portal/internal/session"
	"github.com/yndnr/dms-portal/internal/telemetry/logger"
	"github.com/yndnr/dms-portal/internal/telemetry/metric"
)

// rateLimiterPruneInterval is how often idle per-client limiters are dropped.
const rateLimiterPruneInterval = time.Minute

// stack is a fully wired portal ready to be served.
type stack struct {
	Handler  http.Handler
	Sessions *session.Registry
	API      *gateway.Client
	Limiter  *httpserver.RateLimiter

	// background runs until ctx ends; started by start.
	background []func(ctx context.Context)
}

// buildStack wires sessions, the backend client, views and the router.
func buildStack(ctx context.Context, cfg *config.PortalConfig, log logger.Logger, metrics *metric.Registry) (*stack, error) {
	backend, readiness, background, err := openSessionBackend(ctx, cfg.Session, log, metrics)
	if err != nil {
		return nil, err
	}

	codec, err := session.NewCookieCodec(cfg.Session.CookieName, cfg.Session.CookieSecret, cfg.Session.CookieSecure)
	if err != nil {
		backend.Close()
		return nil, err
	}
	sessions := session.NewRegistry(backend, codec, log.With("component", "session"))

	api := gateway.New(gateway.Config{
		BaseURL:    cfg.Backend.BaseURL,
		AuthScheme: cfg.Backend.AuthScheme,
		Timeout:    cfg.Backend.Timeout,
	}, gateway.WithRecorder(metrics), gateway.WithLogger(log.With("component", "gateway")))

	views, err := portal.LoadViews()
	if err != nil {
		sessions.Close()
		return nil, fmt.Errorf("load views: %w", err)
	}

	table, err := portal.Routes(portal.Deps{
		Sessions: sessions,
		API:      api,
		Views:    views,
		Logger:   log.With("component", "portal"),
		Metrics:  metrics,
	})
	if err != nil {
		sessions.Close()
		return nil, fmt.Errorf("build routes: %w", err)
	}

	checks := []httpserver.ReadyCheck{{
		Name: "backend",
		Check: func(ctx context.Context) error {
			_, err := api.Health(ctx)
			return err
		},
	}}
	if readiness != nil {
		checks = append(checks, *readiness)
	}

	var limiter *httpserver.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = httpserver.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		background = append(background, func(ctx context.Context) {
			pruneLimiter(ctx, limiter, rateLimiterPruneInterval)
		})
	}

	rc := httpserver.DefaultRouterConfig()
	rc.Portal = table
	rc.Static = portal.StaticHandler()
	rc.Metrics = metrics.Handler()
	rc.ReadyChecks = checks
	rc.RateLimiter = limiter
	rc.Logger = log.With("component", "http")

	return &stack{
		Handler:    httpserver.NewRouter(rc),
		Sessions:   sessions,
		API:        api,
		Limiter:    limiter,
		background: background,
	}, nil
}

// start launches the background loops.
func (s *stack) start(ctx context.Context) {
	for _, run := range s.background {
		go run(ctx)
	}
}

// Close releases the session backend.
func (s *stack) Close() error {
	return s.Sessions.Close()
}

// openSessionBackend opens the configured session store. The redis store
// adds a readiness check; the memory store adds its sweeper.
func openSessionBackend(ctx context.Context, cfg config.SessionSection, log logger.Logger, metrics *metric.Registry) (session.Backend, *httpserver.ReadyCheck, []func(context.Context), error) {
	switch cfg.Backend {
	case config.SessionBackendRedis:
		rb, err := session.NewRedisBackend(ctx, session.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			IdleTTL:  cfg.IdleTTL,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("session backend ready", "backend", "redis", "addr", cfg.Redis.Addr)
		return rb, &httpserver.ReadyCheck{Name: "sessions", Check: rb.Ping}, nil, nil

	default:
		mb := session.NewMemoryBackend(cfg.IdleTTL)
		sweep := func(ctx context.Context) {
			mb.RunSweeper(ctx, cfg.SweepInterval, func(live int) {
				metrics.SetSessionsActive(float64(live))
			})
		}
		log.Info("session backend ready", "backend", "memory", "idle_ttl", cfg.IdleTTL.String())
		return mb, nil, []func(context.Context){sweep}, nil
	}
}

func pruneLimiter(ctx context.Context, l *httpserver.RateLimiter, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Prune()
		}
	}
}
