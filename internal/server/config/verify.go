// Package config defines the portal configuration structure.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
)

// MinCookieSecretLen is the shortest accepted session.cookie_secret.
const MinCookieSecretLen = 16

// Verify validates the configuration.
func Verify(cfg *PortalConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyBackend(&cfg.Backend); err != nil {
		return err
	}
	if err := verifySession(&cfg.Session); err != nil {
		return err
	}
	if err := verifyRateLimit(&cfg.RateLimit); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	h := cfg.HTTP
	if h.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if _, _, err := net.SplitHostPort(h.Addr); err != nil {
		return fmt.Errorf("server.http.addr: %w", err)
	}
	if (h.TLSCertFile == "") != (h.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	for _, f := range []string{h.TLSCertFile, h.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("server.http TLS file: %w", err)
		}
	}
	if h.ReadTimeout < 0 || h.WriteTimeout < 0 || h.ShutdownTimeout < 0 {
		return errors.New("server.http timeouts must not be negative")
	}
	return nil
}

func verifyBackend(cfg *BackendSection) error {
	if cfg.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("backend.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("backend.base_url must be an http or https URL")
	}
	if u.Host == "" {
		return errors.New("backend.base_url has no host")
	}
	if cfg.Timeout < 0 {
		return errors.New("backend.timeout must not be negative")
	}
	return nil
}

func verifySession(cfg *SessionSection) error {
	switch cfg.Backend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if cfg.Redis.Addr == "" {
			return errors.New("session.redis.addr is required for the redis backend")
		}
		if cfg.Redis.DB < 0 {
			return errors.New("session.redis.db must not be negative")
		}
	default:
		return fmt.Errorf("session.backend must be %q or %q, got %q", SessionBackendMemory, SessionBackendRedis, cfg.Backend)
	}
	if len(cfg.CookieSecret) < MinCookieSecretLen {
		return fmt.Errorf("session.cookie_secret must be at least %d characters", MinCookieSecretLen)
	}
	if cfg.CookieName == "" || strings.ContainsAny(cfg.CookieName, " ;,=") {
		return errors.New("session.cookie_name must be a plain token")
	}
	if cfg.IdleTTL <= 0 {
		return errors.New("session.idle_ttl must be positive")
	}
	return nil
}

func verifyRateLimit(cfg *RateLimitSection) error {
	if cfg.RPS < 0 {
		return errors.New("ratelimit.rps must not be negative")
	}
	if cfg.RPS > 0 && cfg.Burst < 1 {
		return errors.New("ratelimit.burst must be at least 1 when rate limiting is enabled")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q is not json or text", cfg.Format)
	}
	return nil
}
