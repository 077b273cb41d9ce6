// Package config defines the portal configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultBackendURL     = "http://127.0.0.1:5000"
	DefaultBackendTimeout = 30 * time.Second

	DefaultCookieName    = "dms_tab"
	DefaultIdleTTL       = 12 * time.Hour
	DefaultSweepInterval = time.Minute
	DefaultRedisAddr     = "127.0.0.1:6379"
	DefaultRedisPrefix   = "dms:tab:"

	DefaultRateLimitRPS   = 20
	DefaultRateLimitBurst = 40

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default portal configuration.
// The cookie secret has no default and must be supplied.
func Default() *PortalConfig {
	return &PortalConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				ReadTimeout:     DefaultReadTimeout,
				WriteTimeout:    DefaultWriteTimeout,
				ShutdownTimeout: DefaultShutdownTimeout,
			},
		},
		Backend: BackendSection{
			BaseURL: DefaultBackendURL,
			Timeout: DefaultBackendTimeout,
		},
		Session: SessionSection{
			Backend:       SessionBackendMemory,
			CookieName:    DefaultCookieName,
			IdleTTL:       DefaultIdleTTL,
			SweepInterval: DefaultSweepInterval,
			Redis: RedisConfig{
				Addr:   DefaultRedisAddr,
				Prefix: DefaultRedisPrefix,
			},
		},
		RateLimit: RateLimitSection{
			RPS:   DefaultRateLimitRPS,
			Burst: DefaultRateLimitBurst,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
