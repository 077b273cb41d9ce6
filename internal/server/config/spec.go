// Package config defines the portal configuration structure.
package config

import "time"

// PortalConfig is the root configuration for dms-portal.
type PortalConfig struct {
	Server    ServerSection    `koanf:"server" yaml:"server"`
	Backend   BackendSection   `koanf:"backend" yaml:"backend"`
	Session   SessionSection   `koanf:"session" yaml:"session"`
	RateLimit RateLimitSection `koanf:"ratelimit" yaml:"ratelimit"`
	Log       LogSection       `koanf:"log" yaml:"log"`
}

// ServerSection configures the portal's listeners.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http" yaml:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr            string        `koanf:"addr" yaml:"addr"`
	TLSCertFile     string        `koanf:"tls_cert_file" yaml:"tls_cert_file"`
	TLSKeyFile      string        `koanf:"tls_key_file" yaml:"tls_key_file"`
	ReadTimeout     time.Duration `koanf:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// TLSEnabled reports whether both TLS files are configured.
func (h HTTPConfig) TLSEnabled() bool {
	return h.TLSCertFile != "" && h.TLSKeyFile != ""
}

// BackendSection configures the data mining backend the portal talks to.
type BackendSection struct {
	BaseURL string `koanf:"base_url" yaml:"base_url"`

	// AuthScheme is prepended to the token in the Authorization header.
	// Empty sends the raw token.
	AuthScheme string        `koanf:"auth_scheme" yaml:"auth_scheme"`
	Timeout    time.Duration `koanf:"timeout" yaml:"timeout"`
}

// Session store kinds.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// SessionSection configures tab session storage and the tab cookie.
type SessionSection struct {
	Backend       string        `koanf:"backend" yaml:"backend"`
	CookieName    string        `koanf:"cookie_name" yaml:"cookie_name"`
	CookieSecret  string        `koanf:"cookie_secret" yaml:"cookie_secret"`
	CookieSecure  bool          `koanf:"cookie_secure" yaml:"cookie_secure"`
	IdleTTL       time.Duration `koanf:"idle_ttl" yaml:"idle_ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval" yaml:"sweep_interval"`
	Redis         RedisConfig   `koanf:"redis" yaml:"redis"`
}

// RedisConfig configures the redis session backend.
type RedisConfig struct {
	Addr     string `koanf:"addr" yaml:"addr"`
	Password string `koanf:"password" yaml:"password"`
	DB       int    `koanf:"db" yaml:"db"`
	Prefix   string `koanf:"prefix" yaml:"prefix"`
}

// RateLimitSection configures per-client request limiting. RPS 0 disables it.
type RateLimitSection struct {
	RPS   float64 `koanf:"rps" yaml:"rps"`
	Burst int     `koanf:"burst" yaml:"burst"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}
