// Package config defines the portal configuration structure.
package config

import "strings"

// Sanitize returns a copy of the config with secrets masked.
//
// This is used for logging and printing the configuration.
func Sanitize(cfg *PortalConfig) *PortalConfig {
	sanitized := *cfg

	if sanitized.Session.CookieSecret != "" {
		sanitized.Session.CookieSecret = maskSecret(sanitized.Session.CookieSecret)
	}
	if sanitized.Session.Redis.Password != "" {
		sanitized.Session.Redis.Password = maskSecret(sanitized.Session.Redis.Password)
	}

	return &sanitized
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
