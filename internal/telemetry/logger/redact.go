package logger

import (
	"log/slog"
	"strings"
)

// bearerPrefix is the Authorization scheme the DMS backend accepts.
const bearerPrefix = "Bearer "

// backendTokenLen is the length of a DMS backend session token (32 random bytes, hex).
const backendTokenLen = 64

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"credential",
	"authorization",
	"cookie",
	"bearer",
}

const redactedValue = "***REDACTED***"

// redactSensitive masks attributes that carry credentials.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()

		// Value shape takes priority over key name.
		if strings.HasPrefix(strVal, bearerPrefix) {
			return slog.String(a.Key, maskValue(strVal, bearerPrefix))
		}
		if isBackendToken(strVal) {
			return slog.String(a.Key, maskValue(strVal, ""))
		}

		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// maskValue partially masks a sensitive value, keeping prefix and hints.
// Format: prefix + first 3 chars + "..." + last 3 chars
func maskValue(value, prefix string) string {
	body := value[len(prefix):]
	if len(body) <= 8 {
		return prefix + "***"
	}
	return prefix + body[:3] + "..." + body[len(body)-3:]
}

func isBackendToken(s string) bool {
	if len(s) != backendTokenLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

// RedactString masks value when it looks like a credential.
func RedactString(value string) string {
	if strings.HasPrefix(value, bearerPrefix) {
		return maskValue(value, bearerPrefix)
	}
	if isBackendToken(value) {
		return maskValue(value, "")
	}
	return value
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
