// Package logger provides structured logging for the DMS portal.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, JSON/text handlers and the dynamic level
//   - context.go: request-scoped loggers carrying request and tab IDs
//   - redact.go: masking of backend tokens, passwords and cookies
//
// The level is process-wide so a config reload can change it at runtime.
package logger
