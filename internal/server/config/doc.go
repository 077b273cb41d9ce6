// Package config provides the dms-portal configuration.
//
// This package defines the configuration structure and validation:
//
//   - spec.go: PortalConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (addresses, backend URL, session store, log)
//   - sanitize.go: Masking of secrets for logs and `config print`
//
// Configuration is loaded via internal/infra/confloader from a YAML file
// and DMS_ environment variables.
package config
