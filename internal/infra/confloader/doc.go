// Package confloader provides configuration loading mechanism.
//
// This package loads the portal configuration with koanf:
//
//   - YAML file (file provider + yaml parser)
//   - Optional dotenv file, exported into the process environment
//   - DMS_ environment variables, "__" between sections
//   - Overrides from command-line flags
//
// Priority (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Default values
//
// Watcher reports changes to the configuration file so the log level can
// be adjusted without a restart.
package confloader
