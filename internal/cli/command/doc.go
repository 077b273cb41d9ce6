// Package command defines the dms-portal command line.
//
//   - root.go: application, global flags, config loading
//   - serve.go: the serve command and process lifecycle
//   - stack.go: wiring of sessions, backend client, views and router
//   - version.go: build information
//   - config.go: printing and checking the effective configuration
package command
