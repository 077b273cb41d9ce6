// Package buildinfo exposes the portal's build information.
//
// Version, Commit and BuildTime are injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/dms-portal/internal/infra/buildinfo.Version=v1.0.0"
//
// GoVersion and, when no commit was injected, the VCS revision are read
// from the binary's embedded module information.
package buildinfo
