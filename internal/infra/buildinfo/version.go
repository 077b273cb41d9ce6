package buildinfo

import (
	"runtime/debug"
	"sync"
)

// Build-time variables (set via ldflags).
var (
	// Version is the semantic version.
	Version = "dev"

	// Commit is the git commit hash.
	Commit = "unknown"

	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// Info contains build information.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildTime string `json:"build_time" yaml:"build_time"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Modified  bool   `json:"modified,omitempty" yaml:"modified,omitempty"`
}

var (
	embedded     Info
	embeddedOnce sync.Once
)

// readEmbedded collects what the toolchain recorded in the binary.
func readEmbedded() Info {
	embeddedOnce.Do(func() {
		embedded.GoVersion = "unknown"
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		embedded.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				embedded.Commit = s.Value
			case "vcs.time":
				embedded.BuildTime = s.Value
			case "vcs.modified":
				embedded.Modified = s.Value == "true"
			}
		}
	})
	return embedded
}

// Get returns the build information.
// ldflags values win over the embedded VCS stamp.
func Get() Info {
	e := readEmbedded()
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: e.GoVersion,
		Modified:  e.Modified,
	}
	if info.Commit == "unknown" && e.Commit != "" {
		info.Commit = e.Commit
	}
	if info.BuildTime == "unknown" && e.BuildTime != "" {
		info.BuildTime = e.BuildTime
	}
	return info
}

// String returns a formatted version string.
func String() string {
	info := Get()
	return info.Version + " (" + info.Commit + ") built at " + info.BuildTime
}

// UserAgent is the User-Agent the portal sends to the backend.
func UserAgent() string {
	return "dms-portal/" + Version
}
