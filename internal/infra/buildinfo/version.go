package buildinfo

import (
	"runtime"
	"runtime/debug"
)

// Build-time variables (set via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info contains build information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "unknown" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.BuildTime == "unknown" {
					info.BuildTime = s.Value
				}
			}
		}
	}
	return info
}

// String returns a formatted version string.
func String() string {
	i := Get()
	return i.Version + " (" + i.Commit + ") built at " + i.BuildTime + " with " + i.GoVersion
}
