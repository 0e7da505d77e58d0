package buildinfo

import "runtime"

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
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information. GoVersion is the running toolchain.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String returns a formatted version string.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + BuildTime + ")"
}

// LogFields returns the build information as slog key/value pairs.
func (i Info) LogFields() []any {
	return []any{
		"version", i.Version,
		"commit", i.Commit,
		"build_time", i.BuildTime,
		"go_version", i.GoVersion,
	}
}
