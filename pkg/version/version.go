// Package version provides version information for the botconfig tool.
package version

import (
	"fmt"
	"runtime"
)

// Name is the binary name reported in version output.
const Name = "botconfig"

var (
	// Version is the current version of botconfig.
	// This is set during build time via ldflags.
	Version = "dev"

	// BuildTime is the time when the binary was built.
	// This is set during build time via ldflags.
	BuildTime = "unknown"

	// Commit is the git commit SHA that the binary was built from.
	// This is set during build time via ldflags.
	Commit = "unknown"
)

// ShortCommit returns the commit SHA truncated to eight characters.
func ShortCommit() string {
	if len(Commit) > 8 {
		return Commit[:8]
	}
	return Commit
}

// Info returns version information as a formatted string.
func Info() string {
	return fmt.Sprintf("%s %s (%s) - %s %s/%s",
		Name,
		Version,
		ShortCommit(),
		BuildTime,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// Map returns version information as a map.
func Map() map[string]string {
	return map[string]string{
		"name":      Name,
		"version":   Version,
		"commit":    Commit,
		"buildTime": BuildTime,
		"goVersion": runtime.Version(),
		"os":        runtime.GOOS,
		"arch":      runtime.GOARCH,
	}
}
