// Package version exposes the build-time version stamp.
package version

import "strings"

// Version is set via ldflags at build time:
// -ldflags "-X sharpgen/internal/version.Version=x.y.z"
var Version = ""

// String returns the version set at build time, or "0.0.1-dev" for
// development builds.
func String() string {
	if Version == "" {
		return "0.0.1-dev"
	}
	return strings.TrimPrefix(Version, "v")
}
