// Package version reports build metadata injected at link time.
package version

import "runtime/debug"

// Set via -ldflags "-X github.com/rshade/uvwizard/pkg/version.version=...".
//
//nolint:gochecknoglobals // Link-time injection requires package variables.
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the release version, falling back to the module
// version recorded by `go install` when no ldflags were given.
func GetVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}
