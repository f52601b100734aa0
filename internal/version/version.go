// Package version exposes the build version, overridable at link time via
// -ldflags "-X github.com/avanderwijk/lotkeeper/internal/version.Version=...".
package version

// Version is the application version string.
var Version = "dev"
