// Package version holds the build version of the service.
package version

// Version is the current service version. Overridden at build time via
// -ldflags "-X pkgstats/internal/version.Version=x.y.z".
var Version = "1.0.0"
