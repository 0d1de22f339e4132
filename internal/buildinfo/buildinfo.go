// Package buildinfo holds version information injected at build time via ldflags.
package buildinfo

var (
	Version    = "0.1.0"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)
