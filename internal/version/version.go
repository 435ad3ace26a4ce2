// Package version holds build metadata injected via ldflags.
package version

// Set at build time:
//
//	-X github.com/calyptra/retrievex/internal/version.Version=...
//	-X github.com/calyptra/retrievex/internal/version.Commit=...
var (
	Version = "dev"
	Commit  = "none"
)
