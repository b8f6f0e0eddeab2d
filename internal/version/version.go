// Package version exposes build metadata set via ldflags.
package version

// Set at build time:
//
//	go build -ldflags "-X github.com/pixelfolio/api/internal/version.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "none"
)
