// Package version provides the echolysis tool version.
package version

// Version is the echolysis tool version.
// Can be overridden at build time with:
//   go build -ldflags "-X github.com/ingo-eichhorst/echolysis/pkg/version.Version=2.0.1"
var Version = "dev"
