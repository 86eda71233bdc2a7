// Package buildinfo carries the identifiers stamped into tzface binaries.
package buildinfo

import "log/slog"

// Set at build time, e.g.
//
//	go build -ldflags "-X tzface/internal/buildinfo.Version=v1.2.0"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the release tag, else the commit, else "dev".
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// Attr groups the build identifiers for structured logs.
func Attr() slog.Attr {
	return slog.Group("build",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("date", Date),
	)
}
