// Package version carries build metadata injected at link time, e.g.
//
//	go build -ldflags "-X github.com/quinox/confsync/internal/version.Version=v1.2.0"
package version

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
