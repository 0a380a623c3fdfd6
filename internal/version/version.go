// Package version carries build information set with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/loekvdlooilionx/votejam/internal/version.Version=v1.2.0"
package version

import "fmt"

// These are populated at build time.
var (
	Version    = "devel"
	CommitHash = ""
)

// GetVersionString returns the version with the commit, when known.
func GetVersionString() string {
	if CommitHash == "" {
		return Version
	}
	return fmt.Sprintf("%s (commit %s)", Version, CommitHash)
}
