// Package version carries build metadata. The values are overridden with -ldflags at release time.
package version

import "fmt"

var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// UserAgent returns the User-Agent sent to mirrors.
func UserAgent() string {
	return fmt.Sprintf("wikidump/%s", Version)
}
