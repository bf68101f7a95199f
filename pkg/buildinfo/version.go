// Package buildinfo exposes the version stamped into wikicollage binaries.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/matzehuels/wikicollage/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/wikicollage/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the short git SHA the binary was built from.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

// UserAgent returns the User-Agent sent to the MediaWiki API.
// Wikimedia asks API clients to identify themselves with a contact URL.
func UserAgent() string {
	return fmt.Sprintf("wikicollage/%s (+https://github.com/matzehuels/wikicollage)", Version)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
