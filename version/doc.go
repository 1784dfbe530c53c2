// Package version reports build information for docclient binaries.
//
// Version, git commit, branch and build time are set at compile time
// via -ldflags, falling back to the VCS stamp Go embeds:
//
//	go build -ldflags "-X github.com/kbukum/docclient/version.Version=1.0.0" ./cmd/docfetch
//
// UserAgent formats the same data for the HTTP User-Agent header.
package version
