package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time with -ldflags "-X github.com/kbukum/docclient/version.Version=...".
var (
	Version   = "dev"
	GitCommit = ""
	GitBranch = ""
	BuildTime = ""
	GoVersion = ""
)

// Info describes the running binary.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit"`
	GitBranch string    `json:"git_branch"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"build_date"`
	IsRelease bool      `json:"is_release"`
	IsDirty   bool      `json:"is_dirty"`
}

// GetVersionInfo combines the linker-set variables with the VCS stamps the
// go tool embeds. Linker values win.
func GetVersionInfo() *Info {
	bi, _ := debug.ReadBuildInfo()
	return collect(bi)
}

func collect(bi *debug.BuildInfo) *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
		GoVersion: GoVersion,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}
	info.BuildDate, _ = time.Parse(time.RFC3339, BuildTime)

	if bi != nil {
		if info.GoVersion == "" {
			info.GoVersion = bi.GoVersion
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = shortHash(s.Value)
				}
			case "vcs.modified":
				info.IsDirty = s.Value == "true"
			case "vcs.time":
				if info.BuildDate.IsZero() {
					info.BuildDate, _ = time.Parse(time.RFC3339, s.Value)
				}
			}
		}
	}
	return info
}

func shortHash(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// Short is the version with the commit appended, e.g. "1.4.0-abc1234-dirty".
func (i *Info) Short() string {
	if i.GitCommit == "" {
		return i.Version
	}
	s := i.Version + "-" + i.GitCommit
	if i.IsDirty {
		s += "-dirty"
	}
	return s
}

// Full adds a non-default branch and the build date to Short.
func (i *Info) Full() string {
	s := i.Short()
	if i.GitCommit == "" && i.IsDirty {
		s += "-dirty"
	}
	if i.GitBranch != "" && i.GitBranch != "main" && i.GitBranch != "master" {
		s += " [" + i.GitBranch + "]"
	}
	if !i.BuildDate.IsZero() {
		s += " (built " + i.BuildDate.UTC().Format(time.RFC3339) + ")"
	}
	return s
}

// UserAgent returns a User-Agent header value such as
// "docfetch/1.4.0 (abc1234; go1.26.0)".
func (i *Info) UserAgent(product string) string {
	var details []string
	for _, d := range []string{i.GitCommit, i.GoVersion} {
		if d != "" {
			details = append(details, d)
		}
	}
	if len(details) == 0 {
		return product + "/" + i.Version
	}
	return fmt.Sprintf("%s/%s (%s)", product, i.Version, strings.Join(details, "; "))
}

// GetShortVersion returns GetVersionInfo().Short().
func GetShortVersion() string { return GetVersionInfo().Short() }

// GetFullVersion returns GetVersionInfo().Full().
func GetFullVersion() string { return GetVersionInfo().Full() }

// UserAgent returns GetVersionInfo().UserAgent(product).
func UserAgent(product string) string { return GetVersionInfo().UserAgent(product) }
