// Package version reports the release version of selectors along with the VCS metadata the Go toolchain embeds in
// the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Release values may be overridden with -ldflags "-X". Empty VCS values are filled from the embedded build info.
var (
	// Version is the semantic version of the release.
	Version = "0.1.0"
	// GitCommit is the commit hash the binary was built from.
	GitCommit = ""
	// GitCommitTime is the RFC 3339 timestamp of that commit.
	GitCommitTime = ""
	// GitTreeDirty is "true" when the working tree had uncommitted changes.
	GitTreeDirty = ""
)

// Info describes the build of the running binary.
type Info struct {
	Version       string
	GitCommit     string
	GitCommitTime string
	GitTreeDirty  bool
	GoVersion     string
}

func init() {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	settings := make(map[string]string, len(buildInfo.Settings))
	for _, setting := range buildInfo.Settings {
		settings[setting.Key] = setting.Value
	}
	GitCommit = firstNonEmpty(GitCommit, settings["vcs.revision"])
	GitCommitTime = firstNonEmpty(GitCommitTime, settings["vcs.time"])
	GitTreeDirty = firstNonEmpty(GitTreeDirty, settings["vcs.modified"])
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// GetInfo returns the build information of the running binary.
func GetInfo() Info {
	return Info{
		Version:       Version,
		GitCommit:     GitCommit,
		GitCommitTime: GitCommitTime,
		GitTreeDirty:  GitTreeDirty == "true",
		GoVersion:     runtime.Version(),
	}
}

// ShortCommit returns the abbreviated commit hash.
func (i Info) ShortCommit() string {
	if len(i.GitCommit) > 7 {
		return i.GitCommit[:7]
	}
	return i.GitCommit
}

// commitLabel returns the abbreviated commit hash, marked when the tree was dirty.
func (i Info) commitLabel() string {
	if i.GitTreeDirty {
		return i.ShortCommit() + "-dirty"
	}
	return i.ShortCommit()
}

// FormattedTime returns the commit time for display, or "unknown" when it was not recorded.
func (i Info) FormattedTime() string {
	if i.GitCommitTime == "" {
		return "unknown"
	}
	commitTime, err := time.Parse(time.RFC3339, i.GitCommitTime)
	if err != nil {
		return i.GitCommitTime
	}
	return commitTime.Format("2006-01-02 15:04:05 MST")
}

// String returns the multi-line output of the version command.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "selectors version %s\n", i.Version)
	if i.GitCommit != "" {
		fmt.Fprintf(&sb, "  Commit:     %s\n", i.commitLabel())
	}
	if i.GitCommitTime != "" {
		fmt.Fprintf(&sb, "  Built:      %s\n", i.FormattedTime())
	}
	fmt.Fprintf(&sb, "  Go version: %s\n", i.GoVersion)
	return sb.String()
}

// Short returns the single-line version printed by --version.
func (i Info) Short() string {
	if i.GitCommit == "" {
		return i.Version
	}
	return i.Version + "+" + i.commitLabel()
}
