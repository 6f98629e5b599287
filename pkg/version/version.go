// Package version exposes the build metadata of gptcopy.
package version

import (
	"fmt"
	"runtime"
)

// Build metadata, set with -ldflags "-X gptcopy/pkg/version.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info is the build metadata plus the runtime it was built with.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string // GOOS/GOARCH
}

// Get collects the current build metadata.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Short is the --version line, e.g. "gptcopy, version 1.2.3".
func (i Info) Short() string {
	return fmt.Sprintf("gptcopy, version %s", i.Version)
}

// String is the line printed by the version subcommand.
func (i Info) String() string {
	return fmt.Sprintf("gptcopy version %s (commit: %s) built at %s with %s on %s",
		i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
