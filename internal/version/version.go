package version

import (
	"fmt"
	"runtime"
)

// Product name printed by the CLI and the API.
const Product = "Futures Grid Calculator"

// Build information. Populated at build-time via ldflags:
//
//	-X frizo/futures_grid/internal/version.Version=v1.2.0
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains all the build-time information.
type BuildInfo struct {
	Product   string `json:"product" yaml:"product"`
	Version   string `json:"version" yaml:"version"`
	BuildTime string `json:"build_time" yaml:"build_time"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// Get returns the build information.
func Get() BuildInfo {
	return BuildInfo{
		Product:   Product,
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
		GoVersion: GoVersion,
	}
}

// String returns a multi-line description for `version`.
func String() string {
	info := Get()
	return fmt.Sprintf("%s %s\nBuild Time: %s\nGit Commit: %s\nGo Version: %s",
		info.Product, Short(), info.BuildTime, info.GitCommit, info.GoVersion)
}

// Short returns the version with an abbreviated commit when known.
func Short() string {
	if GitCommit != "unknown" && len(GitCommit) > 7 {
		return fmt.Sprintf("%s (%s)", Version, GitCommit[:7])
	}
	return Version
}
