package version

import (
	"fmt"
	"runtime"
)

var (
	GitVersion    = "dev"
	BuildMetadata = ""
	GitCommit     = ""
	GitTreeState  = ""
)

func GetVersion() string {
	if BuildMetadata != "" {
		return fmt.Sprintf("%s+%s", GitVersion, BuildMetadata)
	}
	return GitVersion
}

func GetVersionInfo() map[string]string {
	return map[string]string{
		"version":      GetVersion(),
		"gitCommit":    GitCommit,
		"gitTreeState": GitTreeState,
		"goVersion":    runtime.Version(),
		"platform":     fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String is the one-line form printed by --version.
func String() string {
	info := GetVersionInfo()
	s := fmt.Sprintf("Azure Data MCP Server version %s (%s, %s)", info["version"], info["goVersion"], info["platform"])
	if GitCommit != "" {
		s += fmt.Sprintf(" commit %s", GitCommit)
		if GitTreeState != "" {
			s += fmt.Sprintf(" (%s)", GitTreeState)
		}
	}
	return s
}
