// Package build houses the version of conformance-report.
package build

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Version contains the current semantic version of conformance-report.
const Version = "0.4.0"

// FullVersion returns the maximally full version and build information for
// the currently running binary.
func FullVersion() string {
	goVersionArch := fmt.Sprintf("%s, %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return fmt.Sprintf("%s (%s)", Version, goVersionArch)
	}

	var commit string
	var dirty bool
	for _, s := range buildInfo.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
			if len(commit) > 10 {
				commit = commit[:10]
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if commit == "" {
		return fmt.Sprintf("%s (%s)", Version, goVersionArch)
	}
	if dirty {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (commit/%s, %s)", Version, strings.TrimSpace(commit), goVersionArch)
}
