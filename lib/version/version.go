// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// These variables are set via -ldflags at build time. Values left at
// "unknown" are filled from the VCS stamp Go embeds in the binary.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// Build describes the binary.
type Build struct {
	Version   string
	Commit    string
	Dirty     bool
	BuildTime string
	GoVersion string
	Platform  string
}

var stamp = sync.OnceValue(func() Build {
	build := Build{
		Version:   Version,
		Commit:    GitCommit,
		Dirty:     GitDirty == "true",
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return build
	}
	return fromSettings(build, info.Settings)
})

// fromSettings fills fields the linker left unset from vcs.* build
// settings.
func fromSettings(build Build, settings []debug.BuildSetting) Build {
	injected := build.Commit != "unknown"
	for _, setting := range settings {
		if injected {
			break
		}
		switch setting.Key {
		case "vcs.revision":
			build.Commit = setting.Value
			if len(build.Commit) > 12 {
				build.Commit = build.Commit[:12]
			}
		case "vcs.modified":
			build.Dirty = setting.Value == "true"
		case "vcs.time":
			if build.BuildTime == "unknown" {
				build.BuildTime = setting.Value
			}
		}
	}
	return build
}

// Current returns the build description of the running binary.
func Current() Build { return stamp() }

// Info returns a formatted version string suitable for --version output.
func Info() string { return stamp().String() }

func (b Build) String() string {
	dirty := ""
	if b.Dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", b.Version, b.Commit, dirty, b.BuildTime)
}

// Full returns detailed version information including Go version.
func Full() string {
	build := stamp()
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s", build, build.GoVersion, build.Platform)
}

// Short returns just the version number.
func Short() string {
	return Version
}
