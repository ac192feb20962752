// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "fmt"

// Set at build time via ldflags, e.g.
// -X github.com/olegiv/portal-go/internal/version.Version=v1.2.3
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string // Short git commit hash (e.g., "abc1234")
	BuildTime string // Build timestamp in RFC3339 format
}

// Get returns the version information of the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}
}

// String formats the info the way -version prints it.
func (i Info) String() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", v, orUnknown(i.GitCommit), orUnknown(i.BuildTime))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
