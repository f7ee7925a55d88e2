// ============================================================================
// rdtrace - Recursive Descent Expression Tracer
// ============================================================================
//
// Package:     version
// Description: Central version information for the CLI, API and REPL
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Build information, overridden via -ldflags "-X ..."
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Component versions
const (
	// Trace output format. Bumped whenever the text trace changes.
	TraceFormat = "1"

	// HTTP API
	API = "v1"
)

// Info bundles the version details reported by `rdtrace version` and the
// health endpoint
type Info struct {
	Version     string `json:"version" yaml:"version"`
	GitCommit   string `json:"git_commit" yaml:"git_commit"`
	BuildDate   string `json:"build_date" yaml:"build_date"`
	GoVersion   string `json:"go_version" yaml:"go_version"`
	Platform    string `json:"platform" yaml:"platform"`
	TraceFormat string `json:"trace_format" yaml:"trace_format"`
	API         string `json:"api" yaml:"api"`
}

// Get returns the current build information
func Get() Info {
	return Info{
		Version:     Version,
		GitCommit:   GitCommit,
		BuildDate:   BuildDate,
		GoVersion:   runtime.Version(),
		Platform:    fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		TraceFormat: TraceFormat,
		API:         API,
	}
}

// String returns a one-line summary
func (i Info) String() string {
	return fmt.Sprintf("rdtrace %s (commit %s, built %s, %s %s)",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}
