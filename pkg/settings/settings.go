// Package settings provides build metadata and the per-run settings shared
// by the pickup commands.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "pickup"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the settings for a single execution: logging, colour and
// whether the run owns the terminal (interactive TUI) or prints once and exits.
type Run struct {
	MinLogLevel int8
	LogFile     string
	Interactive bool
	NoColor     bool
	// Piped is set when stdout is not a terminal.
	Piped bool
}

// NewRun returns the defaults: info level, no log file, interactive, colour on.
func NewRun() *Run {
	return &Run{Interactive: true}
}

// Plain reports whether output must be written without ANSI styling.
func (r *Run) Plain() bool {
	return r != nil && (r.NoColor || r.Piped)
}
