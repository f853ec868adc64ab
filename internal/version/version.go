// Package version holds build information for the proofline CLI.
package version

import (
	"fmt"

	"github.com/fatih/color"
)

// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var versionColor = color.New(color.FgGreen, color.Bold)

// String renders the version line shown by `proofline version`
func String() string {
	s := "proofline " + versionColor.Sprint("v"+Version)
	if GitCommit != "" {
		s += fmt.Sprintf(" (%s)", GitCommit)
	}
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}
