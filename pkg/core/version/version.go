// ============================================================================
// hl7view - HL7 v2 Message Inspector
// ============================================================================
//
// Package:     version
// Description: Central version information, overridable at link time
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Application version
	Application = "1.0.0"

	// ReportSchema versions the fixed report layout
	ReportSchema = "1"
)

// Set via -ldflags "-X github.com/msto63/hl7view/pkg/core/version.Commit=..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info bundles version data for display
type Info struct {
	Version      string `json:"version"`
	ReportSchema string `json:"report_schema"`
	Commit       string `json:"commit"`
	BuildDate    string `json:"build_date"`
	GoVersion    string `json:"go_version"`
	Platform     string `json:"platform"`
}

// Get returns the current version info
func Get() Info {
	return Info{
		Version:      Application,
		ReportSchema: ReportSchema,
		Commit:       Commit,
		BuildDate:    BuildDate,
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the info on one line
func (i Info) String() string {
	return fmt.Sprintf("hl7view %s (report schema %s, commit %s, built %s, %s %s)",
		i.Version, i.ReportSchema, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}
