// File: severity.go
// Title: Error Severity Levels
// Description: Severity levels for errors, used by the logger to pick a
//              log level when an error is reported.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2025-10-02 v0.2.0: Severity mapping for HL7 codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates bad user input such as an empty message or a malformed path
	SeverityLow Severity = iota

	// SeverityMedium indicates an error with a workaround, e.g. an unreadable mapping file
	SeverityMedium

	// SeverityHigh indicates the tool cannot start, e.g. broken configuration
	SeverityHigh

	// SeverityCritical indicates an internal invariant was violated
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return SeverityHigh
	case CodeMappingRead, CodeIOError, CodeUnknownLocale:
		return SeverityMedium
	case CodeEmptyMessage, CodeInvalidPath, CodeInvalidInput, CodeNotFound:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
