// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across hl7view. Codes classify
//              the few failures that are allowed to surface to a caller.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2025-10-02 v0.2.0: HL7 message, path and mapping codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// HL7 processing
	CodeEmptyMessage  Code = "HL7_EMPTY_MESSAGE"
	CodeInvalidPath   Code = "HL7_INVALID_PATH"
	CodeMappingRead   Code = "HL7_MAPPING_READ"
	CodeUnknownLocale Code = "HL7_UNKNOWN_LOCALE"

	// Configuration and environment
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"
	CodeIOError       Code = "IO_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeEmptyMessage, CodeInvalidPath, CodeMappingRead, CodeUnknownLocale,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig, CodeIOError:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeEmptyMessage, CodeInvalidPath:
		return "hl7"
	case CodeMappingRead:
		return "mapping"
	case CodeUnknownLocale:
		return "i18n"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	case CodeIOError:
		return "io"
	default:
		return "generic"
	}
}

// ExitCode returns the process exit status the CLI uses for this code
func (c Code) ExitCode() int {
	switch c {
	case CodeEmptyMessage, CodeInvalidPath, CodeInvalidInput:
		return 2
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return 3
	case CodeIOError, CodeMappingRead, CodeNotFound:
		return 4
	default:
		return 1
	}
}
