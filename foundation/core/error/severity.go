// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors so that diagnostics in the
//              traced input can be told apart from failures of the tool.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-12
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-12 v0.2.0: Severity mapping for lexer/parser codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow marks a diagnostic; the run continues.
	SeverityLow Severity = iota

	// SeverityMedium marks a problem that changes the produced trace.
	SeverityMedium

	// SeverityHigh marks a failed run.
	SeverityHigh

	// SeverityCritical marks an internal defect.
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

// IsFatal returns true if an error of this severity ends the run
func (s Severity) IsFatal() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical

	case CodeInputUnreadable, CodeOutputFailed,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig, CodeEnvironmentError:
		return SeverityHigh

	case CodeMissingCloseParen, CodeUnexpectedToken, CodeNestingTooDeep, CodeStrayToken:
		return SeverityMedium

	case CodeLexemeTooLong, CodeUnknownSymbol, CodeInvalidInput, CodeNotFound:
		return SeverityLow

	default:
		return SeverityMedium
	}
}
