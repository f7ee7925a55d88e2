// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used by rdtrace. Diagnostic codes
//              classify problems found in the input expression; the remaining
//              codes classify fatal setup, configuration and output failures.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-12
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-12 v0.2.0: Replaced platform codes with lexer/parser diagnostics

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"

	// Lexical diagnostics
	CodeLexemeTooLong Code = "LEXEME_TOO_LONG"
	CodeUnknownSymbol Code = "UNKNOWN_SYMBOL"

	// Syntax diagnostics
	CodeMissingCloseParen Code = "MISSING_CLOSE_PAREN"
	CodeUnexpectedToken   Code = "UNEXPECTED_TOKEN"
	CodeNestingTooDeep    Code = "NESTING_TOO_DEEP"
	CodeStrayToken        Code = "STRAY_TOKEN"

	// Input and output
	CodeInputUnreadable Code = "INPUT_UNREADABLE"
	CodeOutputFailed    Code = "OUTPUT_FAILED"

	// Configuration and environment
	CodeConfigError      Code = "CONFIG_ERROR"
	CodeMissingConfig    Code = "MISSING_CONFIG"
	CodeInvalidConfig    Code = "INVALID_CONFIG"
	CodeEnvironmentError Code = "ENVIRONMENT_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeInvalidInput, CodeNotFound,
		CodeLexemeTooLong, CodeUnknownSymbol,
		CodeMissingCloseParen, CodeUnexpectedToken, CodeNestingTooDeep, CodeStrayToken,
		CodeInputUnreadable, CodeOutputFailed,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig, CodeEnvironmentError:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeLexemeTooLong, CodeUnknownSymbol:
		return "lexical"
	case CodeMissingCloseParen, CodeUnexpectedToken, CodeNestingTooDeep, CodeStrayToken:
		return "syntax"
	case CodeInputUnreadable, CodeOutputFailed:
		return "io"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig, CodeEnvironmentError:
		return "configuration"
	default:
		return "generic"
	}
}

// IsDiagnostic reports whether the code describes a recoverable problem in
// the traced input rather than a failure of the tool itself.
func (c Code) IsDiagnostic() bool {
	switch c.Category() {
	case "lexical", "syntax":
		return true
	default:
		return false
	}
}
