// File: codes_test.go
// Title: Error Code Tests
// Description: Tests for code validation and categorisation.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-12
//
// Change History:
// - 2025-01-24 v0.1.0: Initial code tests
// - 2026-10-12 v0.2.0: Lexical and syntax categories

package error

import "testing"

func TestCode_Category(t *testing.T) {
	tests := []struct {
		code       Code
		category   string
		diagnostic bool
	}{
		{CodeLexemeTooLong, "lexical", true},
		{CodeUnknownSymbol, "lexical", true},
		{CodeMissingCloseParen, "syntax", true},
		{CodeUnexpectedToken, "syntax", true},
		{CodeNestingTooDeep, "syntax", true},
		{CodeStrayToken, "syntax", true},
		{CodeInputUnreadable, "io", false},
		{CodeInvalidConfig, "configuration", false},
		{CodeInternal, "generic", false},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if !tt.code.IsValid() {
				t.Errorf("%s should be valid", tt.code)
			}
			if got := tt.code.Category(); got != tt.category {
				t.Errorf("Category() = %q, want %q", got, tt.category)
			}
			if got := tt.code.IsDiagnostic(); got != tt.diagnostic {
				t.Errorf("IsDiagnostic() = %v, want %v", got, tt.diagnostic)
			}
		})
	}

	if Code("SOMETHING_ELSE").IsValid() {
		t.Error("unknown code should not be valid")
	}
}

func TestSeverity_IsFatal(t *testing.T) {
	if SeverityLow.IsFatal() || SeverityMedium.IsFatal() {
		t.Error("low and medium severities must not be fatal")
	}
	if !SeverityHigh.IsFatal() || !SeverityCritical.IsFatal() {
		t.Error("high and critical severities must be fatal")
	}
	if Severity(42).String() != "unknown" {
		t.Errorf("String() of out-of-range severity = %q", Severity(42).String())
	}
}
