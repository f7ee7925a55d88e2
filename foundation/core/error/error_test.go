// File: error_test.go
// Title: Error Module Tests
// Description: Tests for error creation, wrapping, codes, severity and
//              JSON encoding.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-12
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive test coverage
// - 2026-10-12 v0.2.0: Cases for diagnostic codes and errors.As lookups

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("cannot open input")

	if err.Error() != "cannot open input" {
		t.Errorf("Error() = %q, want %q", err.Error(), "cannot open input")
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should not be zero")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		message  string
		wantNil  bool
		wantMsg  string
		wantCode Code
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			message: "context",
			wantNil: true,
		},
		{
			name:     "wrap standard error",
			err:      errors.New("permission denied"),
			message:  "cannot read expression input",
			wantMsg:  "cannot read expression input: permission denied",
			wantCode: CodeUnknown,
		},
		{
			name:     "wrap coded error keeps code",
			err:      New("bad port").WithCode(CodeInvalidConfig),
			message:  "config rejected",
			wantMsg:  "config rejected: bad port",
			wantCode: CodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, tt.message)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("Wrap() = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got.Error(), tt.wantMsg)
			}
			if got.Code() != tt.wantCode {
				t.Errorf("Code() = %v, want %v", got.Code(), tt.wantCode)
			}
			if !errors.Is(got, tt.err) {
				t.Error("errors.Is should find the wrapped cause")
			}
		})
	}
}

func TestWithCodeSetsSeverity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeLexemeTooLong, SeverityLow},
		{CodeUnknownSymbol, SeverityLow},
		{CodeMissingCloseParen, SeverityMedium},
		{CodeUnexpectedToken, SeverityMedium},
		{CodeInputUnreadable, SeverityHigh},
		{CodeInternal, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New("x").WithCode(tt.code)
			if err.Severity() != tt.want {
				t.Errorf("Severity() = %v, want %v", err.Severity(), tt.want)
			}
		})
	}

	err := New("x").WithCode(CodeStrayToken).WithSeverity(SeverityLow)
	if err.Severity() != SeverityLow {
		t.Errorf("WithSeverity should override, got %v", err.Severity())
	}
}

func TestDetailsAreCopied(t *testing.T) {
	err := New("x").WithDetail("line", 3).WithDetails(map[string]interface{}{"column": 7})

	details := err.Details()
	if details["line"] != 3 || details["column"] != 7 {
		t.Fatalf("Details() = %v", details)
	}

	details["line"] = 99
	if err.Details()["line"] != 3 {
		t.Error("Details() must return a copy")
	}
}

func TestHasCodeAndGetCode(t *testing.T) {
	inner := New("no such file").WithCode(CodeInputUnreadable)
	outer := fmt.Errorf("trace command: %w", Wrap(inner, "open input").WithCode(CodeInvalidInput))

	if !HasCode(outer, CodeInvalidInput) {
		t.Error("HasCode should find the outer code through fmt wrapping")
	}
	if !HasCode(outer, CodeInputUnreadable) {
		t.Error("HasCode should find the inner code in the chain")
	}
	if HasCode(outer, CodeOutputFailed) {
		t.Error("HasCode should not match an absent code")
	}
	if HasCode(errors.New("plain"), CodeUnknown) {
		t.Error("HasCode should be false for plain errors")
	}
	if GetCode(outer) != CodeInvalidInput {
		t.Errorf("GetCode() = %v, want %v", GetCode(outer), CodeInvalidInput)
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("GetCode() of a plain error should be CodeUnknown")
	}
	if GetSeverity(errors.New("plain")) != SeverityMedium {
		t.Error("GetSeverity() of a plain error should be SeverityMedium")
	}
}

func TestMarshalJSON(t *testing.T) {
	err := Wrap(errors.New("EOF"), "read failed").
		WithCode(CodeInputUnreadable).
		WithOperation("trace").
		WithDetail("path", "front.in")

	data, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("Marshal() error = %v", marshalErr)
	}

	var decoded map[string]interface{}
	if jsonErr := json.Unmarshal(data, &decoded); jsonErr != nil {
		t.Fatalf("Unmarshal() error = %v", jsonErr)
	}

	if decoded["code"] != string(CodeInputUnreadable) {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["severity"] != "high" {
		t.Errorf("severity = %v", decoded["severity"])
	}
	if decoded["operation"] != "trace" {
		t.Errorf("operation = %v", decoded["operation"])
	}
	if decoded["cause"] != "EOF" {
		t.Errorf("cause = %v", decoded["cause"])
	}
}

func TestString(t *testing.T) {
	err := New("bad indent").WithCode(CodeInvalidConfig).WithDetail("b", 2).WithDetail("a", 1)
	s := err.String()

	for _, want := range []string{"Error: bad indent", "Code: INVALID_CONFIG", "Severity: high", "Details: {a=1, b=2}"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q in:\n%s", want, s)
		}
	}
}
