// File: engine_test.go
// Title: Expression Trace Driver Tests
// Description: Tests for the top-level loop in both modes, termination on
//              stray tokens, inline diagnostics and the fatal error paths.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial test suite

package expr

import (
	"errors"
	"io"
	"strings"
	"testing"

	rdterror "github.com/msto63/rdtrace/foundation/core/error"
	rdtlog "github.com/msto63/rdtrace/foundation/core/log"
	"github.com/msto63/rdtrace/foundation/expr/diag"
	"github.com/msto63/rdtrace/foundation/expr/lexer"
	"github.com/msto63/rdtrace/foundation/expr/trace"
)

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func quiet(opts Options) Options {
	opts.Logger = rdtlog.NewNop()
	return opts
}

func codes(ds []diag.Diagnostic) []rdterror.Code {
	out := make([]rdterror.Code, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}
	return out
}

func TestTraceString_Standard(t *testing.T) {
	out, result, err := TraceString("a + b", quiet(Options{}))
	if err != nil {
		t.Fatalf("TraceString: %v", err)
	}

	want := lines(
		"[expr",
		"   [term",
		"      [factor",
		"         [id [a]]",
		"      ]",
		"   ]",
		"   [+]",
		"   [term",
		"      [factor",
		"         [id [b]]",
		"      ]",
		"   ]",
		"]",
	)
	if out != want {
		t.Errorf("trace mismatch\ngot:\n%s\nwant:\n%s", out, want)
	}
	if result.Expressions != 1 || result.Tokens != 4 || result.HasDiagnostics() {
		t.Errorf("result = %+v", result)
	}
}

func TestRun_Standard(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expressions int
		codes       []rdterror.Code
	}{
		{"Empty input", "", 0, nil},
		{"Whitespace only", "  \n\t", 0, nil},
		{"Two expressions", "a b", 2, nil},
		{"Expressions on separate lines", "a + 1\n(b * 2)\nc\n", 3, nil},
		{"Leading close paren", ") a", 2, []rdterror.Code{rdterror.CodeUnexpectedToken, rdterror.CodeStrayToken}},
		{"Unknown symbol", "a $ b", 3, []rdterror.Code{rdterror.CodeUnknownSymbol, rdterror.CodeUnexpectedToken, rdterror.CodeStrayToken}},
		{"Assignment is not an operator", "x = 1", 3, []rdterror.Code{rdterror.CodeUnexpectedToken, rdterror.CodeStrayToken}},
		{"Missing close paren", "(a+b", 1, []rdterror.Code{rdterror.CodeMissingCloseParen}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := trace.NewTextRenderer(io.Discard)
			result, err := Run(strings.NewReader(tt.input), r, quiet(Options{}))
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if result.Expressions != tt.expressions {
				t.Errorf("Expressions = %d, want %d", result.Expressions, tt.expressions)
			}
			got := codes(result.Diagnostics)
			if len(got) != len(tt.codes) {
				t.Fatalf("codes = %v, want %v", got, tt.codes)
			}
			for i := range got {
				if got[i] != tt.codes[i] {
					t.Errorf("code %d = %s, want %s", i, got[i], tt.codes[i])
				}
			}
			if r.Depth() != 0 {
				t.Errorf("depth = %d after run", r.Depth())
			}
		})
	}
}

func TestRun_StrayTokensTerminate(t *testing.T) {
	input := strings.Repeat(")", 500) + " a"
	result, err := Run(strings.NewReader(input), trace.Discard, quiet(Options{}))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(result.Diagnostics); got != 1000 {
		t.Errorf("diagnostics = %d, want 1000", got)
	}
	if result.Expressions != 501 {
		t.Errorf("Expressions = %d, want 501", result.Expressions)
	}
}

func TestRun_Compat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Leftover token is skipped",
			input: "a b",
			want: lines(
				"[expr",
				"   [term",
				"      [factor",
				"         [id [a]]",
				"      ]",
				"   ]",
				"]",
				"[expr",
				"   [term",
				"ERROR: Unexpected token in factor",
				"      ]",
				"   ]",
				"]",
			),
		},
		{
			name:  "Empty input",
			input: "",
			want: lines(
				"[expr",
				"   [term",
				"ERROR: Unexpected token in factor",
				"      ]",
				"   ]",
				"]",
			),
		},
		{
			name:  "Unknown symbol ends the input",
			input: "a $ b",
			want: lines(
				"[expr",
				"   [term",
				"      [factor",
				"         [id [a]]",
				"      ]",
				"   ]",
				"]",
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := TraceString(tt.input, quiet(Options{Mode: lexer.ModeCompat, InlineDiagnostics: true}))
			if err != nil {
				t.Fatalf("TraceString: %v", err)
			}
			if out != tt.want {
				t.Errorf("trace mismatch\ngot:\n%s\nwant:\n%s", out, tt.want)
			}
		})
	}
}

func TestRun_CompatLexemeTooLong(t *testing.T) {
	out, result, err := TraceString(strings.Repeat("x", 100), quiet(Options{Mode: lexer.ModeCompat, InlineDiagnostics: true}))
	if err != nil {
		t.Fatalf("TraceString: %v", err)
	}
	if n := strings.Count(out, "Error - lexeme is too long \n"); n != 2 {
		t.Errorf("overflow lines = %d, want 2\n%s", n, out)
	}
	if len(result.Diagnostics) != 2 {
		t.Errorf("diagnostics = %d", len(result.Diagnostics))
	}
}

func TestRun_InlineStandard(t *testing.T) {
	out, _, err := TraceString("(a", quiet(Options{InlineDiagnostics: true}))
	if err != nil {
		t.Fatalf("TraceString: %v", err)
	}
	want := "ERROR: 1:3: MISSING_CLOSE_PAREN: expected ')' but found end of input\n"
	if !strings.Contains(out, want) {
		t.Errorf("inline diagnostic missing:\n%s", out)
	}
}

func TestRun_ExternalReporter(t *testing.T) {
	c := diag.NewCollector()
	result, err := Run(strings.NewReader("a +"), trace.Discard, quiet(Options{Reporter: c}))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.Len() != len(result.Diagnostics) || c.Len() != 1 {
		t.Errorf("reporter got %d, result has %d", c.Len(), len(result.Diagnostics))
	}
}

func TestRun_MaxDepth(t *testing.T) {
	input := strings.Repeat("(", 40) + "a" + strings.Repeat(")", 40)
	result, err := Run(strings.NewReader(input), trace.Discard, quiet(Options{MaxDepth: 8}))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	found := false
	for _, d := range result.Diagnostics {
		if d.Code == rdterror.CodeNestingTooDeep {
			found = true
		}
	}
	if !found {
		t.Errorf("NESTING_TOO_DEEP not reported: %v", codes(result.Diagnostics))
	}
}

type failingReader struct{ sent bool }

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "a + "), nil
	}
	return 0, errors.New("connection reset")
}

func TestRun_ReadError(t *testing.T) {
	result, err := Run(&failingReader{}, trace.Discard, quiet(Options{}))
	if err == nil {
		t.Fatal("expected error")
	}
	if !rdterror.HasCode(err, rdterror.CodeInputUnreadable) {
		t.Errorf("code = %s, want INPUT_UNREADABLE", rdterror.GetCode(err))
	}
	if result == nil || result.Expressions != 1 {
		t.Errorf("partial result = %+v", result)
	}
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("no space left on device")
}

func TestRun_WriteError(t *testing.T) {
	_, err := Run(strings.NewReader("a"), trace.NewTextRenderer(brokenWriter{}), quiet(Options{}))
	if !rdterror.HasCode(err, rdterror.CodeOutputFailed) {
		t.Errorf("err = %v, want OUTPUT_FAILED", err)
	}
}

func TestTokens(t *testing.T) {
	tokens, diags, err := Tokens(strings.NewReader("(sum + 47) / total"), Options{})
	if err != nil {
		t.Fatalf("Tokens: %v", err)
	}

	var dump []string
	for _, tok := range tokens {
		dump = append(dump, tok.Dump())
	}
	want := []string{
		"Next token is: 25, Next lexeme is (",
		"Next token is: 11, Next lexeme is sum",
		"Next token is: 21, Next lexeme is +",
		"Next token is: 10, Next lexeme is 47",
		"Next token is: 26, Next lexeme is )",
		"Next token is: 24, Next lexeme is /",
		"Next token is: 11, Next lexeme is total",
		"Next token is: -1, Next lexeme is EOF",
	}
	if strings.Join(dump, "\n") != strings.Join(want, "\n") {
		t.Errorf("dump mismatch\ngot:\n%s", strings.Join(dump, "\n"))
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v", diags)
	}
}
