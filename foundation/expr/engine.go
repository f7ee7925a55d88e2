// File: engine.go
// Title: Expression Trace Driver
// Description: Wires source, lexer, parser and diagnostics together and runs
//              the top-level loop that traces every expression in the
//              input.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial driver implementation

package expr

import (
	"fmt"
	"io"
	"strings"

	rdterror "github.com/msto63/rdtrace/foundation/core/error"
	rdtlog "github.com/msto63/rdtrace/foundation/core/log"
	"github.com/msto63/rdtrace/foundation/expr/diag"
	"github.com/msto63/rdtrace/foundation/expr/lexer"
	"github.com/msto63/rdtrace/foundation/expr/parser"
	"github.com/msto63/rdtrace/foundation/expr/trace"
)

// Options configures a trace run
type Options struct {
	Mode            lexer.Mode
	MaxDepth        int    // maximum parenthesis nesting, 0 means unlimited
	MaxLexemeLength int    // 0 selects lexer.DefaultMaxLexemeLength
	Indent          string // used by TraceString, "" selects trace.DefaultIndent

	// Reporter receives every diagnostic in addition to Result.Diagnostics
	Reporter diag.Reporter

	// InlineDiagnostics writes each diagnostic into the trace as an
	// unindented line. In compat mode the legacy message texts are used.
	InlineDiagnostics bool

	Logger *rdtlog.Logger
}

// Result summarises a trace run
type Result struct {
	Expressions int               `json:"expressions" yaml:"expressions"`
	Tokens      int               `json:"tokens" yaml:"tokens"`
	MaxDepth    int               `json:"max_depth" yaml:"max_depth"`
	Stats       parser.Stats      `json:"stats" yaml:"stats"`
	Diagnostics []diag.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// HasDiagnostics reports whether anything was reported
func (r *Result) HasDiagnostics() bool {
	return len(r.Diagnostics) > 0
}

// Run traces every expression in src and sends the events to sink.
//
// In standard mode the first token is pulled once and each top-level
// expression starts at the token the previous one stopped at. A token no
// expression can start with is reported as STRAY_TOKEN and skipped. In
// compat mode a fresh token is pulled before every top-level expression,
// as the legacy driver did.
//
// The returned error is non-nil only when the input could not be read or
// the sink reports a write failure through an Err() error method; the
// Result is returned in both cases.
func Run(src io.Reader, sink trace.Sink, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = rdtlog.GetDefault()
	}
	if sink == nil {
		sink = trace.Discard
	}
	logger := opts.Logger.WithField("component", "expr-engine")

	collector := diag.NewCollector()
	reporters := []diag.Reporter{collector, opts.Reporter}
	if opts.InlineDiagnostics {
		reporters = append(reporters, inlineReporter(sink, opts.Mode))
	}
	reporter := diag.Multi(reporters...)

	lx := lexer.New(lexer.NewSource(src), lexer.Options{
		Mode:            opts.Mode,
		Reporter:        reporter,
		MaxLexemeLength: opts.MaxLexemeLength,
	})
	p := parser.New(lx, sink, parser.Options{
		Mode:     opts.Mode,
		Reporter: reporter,
		MaxDepth: opts.MaxDepth,
		Logger:   opts.Logger,
	})

	logger.Debug("Starting trace", rdtlog.Fields{
		"mode":     opts.Mode.String(),
		"maxDepth": opts.MaxDepth,
	})

	expressions := 0
	if opts.Mode == lexer.ModeCompat {
		for {
			lx.Next()
			p.ParseExpression()
			expressions++
			if lx.Current().Kind == lexer.EOF {
				break
			}
		}
	} else {
		lx.Next()
		for lx.Current().Kind != lexer.EOF {
			before := lx.Count()
			p.ParseExpression()
			expressions++

			if lx.Count() == before {
				tok := lx.Current()
				reporter.Report(diag.Diagnostic{
					Code:    rdterror.CodeStrayToken,
					Message: fmt.Sprintf("skipping stray token %q", tok.Lexeme),
					Lexeme:  tok.Lexeme,
					Offset:  tok.Offset,
					Line:    tok.Line,
					Column:  tok.Column,
				})
				lx.Next()
			}
		}
	}

	stats := p.Stats()
	result := &Result{
		Expressions: expressions,
		Tokens:      lx.Count(),
		MaxDepth:    stats.MaxDepth,
		Stats:       stats,
		Diagnostics: collector.Diagnostics(),
	}

	logger.Debug("Trace completed", rdtlog.Fields{
		"expressions": result.Expressions,
		"tokens":      result.Tokens,
		"diagnostics": len(result.Diagnostics),
	})

	if err := lx.Err(); err != nil {
		return result, rdterror.Wrap(err, "failed to read input").
			WithCode(rdterror.CodeInputUnreadable).
			WithOperation("expr.Run")
	}
	if es, ok := sink.(interface{ Err() error }); ok && es.Err() != nil {
		return result, rdterror.Wrap(es.Err(), "failed to write trace").
			WithCode(rdterror.CodeOutputFailed).
			WithOperation("expr.Run")
	}
	return result, nil
}

// TraceString traces input and returns the text trace
func TraceString(input string, opts Options) (string, *Result, error) {
	indent := opts.Indent
	if indent == "" {
		indent = trace.DefaultIndent
	}

	var sb strings.Builder
	renderer := trace.NewTextRenderer(&sb).WithIndent(indent)
	result, err := Run(strings.NewReader(input), renderer, opts)
	return sb.String(), result, err
}

// Tokens scans src to the end and returns every token, including the
// terminating EOF token, together with the lexical diagnostics
func Tokens(src io.Reader, opts Options) ([]lexer.Token, []diag.Diagnostic, error) {
	collector := diag.NewCollector()
	lx := lexer.New(lexer.NewSource(src), lexer.Options{
		Mode:            opts.Mode,
		Reporter:        diag.Multi(collector, opts.Reporter),
		MaxLexemeLength: opts.MaxLexemeLength,
	})

	tokens := lx.Tokenize()
	if err := lx.Err(); err != nil {
		return tokens, collector.Diagnostics(), rdterror.Wrap(err, "failed to read input").
			WithCode(rdterror.CodeInputUnreadable).
			WithOperation("expr.Tokens")
	}
	return tokens, collector.Diagnostics(), nil
}

func inlineReporter(sink trace.Sink, mode lexer.Mode) diag.Reporter {
	return diag.ReporterFunc(func(d diag.Diagnostic) {
		text := "ERROR: " + d.String()
		if mode == lexer.ModeCompat {
			text = d.LegacyText()
		}
		sink.Emit(trace.Diagnostic(text))
	})
}
