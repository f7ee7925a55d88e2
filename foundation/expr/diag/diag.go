// File: diag.go
// Title: Lexer and Parser Diagnostics
// Description: Diagnostics are the non-fatal problems the lexer and parser
//              find in the traced input. They are reported where they are
//              detected and scanning or parsing continues.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial implementation

package diag

import (
	"fmt"
	"sync"

	rdterror "github.com/msto63/rdtrace/foundation/core/error"
	rdtlog "github.com/msto63/rdtrace/foundation/core/log"
)

// Diagnostic is one reported problem together with where it was found
type Diagnostic struct {
	Code    rdterror.Code `json:"code" yaml:"code"`
	Message string        `json:"message" yaml:"message"`
	Lexeme  string        `json:"lexeme,omitempty" yaml:"lexeme,omitempty"`
	Offset  int           `json:"offset" yaml:"offset"`
	Line    int           `json:"line" yaml:"line"`
	Column  int           `json:"column" yaml:"column"`
}

// String renders the diagnostic as "line:column: CODE: message"
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Code, d.Message)
}

// Err converts the diagnostic into a coded error
func (d Diagnostic) Err() *rdterror.Error {
	return rdterror.New(d.Message).
		WithCode(d.Code).
		WithDetails(map[string]interface{}{
			"lexeme": d.Lexeme,
			"offset": d.Offset,
			"line":   d.Line,
			"column": d.Column,
		})
}

// LegacyText returns the message the original front.c analyzer printed for
// the same condition. Codes it never reported get a generic ERROR line.
func (d Diagnostic) LegacyText() string {
	switch d.Code {
	case rdterror.CodeLexemeTooLong:
		return "Error - lexeme is too long "
	case rdterror.CodeMissingCloseParen:
		return "ERROR: Expected )"
	case rdterror.CodeUnexpectedToken:
		return "ERROR: Unexpected token in factor"
	default:
		return "ERROR: " + d.Message
	}
}

// Reporter receives diagnostics as they are found
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to the Reporter interface
type ReporterFunc func(d Diagnostic)

// Report calls f(d)
func (f ReporterFunc) Report(d Diagnostic) {
	f(d)
}

// Discard drops every diagnostic
var Discard Reporter = ReporterFunc(func(Diagnostic) {})

// Collector keeps every reported diagnostic in order
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// Report implements Reporter
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

// Diagnostics returns a copy of the collected diagnostics
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// Len returns the number of collected diagnostics
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diags)
}

// Count returns how many diagnostics with the given code were collected
func (c *Collector) Count(code rdterror.Code) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.diags {
		if d.Code == code {
			n++
		}
	}
	return n
}

// LogReporter writes each diagnostic as a warning
type LogReporter struct {
	logger *rdtlog.Logger
}

// NewLogReporter creates a reporter logging through logger
func NewLogReporter(logger *rdtlog.Logger) *LogReporter {
	if logger == nil {
		logger = rdtlog.GetDefault()
	}
	return &LogReporter{logger: logger}
}

// Report implements Reporter
func (r *LogReporter) Report(d Diagnostic) {
	r.logger.Warn(d.Message, rdtlog.Fields{
		"code":   d.Code.String(),
		"lexeme": d.Lexeme,
		"line":   d.Line,
		"column": d.Column,
	})
}

// Multi fans a diagnostic out to several reporters; nil entries are skipped
func Multi(reporters ...Reporter) Reporter {
	var active []Reporter
	for _, r := range reporters {
		if r != nil {
			active = append(active, r)
		}
	}
	if len(active) == 1 {
		return active[0]
	}
	return ReporterFunc(func(d Diagnostic) {
		for _, r := range active {
			r.Report(d)
		}
	})
}
