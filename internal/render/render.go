// ============================================================================
// rdtrace - Recursive Descent Expression Tracer
// ============================================================================
//
// Package:     render
// Description: Output formats for traces: plain text, styled terminal text,
//              and JSON or YAML derivation trees
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package render

import (
	"fmt"
	"io"
	"strings"

	rdttrace "github.com/msto63/rdtrace/foundation/expr/trace"
)

// Format selects how a trace is written
type Format string

const (
	FormatText   Format = "text"
	FormatStyled Format = "styled"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
)

// Formats lists every supported format
var Formats = []Format{FormatText, FormatStyled, FormatJSON, FormatYAML}

// ParseFormat parses a format name; the empty string selects text
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatStyled, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return FormatText, fmt.Errorf("unknown format %q (want text, styled, json or yaml)", s)
	}
}

// IsTree reports whether the format writes a derivation tree instead of
// line-by-line output
func (f Format) IsTree() bool {
	return f == FormatJSON || f == FormatYAML
}

// NewSink returns a sink writing to w in the given format and a finish
// function that must be called once the run is over. Text formats write as
// events arrive; tree formats write the whole tree on finish. finish
// returns the first write error.
func NewSink(w io.Writer, format Format, indent string) (rdttrace.Sink, func() error) {
	if indent == "" {
		indent = rdttrace.DefaultIndent
	}

	switch format {
	case FormatStyled:
		r := NewStyledRenderer(w).WithIndent(indent)
		return r, r.Err
	case FormatJSON, FormatYAML:
		b := &rdttrace.TreeBuilder{}
		return b, func() error {
			if format == FormatJSON {
				return rdttrace.WriteJSON(w, b.Tree())
			}
			return rdttrace.WriteYAML(w, b.Tree())
		}
	default:
		r := rdttrace.NewTextRenderer(w).WithIndent(indent)
		return r, r.Err
	}
}

// Events writes recorded events to w in the given format
func Events(w io.Writer, format Format, events []rdttrace.Event, indent string) error {
	sink, finish := NewSink(w, format, indent)
	for _, e := range events {
		sink.Emit(e)
	}
	return finish()
}

// String renders recorded events in the given format
func String(format Format, events []rdttrace.Event, indent string) (string, error) {
	var sb strings.Builder
	err := Events(&sb, format, events, indent)
	return sb.String(), err
}
