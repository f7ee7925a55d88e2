// File: text.go
// Title: Text Trace Renderer
// Description: Writes trace events as the bracketed text trace, one line per
//              event, indented by the current depth.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial implementation

package trace

import (
	"io"
	"strings"
)

// DefaultIndent is the indentation added per depth level
const DefaultIndent = "   "

// TextRenderer owns the trace depth and writes each event as one line.
// The first write error stops all further output and is kept in Err.
type TextRenderer struct {
	w      io.Writer
	indent string
	depth  int
	lines  int
	err    error
	buf    strings.Builder
}

// NewTextRenderer creates a renderer writing to w with DefaultIndent
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w, indent: DefaultIndent}
}

// WithIndent sets the per-level indentation
func (r *TextRenderer) WithIndent(indent string) *TextRenderer {
	r.indent = indent
	return r
}

// Emit implements Sink
func (r *TextRenderer) Emit(e Event) {
	switch e.Kind {
	case EventEnter:
		r.line("[" + e.Rule)
		r.depth++
	case EventExit:
		r.dedent()
		r.line("]")
	case EventStrayExit:
		r.line("]")
	case EventLeaf:
		r.line("[" + e.Rule + " [" + e.Text + "]]")
	case EventSymbol:
		r.line("[" + e.Text + "]")
	case EventGroupOpen:
		r.line("[" + e.Text + "]")
		r.depth++
	case EventGroupClose:
		r.dedent()
		r.line("[" + e.Text + "]")
	case EventGroupAbort:
		r.dedent()
	case EventDiagnostic:
		r.raw(e.Text)
	}
}

// Depth returns the current depth
func (r *TextRenderer) Depth() int {
	return r.depth
}

// Lines returns the number of lines written
func (r *TextRenderer) Lines() int {
	return r.lines
}

// Err returns the first write error
func (r *TextRenderer) Err() error {
	return r.err
}

func (r *TextRenderer) dedent() {
	if r.depth > 0 {
		r.depth--
	}
}

func (r *TextRenderer) line(text string) {
	r.buf.Reset()
	for i := 0; i < r.depth; i++ {
		r.buf.WriteString(r.indent)
	}
	r.buf.WriteString(text)
	r.write(r.buf.String())
}

func (r *TextRenderer) raw(text string) {
	r.write(text)
}

func (r *TextRenderer) write(s string) {
	if r.err != nil {
		return
	}
	if _, err := io.WriteString(r.w, s+"\n"); err != nil {
		r.err = err
		return
	}
	r.lines++
}

// Render returns the text trace of events using indent per level
func Render(events []Event, indent string) string {
	var sb strings.Builder
	r := NewTextRenderer(&sb).WithIndent(indent)
	for _, e := range events {
		r.Emit(e)
	}
	return sb.String()
}
