package render

import (
	"io"
	"strings"

	rdttrace "github.com/msto63/rdtrace/foundation/expr/trace"
	"github.com/msto63/rdtrace/internal/tui"
)

// StyledRenderer writes the text trace with lipgloss colors. Without the
// escape sequences its output is identical to the plain text renderer.
type StyledRenderer struct {
	w      io.Writer
	indent string
	depth  int
	err    error
}

// NewStyledRenderer creates a styled renderer writing to w
func NewStyledRenderer(w io.Writer) *StyledRenderer {
	return &StyledRenderer{w: w, indent: rdttrace.DefaultIndent}
}

// WithIndent sets the per-level indentation
func (r *StyledRenderer) WithIndent(indent string) *StyledRenderer {
	r.indent = indent
	return r
}

// Emit implements trace.Sink
func (r *StyledRenderer) Emit(e rdttrace.Event) {
	switch e.Kind {
	case rdttrace.EventEnter:
		r.line(tui.RuleStyle.Render("[" + e.Rule))
		r.depth++
	case rdttrace.EventExit:
		r.dedent()
		r.line(tui.BracketStyle.Render("]"))
	case rdttrace.EventStrayExit:
		r.line(tui.BracketStyle.Render("]"))
	case rdttrace.EventLeaf:
		r.line("[" + tui.LeafRuleStyle.Render(e.Rule) + " [" + tui.LexemeStyle.Render(e.Text) + "]]")
	case rdttrace.EventSymbol:
		r.line(tui.SymbolStyle.Render("[" + e.Text + "]"))
	case rdttrace.EventGroupOpen:
		r.line(tui.SymbolStyle.Render("[" + e.Text + "]"))
		r.depth++
	case rdttrace.EventGroupClose:
		r.dedent()
		r.line(tui.SymbolStyle.Render("[" + e.Text + "]"))
	case rdttrace.EventGroupAbort:
		r.dedent()
	case rdttrace.EventDiagnostic:
		r.write(tui.DiagnosticStyle.Render(e.Text))
	}
}

// Depth returns the current depth
func (r *StyledRenderer) Depth() int {
	return r.depth
}

// Err returns the first write error
func (r *StyledRenderer) Err() error {
	return r.err
}

func (r *StyledRenderer) dedent() {
	if r.depth > 0 {
		r.depth--
	}
}

func (r *StyledRenderer) line(text string) {
	r.write(strings.Repeat(r.indent, r.depth) + text)
}

func (r *StyledRenderer) write(s string) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.w, s+"\n")
}
