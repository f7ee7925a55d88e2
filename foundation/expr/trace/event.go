// File: event.go
// Title: Trace Events
// Description: The events a parser emits while recognising rules. A Sink
//              consumes them; the text renderer turns them into the
//              bracketed, indented trace.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial implementation

package trace

import "fmt"

// Rule names as they appear in the trace
const (
	RuleExpr        = "expr"
	RuleTerm        = "term"
	RuleFactor      = "factor"
	RuleID          = "id"
	RuleIntConstant = "int_constant"
)

// EventKind identifies what an event does to the trace
type EventKind int

const (
	EventEnter      EventKind = iota // "[rule", one level deeper
	EventExit                        // one level up, "]"
	EventStrayExit                   // "]" without changing depth
	EventLeaf                        // "[rule [text]]"
	EventSymbol                      // "[text]"
	EventGroupOpen                   // "[(]", one level deeper
	EventGroupClose                  // one level up, "[)]"
	EventGroupAbort                  // one level up, nothing printed
	EventDiagnostic                  // unindented message line
)

// String returns the event kind name
func (k EventKind) String() string {
	switch k {
	case EventEnter:
		return "enter"
	case EventExit:
		return "exit"
	case EventStrayExit:
		return "stray_exit"
	case EventLeaf:
		return "leaf"
	case EventSymbol:
		return "symbol"
	case EventGroupOpen:
		return "group_open"
	case EventGroupClose:
		return "group_close"
	case EventGroupAbort:
		return "group_abort"
	case EventDiagnostic:
		return "diagnostic"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one step of a trace
type Event struct {
	Kind EventKind
	Rule string
	Text string
}

// String renders the event for debugging
func (e Event) String() string {
	switch e.Kind {
	case EventEnter:
		return "enter(" + e.Rule + ")"
	case EventLeaf:
		return fmt.Sprintf("leaf(%s %q)", e.Rule, e.Text)
	case EventSymbol, EventGroupOpen, EventGroupClose, EventDiagnostic:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Text)
	default:
		return e.Kind.String()
	}
}

// Enter opens rule one level deeper
func Enter(rule string) Event { return Event{Kind: EventEnter, Rule: rule} }

// Exit closes the innermost open rule
func Exit() Event { return Event{Kind: EventExit} }

// StrayExit prints a closing bracket without closing anything
func StrayExit() Event { return Event{Kind: EventStrayExit} }

// Leaf prints a terminal with its lexeme
func Leaf(rule, text string) Event { return Event{Kind: EventLeaf, Rule: rule, Text: text} }

// Symbol prints an operator
func Symbol(text string) Event { return Event{Kind: EventSymbol, Text: text} }

// GroupOpen prints an opening parenthesis and opens a level
func GroupOpen(text string) Event { return Event{Kind: EventGroupOpen, Text: text} }

// GroupClose closes the level and prints the closing parenthesis
func GroupClose(text string) Event { return Event{Kind: EventGroupClose, Text: text} }

// GroupAbort closes the level of a group that never saw its closing
// parenthesis
func GroupAbort() Event { return Event{Kind: EventGroupAbort} }

// Diagnostic writes message unindented into the trace
func Diagnostic(message string) Event { return Event{Kind: EventDiagnostic, Text: message} }

// Sink consumes trace events
type Sink interface {
	Emit(e Event)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(e Event)

// Emit calls f(e)
func (f SinkFunc) Emit(e Event) {
	f(e)
}

// Discard drops every event
var Discard Sink = SinkFunc(func(Event) {})
