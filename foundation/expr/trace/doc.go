// Package trace turns parser events into the bracketed derivation trace.
//
// The parser never formats output itself. It emits Events to a Sink:
//
//	Enter("expr")        [expr            depth+1
//	Leaf("id", "a")      [id [a]]
//	Symbol("+")          [+]
//	GroupOpen("(")       [(]              depth+1
//	GroupClose(")")      [)]              depth-1 first
//	Exit()               ]                depth-1 first
//
// TextRenderer owns the depth and writes one line per event with
// DefaultIndent (three spaces) per level. Diagnostic events are written
// unindented, which is how the legacy transcript embeds error messages.
//
// Recorder and Tee let a caller keep events and render them more than once,
// for example as text and as a derivation tree built with BuildTree.
package trace
