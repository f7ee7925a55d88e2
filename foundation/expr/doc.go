// Package expr traces the recursive descent derivation of arithmetic
// expressions.
//
// Run is the entry point. It reads characters from an io.Reader, tokenizes
// them, parses every expression in the input and sends trace events to a
// trace.Sink. A TextRenderer sink produces the bracketed trace:
//
//	out, result, err := expr.TraceString("(sum + 47) / total", expr.Options{})
//
// Diagnostics never abort a run. They are collected in Result.Diagnostics,
// forwarded to Options.Reporter and, with Options.InlineDiagnostics, written
// into the trace itself.
//
// The subpackages hold the pieces: lexer (characters to tokens), parser
// (tokens to trace events), trace (events to text or a derivation tree) and
// diag (diagnostic reporting).
package expr
