// Package parser recognises arithmetic expressions and emits their
// derivation as trace events.
//
// The grammar is
//
//	Expression := Term { ('+' | '-') Term }
//	Term       := Factor { ('*' | '/') Factor }
//	Factor     := Identifier | IntegerLiteral | '(' Expression ')'
//
// ParseExpression, ParseTerm and ParseFactor are mutually recursive and
// share the lexer's single lookahead token. Each one opens its rule in the
// trace on entry and closes it on every exit path, so the trace depth after
// a call equals the depth before it.
//
// Errors never stop the parser. A factor that does not start with an
// identifier, literal or '(' is reported as UNEXPECTED_TOKEN and the token
// is left for the caller; a missing ')' is reported as MISSING_CLOSE_PAREN.
//
// With Options.Mode set to lexer.ModeCompat the parser emits the legacy
// transcript shape instead, including its unbalanced closing brackets.
package parser
