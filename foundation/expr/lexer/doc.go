// Package lexer splits arithmetic expression text into tokens.
//
// A Source reads one character at a time and classifies it. A Lexer groups
// those characters into tokens:
//
//	identifier   letter { letter | digit }
//	int literal  digit { digit }
//	operators    + - * / =
//	parentheses  ( )
//
// Whitespace separates tokens and is otherwise ignored. Letters and digits
// are ASCII only.
//
// The lexer keeps exactly one lookahead token. Current returns it and Next
// replaces it with the next token from the input:
//
//	lx := lexer.NewString("sum + 47", lexer.DefaultOptions())
//	for tok := lx.Next(); tok.Kind != lexer.EOF; tok = lx.Next() {
//		fmt.Println(tok.Dump())
//	}
//
// Problems found while scanning, such as an unknown symbol or a lexeme
// longer than the buffer, are sent to the configured diag.Reporter and
// scanning continues.
//
// In ModeCompat the lexer reproduces the legacy analyzer: any symbol that is
// not an operator or parenthesis, '=' included, is returned as an EOF token
// carrying the symbol as lexeme, and nothing is reported.
package lexer
