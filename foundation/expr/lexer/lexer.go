// File: lexer.go
// Title: Expression Tokenizer
// Description: Groups characters from a Source into identifier, integer
//              literal, operator and parenthesis tokens. The lexer keeps a
//              single lookahead token; the parser reads it with Current and
//              consumes it with Next.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial implementation

package lexer

import (
	"fmt"
	"strings"
	"unicode"

	rdterror "github.com/msto63/rdtrace/foundation/core/error"
	"github.com/msto63/rdtrace/foundation/expr/diag"
)

// DefaultMaxLexemeLength is the longest lexeme kept; further characters of
// the same token are dropped
const DefaultMaxLexemeLength = 98

const eofLexeme = "EOF"

// Options configures a Lexer
type Options struct {
	Mode            Mode
	Reporter        diag.Reporter
	MaxLexemeLength int
}

// DefaultOptions returns standard mode with the default lexeme bound
func DefaultOptions() Options {
	return Options{
		Mode:            ModeStandard,
		MaxLexemeLength: DefaultMaxLexemeLength,
	}
}

// lexemeBuffer accumulates the characters of the token being scanned
type lexemeBuffer struct {
	runes      []rune
	max        int
	overflowed bool
}

func (b *lexemeBuffer) reset() {
	b.runes = b.runes[:0]
	b.overflowed = false
}

// add appends r and reports whether it fit
func (b *lexemeBuffer) add(r rune) bool {
	if len(b.runes) >= b.max {
		return false
	}
	b.runes = append(b.runes, r)
	return true
}

func (b *lexemeBuffer) String() string {
	return string(b.runes)
}

// Lexer turns a character source into tokens
type Lexer struct {
	src      *Source
	opts     Options
	reporter diag.Reporter
	buf      lexemeBuffer
	current  Token
	count    int
}

// New creates a lexer over src. The source is primed with its first
// character if that has not happened yet.
func New(src *Source, opts Options) *Lexer {
	if opts.MaxLexemeLength <= 0 {
		opts.MaxLexemeLength = DefaultMaxLexemeLength
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.Discard
	}

	if !src.Started() {
		src.Next()
	}

	return &Lexer{
		src:      src,
		opts:     opts,
		reporter: reporter,
		buf:      lexemeBuffer{runes: make([]rune, 0, opts.MaxLexemeLength), max: opts.MaxLexemeLength},
		current:  Token{Kind: EOF, Lexeme: eofLexeme},
	}
}

// NewString is a shorthand for lexing an in-memory string
func NewString(input string, opts Options) *Lexer {
	return New(NewSource(strings.NewReader(input)), opts)
}

// Next scans the next token, stores it as the current token and returns it
func (l *Lexer) Next() Token {
	l.buf.reset()

	for l.src.Class() != ClassEOF && unicode.IsSpace(l.src.Current()) {
		l.src.Next()
	}

	start := l.src.Pos()
	var kind Kind

	switch l.src.Class() {
	case ClassLetter:
		l.addChar()
		l.src.Next()
		for l.src.Class() == ClassLetter || l.src.Class() == ClassDigit {
			l.addChar()
			l.src.Next()
		}
		kind = Identifier

	case ClassDigit:
		l.addChar()
		l.src.Next()
		for l.src.Class() == ClassDigit {
			l.addChar()
			l.src.Next()
		}
		kind = IntLiteral

	case ClassOther:
		kind = l.lookup(l.src.Current(), start)
		l.addChar()
		l.src.Next()

	case ClassEOF:
		kind = EOF
	}

	lexeme := l.buf.String()
	if kind == EOF && lexeme == "" {
		lexeme = eofLexeme
	}

	l.current = Token{
		Kind:   kind,
		Lexeme: lexeme,
		Offset: start.Offset,
		Line:   start.Line,
		Column: start.Column,
	}
	l.count++
	return l.current
}

// Current returns the lookahead token without consuming it
func (l *Lexer) Current() Token {
	return l.current
}

// Count returns how many tokens have been scanned, including EOF tokens
func (l *Lexer) Count() int {
	return l.count
}

// Mode returns the scanning mode
func (l *Lexer) Mode() Mode {
	return l.opts.Mode
}

// Err returns the read error of the underlying source, if any
func (l *Lexer) Err() error {
	return l.src.Err()
}

// Tokenize scans until end of input and returns every token including the
// terminating one
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens
		}
	}
}

// lookup maps a single-character symbol to its kind
func (l *Lexer) lookup(r rune, at Position) Kind {
	switch r {
	case '(':
		return LeftParen
	case ')':
		return RightParen
	case '+':
		return AddOp
	case '-':
		return SubOp
	case '*':
		return MultOp
	case '/':
		return DivOp
	}

	if l.opts.Mode == ModeCompat {
		return EOF
	}
	if r == '=' {
		return AssignOp
	}

	l.reporter.Report(diag.Diagnostic{
		Code:    rdterror.CodeUnknownSymbol,
		Message: fmt.Sprintf("unknown symbol %q", r),
		Lexeme:  string(r),
		Offset:  at.Offset,
		Line:    at.Line,
		Column:  at.Column,
	})
	return Unknown
}

// addChar appends the current character to the lexeme. Overflow is reported
// once per token, or once per dropped character in ModeCompat.
func (l *Lexer) addChar() {
	if l.buf.add(l.src.Current()) {
		return
	}
	if l.buf.overflowed && l.opts.Mode != ModeCompat {
		return
	}
	l.buf.overflowed = true

	pos := l.src.Pos()
	l.reporter.Report(diag.Diagnostic{
		Code:    rdterror.CodeLexemeTooLong,
		Message: fmt.Sprintf("lexeme exceeds %d characters", l.buf.max),
		Lexeme:  l.buf.String(),
		Offset:  pos.Offset,
		Line:    pos.Line,
		Column:  pos.Column,
	})
}
