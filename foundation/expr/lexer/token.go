// File: token.go
// Title: Token Model
// Description: Token kinds, tokens with their source positions, and the
//              scanning mode shared by lexer and parser. Kind values are the
//              numeric token codes printed by the token dump.
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
)

// Kind identifies the category of a token
type Kind int

const (
	EOF        Kind = -1
	IntLiteral Kind = 10
	Identifier Kind = 11
	AssignOp   Kind = 20
	AddOp      Kind = 21
	SubOp      Kind = 22
	MultOp     Kind = 23
	DivOp      Kind = 24
	LeftParen  Kind = 25
	RightParen Kind = 26
	Unknown    Kind = 99
)

// String returns the token code name
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case IntLiteral:
		return "INT_LIT"
	case Identifier:
		return "IDENT"
	case AssignOp:
		return "ASSIGN_OP"
	case AddOp:
		return "ADD_OP"
	case SubOp:
		return "SUB_OP"
	case MultOp:
		return "MULT_OP"
	case DivOp:
		return "DIV_OP"
	case LeftParen:
		return "LEFT_PAREN"
	case RightParen:
		return "RIGHT_PAREN"
	case Unknown:
		return "UNKNOWN"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Code returns the numeric token code
func (k Kind) Code() int {
	return int(k)
}

// IsAdditive reports whether k is '+' or '-'
func (k Kind) IsAdditive() bool {
	return k == AddOp || k == SubOp
}

// IsMultiplicative reports whether k is '*' or '/'
func (k Kind) IsMultiplicative() bool {
	return k == MultOp || k == DivOp
}

// Token is one classified lexeme
type Token struct {
	Kind   Kind   `json:"kind" yaml:"kind"`
	Lexeme string `json:"lexeme" yaml:"lexeme"`
	Offset int    `json:"offset" yaml:"offset"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

// Pos returns the position of the token's first character
func (t Token) Pos() Position {
	return Position{Offset: t.Offset, Line: t.Line, Column: t.Column}
}

// String returns KIND(lexeme)
func (t Token) String() string {
	if t.Kind == EOF && t.Lexeme == eofLexeme {
		return "EOF"
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Lexeme)
}

// Dump formats the token the way the token dump prints it
func (t Token) Dump() string {
	return fmt.Sprintf("Next token is: %d, Next lexeme is %s", t.Kind.Code(), t.Lexeme)
}

// Mode selects between the balanced trace and the byte-compatible legacy
// transcript
type Mode int

const (
	ModeStandard Mode = iota
	ModeCompat
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeCompat:
		return "compat"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name; the empty string selects ModeStandard
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "std":
		return ModeStandard, nil
	case "compat", "legacy":
		return ModeCompat, nil
	default:
		return ModeStandard, fmt.Errorf("unknown mode %q (want standard or compat)", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
