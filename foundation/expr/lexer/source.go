// File: source.go
// Title: Character Source
// Description: Pulls characters one at a time from an io.Reader and
//              classifies each one as letter, digit, other or end of input.
//              Tracks the position of the current character for
//              diagnostics.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial implementation

package lexer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// CharClass is the lexical category of a single character
type CharClass int

const (
	ClassLetter CharClass = iota // A-Z, a-z
	ClassDigit                   // 0-9
	ClassOther                   // everything else, including non-ASCII letters
	ClassEOF                     // end of input
)

// String returns the class name
func (c CharClass) String() string {
	switch c {
	case ClassLetter:
		return "LETTER"
	case ClassDigit:
		return "DIGIT"
	case ClassOther:
		return "UNKNOWN"
	case ClassEOF:
		return "EOF"
	default:
		return fmt.Sprintf("CharClass(%d)", int(c))
	}
}

// Classify returns the class of r. Only ASCII letters and digits count.
func Classify(r rune) CharClass {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return ClassLetter
	case r >= '0' && r <= '9':
		return ClassDigit
	default:
		return ClassOther
	}
}

// Position locates a character in the input. Offset counts runes from zero,
// Line and Column are 1-based.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String returns "line:column"
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Source holds the current character and its class
type Source struct {
	reader  io.RuneReader
	current rune
	class   CharClass
	pos     Position // position of current
	next    Position // position of the next character to be read
	started bool
	err     error
}

// NewSource creates a source reading from r. Nothing is read until the
// first call to Next.
func NewSource(r io.Reader) *Source {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}
	return &Source{
		reader: rr,
		class:  ClassEOF,
		next:   Position{Offset: 0, Line: 1, Column: 1},
	}
}

// Next advances to the next character and returns it with its class.
// Once the end of input is reached every further call returns ClassEOF.
func (s *Source) Next() (rune, CharClass) {
	s.started = true
	s.pos = s.next

	if s.err != nil {
		s.current, s.class = 0, ClassEOF
		return s.current, s.class
	}

	r, _, err := s.reader.ReadRune()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		s.current, s.class = 0, ClassEOF
		return s.current, s.class
	}

	s.current, s.class = r, Classify(r)
	s.next.Offset++
	if r == '\n' {
		s.next.Line++
		s.next.Column = 1
	} else {
		s.next.Column++
	}
	return s.current, s.class
}

// Current returns the character most recently read
func (s *Source) Current() rune {
	return s.current
}

// Class returns the class of the current character
func (s *Source) Class() CharClass {
	return s.class
}

// Pos returns the position of the current character
func (s *Source) Pos() Position {
	return s.pos
}

// Started reports whether Next has been called at least once
func (s *Source) Started() bool {
	return s.started
}

// Err returns the read error that ended the input early, if any.
// Reaching io.EOF is not an error.
func (s *Source) Err() error {
	return s.err
}
