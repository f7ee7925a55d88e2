// File: parser.go
// Title: Expression Recursive Descent Parser
// Description: Recognises Expression, Term and Factor over the lexer's
//              lookahead token and emits one trace event per recognised
//              rule, operator and terminal. Problems are reported as
//              diagnostics and parsing continues.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial parser implementation

package parser

import (
	"fmt"

	rdterror "github.com/msto63/rdtrace/foundation/core/error"
	rdtlog "github.com/msto63/rdtrace/foundation/core/log"
	"github.com/msto63/rdtrace/foundation/expr/diag"
	"github.com/msto63/rdtrace/foundation/expr/lexer"
	"github.com/msto63/rdtrace/foundation/expr/trace"
)

// Options configures parser behavior
type Options struct {
	Mode     lexer.Mode
	Reporter diag.Reporter
	MaxDepth int // maximum parenthesis nesting, 0 means unlimited
	Logger   *rdtlog.Logger
}

// Stats counts what a parser has recognised so far
type Stats struct {
	Expressions int `json:"expressions" yaml:"expressions"`
	Terms       int `json:"terms" yaml:"terms"`
	Factors     int `json:"factors" yaml:"factors"`
	Operators   int `json:"operators" yaml:"operators"`
	MaxDepth    int `json:"max_depth" yaml:"max_depth"`
}

// Parser implements recursive descent parsing for arithmetic expressions
type Parser struct {
	lx       *lexer.Lexer
	sink     trace.Sink
	reporter diag.Reporter
	logger   *rdtlog.Logger
	options  Options
	depth    int // open rules and groups
	groups   int // open parentheses
	stats    Stats
}

// New creates a parser reading tokens from lx and emitting events to sink.
// The lexer must already hold the first token; the parser never pulls it.
func New(lx *lexer.Lexer, sink trace.Sink, opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = rdtlog.GetDefault()
	}
	if sink == nil {
		sink = trace.Discard
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.Discard
	}

	return &Parser{
		lx:       lx,
		sink:     sink,
		reporter: reporter,
		logger:   opts.Logger.WithField("component", "expr-parser"),
		options:  opts,
	}
}

// Current returns the lookahead token
func (p *Parser) Current() lexer.Token {
	return p.lx.Current()
}

// Stats returns the counters collected so far
func (p *Parser) Stats() Stats {
	return p.stats
}

// ParseExpression recognises Term { ('+' | '-') Term }
func (p *Parser) ParseExpression() {
	defer p.enter(trace.RuleExpr)()
	p.stats.Expressions++

	p.ParseTerm()
	for p.lx.Current().Kind.IsAdditive() {
		p.operator()
		p.ParseTerm()
	}
}

// ParseTerm recognises Factor { ('*' | '/') Factor }
func (p *Parser) ParseTerm() {
	defer p.enter(trace.RuleTerm)()
	p.stats.Terms++

	p.ParseFactor()
	for p.lx.Current().Kind.IsMultiplicative() {
		p.operator()
		p.ParseFactor()
	}
}

// ParseFactor recognises Identifier | IntegerLiteral | '(' Expression ')'.
// A token that cannot start a factor is reported and left in place.
func (p *Parser) ParseFactor() {
	if p.options.Mode == lexer.ModeCompat {
		p.compatFactor()
		return
	}

	defer p.enter(trace.RuleFactor)()

	tok := p.lx.Current()
	switch tok.Kind {
	case lexer.Identifier:
		p.terminal(trace.RuleID, tok)
	case lexer.IntLiteral:
		p.terminal(trace.RuleIntConstant, tok)
	case lexer.LeftParen:
		p.group(tok)
	default:
		p.report(rdterror.CodeUnexpectedToken, fmt.Sprintf("unexpected %s in factor", describe(tok)), tok)
	}
}

// compatFactor follows the legacy transcript: only terminals are wrapped
// in a factor bracket, groups sit at the factor's own depth, and the
// closing bracket is printed on every path.
func (p *Parser) compatFactor() {
	tok := p.lx.Current()
	switch tok.Kind {
	case lexer.Identifier, lexer.IntLiteral:
		exit := p.enter(trace.RuleFactor)
		rule := trace.RuleID
		if tok.Kind == lexer.IntLiteral {
			rule = trace.RuleIntConstant
		}
		p.terminal(rule, tok)
		exit()
		return
	case lexer.LeftParen:
		p.group(tok)
	default:
		p.report(rdterror.CodeUnexpectedToken, fmt.Sprintf("unexpected %s in factor", describe(tok)), tok)
	}
	p.sink.Emit(trace.StrayExit())
}

func (p *Parser) terminal(rule string, tok lexer.Token) {
	p.stats.Factors++
	p.sink.Emit(trace.Leaf(rule, tok.Lexeme))
	p.lx.Next()
}

// group parses '(' Expression ')' with the opening parenthesis current
func (p *Parser) group(open lexer.Token) {
	if p.options.MaxDepth > 0 && p.groups >= p.options.MaxDepth {
		p.report(rdterror.CodeNestingTooDeep,
			fmt.Sprintf("parentheses nested deeper than %d", p.options.MaxDepth), open)
		return
	}

	p.stats.Factors++
	p.groups++
	p.push(trace.GroupOpen(open.Lexeme))
	p.lx.Next()

	p.ParseExpression()

	p.groups--
	p.depth--
	tok := p.lx.Current()
	if tok.Kind == lexer.RightParen {
		p.sink.Emit(trace.GroupClose(tok.Lexeme))
		p.lx.Next()
		return
	}
	p.sink.Emit(trace.GroupAbort())
	p.report(rdterror.CodeMissingCloseParen, fmt.Sprintf("expected ')' but found %s", describe(tok)), tok)
}

func (p *Parser) operator() {
	p.stats.Operators++
	p.sink.Emit(trace.Symbol(p.lx.Current().Lexeme))
	p.lx.Next()
}

// enter opens rule and returns the function that closes it
func (p *Parser) enter(rule string) func() {
	p.push(trace.Enter(rule))
	return func() {
		p.depth--
		p.sink.Emit(trace.Exit())
	}
}

func (p *Parser) push(e trace.Event) {
	p.sink.Emit(e)
	p.depth++
	if p.depth > p.stats.MaxDepth {
		p.stats.MaxDepth = p.depth
	}
}

func (p *Parser) report(code rdterror.Code, message string, tok lexer.Token) {
	p.logger.Debug("diagnostic", rdtlog.Fields{
		"code":   code.String(),
		"lexeme": tok.Lexeme,
		"line":   tok.Line,
		"column": tok.Column,
	})
	p.reporter.Report(diag.Diagnostic{
		Code:    code,
		Message: message,
		Lexeme:  tok.Lexeme,
		Offset:  tok.Offset,
		Line:    tok.Line,
		Column:  tok.Column,
	})
}

// describe names a token for diagnostic messages
func describe(tok lexer.Token) string {
	if tok.Kind == lexer.EOF && tok.Lexeme == "EOF" {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Lexeme)
}
