package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	rdterror "github.com/msto63/rdtrace/foundation/core/error"
	rdtexpr "github.com/msto63/rdtrace/foundation/expr"
	rdtdiag "github.com/msto63/rdtrace/foundation/expr/diag"
	rdtlexer "github.com/msto63/rdtrace/foundation/expr/lexer"
	rdttrace "github.com/msto63/rdtrace/foundation/expr/trace"
	"github.com/msto63/rdtrace/pkg/core/cache"
	"github.com/msto63/rdtrace/pkg/core/logging"
)

// TraceRequest represents a trace request
type TraceRequest struct {
	Expression        string
	Mode              string // "standard" or "compat", empty uses the service default
	MaxDepth          int    // capped by the service limit
	Indent            string
	InlineDiagnostics bool
}

// TraceResponse represents the result of tracing one input
type TraceResponse struct {
	RequestID   string               `json:"request_id" yaml:"request_id"`
	Mode        string               `json:"mode" yaml:"mode"`
	Trace       string               `json:"trace" yaml:"trace"`
	Tree        *rdttrace.Node       `json:"tree" yaml:"tree"`
	Events      []rdttrace.Event     `json:"-" yaml:"-"`
	Diagnostics []rdtdiag.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Result      *rdtexpr.Result      `json:"stats" yaml:"stats"`
	Duration    time.Duration        `json:"duration_ns" yaml:"duration_ns"`
	Cached      bool                 `json:"cached" yaml:"cached"`
}

// TokenInfo is one token of a token dump
type TokenInfo struct {
	Kind   string `json:"kind" yaml:"kind"`
	Code   int    `json:"code" yaml:"code"`
	Lexeme string `json:"lexeme" yaml:"lexeme"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Dump   string `json:"dump" yaml:"dump"`
}

// TokensResponse represents the result of tokenizing one input
type TokensResponse struct {
	RequestID   string               `json:"request_id" yaml:"request_id"`
	Mode        string               `json:"mode" yaml:"mode"`
	Tokens      []TokenInfo          `json:"tokens" yaml:"tokens"`
	Diagnostics []rdtdiag.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// Config holds service configuration
type Config struct {
	Mode            rdtlexer.Mode
	MaxDepth        int // upper bound for request MaxDepth, 0 means unlimited
	MaxLexemeLength int
	Indent          string
	Logger          *logging.Logger

	// CacheSize bounds the trace response cache; 0 disables caching
	CacheSize int
	CacheTTL  time.Duration
}

// Service traces expressions on behalf of the API and the REPL. Every call
// owns its own lexer and parser, so calls may run concurrently.
type Service struct {
	logger *logging.Logger
	config Config
	cache  *cache.Cache[*TraceResponse]
}

// NewService creates a new trace service
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("tracer")
	}
	if cfg.Indent == "" {
		cfg.Indent = rdttrace.DefaultIndent
	}

	svc := &Service{
		logger: logger,
		config: cfg,
	}
	if cfg.CacheSize > 0 {
		svc.cache = cache.New[*TraceResponse](cache.Config{
			MaxItems:        cfg.CacheSize,
			TTL:             cfg.CacheTTL,
			CleanupInterval: time.Minute,
		})
	}
	return svc
}

// Close releases the response cache
func (s *Service) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

// CacheStats returns the response cache metrics; ok is false when caching
// is disabled
func (s *Service) CacheStats() (stats cache.Stats, ok bool) {
	if s.cache == nil {
		return cache.Stats{}, false
	}
	return s.cache.Stats(), true
}

// Trace traces every expression in req.Expression
func (s *Service) Trace(ctx context.Context, req *TraceRequest) (*TraceResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, rdterror.Wrap(err, "trace request cancelled").
			WithCode(rdterror.CodeInvalidInput).
			WithOperation("tracer.Trace")
	}

	mode, err := s.mode(req.Mode)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	logger := s.logger.With("request_id", requestID)
	logger.Debug("Tracing expression", "length", len(req.Expression), "mode", mode.String())

	indent := req.Indent
	if indent == "" {
		indent = s.config.Indent
	}
	maxDepth := s.depth(req.MaxDepth)

	start := time.Now()
	run := func() (*TraceResponse, error) {
		return s.run(req.Expression, mode, maxDepth, indent, req.InlineDiagnostics, logger)
	}

	var resp *TraceResponse
	var cached bool
	if s.cache != nil {
		key := fmt.Sprintf("%s|%d|%q|%t|%s", mode, maxDepth, indent, req.InlineDiagnostics, req.Expression)
		resp, cached, err = s.cache.GetOrSet(key, run)
	} else {
		resp, err = run()
	}
	if err != nil {
		logger.Error("Trace failed", "error", err)
		return nil, err
	}

	out := *resp
	out.RequestID = requestID
	out.Duration = time.Since(start)
	out.Cached = cached

	logger.Info("Trace completed",
		"expressions", out.Result.Expressions,
		"tokens", out.Result.Tokens,
		"diagnostics", len(out.Diagnostics),
		"cached", cached,
		"duration", out.Duration)
	return &out, nil
}

// run traces expression into a response without a request ID
func (s *Service) run(expression string, mode rdtlexer.Mode, maxDepth int, indent string, inline bool, logger *logging.Logger) (*TraceResponse, error) {
	var text strings.Builder
	rec := rdttrace.NewRecorder()
	sink := rdttrace.Tee(rec, rdttrace.NewTextRenderer(&text).WithIndent(indent))

	result, err := rdtexpr.Run(strings.NewReader(expression), sink, rdtexpr.Options{
		Mode:              mode,
		MaxDepth:          maxDepth,
		MaxLexemeLength:   s.config.MaxLexemeLength,
		InlineDiagnostics: inline,
		Logger:            logger.Foundation(),
	})
	if err != nil {
		return nil, err
	}

	events := rec.Events()
	return &TraceResponse{
		Mode:        mode.String(),
		Trace:       text.String(),
		Tree:        rdttrace.BuildTree(events),
		Events:      events,
		Diagnostics: nonNil(result.Diagnostics),
		Result:      result,
	}, nil
}

// Tokens returns the token dump of req.Expression
func (s *Service) Tokens(ctx context.Context, req *TraceRequest) (*TokensResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, rdterror.Wrap(err, "tokens request cancelled").
			WithCode(rdterror.CodeInvalidInput).
			WithOperation("tracer.Tokens")
	}

	mode, err := s.mode(req.Mode)
	if err != nil {
		return nil, err
	}

	tokens, diags, err := rdtexpr.Tokens(strings.NewReader(req.Expression), rdtexpr.Options{
		Mode:            mode,
		MaxLexemeLength: s.config.MaxLexemeLength,
	})
	if err != nil {
		return nil, err
	}

	infos := make([]TokenInfo, 0, len(tokens))
	for _, tok := range tokens {
		infos = append(infos, TokenInfo{
			Kind:   tok.Kind.String(),
			Code:   tok.Kind.Code(),
			Lexeme: tok.Lexeme,
			Line:   tok.Line,
			Column: tok.Column,
			Dump:   tok.Dump(),
		})
	}

	return &TokensResponse{
		RequestID:   uuid.NewString(),
		Mode:        mode.String(),
		Tokens:      infos,
		Diagnostics: nonNil(diags),
	}, nil
}

// MaxDepth returns the configured nesting limit
func (s *Service) MaxDepth() int {
	return s.config.MaxDepth
}

func (s *Service) mode(name string) (rdtlexer.Mode, error) {
	if name == "" {
		return s.config.Mode, nil
	}
	mode, err := rdtlexer.ParseMode(name)
	if err != nil {
		return 0, rdterror.Wrap(err, "invalid trace mode").
			WithCode(rdterror.CodeInvalidInput).
			WithOperation("tracer.mode").
			WithDetail("mode", name)
	}
	return mode, nil
}

// depth applies the service limit to a requested nesting depth
func (s *Service) depth(requested int) int {
	limit := s.config.MaxDepth
	switch {
	case limit == 0:
		return requested
	case requested <= 0 || requested > limit:
		return limit
	default:
		return requested
	}
}

func nonNil(ds []rdtdiag.Diagnostic) []rdtdiag.Diagnostic {
	if ds == nil {
		return []rdtdiag.Diagnostic{}
	}
	return ds
}
