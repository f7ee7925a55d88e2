package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	rdterror "github.com/msto63/rdtrace/foundation/core/error"
	rdtlog "github.com/msto63/rdtrace/foundation/core/log"
	rdtexpr "github.com/msto63/rdtrace/foundation/expr"
	rdtdiag "github.com/msto63/rdtrace/foundation/expr/diag"
	rdtlexer "github.com/msto63/rdtrace/foundation/expr/lexer"
	"github.com/msto63/rdtrace/internal/render"
)

var traceFlags struct {
	mode        string
	format      string
	out         string
	indent      string
	diagnostics string
	maxDepth    int
	strict      bool
}

var traceCmd = &cobra.Command{
	Use:   "trace [file|-]",
	Short: "Trace expressions from a file or stdin",
	Long: `Reads expressions from a file (or stdin when the argument is
missing or "-") and prints the parse trace of each one.

Formats:
  text    - bracketed, indented trace
  styled  - text trace with terminal colors
  json    - derivation tree as JSON
  yaml    - derivation tree as YAML

Diagnostics:
  stderr  - one line per diagnostic on stderr (default)
  inline  - diagnostics written into the trace
  log     - diagnostics sent to the logger
  none    - diagnostics only affect --strict

Examples:
  echo "(sum + 47) / total" | rdtrace trace
  rdtrace trace --mode compat input.txt
  rdtrace trace --format json --out tree.json input.txt
  rdtrace trace --strict input.txt || echo "input has errors"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().StringVar(&traceFlags.mode, "mode", "", "parser mode: standard or compat (default from config)")
	traceCmd.Flags().StringVarP(&traceFlags.format, "format", "f", "", "output format: text, styled, json or yaml")
	traceCmd.Flags().StringVarP(&traceFlags.out, "out", "o", "", "output file (default: stdout)")
	traceCmd.Flags().StringVar(&traceFlags.indent, "indent", "", "indent unit per nesting level")
	traceCmd.Flags().StringVar(&traceFlags.diagnostics, "diagnostics", "", "diagnostic destination: stderr, inline, log or none")
	traceCmd.Flags().IntVar(&traceFlags.maxDepth, "max-depth", 0, "maximum parenthesis nesting, 0 means unlimited")
	traceCmd.Flags().BoolVar(&traceFlags.strict, "strict", false, "exit with code 2 when diagnostics were reported")
}

// traceSettings holds config values overridden by the flags that were set
type traceSettings struct {
	mode        rdtlexer.Mode
	format      render.Format
	indent      string
	diagnostics string
	maxDepth    int
	strict      bool
}

func resolveTraceSettings(cmd *cobra.Command) (traceSettings, error) {
	tc := appConfig.Trace
	flags := cmd.Flags()

	modeName := tc.Mode
	if flags.Changed("mode") {
		modeName = traceFlags.mode
	}
	mode, err := rdtlexer.ParseMode(modeName)
	if err != nil {
		return traceSettings{}, invalidFlag("mode", modeName, err)
	}

	formatName := tc.Format
	if flags.Changed("format") {
		formatName = traceFlags.format
	}
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return traceSettings{}, invalidFlag("format", formatName, err)
	}

	s := traceSettings{
		mode:        mode,
		format:      format,
		indent:      tc.Indent,
		diagnostics: tc.Diagnostics,
		maxDepth:    tc.MaxDepth,
		strict:      tc.Strict,
	}
	if flags.Changed("indent") {
		s.indent = traceFlags.indent
	}
	if flags.Changed("diagnostics") {
		s.diagnostics = traceFlags.diagnostics
	}
	if flags.Changed("max-depth") {
		s.maxDepth = traceFlags.maxDepth
	}
	if flags.Changed("strict") {
		s.strict = traceFlags.strict
	}

	switch s.diagnostics {
	case "stderr", "inline", "log", "none":
	default:
		return traceSettings{}, invalidFlag("diagnostics", s.diagnostics, fmt.Errorf("want stderr, inline, log or none"))
	}
	if s.maxDepth < 0 {
		return traceSettings{}, invalidFlag("max-depth", s.maxDepth, fmt.Errorf("must not be negative"))
	}
	return s, nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	settings, err := resolveTraceSettings(cmd)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(cmd, traceFlags.out)
	if err != nil {
		return err
	}

	sink, finish := render.NewSink(out, settings.format, settings.indent)
	opts := rdtexpr.Options{
		Mode:            settings.mode,
		MaxDepth:        settings.maxDepth,
		MaxLexemeLength: appConfig.Trace.MaxLexemeLength,
		Indent:          settings.indent,
		Reporter:        diagnosticReporter(settings.diagnostics, cmd.ErrOrStderr()),
		Logger:          appLogger,
	}
	if settings.diagnostics == "inline" {
		opts.InlineDiagnostics = true
	}

	result, runErr := rdtexpr.Run(in, sink, opts)
	if err := finish(); err != nil && runErr == nil {
		runErr = rdterror.Wrap(err, "failed to write trace").
			WithCode(rdterror.CodeOutputFailed).
			WithOperation("rdtrace trace")
	}
	if err := closeOut(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	appLogger.Debug("Trace finished", rdtlog.Fields{
		"mode":        settings.mode.String(),
		"expressions": result.Expressions,
		"tokens":      result.Tokens,
		"max_depth":   result.MaxDepth,
		"diagnostics": len(result.Diagnostics),
	})

	if settings.strict && result.HasDiagnostics() {
		return &exitError{code: 2, err: fmt.Errorf("%d diagnostics reported", len(result.Diagnostics))}
	}
	return nil
}

// diagnosticReporter returns the reporter for a diagnostics destination;
// inline and none need no reporter
func diagnosticReporter(destination string, stderr io.Writer) rdtdiag.Reporter {
	switch destination {
	case "stderr":
		return rdtdiag.ReporterFunc(func(d rdtdiag.Diagnostic) {
			fmt.Fprintln(stderr, d.String())
		})
	case "log":
		return rdtdiag.NewLogReporter(appLogger)
	default:
		return nil
	}
}

func invalidFlag(name string, value interface{}, err error) error {
	return rdterror.Wrap(err, "invalid --"+name).
		WithCode(rdterror.CodeInvalidInput).
		WithDetail("flag", name).
		WithDetail("value", value)
}
