package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/rdtrace/internal/tracer/service"
	"github.com/msto63/rdtrace/internal/tui/repl"
	"github.com/msto63/rdtrace/pkg/core/logging"
)

var replCmd = &cobra.Command{
	Use:     "repl",
	Aliases: []string{"tui", "interactive"},
	Short:   "Interactive trace terminal",
	Long: `Starts an interactive terminal that traces each expression entered
and shows the colored trace with its diagnostics.

Keys:
  Enter       Trace the input line
  Up/Down     Browse history
  Ctrl+T      Switch between standard and compat mode
  PgUp/PgDn   Scroll the trace
  Esc/Ctrl+C  Quit`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	svc, err := newService(appConfig.Trace.MaxDepth, 0)
	if err != nil {
		return err
	}

	cfg := repl.DefaultConfig()
	cfg.Mode = appConfig.Trace.Mode
	cfg.Indent = appConfig.Trace.Indent
	return repl.Run(svc, cfg)
}

// newService creates the trace service from the [trace] settings
func newService(maxDepth, cacheSize int) (*service.Service, error) {
	mode, err := appConfig.TraceMode()
	if err != nil {
		return nil, err
	}
	return service.NewService(service.Config{
		Mode:            mode,
		MaxDepth:        maxDepth,
		MaxLexemeLength: appConfig.Trace.MaxLexemeLength,
		Indent:          appConfig.Trace.Indent,
		Logger:          logging.Wrap(appLogger, "tracer"),
		CacheSize:       max(cacheSize, 0),
		CacheTTL:        appConfig.Server.CacheTTL.Duration,
	}), nil
}
