package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	rdtlog "github.com/msto63/rdtrace/foundation/core/log"
	"github.com/msto63/rdtrace/pkg/core/config"
	"github.com/msto63/rdtrace/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool

	appConfig *config.Config
	appLogger *rdtlog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rdtrace",
	Short: "rdtrace - Recursive Descent Expression Tracer",
	Long: `rdtrace tokenizes arithmetic expressions and parses them with a
recursive descent parser for the grammar

  expr   -> term   {(+ | -) term}
  term   -> factor {(* | /) factor}
  factor -> id | int_constant | ( expr )

and prints the bracketed, indented trace of every rule it enters.

Commands:
  trace    - Trace expressions from a file or stdin
  tokens   - Dump the token stream
  serve    - Start the HTTP trace API
  repl     - Interactive trace terminal
  config   - Print the effective configuration
  version  - Print version information`,
	SilenceUsage:      true,
	PersistentPreRunE: loadApp,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $RDTRACE_CONFIG or ./configs/rdtrace.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadApp loads .env, the configuration and the logger before any command
func loadApp(cmd *cobra.Command, args []string) error {
	bootstrap := logging.NewLogger(logging.LoggerConfig{Level: "warn", Output: cmd.ErrOrStderr()})
	if err := config.LoadDotEnv(config.DefaultEnvFile, bootstrap); err != nil {
		return err
	}

	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if verbose {
		appConfig.General.LogLevel = "debug"
	}
	if err := appConfig.Validate(); err != nil {
		return err
	}

	appLogger = logging.NewLogger(logging.LoggerConfig{
		ServiceName: appConfig.General.Name,
		Level:       appConfig.General.LogLevel,
		Format:      appConfig.General.LogFormat,
		Output:      cmd.ErrOrStderr(),
	})
	rdtlog.SetDefault(appLogger)
	appLogger.Debug("Configuration loaded", rdtlog.Fields{"command": cmd.Name(), "mode": appConfig.Trace.Mode})
	return nil
}

// exitError carries a process exit code other than 1
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// ExitCode maps an error returned by Execute to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	return 1
}

// openInput returns the reader for a file argument; no argument or "-"
// selects stdin
func openInput(cmd *cobra.Command, args []string) (io.Reader, func() error, error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() error { return nil }, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, f.Close, nil
}

// openOutput returns the writer for --out; an empty path selects stdout
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output: %w", err)
	}
	return f, f.Close, nil
}
