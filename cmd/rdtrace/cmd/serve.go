package cmd

import (
	"github.com/spf13/cobra"

	rdtlog "github.com/msto63/rdtrace/foundation/core/log"
	"github.com/msto63/rdtrace/internal/tracer/server"
	"github.com/msto63/rdtrace/pkg/core/logging"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP trace API",
	Long: `Starts the HTTP trace API.

Endpoints:
  GET  /health          - health and version
  POST /api/v1/trace    - trace an expression
  POST /api/v1/tokens   - dump the token stream

Examples:
  rdtrace serve
  rdtrace serve --port 9000
  curl -d '(a + b) * c' -H 'Content-Type: text/plain' localhost:8095/api/v1/trace`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig.Server
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	svc, err := newService(cfg.DepthLimit(), cfg.CacheSize)
	if err != nil {
		return err
	}
	defer svc.Close()

	srv := server.NewServer(svc, cfg, logging.Wrap(appLogger, "server"))
	appLogger.Info("HTTP API configured", rdtlog.Fields{"address": srv.Address(), "mode": appConfig.Trace.Mode})
	return srv.Start(cmd.Context())
}
