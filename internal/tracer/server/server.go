package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/msto63/rdtrace/internal/tracer/service"
	"github.com/msto63/rdtrace/pkg/core/config"
	"github.com/msto63/rdtrace/pkg/core/health"
	"github.com/msto63/rdtrace/pkg/core/logging"
	"github.com/msto63/rdtrace/pkg/core/version"
)

const (
	GracefulShutdownTimeout = 10 * time.Second
	HealthCheckTimeout      = 2 * time.Second

	// healthProbe is traced in standard mode by the tracer health check
	healthProbe      = "(a + 1) * b"
	healthProbeNodes = 16
)

// Server exposes the trace service over HTTP
type Server struct {
	Echo *echo.Echo

	cfg     config.ServerConfig
	service *service.Service
	health  *health.Registry
	logger  *logging.Logger
}

// NewServer creates the HTTP API around svc
func NewServer(svc *service.Service, cfg config.ServerConfig, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.New("server")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(logger)
	e.Server.ReadTimeout = cfg.ReadTimeout.Duration
	e.Server.WriteTimeout = cfg.WriteTimeout.Duration

	s := &Server{
		Echo:    e,
		cfg:     cfg,
		service: svc,
		health:  health.NewRegistry("rdtrace", version.Version),
		logger:  logger,
	}

	s.setupHealthChecks()
	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupHealthChecks() {
	s.health.RegisterFunc("tracer", func(ctx context.Context) health.CheckResult {
		resp, err := s.service.Trace(ctx, &service.TraceRequest{Expression: healthProbe, Mode: "standard"})
		if err != nil {
			return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
		}
		if len(resp.Diagnostics) > 0 || resp.Tree.Size() != healthProbeNodes {
			return health.CheckResult{
				Status:  health.StatusUnhealthy,
				Message: "probe expression traced incorrectly",
				Details: map[string]interface{}{"diagnostics": len(resp.Diagnostics), "nodes": resp.Tree.Size()},
			}
		}
		return health.CheckResult{Status: health.StatusHealthy, Message: "probe traced"}
	})

	if _, ok := s.service.CacheStats(); ok {
		s.health.RegisterFunc("cache", func(ctx context.Context) health.CheckResult {
			stats, _ := s.service.CacheStats()
			return health.CheckResult{
				Status: health.StatusHealthy,
				Details: map[string]interface{}{
					"size":     stats.Size,
					"hits":     stats.Hits,
					"misses":   stats.Misses,
					"hit_rate": stats.HitRate,
				},
			}
		})
	}
}

func (s *Server) setupMiddlewares() {
	s.Echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.Echo.Use(s.requestLogger())
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.BodyLimit(strconv.FormatInt(s.cfg.MaxBodyBytes, 10)))
}

func (s *Server) setupRoutes() {
	s.Echo.GET("/health", s.healthHandler)

	api := s.Echo.Group("/api/v1")
	api.POST("/trace", s.traceHandler)
	api.POST("/tokens", s.tokensHandler)
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogLatency:   true,
		LogURI:       true,
		LogMethod:    true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				s.logger.Info("REQUEST",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency", v.Latency,
					"request_id", v.RequestID)
			} else {
				s.logger.Error("REQUEST_ERROR",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"request_id", v.RequestID,
					"error", v.Error.Error())
			}
			return nil
		},
	})
}

// Address returns host:port the server listens on
func (s *Server) Address() string {
	return s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)
}

// Start serves until ctx is done or an interrupt arrives, then shuts down
// gracefully
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP API", "address", s.Address())
		if err := s.Echo.Start(s.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout.Duration
	if timeout == 0 {
		timeout = GracefulShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP API")
	return s.Echo.Shutdown(shutdownCtx)
}
