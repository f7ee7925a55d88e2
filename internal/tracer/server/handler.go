package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"

	rdterror "github.com/msto63/rdtrace/foundation/core/error"
	"github.com/msto63/rdtrace/internal/tracer/service"
	"github.com/msto63/rdtrace/pkg/core/health"
	"github.com/msto63/rdtrace/pkg/core/logging"
	"github.com/msto63/rdtrace/pkg/core/version"
)

// TraceRequest is the JSON body of POST /api/v1/trace and /api/v1/tokens
type TraceRequest struct {
	Expression        string `json:"expression"`
	Mode              string `json:"mode"`
	MaxDepth          int    `json:"max_depth"`
	Indent            string `json:"indent"`
	InlineDiagnostics bool   `json:"inline_diagnostics"`
	Format            string `json:"format"` // json (default) or yaml
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string               `json:"status"`
	Version version.Info         `json:"version"`
	Uptime  string               `json:"uptime"`
	Checks  []health.CheckResult `json:"checks"`
}

func (s *Server) healthHandler(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), HealthCheckTimeout)
	defer cancel()

	report := s.health.Check(ctx)
	resp := HealthResponse{
		Status:  "ok",
		Version: version.Get(),
		Uptime:  report.Uptime.Round(time.Second).String(),
		Checks:  report.Checks,
	}

	code := http.StatusOK
	switch report.Status {
	case health.StatusDegraded:
		resp.Status = string(health.StatusDegraded)
	case health.StatusUnhealthy:
		resp.Status = string(health.StatusUnhealthy)
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}

func (s *Server) traceHandler(c echo.Context) error {
	req, err := bindRequest(c)
	if err != nil {
		return err
	}

	resp, err := s.service.Trace(c.Request().Context(), &service.TraceRequest{
		Expression:        req.Expression,
		Mode:              req.Mode,
		MaxDepth:          req.MaxDepth,
		Indent:            req.Indent,
		InlineDiagnostics: req.InlineDiagnostics,
	})
	if err != nil {
		return err
	}
	return respond(c, req.Format, resp)
}

func (s *Server) tokensHandler(c echo.Context) error {
	req, err := bindRequest(c)
	if err != nil {
		return err
	}

	resp, err := s.service.Tokens(c.Request().Context(), &service.TraceRequest{
		Expression: req.Expression,
		Mode:       req.Mode,
	})
	if err != nil {
		return err
	}
	return respond(c, req.Format, resp)
}

// bindRequest accepts a JSON body or a text/plain body holding the
// expression, with options taken from the query string
func bindRequest(c echo.Context) (*TraceRequest, error) {
	req := &TraceRequest{
		Mode:   c.QueryParam("mode"),
		Format: c.QueryParam("format"),
	}
	if v := c.QueryParam("max_depth"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil || depth < 0 {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "max_depth must be a non-negative integer")
		}
		req.MaxDepth = depth
	}
	req.InlineDiagnostics = c.QueryParam("inline") == "true"

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMETextPlain) {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return nil, err
		}
		req.Expression = string(body)
		return req, nil
	}

	if err := c.Bind(req); err != nil {
		return nil, err
	}
	if req.MaxDepth < 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "max_depth must be a non-negative integer")
	}
	return req, nil
}

func respond(c echo.Context, format string, body interface{}) error {
	switch format {
	case "", "json":
		return c.JSON(http.StatusOK, body)
	case "yaml", "yml":
		out, err := yaml.Marshal(body)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "application/yaml", out)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
	}
}

// ErrorHandler maps coded errors to HTTP status codes and writes a JSON
// error body
func ErrorHandler(logger *logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, map[string]string{"error": msg})
			return
		}

		var re *rdterror.Error
		if errors.As(err, &re) {
			status := http.StatusInternalServerError
			if re.Code() == rdterror.CodeInvalidInput {
				status = http.StatusBadRequest
			}
			body := map[string]string{"error": re.Message(), "code": re.Code().String()}
			if op := re.Operation(); op != "" {
				body["operation"] = op
			}
			_ = c.JSON(status, body)
			return
		}

		logger.Error("Unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
