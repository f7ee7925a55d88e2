package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	rdtlexer "github.com/msto63/rdtrace/foundation/expr/lexer"
	"github.com/msto63/rdtrace/internal/tracer/service"
	"github.com/msto63/rdtrace/pkg/core/config"
	"github.com/msto63/rdtrace/pkg/core/health"
	"github.com/msto63/rdtrace/pkg/core/logging"
)

type traceBody struct {
	RequestID   string `json:"request_id"`
	Mode        string `json:"mode"`
	Trace       string `json:"trace"`
	Diagnostics []struct {
		Code   string `json:"code"`
		Column int    `json:"column"`
	} `json:"diagnostics"`
	Stats struct {
		Expressions int `json:"expressions"`
	} `json:"stats"`
}

func newTestServer(t *testing.T, mutate func(*config.ServerConfig)) *Server {
	t.Helper()
	logger := logging.Wrap(logging.NewLogger(logging.LoggerConfig{Level: "fatal", Output: io.Discard}), "test")
	cfg := config.Default().Server
	if mutate != nil {
		mutate(&cfg)
	}
	svc := service.NewService(service.Config{MaxDepth: cfg.DepthLimit(), Logger: logger})
	return NewServer(svc, cfg, logger)
}

func do(s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "v1", body.Version.API)
	require.Len(t, body.Checks, 1)
	assert.Equal(t, "tracer", body.Checks[0].Name)
	assert.Equal(t, health.StatusHealthy, body.Checks[0].Status)
}

func TestHealth_CompatDefault(t *testing.T) {
	logger := logging.Wrap(logging.NewLogger(logging.LoggerConfig{Level: "fatal", Output: io.Discard}), "test")
	svc := service.NewService(service.Config{Mode: rdtlexer.ModeCompat, Logger: logger})
	s := NewServer(svc, config.Default().Server, logger)

	rec := do(s, http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	require.Len(t, body.Checks, 1)
	assert.Equal(t, health.StatusHealthy, body.Checks[0].Status)
}

func TestHealth_WithCache(t *testing.T) {
	logger := logging.Wrap(logging.NewLogger(logging.LoggerConfig{Level: "fatal", Output: io.Discard}), "test")
	svc := service.NewService(service.Config{Logger: logger, CacheSize: 4})
	defer svc.Close()
	s := NewServer(svc, config.Default().Server, logger)

	do(s, http.MethodGet, "/health", "", "")
	do(s, http.MethodGet, "/health", "", "")
	rec := do(s, http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Checks, 2)
	assert.Equal(t, "cache", body.Checks[0].Name)
	hits, ok := body.Checks[0].Details["hits"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, hits, 1.0, "repeated probes are served from the cache")
}

func TestHealth_Unhealthy(t *testing.T) {
	s := newTestServer(t, nil)
	s.health.RegisterFunc("broken", func(ctx context.Context) health.CheckResult {
		return health.CheckResult{Status: health.StatusUnhealthy, Message: "down"}
	})

	rec := do(s, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
}

func TestTrace_JSON(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodPost, "/api/v1/trace", echo.MIMEApplicationJSON,
		`{"expression": "a * (b + 1)", "mode": "standard"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	var body traceBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.RequestID)
	assert.Equal(t, "standard", body.Mode)
	assert.True(t, strings.HasPrefix(body.Trace, "[expr\n   [term\n      [factor\n         [id [a]]\n"))
	assert.Empty(t, body.Diagnostics)
	assert.Equal(t, 1, body.Stats.Expressions)
}

func TestTrace_PlainText(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodPost, "/api/v1/trace?mode=compat&inline=true", echo.MIMETextPlain, "(a")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body traceBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "compat", body.Mode)
	assert.Contains(t, body.Trace, "ERROR: Expected )\n")
	require.Len(t, body.Diagnostics, 1)
	assert.Equal(t, "MISSING_CLOSE_PAREN", body.Diagnostics[0].Code)
}

func TestTrace_YAML(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodPost, "/api/v1/trace?format=yaml", echo.MIMETextPlain, "x")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get(echo.HeaderContentType))

	var body map[string]interface{}
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["trace"], "[id [x]]")
	assert.NotContains(t, body, "events")
}

func TestTrace_BadRequests(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		status      int
	}{
		{"unknown mode", "/api/v1/trace", echo.MIMEApplicationJSON, `{"expression":"a","mode":"eager"}`, http.StatusBadRequest},
		{"bad json", "/api/v1/trace", echo.MIMEApplicationJSON, `{"expression":`, http.StatusBadRequest},
		{"bad depth", "/api/v1/trace?max_depth=-3", echo.MIMETextPlain, "a", http.StatusBadRequest},
		{"bad format", "/api/v1/trace?format=xml", echo.MIMETextPlain, "a", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, http.MethodPost, tt.target, tt.contentType, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestTrace_ErrorOperation(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodPost, "/api/v1/trace?mode=eager", echo.MIMETextPlain, "a")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_INPUT", body["code"])
	assert.Equal(t, "tracer.mode", body["operation"])
}

func TestTrace_BodyLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.ServerConfig) { c.MaxBodyBytes = 16 })

	rec := do(s, http.MethodPost, "/api/v1/trace", echo.MIMETextPlain, strings.Repeat("a+", 64))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestTrace_DepthLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.ServerConfig) { c.MaxDepth = 3 })

	rec := do(s, http.MethodPost, "/api/v1/trace", echo.MIMETextPlain, strings.Repeat("(", 10)+"a"+strings.Repeat(")", 10))
	require.Equal(t, http.StatusOK, rec.Code)

	var body traceBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Diagnostics)
	assert.Equal(t, "NESTING_TOO_DEEP", body.Diagnostics[0].Code)
}

func TestTokens(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodPost, "/api/v1/tokens", echo.MIMEApplicationJSON, `{"expression":"sum + 47"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tokens []service.TokenInfo `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Tokens, 4)
	assert.Equal(t, "Next token is: 11, Next lexeme is sum", body.Tokens[0].Dump)
	assert.Equal(t, "Next token is: -1, Next lexeme is EOF", body.Tokens[3].Dump)
}

func TestAddress(t *testing.T) {
	s := newTestServer(t, func(c *config.ServerConfig) { c.Host = "0.0.0.0"; c.Port = 9999 })
	assert.Equal(t, "0.0.0.0:9999", s.Address())
}
