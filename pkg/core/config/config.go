package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	rdterror "github.com/msto63/rdtrace/foundation/core/error"
	rdtlog "github.com/msto63/rdtrace/foundation/core/log"
	rdtlexer "github.com/msto63/rdtrace/foundation/expr/lexer"
)

// Environment variables read by the loader
const (
	EnvConfigPath  = "RDTRACE_CONFIG"
	EnvDotEnvPath  = "RDTRACE_ENV_PATH"
	EnvLogLevel    = "RDTRACE_LOG_LEVEL"
	EnvLogFormat   = "RDTRACE_LOG_FORMAT"
	EnvTraceMode   = "RDTRACE_TRACE_MODE"
	EnvServerPort  = "RDTRACE_SERVER_PORT"
	DefaultEnvFile = ".env"
)

// Output formats of the trace command
var validFormats = []string{"text", "styled", "json", "yaml"}

// Diagnostic destinations
var validDiagnostics = []string{"stderr", "inline", "log", "none"}

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Trace   TraceConfig   `toml:"trace" yaml:"trace"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// TraceConfig holds defaults for the trace and tokens commands
type TraceConfig struct {
	Mode            string `toml:"mode" yaml:"mode"`
	Indent          string `toml:"indent" yaml:"indent"`
	MaxDepth        int    `toml:"max_depth" yaml:"max_depth"`
	MaxLexemeLength int    `toml:"max_lexeme_length" yaml:"max_lexeme_length"`
	Format          string `toml:"format" yaml:"format"`
	Diagnostics     string `toml:"diagnostics" yaml:"diagnostics"`
	Strict          bool   `toml:"strict" yaml:"strict"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Host            string   `toml:"host" yaml:"host"`
	Port            int      `toml:"port" yaml:"port"`
	ReadTimeout     Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxBodyBytes    int64    `toml:"max_body_bytes" yaml:"max_body_bytes"`
	MaxDepth        int      `toml:"max_depth" yaml:"max_depth"` // negative means unlimited
	CacheSize       int      `toml:"cache_size" yaml:"cache_size"` // negative disables the response cache
	CacheTTL        Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file. The format follows the
// file extension; anything but .yaml and .yml is read as TOML.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, rdterror.Newf("config file not found: %s", path).
				WithCode(rdterror.CodeMissingConfig).
				WithOperation("config.Load").
				WithDetail("path", path)
		}
		return nil, rdterror.Wrap(err, "failed to read config").
			WithCode(rdterror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	var cfg Config
	if err := decode(content, detectFormat(path), &cfg); err != nil {
		return nil, rdterror.Wrap(err, "failed to parse config").
			WithCode(rdterror.CodeInvalidConfig).
			WithOperation("config.Load").
			WithDetail("path", path).
			WithDetail("format", detectFormat(path))
	}

	cfg.applyDefaults()
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the RDTRACE_CONFIG environment
// variable or the first default location that exists. Without any config
// file the defaults are used.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		cfg := Default()
		if err := cfg.applyEnvOverrides(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return Load(path)
}

// DefaultPaths lists the locations LoadFromEnv searches, in order
func DefaultPaths() []string {
	paths := []string{
		"./configs/rdtrace.toml",
		"./rdtrace.toml",
		"./rdtrace.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "rdtrace", "config.toml"))
	}
	return paths
}

// LoadDotEnv loads variables from a .env file into the process environment.
// The path is taken from RDTRACE_ENV_PATH, then defaultPath. A missing file
// is not an error; variables already set are not overwritten.
func LoadDotEnv(defaultPath string, logger *rdtlog.Logger) error {
	if logger == nil {
		logger = rdtlog.GetDefault()
	}

	envPath := os.Getenv(EnvDotEnvPath)
	if envPath == "" {
		envPath = defaultPath
	}
	if envPath == "" {
		envPath = DefaultEnvFile
	}

	if err := godotenv.Load(envPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Skipping .env file", rdtlog.Fields{"path": envPath})
			return nil
		}
		return rdterror.Wrap(err, "failed to load .env file").
			WithCode(rdterror.CodeEnvironmentError).
			WithOperation("config.LoadDotEnv").
			WithDetail("path", envPath)
	}

	logger.Debug("Loaded .env file", rdtlog.Fields{"path": envPath})
	return nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "rdtrace"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Trace
	if c.Trace.Mode == "" {
		c.Trace.Mode = "standard"
	}
	if c.Trace.Indent == "" {
		c.Trace.Indent = "   "
	}
	if c.Trace.MaxLexemeLength == 0 {
		c.Trace.MaxLexemeLength = rdtlexer.DefaultMaxLexemeLength
	}
	if c.Trace.Format == "" {
		c.Trace.Format = "text"
	}
	if c.Trace.Diagnostics == "" {
		c.Trace.Diagnostics = "stderr"
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8095
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 10 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 10 * time.Second
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout.Duration = 10 * time.Second
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 64 << 10
	}
	if c.Server.MaxDepth == 0 {
		c.Server.MaxDepth = 256
	}
	if c.Server.CacheSize == 0 {
		c.Server.CacheSize = 1024
	}
	if c.Server.CacheTTL.Duration == 0 {
		c.Server.CacheTTL.Duration = 5 * time.Minute
	}
}

// applyEnvOverrides replaces settings with environment variables
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.General.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.General.LogFormat = v
	}
	if v := os.Getenv(EnvTraceMode); v != "" {
		c.Trace.Mode = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return rdterror.Wrap(err, "invalid server port in environment").
				WithCode(rdterror.CodeInvalidConfig).
				WithOperation("config.applyEnvOverrides").
				WithDetail("variable", EnvServerPort).
				WithDetail("value", v)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks the configuration and returns the first problem found
func (c *Config) Validate() error {
	invalid := func(key string, value interface{}, reason string) error {
		return rdterror.Newf("invalid %s: %s", key, reason).
			WithCode(rdterror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("key", key).
			WithDetail("value", value)
	}

	if _, err := rdtlog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", c.General.LogLevel, err.Error())
	}
	if _, err := rdtlog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", c.General.LogFormat, err.Error())
	}
	if _, err := c.TraceMode(); err != nil {
		return invalid("trace.mode", c.Trace.Mode, err.Error())
	}
	if !contains(validFormats, c.Trace.Format) {
		return invalid("trace.format", c.Trace.Format, "want one of "+strings.Join(validFormats, ", "))
	}
	if !contains(validDiagnostics, c.Trace.Diagnostics) {
		return invalid("trace.diagnostics", c.Trace.Diagnostics, "want one of "+strings.Join(validDiagnostics, ", "))
	}
	if c.Trace.MaxDepth < 0 {
		return invalid("trace.max_depth", c.Trace.MaxDepth, "must not be negative")
	}
	if c.Trace.MaxLexemeLength < 1 {
		return invalid("trace.max_lexeme_length", c.Trace.MaxLexemeLength, "must be positive")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return invalid("server.port", c.Server.Port, "must be between 1 and 65535")
	}
	if c.Server.MaxBodyBytes < 1 {
		return invalid("server.max_body_bytes", c.Server.MaxBodyBytes, "must be positive")
	}
	return nil
}

// DepthLimit returns the nesting limit for the trace service, where 0
// means unlimited
func (s ServerConfig) DepthLimit() int {
	if s.MaxDepth < 0 {
		return 0
	}
	return s.MaxDepth
}

// TraceMode parses trace.mode
func (c *Config) TraceMode() (rdtlexer.Mode, error) {
	return rdtlexer.ParseMode(c.Trace.Mode)
}

// Address returns host:port of the HTTP API
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Encode writes the configuration in the given format ("toml" or "yaml")
func (c *Config) Encode(format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	case "toml":
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, err
		}
	default:
		return nil, rdterror.Newf("unsupported config format %q", format).
			WithCode(rdterror.CodeInvalidInput)
	}
	return buf.Bytes(), nil
}

// detectFormat determines the config format from the file extension
func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

func decode(content []byte, format string, cfg *Config) error {
	if format == "yaml" {
		return yaml.Unmarshal(content, cfg)
	}
	return toml.Unmarshal(content, cfg)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
