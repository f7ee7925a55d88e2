package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rdterror "github.com/msto63/rdtrace/foundation/core/error"
	rdttrace "github.com/msto63/rdtrace/foundation/expr/trace"
)

// execute runs the root command with args and stdin in an empty working
// directory and returns stdout, stderr and the command error
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{"RDTRACE_CONFIG", "RDTRACE_ENV_PATH", "RDTRACE_LOG_LEVEL", "RDTRACE_LOG_FORMAT", "RDTRACE_TRACE_MODE", "RDTRACE_SERVER_PORT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestTrace_Stdin(t *testing.T) {
	stdout, stderr, err := execute(t, "a + b\n", "trace")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, "[expr\n   [term\n      [factor\n         [id [a]]\n      ]\n   ]\n   [+]\n   [term\n      [factor\n         [id [b]]\n      ]\n   ]\n]\n", stdout)
}

func TestTrace_Indent(t *testing.T) {
	stdout, _, err := execute(t, "7", "trace", "--indent", "..")
	require.NoError(t, err)
	assert.Equal(t, "[expr\n..[term\n....[factor\n......[int_constant [7]]\n....]\n..]\n]\n", stdout)
}

func TestTrace_DiagnosticsToStderr(t *testing.T) {
	stdout, stderr, err := execute(t, "(a", "trace")
	require.NoError(t, err, "diagnostics alone do not fail without --strict")
	assert.Contains(t, stdout, "[(]")
	assert.Contains(t, stderr, "1:3: MISSING_CLOSE_PAREN")
}

func TestTrace_CompatInline(t *testing.T) {
	stdout, stderr, err := execute(t, "(a", "trace", "--mode", "compat", "--diagnostics", "inline")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "\nERROR: Expected )\n")
}

func TestTrace_Strict(t *testing.T) {
	_, stderr, err := execute(t, "a $ b", "trace", "--strict")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
	assert.Contains(t, stderr, "UNKNOWN_SYMBOL")

	_, _, err = execute(t, "a * b", "trace", "--strict")
	assert.NoError(t, err)
}

func TestTrace_FileToJSON(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	output := filepath.Join(dir, "tree.json")
	require.NoError(t, os.WriteFile(input, []byte("(a + b) * c\n"), 0o644))

	stdout, _, err := execute(t, "", "trace", "--format", "json", "--out", output, input)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var root rdttrace.Node
	require.NoError(t, json.Unmarshal(data, &root))
	assert.Equal(t, rdttrace.RuleRoot, root.Rule)
	require.Len(t, root.Children, 1)
	assert.Equal(t, rdttrace.RuleExpr, root.Children[0].Rule)
}

func TestTrace_MissingFile(t *testing.T) {
	_, _, err := execute(t, "", "trace", "does-not-exist.txt")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}

func TestTrace_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"mode", []string{"trace", "--mode", "fancy"}},
		{"format", []string{"trace", "--format", "xml"}},
		{"diagnostics", []string{"trace", "--diagnostics", "email"}},
		{"max depth", []string{"trace", "--max-depth", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "a", tt.args...)
			require.Error(t, err)
			assert.True(t, rdterror.HasCode(err, rdterror.CodeInvalidInput), "got %v", err)
		})
	}
}

func TestTrace_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rdtrace.toml")
	require.NoError(t, os.WriteFile(path, []byte("[trace]\nmode = \"compat\"\ndiagnostics = \"inline\"\n"), 0o644))

	stdout, _, err := execute(t, "*", "trace", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "ERROR: Unexpected token in factor\n")
}

func TestTokens(t *testing.T) {
	stdout, _, err := execute(t, "sum + 47", "tokens")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"Next token is: 11, Next lexeme is sum",
		"Next token is: 21, Next lexeme is +",
		"Next token is: 10, Next lexeme is 47",
		"Next token is: -1, Next lexeme is EOF",
	}, "\n")+"\n", stdout)
}

func TestTokens_YAML(t *testing.T) {
	stdout, _, err := execute(t, "x", "tokens", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "lexeme: x")
	assert.Contains(t, stdout, "kind: 11")
}

func TestConfigCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "config", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "mode: standard")
	assert.Contains(t, stdout, "port: 8095")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "rdtrace v")
	assert.Contains(t, stdout, "Trace Format: 1")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, 2, ExitCode(&exitError{code: 2, err: errors.New("diagnostics")}))
}
