package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	rdtexpr "github.com/msto63/rdtrace/foundation/expr"
	rdtlexer "github.com/msto63/rdtrace/foundation/expr/lexer"
)

var tokensFlags struct {
	mode   string
	format string
	out    string
}

var tokensCmd = &cobra.Command{
	Use:   "tokens [file|-]",
	Short: "Dump the token stream",
	Long: `Scans the input to the end and prints every token, including the
terminating EOF token.

The text format prints one line per token:

  Next token is: 11, Next lexeme is sum

json and yaml print the token list with kinds and positions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&tokensFlags.mode, "mode", "", "lexer mode: standard or compat (default from config)")
	tokensCmd.Flags().StringVarP(&tokensFlags.format, "format", "f", "text", "output format: text, json or yaml")
	tokensCmd.Flags().StringVarP(&tokensFlags.out, "out", "o", "", "output file (default: stdout)")
}

func runTokens(cmd *cobra.Command, args []string) error {
	modeName := appConfig.Trace.Mode
	if cmd.Flags().Changed("mode") {
		modeName = tokensFlags.mode
	}
	mode, err := rdtlexer.ParseMode(modeName)
	if err != nil {
		return invalidFlag("mode", modeName, err)
	}
	switch tokensFlags.format {
	case "text", "json", "yaml":
	default:
		return invalidFlag("format", tokensFlags.format, fmt.Errorf("want text, json or yaml"))
	}

	in, closeIn, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer closeIn()

	tokens, diags, err := rdtexpr.Tokens(in, rdtexpr.Options{
		Mode:            mode,
		MaxLexemeLength: appConfig.Trace.MaxLexemeLength,
	})
	if err != nil {
		return err
	}
	for _, d := range diags {
		fmt.Fprintln(cmd.ErrOrStderr(), d.String())
	}

	out, closeOut, err := openOutput(cmd, tokensFlags.out)
	if err != nil {
		return err
	}
	if err := writeTokens(out, tokensFlags.format, tokens); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func writeTokens(w io.Writer, format string, tokens []rdtlexer.Token) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tokens)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tokens); err != nil {
			return err
		}
		return enc.Close()
	default:
		for _, tok := range tokens {
			if _, err := fmt.Fprintln(w, tok.Dump()); err != nil {
				return err
			}
		}
		return nil
	}
}
