package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cncmacro/internal/diagfmt"
	"cncmacro/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file>",
	Short: "Print the token stream of a macro file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	opts, err := baseOptions(cmd, filePath)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(filePath, opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := printSideDiagnostics(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
