package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cncmacro/internal/diagfmt"
	"cncmacro/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file>",
	Short: "Parse a macro file and print its tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	opts, err := baseOptions(cmd, filePath)
	if err != nil {
		return err
	}

	result, err := driver.Parse(filePath, opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := printSideDiagnostics(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTreePretty(cmd.OutOrStdout(), result.Tree, result.FileSet)
	case "json":
		return diagfmt.FormatTreeJSON(cmd.OutOrStdout(), result.Tree)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
