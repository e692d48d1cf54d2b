package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"cncmacro/internal/ast"
	"cncmacro/internal/driver"
	"cncmacro/internal/symbols"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [flags] <file>",
	Short: "List symbols and labels visible from a file",
	Long:  `Resolve includes of a file and print every visible @NAME and >NAME definition grouped by the file that declares it`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

func init() {
	symbolsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	symbolsCmd.Flags().Bool("labels", true, "include >NAME label definitions")
}

type symbolJSON struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Value     string `json:"value"`
	ValueType string `json:"value_type"`
}

type symbolGroupJSON struct {
	File    string       `json:"file"`
	Symbols []symbolJSON `json:"symbols"`
}

func runSymbols(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withLabels, err := cmd.Flags().GetBool("labels")
	if err != nil {
		return fmt.Errorf("failed to get labels flag: %w", err)
	}

	opts, err := baseOptions(cmd, args[0])
	if err != nil {
		return err
	}
	result, err := driver.Diagnose(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}
	if err := printSideDiagnostics(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}

	ref := ast.RefSymbol
	if withLabels {
		ref |= ast.RefLabel
	}
	groups := result.Table.FindSymbols(ref)

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		for i, g := range groups {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s:\n", g.URI)
			width := nameWidth(g.Symbols)
			for _, sym := range g.Symbols {
				fmt.Fprintf(out, "  %-6s %-*s = %s (%s)\n", sym.Ref, width, sym.Name, sym.Value, sym.ValueType)
			}
		}
	case "json":
		output := make([]symbolGroupJSON, 0, len(groups))
		for _, g := range groups {
			entry := symbolGroupJSON{File: g.URI, Symbols: make([]symbolJSON, 0, len(g.Symbols))}
			for _, sym := range g.Symbols {
				entry.Symbols = append(entry.Symbols, symbolJSON{
					Name:      sym.Name,
					Kind:      sym.Ref.String(),
					Value:     sym.Value,
					ValueType: sym.ValueType.String(),
				})
			}
			output = append(output, entry)
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode symbols: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}

func nameWidth(syms []*symbols.Symbol) int {
	w := 0
	for _, s := range syms {
		w = max(w, len(s.Name))
	}
	return w
}
