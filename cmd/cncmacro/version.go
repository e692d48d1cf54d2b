package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cncmacro/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		color, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.Line(color))
		return nil
	},
}
