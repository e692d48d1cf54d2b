package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cncmacro/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Write a default " + config.FileName,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return fmt.Errorf("failed to get force flag: %w", err)
		}
		path, err := config.Init(dir, force)
		if errors.Is(err, config.ErrExists) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err != nil {
			return err
		}
		quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing configuration")
}
