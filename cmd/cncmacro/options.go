package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cncmacro/internal/config"
	"cncmacro/internal/diag"
	"cncmacro/internal/diagfmt"
	"cncmacro/internal/driver"
	"cncmacro/internal/source"
)

// loadConfig honors --config, otherwise searches upwards from target.
func loadConfig(cmd *cobra.Command, target string) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg *config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(target)
	}
	if err != nil {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return nil, err
	}
	return cfg, nil
}

// baseOptions collects the flags every command shares.
func baseOptions(cmd *cobra.Command, target string) (driver.Options, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	cfg, err := loadConfig(cmd, target)
	if err != nil {
		return driver.Options{}, err
	}
	return driver.Options{
		Config:         cfg,
		MaxDiagnostics: maxDiagnostics,
		EnableTimings:  showTimings,
	}, nil
}

// printSideDiagnostics печатает диагностики tokenize/parse в stderr.
func printSideDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if bag.Len() == 0 {
		return nil
	}
	color, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{Color: color, Context: 1})
	return nil
}
