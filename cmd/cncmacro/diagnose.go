package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cncmacro/internal/diag"
	"cncmacro/internal/diagfmt"
	"cncmacro/internal/driver"
	"cncmacro/internal/source"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file|directory>",
	Short: "Run syntax checks and lint rules on a macro file or directory",
	Long: `Run the full pipeline (load, parse, resolve, lint) on one file or on every
program and definition file below a directory. Exits with status 1 when any
diagnostic has error severity.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	diagCmd.Flags().Bool("no-warnings", false, "drop diagnostics below error severity")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	diagCmd.Flags().Bool("cache", false, "reuse results from the on-disk cache")
	diagCmd.Flags().Bool("clear-cache", false, "drop the on-disk cache before running")
	diagCmd.Flags().String("ui", "auto", "progress view for directories (auto|on|off)")
}

type diagFlags struct {
	format   string
	notes    bool
	pathMode diagfmt.PathMode
	color    bool
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	opts, err := baseOptions(cmd, target)
	if err != nil {
		return err
	}
	opts.IgnoreWarnings = noWarnings
	opts.WarningsAsErrors = warningsAsErrors
	if useCache || clearCache {
		cache, err := driver.OpenDiskCache("cncmacro")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
		}
		if useCache {
			opts.Cache = cache
		}
	}

	flags := diagFlags{format: format, notes: withNotes, pathMode: diagfmt.PathModeAuto, color: color}
	if fullPath {
		flags.pathMode = diagfmt.PathModeAbsolute
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if st.IsDir() {
		return runDiagnoseDir(cmd, target, opts, flags)
	}

	result, err := driver.Diagnose(cmd.Context(), target, opts)
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}
	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		diagfmt.Pretty(out, result.Bag, result.FileSet, flags.prettyOpts())
	case "short":
		diagfmt.Short(out, result.Bag, result.FileSet, withNotes)
	case "json":
		if err := diagfmt.JSON(out, result.Bag, result.FileSet, flags.jsonOpts()); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}
	if opts.EnableTimings {
		printTimings(cmd.ErrOrStderr(), result.File.Path, result.Timings, result.Cached)
	}
	if result.Bag.HasErrors() {
		return errHasErrors
	}
	return nil
}

func (f diagFlags) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{Color: f.color, Context: 1, PathMode: f.pathMode, ShowNotes: f.notes}
}

func (f diagFlags) jsonOpts() diagfmt.JSONOpts {
	return diagfmt.JSONOpts{IncludePositions: true, PathMode: f.pathMode, IncludeNotes: f.notes}
}

func runDiagnoseDir(cmd *cobra.Command, dir string, opts driver.Options, flags diagFlags) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	var (
		fs      *source.FileSet
		results []driver.DiagnoseDirResult
	)
	if shouldUseTUI(mode) {
		files, listErr := driver.ListSourceFiles(dir, opts)
		if listErr != nil {
			return fmt.Errorf("diagnosis failed: %w", listErr)
		}
		fs, results, err = runDiagnoseDirWithUI(cmd.Context(), dir, files, opts, jobs)
	} else {
		fs, results, err = driver.DiagnoseDir(cmd.Context(), dir, opts, jobs)
	}
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	out := cmd.OutOrStdout()
	failed := false
	switch flags.format {
	case "short":
		all := diag.NewBag(0)
		for _, r := range results {
			if r.Result != nil {
				all.AddAll(r.Result.Bag.Items())
			}
		}
		diagfmt.Short(out, all, fs, flags.notes)
	case "pretty":
		first := true
		for _, r := range results {
			if r.Result == nil || r.Result.Bag.Len() == 0 {
				continue
			}
			if !first {
				fmt.Fprintln(out)
			}
			first = false
			fmt.Fprintf(out, "== %s ==\n", displayPath(fs, r, flags.pathMode))
			diagfmt.Pretty(out, r.Result.Bag, fs, flags.prettyOpts())
		}
	case "json":
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for _, r := range results {
			if r.Result != nil {
				output[displayPath(fs, r, flags.pathMode)] = diagfmt.BuildDiagnosticsOutput(r.Result.Bag, fs, flags.jsonOpts())
			}
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	}

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
			failed = true
			continue
		}
		if r.Result.Bag.HasErrors() {
			failed = true
		}
		if opts.EnableTimings {
			printTimings(cmd.ErrOrStderr(), displayPath(fs, r, flags.pathMode), r.Result.Timings, r.Result.Cached)
		}
	}
	if failed {
		return errHasErrors
	}
	return nil
}

func displayPath(fs *source.FileSet, r driver.DiagnoseDirResult, mode diagfmt.PathMode) string {
	if r.Result == nil || r.Result.File == nil {
		return r.Path
	}
	if mode == diagfmt.PathModeAbsolute {
		return r.Result.File.FormatPath("absolute", "")
	}
	return r.Result.File.FormatPath("relative", fs.BaseDir())
}
