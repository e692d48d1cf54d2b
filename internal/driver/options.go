// Package driver runs the load, parse, resolve and lint phases over files and directories.
package driver

import (
	"fmt"
	"path/filepath"

	"fortio.org/safecast"

	"cncmacro/internal/config"
	"cncmacro/internal/pipeline"
	"cncmacro/internal/source"
)

// Options configures a pipeline run.
type Options struct {
	// Config supplies rule severities and workspace settings; nil means
	// config.Discover from the target path.
	Config           *config.Config
	MaxDiagnostics   int
	IgnoreWarnings   bool
	WarningsAsErrors bool
	EnableTimings    bool
	Cache            *DiskCache // nil отключает кэш
	Progress         pipeline.ProgressSink
}

func (o Options) config(target string) (*config.Config, error) {
	if o.Config != nil {
		return o.Config, nil
	}
	cfg, err := config.Discover(target)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (o Options) maxErrors() (uint, error) {
	if o.MaxDiagnostics <= 0 {
		return 0, nil
	}
	return safecast.Conv[uint](o.MaxDiagnostics)
}

// newFileSet creates a file set honoring the configured encoding and extensions.
func newFileSet(cfg *config.Config, baseDir string) *source.FileSet {
	var fs *source.FileSet
	if baseDir != "" {
		fs = source.NewFileSetWithBase(baseDir)
	} else {
		fs = source.NewFileSet()
	}
	fs.SetEncoding(cfg.Workspace.Encoding)
	fs.SetExtensions(cfg.Workspace.Extensions)
	return fs
}

func loadFile(fs *source.FileSet, path string) (*source.File, error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.ToSlash(path), err)
	}
	return fs.Get(id), nil
}
