package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"cncmacro/internal/config"
	"cncmacro/internal/pipeline"
	"cncmacro/internal/source"
	"cncmacro/internal/trace"
	"cncmacro/internal/workspace"
)

// DiagnoseDirResult is the outcome for one file of a directory run.
// Err is set when the file could not be loaded; Result is nil then.
type DiagnoseDirResult struct {
	Path   string
	Result *DiagnoseResult
	Err    error
}

// ListSourceFiles returns the sorted absolute paths DiagnoseDir would visit.
func ListSourceFiles(dir string, opts Options) ([]string, error) {
	cfg, err := opts.config(dir)
	if err != nil {
		return nil, err
	}
	return newDirProvider(cfg, dir, 0).GetAll(nil), nil
}

func newDirProvider(cfg *config.Config, dir string, maxErrors uint) *workspace.DiskProvider {
	return workspace.NewDiskProvider(newFileSet(cfg, dir), workspace.Options{
		Roots:        []string{dir},
		IncludePaths: cfg.Workspace.IncludePaths,
		MaxErrors:    maxErrors,
	})
}

// DiagnoseDir runs the pipeline for every source file under dir using up to
// jobs workers (GOMAXPROCS when jobs <= 0). Results follow sorted path order
// and share one FileSet; included definition files are parsed once per run.
func DiagnoseDir(ctx context.Context, dir string, opts Options, jobs int) (*source.FileSet, []DiagnoseDirResult, error) {
	cfg, err := opts.config(dir)
	if err != nil {
		return nil, nil, err
	}
	opts.Config = cfg
	maxErrors, err := opts.maxErrors()
	if err != nil {
		return nil, nil, err
	}
	provider := newDirProvider(cfg, dir, maxErrors)
	files := provider.GetAll(nil)
	if len(files) == 0 {
		return provider.FileSet(), nil, nil
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, path := range files {
		pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusQueued})
	}

	tracer := trace.FromContext(ctx)
	results := make([]DiagnoseDirResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			span := trace.Begin(tracer, trace.ScopeFile, "file", trace.CurrentSpan(ctx)).WithExtra("path", path)
			fctx := trace.WithSpan(gctx, span)

			res, err := diagnoseFile(fctx, provider, path, cfg, opts)
			results[i] = DiagnoseDirResult{Path: path, Result: res, Err: err}

			note := "error"
			if res != nil {
				note = "ok"
				if res.Cached {
					note = "cached"
				}
			}
			span.End(note)
			// ошибка одного файла не останавливает остальные
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return provider.FileSet(), results, err
	}
	return provider.FileSet(), results, nil
}
