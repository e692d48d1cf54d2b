package driver

import (
	"context"
	"fmt"

	"cncmacro/internal/ast"
	"cncmacro/internal/config"
	"cncmacro/internal/diag"
	"cncmacro/internal/lint"
	"cncmacro/internal/observ"
	"cncmacro/internal/parser"
	"cncmacro/internal/pipeline"
	"cncmacro/internal/source"
	"cncmacro/internal/symbols"
	"cncmacro/internal/trace"
	"cncmacro/internal/workspace"
)

type DiagnoseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *ast.Tree      // nil, если результат взят из кэша
	Table   *symbols.Table // nil, если результат взят из кэша
	Bag     *diag.Bag
	Cached  bool
	Timings *observ.Report
}

// Diagnose runs load, parse, resolve and lint for one file. Includes are read
// from disk relative to the file and the configured include paths.
func Diagnose(ctx context.Context, path string, opts Options) (*DiagnoseResult, error) {
	cfg, err := opts.config(path)
	if err != nil {
		return nil, err
	}
	maxErrors, err := opts.maxErrors()
	if err != nil {
		return nil, err
	}
	provider := workspace.NewDiskProvider(newFileSet(cfg, ""), workspace.Options{
		IncludePaths: cfg.Workspace.IncludePaths,
		MaxErrors:    maxErrors,
	})
	return diagnoseFile(ctx, provider, path, cfg, opts)
}

// phaseRun связывает прогресс, трассировку и таймер одной фазы.
type phaseRun struct {
	ctx   context.Context
	path  string
	opts  Options
	timer *observ.Timer
}

func (r *phaseRun) begin(stage pipeline.Stage) func(note string) {
	pipeline.Emit(r.opts.Progress, pipeline.Event{File: r.path, Stage: stage, Status: pipeline.StatusWorking})
	span := trace.Begin(trace.FromContext(r.ctx), trace.ScopePass, string(stage), trace.CurrentSpan(r.ctx))
	var stop func(string)
	if r.timer != nil {
		stop = r.timer.Begin(string(stage))
	}
	return func(note string) {
		span.End(note)
		if stop != nil {
			stop(note)
		}
	}
}

func (r *phaseRun) fail(stage pipeline.Stage, err error) error {
	pipeline.Emit(r.opts.Progress, pipeline.Event{File: r.path, Stage: stage, Status: pipeline.StatusError, Err: err})
	return err
}

func (r *phaseRun) report() *observ.Report {
	if r.timer == nil {
		return nil
	}
	rep := r.timer.Report()
	return &rep
}

func diagnoseFile(ctx context.Context, provider *workspace.DiskProvider, path string, cfg *config.Config, opts Options) (*DiagnoseResult, error) {
	run := &phaseRun{ctx: ctx, path: path, opts: opts}
	if opts.EnableTimings {
		run.timer = observ.NewTimer()
	}
	fs := provider.FileSet()

	end := run.begin(pipeline.StageLoad)
	file, err := loadFile(fs, path)
	if err != nil {
		end("error")
		return nil, run.fail(pipeline.StageLoad, err)
	}
	end(fmt.Sprintf("bytes=%d", len(file.Content)))

	maxErrors, err := opts.maxErrors()
	if err != nil {
		return nil, run.fail(pipeline.StageParse, err)
	}
	key := cacheKey(file, cfg, maxErrors)
	if opts.Cache != nil {
		if raw, ok := opts.Cache.lookup(key, fs, file, provider); ok {
			trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache_hit", file.Path, trace.CurrentSpan(ctx))
			res := finish(fs, file, raw, opts)
			res.Cached = true
			res.Timings = run.report()
			pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageLint, Status: pipeline.StatusDone})
			return res, nil
		}
	}

	end = run.begin(pipeline.StageParse)
	parsed := parser.ParseFile(fs, file, parser.Options{MaxErrors: maxErrors})
	end(fmt.Sprintf("nodes=%d markers=%d", parsed.Tree.Nodes.Len(), len(parsed.Markers)))

	uri, err := source.AbsolutePath(file.Path)
	if err != nil {
		uri = file.Path
	}
	doc := &workspace.Document{URI: uri, File: file, Tree: parsed.Tree, Markers: parsed.Markers}

	end = run.begin(pipeline.StageResolve)
	table := symbols.Resolve(doc, provider)
	end(fmt.Sprintf("symbols=%d includes=%d", table.Symbols.Len(), len(table.Includes())))

	end = run.begin(pipeline.StageLint)
	entries := lint.Entries(parsed.Tree, table, cfg.Lint)
	end(fmt.Sprintf("entries=%d", len(entries)))

	raw := make([]diag.Diagnostic, 0, len(parsed.Markers)+len(entries))
	raw = append(raw, parsed.Markers...)
	raw = append(raw, entries...)

	// с неразрешёнными include результат зависит от файлов, которых ещё нет
	if opts.Cache != nil && table.Unresolved == 0 {
		if err := opts.Cache.store(key, fs, file, table.Links, raw); err != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache_store_failed", err.Error(), trace.CurrentSpan(ctx))
		}
	}

	res := finish(fs, file, raw, opts)
	res.Tree = parsed.Tree
	res.Table = table
	res.Timings = run.report()
	pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageLint, Status: pipeline.StatusDone})
	return res, nil
}

// finish применяет фильтры опций и собирает Bag.
func finish(fs *source.FileSet, file *source.File, raw []diag.Diagnostic, opts Options) *DiagnoseResult {
	bag := diag.NewBag(opts.MaxDiagnostics)
	bag.AddAll(raw)

	if opts.IgnoreWarnings {
		bag.Filter(func(d diag.Diagnostic) bool {
			return d.Severity >= diag.SevError
		})
	}
	if opts.WarningsAsErrors {
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	}
	bag.Sort()

	return &DiagnoseResult{
		FileSet: fs,
		File:    file,
		Bag:     bag,
	}
}
