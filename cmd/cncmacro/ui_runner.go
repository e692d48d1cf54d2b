package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cncmacro/internal/driver"
	"cncmacro/internal/pipeline"
	"cncmacro/internal/source"
	"cncmacro/internal/ui"
)

type dirOutcome struct {
	fs      *source.FileSet
	results []driver.DiagnoseDirResult
	err     error
}

// runDiagnoseDirWithUI runs DiagnoseDir while a progress view renders events on stderr.
func runDiagnoseDirWithUI(ctx context.Context, dir string, files []string, opts driver.Options, jobs int) (*source.FileSet, []driver.DiagnoseDirResult, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.ChannelSink{Ch: events}
		fs, results, err := driver.DiagnoseDir(ctx, dir, optsCopy, jobs)
		outcomeCh <- dirOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("diag "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// модель больше не читает канал; дочитываем, чтобы воркеры не встали
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
