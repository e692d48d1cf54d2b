package ui

import (
	"errors"
	"strings"
	"testing"

	"cncmacro/internal/pipeline"
)

func TestProgressTracksFileStages(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewProgressModel("diag", []string{"a.src", "b.src"}, events).(*progressModel)

	m.applyEvent(pipeline.Event{File: "a.src", Stage: pipeline.StageParse, Status: pipeline.StatusWorking})
	if got := m.items[0].status; got != "parsing" {
		t.Fatalf("a.src status = %q, want parsing", got)
	}
	if got := m.items[1].status; got != labelQueued {
		t.Fatalf("b.src status = %q, want queued", got)
	}

	m.applyEvent(pipeline.Event{File: "a.src", Stage: pipeline.StageLint, Status: pipeline.StatusDone})
	m.applyEvent(pipeline.Event{File: "b.src", Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: errors.New("boom")})
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}
	view := m.View()
	if !strings.Contains(view, "2/2, 1 failed") {
		t.Fatalf("header missing counts:\n%s", view)
	}
	if !strings.Contains(view, "boom") {
		t.Fatalf("view does not show the error:\n%s", view)
	}
}

func TestProgressIgnoresUnknownFiles(t *testing.T) {
	m := NewProgressModel("diag", []string{"a.src"}, nil).(*progressModel)
	m.applyEvent(pipeline.Event{File: "zzz.src", Status: pipeline.StatusDone})
	if finished, _ := m.counts(); finished != 0 {
		t.Fatalf("unknown file counted as finished")
	}
	m.applyEvent(pipeline.Event{Stage: pipeline.StageLint, Status: pipeline.StatusWorking})
	if m.stageLabel != "linting" {
		t.Fatalf("stageLabel = %q", m.stageLabel)
	}
}

func TestTruncateKeepsTail(t *testing.T) {
	got := truncate("programs/very/long/path/O1000.src", 12)
	if !strings.HasSuffix(got, "O1000.src") || !strings.HasPrefix(got, "...") {
		t.Fatalf("truncate = %q", got)
	}
}
