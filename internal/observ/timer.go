// Package observ measures pipeline phases for --timings output.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one measured step: load, parse, resolve, lint.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer collects phases. Safe for concurrent use by directory workers.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 4)} }

// Begin starts a phase and returns a func that ends it with a note.
func (t *Timer) Begin(name string) func(note string) {
	t.mu.Lock()
	idx := len(t.phases)
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	t.mu.Unlock()
	return func(note string) {
		t.mu.Lock()
		defer t.mu.Unlock()
		p := &t.phases[idx]
		p.Dur = time.Since(p.Start)
		p.Note = note
	}
}

// PhaseReport - фаза в виде для JSON.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report sums phases of the same name in first-seen order.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	var report Report
	index := make(map[string]int)
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		i, ok := index[p.Name]
		if !ok {
			i = len(report.Phases)
			index[p.Name] = i
			report.Phases = append(report.Phases, PhaseReport{Name: p.Name})
		}
		report.Phases[i].DurationMS += millis(p.Dur)
		if p.Note != "" {
			report.Phases[i].Note = p.Note
		}
	}
	report.TotalMS = millis(total)
	return report
}

// Summary renders the report as an aligned table.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-10s %8.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-10s %8.2f ms\n", "total", report.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
