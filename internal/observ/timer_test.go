package observ

import (
	"strings"
	"testing"
)

func TestTimerMergesPhases(t *testing.T) {
	tm := NewTimer()
	tm.Begin("parse")("a.src")
	tm.Begin("lint")("")
	tm.Begin("parse")("b.src")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "parse" || r.Phases[1].Name != "lint" {
		t.Fatalf("unexpected phases %+v", r.Phases)
	}
	if r.Phases[0].Note != "b.src" {
		t.Fatalf("note = %q", r.Phases[0].Note)
	}
	s := tm.Summary()
	if !strings.HasPrefix(s, "timings:\n") || !strings.Contains(s, "total") {
		t.Fatalf("summary:\n%s", s)
	}
}
