package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestLine(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version, GitCommit, BuildDate = "1.2.3", "", ""
	if got := Line(false); got != "cncmacro 1.2.3" {
		t.Fatalf("Line = %q", got)
	}

	GitCommit, BuildDate = "abc123", "2026-01-15"
	if got := Line(false); got != "cncmacro 1.2.3 (abc123) built 2026-01-15" {
		t.Fatalf("Line = %q", got)
	}
}

func TestColoredKeepsText(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()

	color.NoColor = true
	Version = "0.4.1-rc1"
	if got := Colored(); got != "0.4.1-rc1" {
		t.Fatalf("Colored = %q", got)
	}
	Version = "weird"
	if got := Colored(); got != "weird" {
		t.Fatalf("Colored = %q", got)
	}
}
