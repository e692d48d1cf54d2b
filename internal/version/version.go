package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Overridden at build time via -ldflags "-X cncmacro/internal/version.Version=...".
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each component in its own color.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Line is the full version line printed by `cncmacro version`.
func Line(colored bool) string {
	v := Version
	if colored {
		v = Colored()
	}
	out := "cncmacro " + v
	if GitCommit != "" {
		out += fmt.Sprintf(" (%s)", GitCommit)
	}
	if BuildDate != "" {
		out += " built " + BuildDate
	}
	return out
}
