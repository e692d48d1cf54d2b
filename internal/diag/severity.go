package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic.
// Ordering matters: Bag.HasErrors and filters compare with >=.
type Severity uint8

const (
	// SevIgnore suppresses emission; a rule configured to Ignore produces nothing.
	SevIgnore Severity = iota
	// SevHint is the weakest visible level.
	SevHint
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevIgnore:
		return "IGNORE"
	case SevHint:
		return "HINT"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lower-case form used in config files and short output.
func (s Severity) Label() string {
	return strings.ToLower(s.String())
}

// ParseSeverity reads a config value such as "warning" or "ignore".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore", "off":
		return SevIgnore, nil
	case "hint":
		return SevHint, nil
	case "info", "information":
		return SevInfo, nil
	case "warning", "warn":
		return SevWarning, nil
	case "error":
		return SevError, nil
	default:
		return SevIgnore, fmt.Errorf("invalid severity %q (expected error|warning|info|hint|ignore)", s)
	}
}
