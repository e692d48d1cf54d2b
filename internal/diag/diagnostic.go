package diag

import (
	"cncmacro/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is the marker attached to a node: rule/code, message, severity and span.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// RuleID returns the stable rule id for lint codes and the code id otherwise.
func (d Diagnostic) RuleID() string {
	if r := d.Code.Rule(); r != "" {
		return r
	}
	return d.Code.ID()
}

// Offset and Length expose the primary span in the shape editor surfaces expect.
func (d Diagnostic) Offset() uint32 { return d.Primary.Start }

func (d Diagnostic) Length() uint32 { return d.Primary.Len() }
