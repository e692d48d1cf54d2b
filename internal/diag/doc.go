// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Data model
//
// Diagnostic is the central record and doubles as the per-node marker:
//
//   - Severity : Ignore, Hint, Info, Warning or Error (severity.go). Ignore is
//     never emitted; it exists so configuration can switch a rule off.
//   - Code : compact numeric identifier (codes.go) with a stable string form.
//     Lint codes additionally map to a stable rule id (Code.Rule).
//   - Message : short and actionable.
//   - Primary span : offset/length of the offending node.
//   - Notes: optional secondary spans, e.g. "first declared here".
//
// # Emitting diagnostics
//
// Phases emit through a Reporter. BagReporter collects into a Bag which
// supports limits, sorting, deduplication and filtering. DedupReporter sits in
// front of the scanner because GoBackTo can rescan the same bytes.
//
// Rendering lives in internal/diagfmt; this package does no IO.
package diag
