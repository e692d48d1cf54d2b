package diag

import "cncmacro/internal/source"

// DedupReporter drops repeats of a code on the same span. The scanner
// re-reads input after GoBackTo, so one bad byte can otherwise be reported
// once per pass. The first message wins.
type DedupReporter struct {
	next       Reporter
	seen       map[dedupKey]struct{}
	suppressed int
}

type dedupKey struct {
	code Code
	span source.Span
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	key := dedupKey{code: d.Code, span: d.Primary}
	if _, dup := r.seen[key]; dup {
		r.suppressed++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}

// Suppressed counts dropped repeats.
func (r *DedupReporter) Suppressed() int { return r.suppressed }
