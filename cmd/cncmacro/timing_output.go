package main

import (
	"fmt"
	"io"

	"cncmacro/internal/observ"
)

// printTimings пишет отчёт по фазам одного файла.
func printTimings(w io.Writer, path string, report *observ.Report, cached bool) {
	if report == nil {
		return
	}
	suffix := ""
	if cached {
		suffix = " (cached)"
	}
	fmt.Fprintf(w, "timings %s%s:\n", path, suffix)
	for _, p := range report.Phases {
		fmt.Fprintf(w, "  %-10s %8.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			fmt.Fprintf(w, "  // %s", p.Note)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "  %-10s %8.2f ms\n", "total", report.TotalMS)
}
