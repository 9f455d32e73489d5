package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"cool/internal/observ"
)

func printTimings(out io.Writer, report observ.Report) {
	if out == nil || len(report.Phases) == 0 {
		return
	}
	dim := color.New(color.Faint)
	for _, p := range report.Phases {
		line := fmt.Sprintf("%-8s %7.1f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			line += "  " + dim.Sprint(p.Note)
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "%-8s %7.1f ms\n", "total", report.TotalMS)
}
