package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/codereview/internal/review"
)

// MarkdownExporter outputs a compact markdown list of issues.
type MarkdownExporter struct{}

func (m *MarkdownExporter) Export(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}
	r := report.Review

	ew.println("# Code Review Results")
	ew.println("")

	if len(r.Issues) == 0 {
		ew.println("No issues found. :white_check_mark:")
	} else {
		ew.printf("Found **%d** issue(s):\n\n", len(r.Issues))
		for _, i := range r.Issues {
			loc := "_no location_"
			if l := i.Location(); l != "" {
				loc = "`" + l + "`"
			}
			ew.printf("- %s **[%s]** %s: %s\n",
				mdSeverityIcon(i.Severity), strings.ToUpper(string(i.Severity)), loc, i.Description)
		}
	}

	if len(r.LGTM) > 0 {
		ew.println("")
		ew.println("## Looks Good")
		ew.println("")
		for _, item := range r.LGTM {
			ew.printf("- %s\n", item)
		}
	}

	ew.println("")
	ew.println("---")
	footer := fmt.Sprintf("*Reviewed by %s", review.ToolName)
	if report.Model != "" {
		footer += " with " + report.Model
	}
	if report.Timing.TotalMs > 0 {
		footer += fmt.Sprintf(" in %dms", report.Timing.TotalMs)
	}
	ew.println(footer + "*")
	return ew.err
}

func mdSeverityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return ":red_circle:"
	case review.SeverityHigh:
		return ":orange_circle:"
	case review.SeverityMedium:
		return ":yellow_circle:"
	case review.SeverityLow:
		return ":large_blue_circle:"
	default:
		return ":white_circle:"
	}
}
