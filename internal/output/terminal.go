package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dshills/codereview/internal/review"
)

const ruleWidth = 50

// palette paints text only when color output was requested. Each call
// forces the choice so output does not depend on TTY detection.
type palette struct {
	enabled bool
}

func (p palette) paint(s string, attrs ...color.Attribute) string {
	if !p.enabled {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func (p palette) rule() string {
	return p.paint(strings.Repeat("─", ruleWidth), color.FgHiBlack)
}

var severityColors = map[review.Severity][]color.Attribute{
	review.SeverityCritical: {color.FgRed},
	review.SeverityHigh:     {color.FgHiRed},
	review.SeverityMedium:   {color.FgYellow},
	review.SeverityLow:      {color.FgCyan},
	review.SeverityInfo:     {color.FgHiBlack},
}

func severityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return "[!!!]"
	case review.SeverityHigh:
		return "[!!]"
	case review.SeverityMedium:
		return "[!]"
	case review.SeverityLow:
		return "[-]"
	default:
		return "[i]"
	}
}

// WriteReview prints issues grouped by severity, most severe first,
// followed by the LGTM notes and a one-line verdict.
func WriteReview(w io.Writer, r review.ParsedReview, useColor bool) error {
	p := palette{enabled: useColor}
	ew := &errWriter{w: w}

	ew.println("")
	ew.println(p.paint("Code Review Results", color.Bold))
	ew.println(p.rule())

	if len(r.Issues) == 0 && len(r.LGTM) == 0 {
		ew.println(p.paint("No issues found. Clean diff!", color.FgGreen))
		ew.println("")
		return ew.err
	}

	grouped := review.GroupBySeverity(r.Issues)
	for _, sev := range review.Severities {
		issues := grouped[sev]
		if len(issues) == 0 {
			continue
		}
		attrs := severityColors[sev]
		heading := fmt.Sprintf("%s %s (%d)", severityIcon(sev), strings.ToUpper(string(sev)), len(issues))
		ew.println("")
		ew.println(p.paint(heading, append(attrs, color.Bold)...))
		for _, i := range issues {
			loc := ""
			if l := i.Location(); l != "" {
				loc = " " + p.paint(l, color.FgHiBlack)
			}
			ew.printf("  %s%s %s\n", p.paint("▸", attrs...), loc, i.Description)
		}
	}

	if len(r.LGTM) > 0 {
		ew.println("")
		ew.println(p.paint("Looks Good", color.FgGreen, color.Bold))
		for _, item := range r.LGTM {
			ew.printf("  %s %s\n", p.paint("▸", color.FgGreen), item)
		}
	}

	ew.println("")
	ew.println(p.rule())
	ew.println(verdict(p, review.ComputeSummary(r.Issues)))
	ew.println("")
	return ew.err
}

func verdict(p palette, s review.Summary) string {
	blocking := s.Counts.Critical + s.Counts.High
	switch {
	case blocking > 0:
		return p.paint(fmt.Sprintf("%d critical/high issue(s) found: review before merging", blocking), color.FgRed)
	case s.Total > 0:
		return p.paint(fmt.Sprintf("%d issue(s) found: consider addressing", s.Total), color.FgYellow)
	default:
		return p.paint("All clear!", color.FgGreen)
	}
}

// WriteDelta prints what changed since the previous review.
func WriteDelta(w io.Writer, d review.ReviewDelta, useColor bool) error {
	p := palette{enabled: useColor}
	ew := &errWriter{w: w}

	ew.println("")
	ew.println(p.paint("Review Diff (vs last run)", color.Bold))
	ew.println(p.rule())

	if d.Unchanged() {
		ew.println(p.paint("No change from last review.", color.FgHiBlack))
		ew.println("")
		return ew.err
	}

	sections := []struct {
		title    string
		marker   string
		attrs    []color.Attribute
		issues   []review.ReviewIssue
		severity bool
	}{
		{"Resolved", "✔", []color.Attribute{color.FgGreen}, d.Resolved, false},
		{"New issues", "▸", []color.Attribute{color.FgRed}, d.New, true},
		{"Still open", "·", []color.Attribute{color.FgYellow}, d.Persisting, true},
	}
	for _, s := range sections {
		if len(s.issues) == 0 {
			continue
		}
		ew.println("")
		ew.println(p.paint(fmt.Sprintf("%s (%d)", s.title, len(s.issues)), append(s.attrs, color.Bold)...))
		for _, i := range s.issues {
			line := "  " + s.marker
			if l := i.Location(); l != "" {
				line += " " + l
			}
			if s.severity {
				line += " [" + string(i.Severity) + "]"
			}
			line += " " + i.Description
			ew.println(p.paint(line, s.attrs...))
		}
	}

	ew.println("")
	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
