package review

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	issuePrefix = "ISSUE:"
	lgtmPrefix  = "LGTM:"
)

var (
	severityTag     = regexp.MustCompile(`(?i)\[severity:\s*(critical|high|medium|low|info)\]`)
	severityAnyTag  = regexp.MustCompile(`(?i)\[severity:[^\]]+\]`)
	locatorTag      = regexp.MustCompile(`\[([^\]]+):(\d+)\]`)
	keywordFallback = regexp.MustCompile(`(?i)^(bug|error|warning|note|fix|consider|avoid):`)
)

// ParseResponse turns free-text model output into a ParsedReview.
//
// Only three line shapes are understood: "LGTM: text", "ISSUE: [severity: S]
// [file:line] text", and lines starting with a keyword such as "bug:" or
// "consider:". Everything else is dropped.
func ParseResponse(raw string) ParsedReview {
	out := ParsedReview{Issues: []ReviewIssue{}, LGTM: []string{}, Raw: raw}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if rest, ok := strings.CutPrefix(line, lgtmPrefix); ok {
			out.LGTM = append(out.LGTM, strings.TrimSpace(rest))
			continue
		}

		if rest, ok := strings.CutPrefix(line, issuePrefix); ok {
			out.Issues = append(out.Issues, parseIssueLine(strings.TrimSpace(rest), line))
			continue
		}

		if keywordFallback.MatchString(line) {
			out.Issues = append(out.Issues, ReviewIssue{
				Severity:    SeverityMedium,
				Description: line,
				Raw:         line,
			})
		}
	}

	return out
}

func parseIssueLine(content, raw string) ReviewIssue {
	issue := ReviewIssue{Severity: SeverityMedium, Raw: raw}

	if m := severityTag.FindStringSubmatch(content); m != nil {
		issue.Severity = Severity(strings.ToLower(m[1]))
	}

	if m := locatorTag.FindStringSubmatch(content); m != nil {
		issue.File = m[1]
		if n, err := strconv.Atoi(m[2]); err == nil {
			issue.Line = n
		}
	}

	desc := replaceFirst(severityAnyTag, content)
	desc = replaceFirst(locatorTag, desc)
	issue.Description = strings.TrimSpace(desc)

	return issue
}

// replaceFirst removes only the leftmost match of re from s.
func replaceFirst(re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
