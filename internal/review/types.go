package review

import "strings"

// Severity represents how serious a review issue is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Severities lists every severity from most to least serious.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// ParseSeverity maps free text to a Severity. Anything unrecognised is
// treated as medium.
func ParseSeverity(s string) Severity {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if SeverityRank(sev) == 0 {
		return SeverityMedium
	}
	return sev
}

// MeetsThreshold returns true if severity is at or above the threshold.
// A threshold of "none" or "" never matches.
func MeetsThreshold(s Severity, threshold string) bool {
	if threshold == "none" || threshold == "" {
		return false
	}
	t := Severity(strings.ToLower(threshold))
	if SeverityRank(t) == 0 {
		return false
	}
	return SeverityRank(s) >= SeverityRank(t)
}

// ReviewIssue is a single problem reported by the model. File and Line are
// optional: an empty File or a zero Line means the model gave no location.
type ReviewIssue struct {
	Severity    Severity `json:"severity"`
	File        string   `json:"file,omitempty"`
	Line        int      `json:"line,omitempty"`
	Description string   `json:"description"`
	Raw         string   `json:"raw"`
}

// Location renders "file:line", "file", or "" depending on what is known.
func (i ReviewIssue) Location() string {
	if i.File == "" {
		return ""
	}
	if i.Line > 0 {
		return i.File + ":" + itoa(i.Line)
	}
	return i.File
}

// ParsedReview is the structured form of one model response.
type ParsedReview struct {
	Issues []ReviewIssue `json:"issues"`
	LGTM   []string      `json:"lgtm"`
	Raw    string        `json:"raw"`
}

// SeverityCounts holds counts by severity level.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
}

// Summary provides an overview of issues.
type Summary struct {
	Counts          SeverityCounts `json:"counts"`
	Total           int            `json:"total"`
	HighestSeverity Severity       `json:"highestSeverity"`
}

// ComputeSummary calculates the summary from issues.
func ComputeSummary(issues []ReviewIssue) Summary {
	var s Summary
	for _, i := range issues {
		switch i.Severity {
		case SeverityCritical:
			s.Counts.Critical++
		case SeverityHigh:
			s.Counts.High++
		case SeverityMedium:
			s.Counts.Medium++
		case SeverityLow:
			s.Counts.Low++
		case SeverityInfo:
			s.Counts.Info++
		}
		s.Total++
		if SeverityRank(i.Severity) > SeverityRank(s.HighestSeverity) {
			s.HighestSeverity = i.Severity
		}
	}
	return s
}

// GroupBySeverity buckets issues by severity, keeping their original order
// inside each bucket.
func GroupBySeverity(issues []ReviewIssue) map[Severity][]ReviewIssue {
	m := make(map[Severity][]ReviewIssue)
	for _, i := range issues {
		m[i.Severity] = append(m[i.Severity], i)
	}
	return m
}
