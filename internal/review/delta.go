package review

import (
	"strconv"
	"strings"
)

// fingerprintDescLen is how many runes of the description take part in the
// default identity.
const fingerprintDescLen = 60

// FingerprintFunc derives the identity used to match an issue from one run
// with the same issue in another run. Two issues with equal fingerprints are
// treated as the same underlying problem.
type FingerprintFunc func(ReviewIssue) string

// DefaultFingerprint identifies an issue by severity, location and the first
// 60 runes of its description. Raw is ignored so that the same problem
// phrased slightly differently at the tail still matches.
func DefaultFingerprint(i ReviewIssue) string {
	line := ""
	if i.Line > 0 {
		line = strconv.Itoa(i.Line)
	}
	desc := i.Description
	if r := []rune(desc); len(r) > fingerprintDescLen {
		desc = string(r[:fingerprintDescLen])
	}
	return strings.Join([]string{string(i.Severity), i.File, line, desc}, "\x00")
}

// ReviewDelta partitions the current and previous issues of two runs.
// Persisting holds the current copy of each matched issue.
type ReviewDelta struct {
	New        []ReviewIssue `json:"new"`
	Resolved   []ReviewIssue `json:"resolved"`
	Persisting []ReviewIssue `json:"persisting"`
}

// Unchanged reports whether nothing was added or resolved since the
// previous run.
func (d ReviewDelta) Unchanged() bool {
	return len(d.New) == 0 && len(d.Resolved) == 0
}

// Compare computes the delta between two runs using DefaultFingerprint.
func Compare(current, previous []ReviewIssue) ReviewDelta {
	return CompareWith(DefaultFingerprint, current, previous)
}

// CompareWith computes the delta using fp as the issue identity. Output
// slices keep the order of their source collections and are never nil.
func CompareWith(fp FingerprintFunc, current, previous []ReviewIssue) ReviewDelta {
	d := ReviewDelta{
		New:        []ReviewIssue{},
		Resolved:   []ReviewIssue{},
		Persisting: []ReviewIssue{},
	}

	prevKeys := make(map[string]struct{}, len(previous))
	for _, i := range previous {
		prevKeys[fp(i)] = struct{}{}
	}
	curKeys := make(map[string]struct{}, len(current))
	for _, i := range current {
		curKeys[fp(i)] = struct{}{}
	}

	for _, i := range current {
		if _, ok := prevKeys[fp(i)]; ok {
			d.Persisting = append(d.Persisting, i)
		} else {
			d.New = append(d.New, i)
		}
	}
	for _, i := range previous {
		if _, ok := curKeys[fp(i)]; !ok {
			d.Resolved = append(d.Resolved, i)
		}
	}

	return d
}
