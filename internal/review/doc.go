// Package review turns model output into structured review issues and
// tracks how those issues change between runs.
//
// ParseResponse reads the line-oriented answer a model gives to the prompt
// built by BuildPrompt. Lines of the form
//
//	ISSUE: [severity: high] [src/a.go:42] description
//	LGTM: what looks good
//
// are recognised, along with a small set of keyword prefixes ("bug:",
// "consider:", ...) that models tend to fall back on. Unknown severities
// become medium and any other line is dropped, so parsing never fails.
//
// Compare partitions the issues of the current run against those of a
// previous run into new, resolved and persisting sets. Identity comes from
// a FingerprintFunc; DefaultFingerprint uses severity, location and the
// first 60 runes of the description.
package review
