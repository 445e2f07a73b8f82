package redact

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dshills/codereview/internal/diffparse"
)

// Placeholder replaces every detected secret.
const Placeholder = "[REDACTED]"

const pathPolicyNote = Placeholder + " (file content redacted by path policy)"

// secretPatterns are regex heuristics for common secret types.
var secretPatterns = []*regexp.Regexp{
	// key = value assignments
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`),
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWT
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`),
	// Connection strings with inline credentials
	regexp.MustCompile(`(?i)\b(postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis|amqp)://[^:\s/]+:[^@\s]+@`),
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`),
	regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`),
	regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`),
}

// Secrets replaces detected secrets in text with [REDACTED].
func Secrets(text string) string {
	for _, pat := range secretPatterns {
		text = pat.ReplaceAllLiteralString(text, Placeholder)
	}
	return text
}

// ShouldRedactPath checks if a file path matches any of the redaction path patterns.
func ShouldRedactPath(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, path); err == nil && matched {
			return true
		}
		// "**/.env" also matches a bare ".env" at any depth.
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			if matched, err := filepath.Match(rest, filepath.Base(path)); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// Redactor scrubs secrets from everything that is sent to the model.
type Redactor struct {
	// Secrets enables pattern-based redaction of line content.
	Secrets bool
	// Paths lists glob patterns whose files are withheld entirely.
	Paths []string
}

// Content redacts a whole file body. Files matching the path policy are
// replaced by a single note.
func (r Redactor) Content(path, content string) string {
	if ShouldRedactPath(path, r.Paths) {
		return pathPolicyNote + "\n"
	}
	if r.Secrets {
		return Secrets(content)
	}
	return content
}

// Diff returns a copy of d with secrets removed from every line. Files
// matching the path policy keep their status and counts but lose their
// hunks. The returned Raw is redacted too.
func (r Redactor) Diff(d diffparse.DiffResult) diffparse.DiffResult {
	out := diffparse.DiffResult{
		Files:          make([]diffparse.DiffFile, 0, len(d.Files)),
		TotalAdditions: d.TotalAdditions,
		TotalDeletions: d.TotalDeletions,
		Raw:            d.Raw,
	}
	if r.Secrets {
		out.Raw = Secrets(d.Raw)
	}

	for _, f := range d.Files {
		nf := f
		if ShouldRedactPath(f.Path, r.Paths) {
			nf.Hunks = []diffparse.DiffHunk{}
			out.Files = append(out.Files, nf)
			continue
		}
		if r.Secrets {
			nf.Hunks = make([]diffparse.DiffHunk, len(f.Hunks))
			for i, h := range f.Hunks {
				lines := make([]diffparse.DiffLine, len(h.Lines))
				for j, l := range h.Lines {
					l.Content = Secrets(l.Content)
					lines[j] = l
				}
				nf.Hunks[i] = diffparse.DiffHunk{Header: h.Header, Lines: lines}
			}
		}
		out.Files = append(out.Files, nf)
	}
	return out
}
