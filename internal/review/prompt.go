package review

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/dshills/codereview/internal/diffparse"
)

// DefaultMaxIssues caps the number of issues the model is asked to report.
const DefaultMaxIssues = 10

// PromptOptions controls what the review prompt asks for.
type PromptOptions struct {
	CheckSecurity    bool
	CheckPerformance bool
	CheckStyle       bool
	MaxIssues        int
	// FileContexts maps a diff path to the full file content. Empty or
	// missing entries are skipped.
	FileContexts map[string]string
}

// Language is the dominant language of a change set.
type Language string

const (
	LangRust       Language = "rust"
	LangGo         Language = "go"
	LangPython     Language = "python"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangGeneric    Language = "generic"
)

var languageOrder = []Language{LangRust, LangGo, LangPython, LangTypeScript, LangJavaScript, LangGeneric}

var languageHints = map[Language]string{
	LangRust: `Language: Rust.
Extra focus:
- Ownership/borrowing violations or unnecessary clones
- Missing error propagation (? operator vs .unwrap()/.expect())
- Lifetime annotation issues
- Unsafe blocks without justification
- Panic-prone patterns (index out of bounds, integer overflow in release)`,
	LangGo: `Language: Go.
Extra focus:
- Goroutine leaks (channels never closed, goroutines that never exit)
- Error return values that are silently ignored
- Race conditions (shared mutable state without sync)
- defer inside loops (subtle resource exhaustion)
- Missing context cancellation propagation`,
	LangPython: `Language: Python.
Extra focus:
- Mutable default arguments (def f(x=[]))
- Bare except clauses that swallow all errors
- Missing type hints where they aid clarity
- N+1 query patterns or missing async/await in async functions
- import * that pollutes namespace`,
	LangTypeScript: `Language: TypeScript.
Extra focus:
- Use of 'any' type that defeats type safety
- Non-null assertions (!) without justification
- Missing error handling in async/await chains
- Type-unsafe casts (as SomeType without validation)
- Missing return types on exported functions`,
	LangJavaScript: `Language: JavaScript.
Extra focus:
- Implicit type coercions (== vs ===)
- Unhandled promise rejections
- var usage instead of const/let
- Callback-style code that should use async/await
- Missing null/undefined checks`,
}

// DetectLanguage picks the language with the most files in the diff.
// Ties go to the earlier entry of rust, go, python, typescript,
// javascript, generic.
func DetectLanguage(files []diffparse.DiffFile) Language {
	counts := make(map[Language]int)
	for _, f := range files {
		counts[languageForExt(path.Ext(f.Path))]++
	}
	best := LangGeneric
	bestN := 0
	for _, l := range languageOrder {
		if counts[l] > bestN {
			best, bestN = l, counts[l]
		}
	}
	return best
}

func languageForExt(ext string) Language {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "rs":
		return LangRust
	case "go":
		return LangGo
	case "py":
		return LangPython
	case "ts", "tsx":
		return LangTypeScript
	case "js", "jsx", "mjs":
		return LangJavaScript
	default:
		return LangGeneric
	}
}

// BuildPrompt renders the review request sent to the model.
func BuildPrompt(diff diffparse.DiffResult, opts PromptOptions) string {
	var checks []string
	if opts.CheckSecurity {
		checks = append(checks, "security vulnerabilities")
	}
	if opts.CheckPerformance {
		checks = append(checks, "performance issues")
	}
	if opts.CheckStyle {
		checks = append(checks, "code style and readability")
	}
	checks = append(checks, "logic errors", "edge cases", "missing error handling")

	maxIssues := opts.MaxIssues
	if maxIssues <= 0 {
		maxIssues = DefaultMaxIssues
	}

	var b strings.Builder
	b.WriteString("You are an expert code reviewer. Review the following git diff and provide specific, actionable feedback.\n\n")
	b.WriteString("Focus on:\n")
	for _, c := range checks {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	if hint := languageHints[DetectLanguage(diff.Files)]; hint != "" {
		b.WriteString("\n")
		b.WriteString(hint)
		b.WriteString("\n")
	}

	b.WriteString("\nFormat each issue EXACTLY as:\n")
	b.WriteString("ISSUE: [severity: critical|high|medium|low] [file:line] description\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Only report real issues, not stylistic preferences unless check_style is relevant\n")
	b.WriteString("- Be specific: include file name and line number when possible\n")
	b.WriteString("- If code looks good, say \"LGTM: [what looks good]\"\n")
	b.WriteString("- Keep each issue to one line\n")
	fmt.Fprintf(&b, "- Max %d issues total\n", maxIssues)

	if ctx := renderFileContexts(diff.Files, opts.FileContexts); ctx != "" {
		b.WriteString("\n## Full File Context\n\n")
		b.WriteString(ctx)
	}

	b.WriteString("\n## Diff to Review\n\n")
	b.WriteString(renderDiffSummary(diff.Files))
	b.WriteString("\n\n## Review:")

	return b.String()
}

// renderDiffSummary lists only the changed lines of each hunk, prefixed
// with their target line numbers.
func renderDiffSummary(files []diffparse.DiffFile) string {
	sections := make([]string, 0, len(files))
	for _, f := range files {
		var b strings.Builder
		fmt.Fprintf(&b, "### File: %s (%s, +%d -%d)\n", f.Path, f.Status, f.Additions, f.Deletions)
		hunks := make([]string, 0, len(f.Hunks))
		for _, h := range f.Hunks {
			var hb strings.Builder
			hb.WriteString(h.Header)
			for _, l := range h.Lines {
				switch l.Type {
				case diffparse.LineAdd:
					fmt.Fprintf(&hb, "\n+ L%d: %s", l.LineNumber, l.Content)
				case diffparse.LineRemove:
					fmt.Fprintf(&hb, "\n- L%d: %s", l.LineNumber, l.Content)
				}
			}
			hunks = append(hunks, hb.String())
		}
		b.WriteString(strings.Join(hunks, "\n\n"))
		sections = append(sections, b.String())
	}
	return strings.Join(sections, "\n\n---\n\n")
}

func renderFileContexts(files []diffparse.DiffFile, contexts map[string]string) string {
	if len(contexts) == 0 {
		return ""
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		if contexts[f.Path] != "" {
			paths = append(paths, f.Path)
		}
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, p := range paths {
		fmt.Fprintf(&b, "### %s\n```\n%s\n```\n\n", p, strings.TrimRight(contexts[p], "\n"))
	}
	return b.String()
}
