package review

import (
	"strings"
	"testing"

	"github.com/dshills/codereview/internal/diffparse"
)

func goDiff() diffparse.DiffResult {
	return diffparse.DiffResult{
		Files: []diffparse.DiffFile{{
			Path:      "main.go",
			Status:    diffparse.StatusModified,
			Additions: 1,
			Deletions: 1,
			Hunks: []diffparse.DiffHunk{{
				Header: "@@ -1,3 +1,3 @@",
				Lines: []diffparse.DiffLine{
					{Type: diffparse.LineContext, LineNumber: 1, Content: "package main"},
					{Type: diffparse.LineRemove, LineNumber: 2, Content: "var x = 1"},
					{Type: diffparse.LineAdd, LineNumber: 2, Content: "var x = 2"},
				},
			}},
		}},
		TotalAdditions: 1,
		TotalDeletions: 1,
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(goDiff(), PromptOptions{CheckSecurity: true, MaxIssues: 5})

	for _, want := range []string{
		"- security vulnerabilities",
		"- logic errors",
		"Language: Go.",
		"ISSUE: [severity: critical|high|medium|low] [file:line] description",
		"Max 5 issues total",
		"### File: main.go (modified, +1 -1)",
		"@@ -1,3 +1,3 @@\n- L2: var x = 1\n+ L2: var x = 2",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "package main") {
		t.Error("prompt should not include context lines")
	}
	if strings.Contains(prompt, "performance issues") {
		t.Error("prompt should not ask for disabled checks")
	}
	if !strings.HasSuffix(prompt, "## Review:") {
		t.Error("prompt should end with the review cue")
	}
}

func TestBuildPrompt_DefaultMaxIssues(t *testing.T) {
	prompt := BuildPrompt(goDiff(), PromptOptions{})
	if !strings.Contains(prompt, "Max 10 issues total") {
		t.Error("prompt should default to 10 issues")
	}
}

func TestBuildPrompt_FileContext(t *testing.T) {
	prompt := BuildPrompt(goDiff(), PromptOptions{FileContexts: map[string]string{
		"main.go":  "package main\n\nvar x = 2\n",
		"other.go": "package other\n",
	}})
	if !strings.Contains(prompt, "## Full File Context") {
		t.Fatal("prompt should include file context section")
	}
	if !strings.Contains(prompt, "### main.go\n```\npackage main\n\nvar x = 2\n```") {
		t.Error("prompt should include main.go content")
	}
	if strings.Contains(prompt, "package other") {
		t.Error("prompt should only include files from the diff")
	}
}

func TestDetectLanguage(t *testing.T) {
	files := func(paths ...string) []diffparse.DiffFile {
		out := make([]diffparse.DiffFile, len(paths))
		for i, p := range paths {
			out[i].Path = p
		}
		return out
	}

	tests := []struct {
		name  string
		files []diffparse.DiffFile
		want  Language
	}{
		{"go", files("main.go", "util.go", "README.md"), LangGo},
		{"python", files("app.py"), LangPython},
		{"typescript", files("index.ts", "app.tsx", "x.js"), LangTypeScript},
		{"javascript", files("index.mjs"), LangJavaScript},
		{"rust wins tie", files("lib.rs", "main.go"), LangRust},
		{"generic majority", files("a.md", "b.md", "c.go"), LangGeneric},
		{"empty", nil, LangGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.files); got != tt.want {
				t.Errorf("DetectLanguage() = %q, want %q", got, tt.want)
			}
		})
	}
}
