package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/codereview/internal/review"
)

func TestWriteReview_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReview(&buf, review.ParsedReview{}, false); err != nil {
		t.Fatalf("WriteReview error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Code Review Results") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "No issues found. Clean diff!") {
		t.Errorf("missing clean message:\n%s", out)
	}
	if strings.Contains(out, "All clear!") {
		t.Error("clean diff should stop before the verdict")
	}
}

func TestWriteReview_GroupsBySeverity(t *testing.T) {
	r := sampleReport().Review

	var buf bytes.Buffer
	if err := WriteReview(&buf, r, false); err != nil {
		t.Fatalf("WriteReview error: %v", err)
	}
	out := buf.String()

	high := strings.Index(out, "[!!] HIGH (1)")
	medium := strings.Index(out, "[!] MEDIUM (1)")
	low := strings.Index(out, "[-] LOW (1)")
	if high < 0 || medium < 0 || low < 0 {
		t.Fatalf("missing severity headings:\n%s", out)
	}
	if !(high < medium && medium < low) {
		t.Errorf("headings out of order: high=%d medium=%d low=%d", high, medium, low)
	}
	if strings.Contains(out, "CRITICAL") {
		t.Error("empty severity groups should be skipped")
	}

	for _, want := range []string{
		"▸ db/query.go:42 SQL built from user input",
		"▸ util.go unused helper",
		"▸ missing tests for new branch",
		"Looks Good",
		"▸ error handling is consistent",
		"1 critical/high issue(s) found: review before merging",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("no ANSI codes expected with color disabled")
	}
}

func TestWriteReview_Verdict(t *testing.T) {
	tests := []struct {
		name   string
		review review.ParsedReview
		want   string
	}{
		{
			name: "minor issues",
			review: review.ParsedReview{Issues: []review.ReviewIssue{
				{Severity: review.SeverityLow, Description: "a"},
				{Severity: review.SeverityMedium, Description: "b"},
			}},
			want: "2 issue(s) found: consider addressing",
		},
		{
			name:   "lgtm only",
			review: review.ParsedReview{LGTM: []string{"tidy"}},
			want:   "All clear!",
		},
		{
			name: "critical",
			review: review.ParsedReview{Issues: []review.ReviewIssue{
				{Severity: review.SeverityCritical, Description: "a"},
				{Severity: review.SeverityHigh, Description: "b"},
				{Severity: review.SeverityInfo, Description: "c"},
			}},
			want: "2 critical/high issue(s) found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteReview(&buf, tt.review, false); err != nil {
				t.Fatalf("WriteReview error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output missing %q\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestWriteReview_Color(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReview(&buf, sampleReport().Review, true); err != nil {
		t.Fatalf("WriteReview error: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Error("expected ANSI codes with color enabled")
	}
}

func TestWriteDelta_NoChange(t *testing.T) {
	d := review.Compare(nil, nil)

	var buf bytes.Buffer
	if err := WriteDelta(&buf, d, false); err != nil {
		t.Fatalf("WriteDelta error: %v", err)
	}
	if !strings.Contains(buf.String(), "No change from last review.") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestWriteDelta_Sections(t *testing.T) {
	prev := []review.ReviewIssue{
		{Severity: review.SeverityHigh, File: "a.go", Line: 3, Description: "old bug"},
		{Severity: review.SeverityLow, Description: "still here"},
	}
	curr := []review.ReviewIssue{
		{Severity: review.SeverityLow, Description: "still here"},
		{Severity: review.SeverityMedium, File: "b.go", Description: "new thing"},
	}
	d := review.Compare(curr, prev)

	var buf bytes.Buffer
	if err := WriteDelta(&buf, d, false); err != nil {
		t.Fatalf("WriteDelta error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Resolved (1)",
		"✔ a.go:3 old bug",
		"New issues (1)",
		"▸ b.go [medium] new thing",
		"Still open (1)",
		"· [low] still here",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Index(out, "Resolved") > strings.Index(out, "New issues") {
		t.Error("resolved section should come first")
	}
}
