package output

import "github.com/dshills/codereview/internal/review"

func sampleReport() *review.Report {
	issues := []review.ReviewIssue{
		{Severity: review.SeverityHigh, File: "db/query.go", Line: 42, Description: "SQL built from user input"},
		{Severity: review.SeverityLow, File: "util.go", Description: "unused helper"},
		{Severity: review.SeverityMedium, Description: "missing tests for new branch"},
	}
	return &review.Report{
		Tool:    review.ToolName,
		Version: "1.0.0",
		RunID:   "run-1",
		Model:   "deepseek-coder",
		Mode:    "staged",
		Summary: review.ComputeSummary(issues),
		Review: review.ParsedReview{
			Issues: issues,
			LGTM:   []string{"error handling is consistent"},
		},
	}
}

func emptyReport() *review.Report {
	return &review.Report{
		Tool:   review.ToolName,
		Review: review.ParsedReview{Issues: []review.ReviewIssue{}, LGTM: []string{}},
	}
}
