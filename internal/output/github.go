package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/go-github/v73/github"

	"github.com/dshills/codereview/internal/review"
)

// GitHubExporter writes a pull request review request body that can be
// posted as-is to the GitHub "create a review" endpoint. Only issues with a
// file become inline comments.
type GitHubExporter struct{}

func (g *GitHubExporter) Export(w io.Writer, report *review.Report) error {
	return writeJSON(w, buildGitHubReview(report), "GitHub review")
}

func buildGitHubReview(report *review.Report) *github.PullRequestReviewRequest {
	comments := githubComments(report.Review.Issues)

	req := &github.PullRequestReviewRequest{
		Body:     github.Ptr(githubSummary(report)),
		Event:    github.Ptr("COMMENT"),
		Comments: comments,
	}
	if report.Repo.Head != "" {
		req.CommitID = github.Ptr(report.Repo.Head)
	}
	return req
}

func githubComments(issues []review.ReviewIssue) []*github.DraftReviewComment {
	comments := make([]*github.DraftReviewComment, 0, len(issues))
	for _, i := range issues {
		if i.File == "" {
			continue
		}
		c := &github.DraftReviewComment{
			Path: github.Ptr(i.File),
			Body: github.Ptr(fmt.Sprintf("**[%s]** %s", strings.ToUpper(string(i.Severity)), i.Description)),
		}
		if i.Line > 0 {
			c.Line = github.Ptr(i.Line)
			c.Side = github.Ptr("RIGHT")
		}
		comments = append(comments, c)
	}
	return comments
}

func githubSummary(report *review.Report) string {
	s := report.Summary
	if s.Total == 0 {
		return fmt.Sprintf("%s (%s): no issues found.", review.ToolName, report.Model)
	}
	return fmt.Sprintf("%s (%s): %d issue(s), %d critical, %d high, %d medium, %d low, %d info.",
		review.ToolName, report.Model, s.Total,
		s.Counts.Critical, s.Counts.High, s.Counts.Medium, s.Counts.Low, s.Counts.Info)
}
