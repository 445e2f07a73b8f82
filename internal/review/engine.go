package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/codereview/internal/diffparse"
	"github.com/dshills/codereview/internal/gitctx"
	"github.com/dshills/codereview/internal/logger"
	"github.com/dshills/codereview/internal/providers"
	"github.com/dshills/codereview/internal/redact"
)

// ToolName identifies reports produced by this module.
const ToolName = "codereview"

// Options configures a single review run.
type Options struct {
	Model   string
	Mode    string
	Version string
	Repo    gitctx.RepoMeta
	Prompt  PromptOptions
	// Redactor, when set, scrubs the diff and file contexts before they
	// reach the prompt.
	Redactor    *redact.Redactor
	Temperature float64
	Logger      *slog.Logger
}

// DiffStats summarises the reviewed change set.
type DiffStats struct {
	Files     int `json:"files"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// Timing records how long each phase took.
type Timing struct {
	LLMMs   int64 `json:"llmMs"`
	TotalMs int64 `json:"totalMs"`
}

// Report is the outcome of one review run.
type Report struct {
	Tool      string          `json:"tool"`
	Version   string          `json:"version"`
	RunID     string          `json:"runId"`
	CreatedAt time.Time       `json:"createdAt"`
	Model     string          `json:"model"`
	Mode      string          `json:"mode"`
	Repo      gitctx.RepoMeta `json:"repo"`
	Diff      DiffStats       `json:"diff"`
	Summary   Summary         `json:"summary"`
	Review    ParsedReview    `json:"review"`
	Timing    Timing          `json:"timing"`
}

// Run reviews diff with gen and returns the parsed result. An empty diff
// produces an empty report without calling the model.
func Run(ctx context.Context, gen providers.Generator, diff diffparse.DiffResult, opts Options) (*Report, error) {
	startTime := time.Now()
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	report := &Report{
		Tool:      ToolName,
		Version:   opts.Version,
		RunID:     uuid.NewString(),
		CreatedAt: startTime.UTC(),
		Model:     opts.Model,
		Mode:      opts.Mode,
		Repo:      opts.Repo,
		Diff: DiffStats{
			Files:     len(diff.Files),
			Additions: diff.TotalAdditions,
			Deletions: diff.TotalDeletions,
		},
		Review: ParsedReview{Issues: []ReviewIssue{}, LGTM: []string{}},
	}

	if len(diff.Files) == 0 {
		report.Timing.TotalMs = time.Since(startTime).Milliseconds()
		return report, nil
	}

	promptOpts := opts.Prompt
	if opts.Redactor != nil {
		diff = opts.Redactor.Diff(diff)
		if len(promptOpts.FileContexts) > 0 {
			redacted := make(map[string]string, len(promptOpts.FileContexts))
			for path, content := range promptOpts.FileContexts {
				redacted[path] = opts.Redactor.Content(path, content)
			}
			promptOpts.FileContexts = redacted
		}
	}

	prompt := BuildPrompt(diff, promptOpts)
	log.Debug("prompt built",
		"files", len(diff.Files),
		"language", DetectLanguage(diff.Files),
		"bytes", len(prompt),
	)

	temp := opts.Temperature
	if temp == 0 {
		temp = providers.DefaultTemperature
	}

	llmStart := time.Now()
	resp, err := gen.Generate(ctx, providers.GenerateRequest{
		Model:       opts.Model,
		Prompt:      prompt,
		Temperature: temp,
	})
	if err != nil {
		return nil, fmt.Errorf("%s generate: %w", gen.Name(), err)
	}
	report.Timing.LLMMs = time.Since(llmStart).Milliseconds()
	log.Debug("model responded",
		"provider", gen.Name(),
		"model", resp.Model,
		"ms", report.Timing.LLMMs,
		"eval_tokens", resp.EvalTokens,
	)

	report.Review = ParseResponse(resp.Content)
	report.Summary = ComputeSummary(report.Review.Issues)
	report.Timing.TotalMs = time.Since(startTime).Milliseconds()
	return report, nil
}

// ExceedsThreshold reports whether any issue is at or above threshold.
func (r *Report) ExceedsThreshold(threshold string) bool {
	for _, i := range r.Review.Issues {
		if MeetsThreshold(i.Severity, threshold) {
			return true
		}
	}
	return false
}
