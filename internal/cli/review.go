package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/codereview/internal/config"
	"github.com/dshills/codereview/internal/diffparse"
	"github.com/dshills/codereview/internal/gitctx"
	"github.com/dshills/codereview/internal/history"
	"github.com/dshills/codereview/internal/output"
	"github.com/dshills/codereview/internal/providers"
	"github.com/dshills/codereview/internal/redact"
	"github.com/dshills/codereview/internal/review"
)

// Review flags
var (
	flagBase         string
	flagStaged       bool
	flagModel        string
	flagProvider     string
	flagNoColor      bool
	flagSinceLast    bool
	flagExport       string
	flagExportOutput string
	flagFailOn       string
	flagNoRedact     bool
	flagNoHistory    bool
	flagFileContext  bool
)

// Seams for tests.
var (
	getDiff    = gitctx.GetDiff
	newBackend = func(cfg config.Config) (providers.Backend, error) {
		return providers.New(cfg.Provider, backendHost(cfg))
	}
)

// backendHost returns the configured server address. The ollama_host default
// only applies to Ollama; other providers fall back to their own default.
func backendHost(cfg config.Config) string {
	if strings.EqualFold(cfg.Provider, "ollama") || cfg.OllamaHost != config.Default().OllamaHost {
		return cfg.OllamaHost
	}
	return ""
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagBase != "" {
		m["base_branch"] = flagBase
	}
	if flagFailOn != "" {
		m["fail_on"] = flagFailOn
	}
	if flagFileContext {
		m["review.include_file_context"] = "true"
	}
	return m
}

// reviewRun holds everything one review invocation needs.
type reviewRun struct {
	cfg          config.Config
	dir          string
	staged       bool
	useColor     bool
	sinceLast    bool
	export       string
	exportOutput string
	noRedact     bool
	noHistory    bool
	stdout       io.Writer
	stderr       io.Writer
	log          *slog.Logger
}

func (r *reviewRun) diffOptions() gitctx.DiffOptions {
	opts := gitctx.DiffOptions{Dir: r.dir, Staged: r.staged}
	if !r.staged {
		opts.Base = r.cfg.BaseBranch
	}
	return opts
}

func (r *reviewRun) fail(code int, err error) int {
	fmt.Fprintf(r.stderr, "Error: %v\n", err)
	return code
}

// execute runs the review and returns the process exit code.
func (r *reviewRun) execute(ctx context.Context) int {
	cfg := r.cfg
	diffOpts := r.diffOptions()

	// A stdout export must stay machine readable.
	quiet := r.export != "" && r.exportOutput == ""
	out := r.stdout
	if quiet {
		out = io.Discard
	}

	modeLabel := "staged changes"
	if !r.staged {
		modeLabel = "diff against " + cfg.BaseBranch
	}
	fmt.Fprintf(out, "\ncodereview\n  Model : %s\n  Mode  : %s\n\n", cfg.Model, modeLabel)

	raw, err := getDiff(ctx, diffOpts)
	if err != nil {
		if errors.Is(err, gitctx.ErrNotRepository) {
			return r.fail(ExitUsageError, err)
		}
		return r.fail(ExitRuntimeError, fmt.Errorf("failed to extract git diff: %w", err))
	}

	diff := diffparse.Parse(raw)
	if len(cfg.Ignore) > 0 {
		diff = diff.Filter(func(f diffparse.DiffFile) bool {
			return !gitctx.MatchesAny(f.Path, cfg.Ignore)
		})
	}
	r.log.Debug("diff parsed", "mode", diffOpts.Mode(), "files", len(diff.Files),
		"additions", diff.TotalAdditions, "deletions", diff.TotalDeletions)

	if len(diff.Files) == 0 {
		fmt.Fprintln(out, "No changes to review.")
		return ExitSuccess
	}
	fmt.Fprintf(out, "%d file(s) changed, +%d -%d\n", len(diff.Files), diff.TotalAdditions, diff.TotalDeletions)

	backend, err := newBackend(cfg)
	if err != nil {
		return r.fail(ExitUsageError, err)
	}
	if err := providers.HealthCheck(ctx, backend, cfg.Model); err != nil {
		return r.fail(inferenceExitCode(err), err)
	}

	meta, err := gitctx.GetRepoMeta(r.dir)
	if err != nil {
		r.log.Debug("repository metadata unavailable", "error", err)
	}

	opts := review.Options{
		Model:   cfg.Model,
		Mode:    diffOpts.Mode(),
		Version: version,
		Repo:    meta,
		Prompt: review.PromptOptions{
			CheckSecurity:    cfg.Review.CheckSecurity,
			CheckPerformance: cfg.Review.CheckPerformance,
			CheckStyle:       cfg.Review.CheckStyle,
			MaxIssues:        cfg.Review.MaxIssues,
		},
		Logger: r.log,
	}

	if cfg.Review.IncludeFileContext {
		root := meta.Root
		if root == "" {
			root = r.dir
		}
		contexts, err := gitctx.ReadFileContext(ctx, root, diff.Files, cfg.MaxFileBytes())
		if err != nil {
			return r.fail(ExitRuntimeError, fmt.Errorf("reading file context: %w", err))
		}
		opts.Prompt.FileContexts = make(map[string]string, len(contexts))
		for path, fc := range contexts {
			opts.Prompt.FileContexts[path] = fc.Content
		}
	}

	if r.noRedact {
		fmt.Fprintln(r.stderr, "WARNING: secret redaction is disabled")
	} else {
		opts.Redactor = &redact.Redactor{Secrets: cfg.Review.RedactSecrets, Paths: cfg.Review.RedactPaths}
	}

	fmt.Fprintf(out, "Asking %s to review your code...\n", cfg.Model)
	report, err := review.Run(ctx, backend, diff, opts)
	if err != nil {
		return r.fail(inferenceExitCode(err), fmt.Errorf("inference failed: %w", err))
	}

	if err := output.WriteReview(out, report.Review, r.useColor); err != nil {
		return r.fail(ExitRuntimeError, fmt.Errorf("writing review: %w", err))
	}

	if code := r.recordHistory(out, report, meta.Root); code != ExitSuccess {
		return code
	}

	if r.export != "" {
		if err := output.Export(report, r.export, r.exportOutput); err != nil {
			return r.fail(ExitRuntimeError, fmt.Errorf("exporting review: %w", err))
		}
		if r.exportOutput != "" {
			fmt.Fprintf(r.stdout, "Exported %s review to %s\n", r.export, r.exportOutput)
		}
	}

	if report.ExceedsThreshold(cfg.FailOn) {
		return ExitFindings
	}
	return ExitSuccess
}

// recordHistory prints the delta against the previous run when asked and
// stores the new review.
func (r *reviewRun) recordHistory(out io.Writer, report *review.Report, root string) int {
	if root == "" {
		root = r.dir
	}
	store := history.New(root, r.cfg.History.Dir)

	if r.sinceLast {
		prev, err := store.Latest()
		if err != nil {
			r.log.Warn("ignoring unreadable review history", "error", err)
		}
		if prev == nil {
			fmt.Fprintln(out, "No previous review found; nothing to compare against.")
		} else {
			delta := review.Compare(report.Review.Issues, prev.Issues)
			if err := output.WriteDelta(out, delta, r.useColor); err != nil {
				return r.fail(ExitRuntimeError, fmt.Errorf("writing review diff: %w", err))
			}
		}
	}

	if r.noHistory || !r.cfg.History.Enabled {
		return ExitSuccess
	}
	entry, err := store.Save(report.Review, history.Meta{
		Model: report.Model,
		Mode:  report.Mode,
		RunID: report.RunID,
	})
	if err != nil {
		return r.fail(ExitRuntimeError, fmt.Errorf("saving review history: %w", err))
	}
	r.log.Debug("review saved", "id", entry.ID, "dir", store.Dir())
	return ExitSuccess
}

// inferenceExitCode maps inference errors to exit codes.
func inferenceExitCode(err error) int {
	if providers.IsUnavailable(err) || providers.IsAuthError(err) {
		return ExitUnavailable
	}
	return ExitRuntimeError
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review current changes",
	Long: "Review the diff against the base branch (default), or only staged changes with --staged.\n" +
		"Exits 1 when an issue at or above --fail-on is found.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(buildOverrides())
		if err != nil {
			return err
		}
		if flagExport != "" {
			if _, err := output.GetExporter(flagExport); err != nil {
				return fmt.Errorf("%w (expected one of %s)", err, strings.Join(output.Formats, ", "))
			}
		}
		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		run := &reviewRun{
			cfg:          cfg,
			dir:          wd,
			staged:       flagStaged,
			useColor:     !flagNoColor && !color.NoColor,
			sinceLast:    flagSinceLast,
			export:       flagExport,
			exportOutput: flagExportOutput,
			noRedact:     flagNoRedact,
			noHistory:    flagNoHistory,
			stdout:       cmd.OutOrStdout(),
			stderr:       cmd.ErrOrStderr(),
			log:          newLogger(cfg),
		}
		exitCode = run.execute(ctx)
		return nil
	},
}

func init() {
	f := reviewCmd.Flags()
	f.StringVarP(&flagBase, "base", "b", "", "Base branch to diff against (default from config)")
	f.BoolVar(&flagStaged, "staged", false, "Review only staged changes")
	f.StringVarP(&flagModel, "model", "m", "", "Model to use")
	f.StringVar(&flagProvider, "provider", "", "Inference server type (ollama, lmstudio)")
	f.BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	f.BoolVar(&flagSinceLast, "since-last", false, "Show what changed since the last review run")
	f.StringVar(&flagExport, "export", "", "Export results: github | markdown | sarif | json")
	f.StringVar(&flagExportOutput, "export-output", "", "File path for export output (stdout if omitted)")
	f.StringVar(&flagFailOn, "fail-on", "", "Exit 1 at or above this severity (none, critical, high, medium, low, info)")
	f.BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	f.BoolVar(&flagNoHistory, "no-history", false, "Do not record this run in the review history")
	f.BoolVar(&flagFileContext, "context", false, "Include full file contents in the prompt")
}
