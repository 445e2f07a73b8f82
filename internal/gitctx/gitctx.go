package gitctx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultContextLines is the unified context width requested from git.
// Wider than git's default so the model sees surrounding code.
const DefaultContextLines = 5

// ErrNotRepository is returned when the directory is not inside a git
// work tree.
var ErrNotRepository = errors.New("not a git repository. Run this from your project root")

// DiffOptions controls how diffs are gathered.
type DiffOptions struct {
	// Dir is the directory git runs in; empty means the process cwd.
	Dir string
	// Base diffs the work tree against this revision.
	Base string
	// Staged diffs the index against HEAD and takes precedence over Base.
	Staged       bool
	ContextLines int
}

// Mode describes which comparison the options select.
func (o DiffOptions) Mode() string {
	switch {
	case o.Staged:
		return "staged"
	case o.Base != "":
		return "base:" + o.Base
	default:
		return "worktree"
	}
}

// Args returns the git arguments for the diff.
func (o DiffOptions) Args() []string {
	ctxLines := o.ContextLines
	if ctxLines <= 0 {
		ctxLines = DefaultContextLines
	}
	args := []string{"diff", "--no-color", "--no-ext-diff", fmt.Sprintf("-U%d", ctxLines)}
	switch {
	case o.Staged:
		args = append(args, "--cached")
	case o.Base != "":
		args = append(args, o.Base)
	}
	return args
}

// GetDiff returns the raw unified diff selected by opts.
func GetDiff(ctx context.Context, opts DiffOptions) (string, error) {
	if _, err := openRepo(opts.Dir); err != nil {
		return "", err
	}
	out, err := gitOutput(ctx, opts.Dir, opts.Args()...)
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(opts.Args(), " "), err)
	}
	return out, nil
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
