package hooks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Type is the git hook a review is attached to.
type Type string

const (
	PrePush   Type = "pre-push"
	PreCommit Type = "pre-commit"
)

// Mode decides whether findings stop the git operation.
type Mode string

const (
	Blocking Mode = "blocking"
	Advisory Mode = "advisory"
)

// Binary is the command the hook invokes.
const Binary = "codereview"

const shebang = "#!/bin/sh\n"

// Options configures an installed hook.
type Options struct {
	Type  Type
	Mode  Mode
	Model string
}

// Status describes an installed hook.
type Status struct {
	Installed bool   `json:"installed"`
	Type      Type   `json:"type"`
	Mode      Mode   `json:"mode,omitempty"`
	Model     string `json:"model,omitempty"`
	Path      string `json:"path"`
}

// Manager edits hook files in a hooks directory.
type Manager struct {
	dir string
}

// NewManager returns a Manager for the given hooks directory.
func NewManager(hooksDir string) *Manager {
	return &Manager{dir: hooksDir}
}

// Path returns the hook file path for t.
func (m *Manager) Path(t Type) string {
	return filepath.Join(m.dir, string(t))
}

// ParseType validates a hook type name.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case PrePush, PreCommit:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unsupported hook type: %s", s)
	}
}

// Install writes or replaces the review section of the hook and returns the
// hook path.
func (m *Manager) Install(opts Options) (string, error) {
	if _, err := ParseType(string(opts.Type)); err != nil {
		return "", err
	}
	if opts.Mode == "" {
		opts.Mode = Blocking
	}
	if opts.Mode != Blocking && opts.Mode != Advisory {
		return "", fmt.Errorf("unsupported hook mode: %s", opts.Mode)
	}

	path := m.Path(opts.Type)
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("reading hook file: %w", err)
	}

	section := Script(opts)
	var content string
	if len(existing) == 0 {
		content = shebang + section
	} else {
		content = replaceSection(string(existing), opts.Type, section)
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating hooks directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return "", fmt.Errorf("writing hook file: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o755); err != nil {
		return "", fmt.Errorf("making hook executable: %w", err)
	}
	return path, nil
}

// Uninstall removes the review section. The file is deleted when nothing
// but a shebang remains. It reports whether a section was found.
func (m *Manager) Uninstall(t Type) (bool, error) {
	path := m.Path(t)
	existing, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading hook file: %w", err)
	}

	content, found := removeSection(string(existing), t)
	if !found {
		return false, nil
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" || trimmed == "#!/bin/sh" || trimmed == "#!/bin/bash" {
		if err := os.Remove(path); err != nil {
			return true, fmt.Errorf("removing hook file: %w", err)
		}
		return true, nil
	}

	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return true, fmt.Errorf("writing hook file: %w", err)
	}
	return true, nil
}

// Status reports whether the review section is installed for t and how it
// is configured.
func (m *Manager) Status(t Type) (Status, error) {
	path := m.Path(t)
	st := Status{Type: t, Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return st, fmt.Errorf("reading hook file: %w", err)
	}

	start, end := markers(t)
	content := string(data)
	i := strings.Index(content, start)
	j := strings.Index(content, end)
	if i == -1 || j == -1 || j < i {
		return st, nil
	}

	st.Installed = true
	for _, line := range strings.Split(content[i:j], "\n") {
		if v, ok := strings.CutPrefix(line, "# mode: "); ok {
			st.Mode = Mode(strings.TrimSpace(v))
		}
		if v, ok := strings.CutPrefix(line, "# model: "); ok {
			st.Model = strings.TrimSpace(v)
		}
	}
	return st, nil
}

func markers(t Type) (string, string) {
	return fmt.Sprintf("# >>> %s %s hook >>>", Binary, t), fmt.Sprintf("# <<< %s %s hook <<<", Binary, t)
}

// Script renders the marked hook section for opts.
func Script(opts Options) string {
	start, end := markers(opts.Type)
	verb := "push"
	args := []string{Binary, "review", "--no-color"}
	if opts.Type == PreCommit {
		verb = "commit"
		args = append(args, "--staged")
	}
	if opts.Model != "" {
		args = append(args, "--model", opts.Model)
	}

	var b strings.Builder
	b.WriteString(start + "\n")
	fmt.Fprintf(&b, "# mode: %s\n", opts.Mode)
	if opts.Model != "" {
		fmt.Fprintf(&b, "# model: %s\n", opts.Model)
	}
	b.WriteString("echo \"Running local AI code review...\"\n")
	b.WriteString(strings.Join(args, " ") + "\n")
	b.WriteString("CODEREVIEW_EXIT=$?\n")
	b.WriteString("if [ $CODEREVIEW_EXIT -eq 1 ]; then\n")
	if opts.Mode == Advisory {
		b.WriteString("  echo \"codereview: issues found (advisory mode, not blocking)\"\n")
	} else {
		fmt.Fprintf(&b, "  echo \"codereview: issues at or above the fail-on threshold. Fix them or use git %s --no-verify to skip.\"\n", verb)
		b.WriteString("  exit 1\n")
	}
	b.WriteString("elif [ $CODEREVIEW_EXIT -ge 2 ]; then\n")
	fmt.Fprintf(&b, "  echo \"codereview: review could not run (exit $CODEREVIEW_EXIT), allowing %s\"\n", verb)
	b.WriteString("fi\n")
	b.WriteString(end + "\n")
	return b.String()
}

func replaceSection(existing string, t Type, section string) string {
	start, end := markers(t)
	startIdx := strings.Index(existing, start)
	endIdx := strings.Index(existing, end)

	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		if !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		return existing + section
	}

	before := existing[:startIdx]
	after := strings.TrimPrefix(existing[endIdx+len(end):], "\n")
	return before + section + after
}

func removeSection(existing string, t Type) (string, bool) {
	start, end := markers(t)
	startIdx := strings.Index(existing, start)
	endIdx := strings.Index(existing, end)

	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return existing, false
	}

	before := existing[:startIdx]
	after := strings.TrimPrefix(existing[endIdx+len(end):], "\n")
	return before + after, true
}
