package gitctx

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/codereview/internal/diffparse"
)

// DefaultMaxFileBytes is the largest file whose content is included.
const DefaultMaxFileBytes = 500 * 1024

const maxConcurrentReads = 8

// FileContext is the full content of a changed file.
type FileContext struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"`
	Exists   bool   `json:"exists"`
}

// ReadFileContext reads the current content of every file in files,
// relative to root. Deleted files are reported as not existing with empty
// content. Oversized or unreadable files get a short placeholder instead of
// their content; only context cancellation returns an error.
func ReadFileContext(ctx context.Context, root string, files []diffparse.DiffFile, maxBytes int64) (map[string]FileContext, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}

	out := make(map[string]FileContext, len(files))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)

	for _, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fc := readOne(root, f, maxBytes)
			mu.Lock()
			out[f.Path] = fc
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func readOne(root string, f diffparse.DiffFile, maxBytes int64) FileContext {
	fc := FileContext{Path: f.Path, Language: DetectLanguage(f.Path)}
	if f.Status == diffparse.StatusDeleted {
		return fc
	}

	full := filepath.Join(root, filepath.FromSlash(f.Path))
	info, err := os.Stat(full)
	if err != nil {
		fc.Content = "[Could not read file]"
		return fc
	}
	if info.Size() > maxBytes {
		fc.Exists = true
		fc.Content = fmt.Sprintf("[File too large to include: %.0fKB]", math.Round(float64(info.Size())/1024))
		return fc
	}

	data, err := os.ReadFile(full)
	if err != nil {
		fc.Content = "[Could not read file]"
		return fc
	}
	fc.Exists = true
	fc.Content = string(data)
	return fc
}

var languageByExt = map[string]string{
	".ts":   "typescript",
	".tsx":  "typescript",
	".js":   "javascript",
	".jsx":  "javascript",
	".py":   "python",
	".rs":   "rust",
	".go":   "go",
	".java": "java",
	".cs":   "csharp",
	".cpp":  "cpp",
	".c":    "c",
	".rb":   "ruby",
	".php":  "php",
	".swift":"swift",
	".kt":   "kotlin",
	".md":   "markdown",
	".yaml": "yaml",
	".yml":  "yaml",
	".json": "json",
	".sh":   "bash",
}

// DetectLanguage maps a file extension to a language name, or "plaintext".
func DetectLanguage(path string) string {
	if lang, ok := languageByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "plaintext"
}
