package gitctx

import (
	"path/filepath"
	"strings"
)

// MatchesAny returns true if the path matches any of the given glob patterns.
//
// Besides filepath.Match syntax, "**/x" matches x at any depth and "dir/**"
// matches everything below dir.
func MatchesAny(path string, patterns []string) bool {
	path = filepath.ToSlash(path)
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, path); err == nil && matched {
			return true
		}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			if matched, err := filepath.Match(rest, filepath.Base(path)); err == nil && matched {
				return true
			}
			if matched, err := filepath.Match(rest, path); err == nil && matched {
				return true
			}
		}
		if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
			if underDir(path, dir) {
				return true
			}
		}
		// Patterns without a slash apply to the base name, as in .gitignore.
		if !strings.Contains(pattern, "/") {
			if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
				return true
			}
		}
	}
	return false
}

func underDir(path, dir string) bool {
	if strings.HasPrefix(dir, "**/") {
		seg := strings.TrimPrefix(dir, "**/")
		return path == seg || strings.HasPrefix(path, seg+"/") || strings.Contains(path, "/"+seg+"/")
	}
	return strings.HasPrefix(path, dir+"/")
}
