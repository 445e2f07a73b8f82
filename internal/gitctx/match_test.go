package gitctx

import "testing"

func TestMatchesAny(t *testing.T) {
	defaults := []string{"*.lock", "dist/**", "node_modules/**", "*.min.js"}

	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"go.sum", defaults, false},
		{"yarn.lock", defaults, true},
		{"web/package.lock", defaults, true},
		{"dist/app.js", defaults, true},
		{"dist/css/site.css", defaults, true},
		{"distance.go", defaults, false},
		{"node_modules/react/index.js", defaults, true},
		{"static/vendor.min.js", defaults, true},
		{"static/vendor.js", defaults, false},
		{"vendor/lib.go", []string{"vendor/**"}, true},
		{"a/b/vendor/lib.go", []string{"**/vendor/**"}, true},
		{"config/.env", []string{"**/.env"}, true},
		{".env", []string{"**/.env"}, true},
		{"main.go", []string{"*.go"}, true},
		{"cmd/main.go", []string{"cmd/*.go"}, true},
		{"cmd/sub/main.go", []string{"cmd/*.go"}, false},
	}

	for _, tt := range tests {
		got := MatchesAny(tt.path, tt.patterns)
		if got != tt.want {
			t.Errorf("MatchesAny(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
		}
	}
}

func TestMatchesAny_EmptyPatterns(t *testing.T) {
	if MatchesAny("main.go", nil) {
		t.Error("MatchesAny with nil patterns should return false")
	}
	if MatchesAny("main.go", []string{}) {
		t.Error("MatchesAny with empty patterns should return false")
	}
}
