package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Model != "deepseek-coder" {
		t.Errorf("Default model = %q, want %q", cfg.Model, "deepseek-coder")
	}
	if cfg.BaseBranch != "main" {
		t.Errorf("Default base_branch = %q, want %q", cfg.BaseBranch, "main")
	}
	if cfg.FailOn != "high" {
		t.Errorf("Default fail_on = %q, want %q", cfg.FailOn, "high")
	}
	if cfg.Review.MaxFileSizeKB != 500 {
		t.Errorf("Default max_file_size_kb = %d, want 500", cfg.Review.MaxFileSizeKB)
	}
	if !cfg.Review.CheckSecurity || !cfg.Review.CheckPerformance || !cfg.Review.CheckStyle {
		t.Error("Default review checks should all be enabled")
	}
	want := []string{"*.lock", "dist/**", "node_modules/**", "*.min.js"}
	if !reflect.DeepEqual(cfg.Ignore, want) {
		t.Errorf("Default ignore = %v, want %v", cfg.Ignore, want)
	}
	if !cfg.History.Enabled || cfg.History.Dir != ".codereview-history" {
		t.Errorf("Default history = %+v", cfg.History)
	}
	if cfg.MaxFileBytes() != 500*1024 {
		t.Errorf("MaxFileBytes() = %d", cfg.MaxFileBytes())
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := `model: codellama:13b
review:
  check_style: false
  max_issues: 5
ignore:
  - "vendor/**"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Model != "codellama:13b" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Review.CheckStyle {
		t.Error("check_style should be false from file")
	}
	if !cfg.Review.CheckSecurity {
		t.Error("check_security should keep its default")
	}
	if cfg.Review.MaxIssues != 5 {
		t.Errorf("MaxIssues = %d, want 5", cfg.Review.MaxIssues)
	}
	if cfg.Review.MaxFileSizeKB != 500 {
		t.Errorf("MaxFileSizeKB = %d, want default 500", cfg.Review.MaxFileSizeKB)
	}
	if !reflect.DeepEqual(cfg.Ignore, []string{"vendor/**"}) {
		t.Errorf("Ignore = %v, want file list to replace defaults", cfg.Ignore)
	}
	if cfg.BaseBranch != "main" {
		t.Errorf("BaseBranch = %q, want default", cfg.BaseBranch)
	}
}

func TestLoadFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Error("empty file should yield defaults")
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("review: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if !errors.Is(err, ErrConfigParsing) {
		t.Errorf("LoadFile error = %v, want ErrConfigParsing", err)
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "a", "b", "c")
	tooDeep := filepath.Join(root, "a", "b", "c", "d")
	if err := os.MkdirAll(tooDeep, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("model: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Find(deep)
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got != filepath.Join(root, FileName) {
		t.Errorf("Find(%q) = %q, want file three levels up", deep, got)
	}

	got, err = Find(tooDeep)
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got != "" {
		t.Errorf("Find(%q) = %q, want no match beyond three parents", tooDeep, got)
	}
}

func TestMergeEnv(t *testing.T) {
	t.Setenv("CODEREVIEW_MODEL", "qwen2.5-coder")
	t.Setenv("CODEREVIEW_BASE_BRANCH", "develop")
	t.Setenv("OLLAMA_HOST", "http://gpu:11434")
	t.Setenv("CODEREVIEW_FAIL_ON", "CRITICAL")
	t.Setenv("CODEREVIEW_LOG_LEVEL", "debug")

	cfg := Default()
	mergeEnv(&cfg)

	if cfg.Model != "qwen2.5-coder" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.BaseBranch != "develop" {
		t.Errorf("BaseBranch = %q", cfg.BaseBranch)
	}
	if cfg.OllamaHost != "http://gpu:11434" {
		t.Errorf("OllamaHost = %q", cfg.OllamaHost)
	}
	if cfg.FailOn != "critical" {
		t.Errorf("FailOn = %q, want critical", cfg.FailOn)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestMergeOverrides(t *testing.T) {
	cfg := Default()
	mergeOverrides(&cfg, map[string]string{
		"model":       "llama3",
		"base_branch": "",
		"fail_on":     "medium",
	})

	if cfg.Model != "llama3" {
		t.Errorf("Model = %q, want llama3", cfg.Model)
	}
	if cfg.BaseBranch != "main" {
		t.Errorf("empty override should be ignored, BaseBranch = %q", cfg.BaseBranch)
	}
	if cfg.FailOn != "medium" {
		t.Errorf("FailOn = %q, want medium", cfg.FailOn)
	}
}

func TestMergeOverrides_Nil(t *testing.T) {
	cfg := Default()
	mergeOverrides(&cfg, nil)
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("config changed with nil overrides")
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("model: from-file\nbase_branch: trunk\nfail_on: low\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CODEREVIEW_MODEL", "from-env")
	t.Setenv("CODEREVIEW_FAIL_ON", "")

	cfg, err := Load(dir, map[string]string{"fail_on": "critical"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Model != "from-env" {
		t.Errorf("Model = %q, want env to beat file", cfg.Model)
	}
	if cfg.BaseBranch != "trunk" {
		t.Errorf("BaseBranch = %q, want file value", cfg.BaseBranch)
	}
	if cfg.FailOn != "critical" {
		t.Errorf("FailOn = %q, want override to beat file", cfg.FailOn)
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("CODEREVIEW_MODEL", "")
	cfg, err := Load(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Model != "deepseek-coder" {
		t.Errorf("Model = %q, want default", cfg.Model)
	}
}

func TestLoad_InvalidFailOn(t *testing.T) {
	if _, err := Load(t.TempDir(), map[string]string{"fail_on": "severe"}); err == nil {
		t.Error("expected validation error")
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()

	tests := []struct {
		key, value string
		check      func() bool
	}{
		{"model", "llama3", func() bool { return cfg.Model == "llama3" }},
		{"provider", "lmstudio", func() bool { return cfg.Provider == "lmstudio" }},
		{"fail_on", "LOW", func() bool { return cfg.FailOn == "low" }},
		{"review.check_style", "false", func() bool { return !cfg.Review.CheckStyle }},
		{"review.max_issues", "3", func() bool { return cfg.Review.MaxIssues == 3 }},
		{"review.include_file_context", "true", func() bool { return cfg.Review.IncludeFileContext }},
		{"history.enabled", "false", func() bool { return !cfg.History.Enabled }},
		{"history.dir", ".reviews", func() bool { return cfg.History.Dir == ".reviews" }},
		{"ignore", "*.pb.go, vendor/**", func() bool { return reflect.DeepEqual(cfg.Ignore, []string{"*.pb.go", "vendor/**"}) }},
	}
	for _, tt := range tests {
		if err := SetField(&cfg, tt.key, tt.value); err != nil {
			t.Fatalf("SetField(%q) error: %v", tt.key, err)
		}
		if !tt.check() {
			t.Errorf("SetField(%q, %q) did not apply", tt.key, tt.value)
		}
	}
}

func TestSetField_UnknownKey(t *testing.T) {
	cfg := Default()
	if err := SetField(&cfg, "nonexistent", "value"); err == nil {
		t.Error("Expected error for unknown key")
	}
}

func TestSetField_InvalidValues(t *testing.T) {
	cfg := Default()
	if err := SetField(&cfg, "review.max_issues", "many"); err == nil {
		t.Error("Expected error for non-integer max_issues")
	}
	if err := SetField(&cfg, "review.check_style", "maybe"); err == nil {
		t.Error("Expected error for non-bool check_style")
	}
}

func TestSetAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	if err := Set(path, "model", "starcoder2"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := Set(path, "review.check_performance", "false"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Model != "starcoder2" {
		t.Errorf("Model = %q, want starcoder2", cfg.Model)
	}
	if cfg.Review.CheckPerformance {
		t.Error("CheckPerformance should be false after Set")
	}
	if !cfg.Review.CheckSecurity {
		t.Error("CheckSecurity should keep its default")
	}
}

func TestSet_InvalidValueLeavesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := Set(path, "fail_on", "bogus"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file should not be written on invalid value")
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	path, created, err := Init(dir)
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if !created {
		t.Error("first Init should create the file")
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile of template error: %v", err)
	}
	if !reflect.DeepEqual(cfg.Ignore, Default().Ignore) || cfg.Model != "deepseek-coder" {
		t.Errorf("template does not round-trip to defaults: %+v", cfg)
	}

	_, created, err = Init(dir)
	if err != nil {
		t.Fatalf("second Init error: %v", err)
	}
	if created {
		t.Error("second Init should not overwrite")
	}
}
