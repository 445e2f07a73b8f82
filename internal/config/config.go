package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the per-project configuration file.
const FileName = ".codereview.yaml"

// maxParentSearch is how many parent directories Find walks above the start.
const maxParentSearch = 3

// ErrConfigParsing wraps YAML decode failures.
var ErrConfigParsing = errors.New("config parsing failed")

// Config represents the codereview configuration.
type Config struct {
	Model      string        `yaml:"model" json:"model"`
	Provider   string        `yaml:"provider" json:"provider"`
	BaseBranch string        `yaml:"base_branch" json:"base_branch"`
	OllamaHost string        `yaml:"ollama_host" json:"ollama_host"`
	FailOn     string        `yaml:"fail_on" json:"fail_on"`
	LogLevel   string        `yaml:"log_level" json:"log_level"`
	LogFormat  string        `yaml:"log_format" json:"log_format"`
	Review     ReviewConfig  `yaml:"review" json:"review"`
	Ignore     []string      `yaml:"ignore" json:"ignore"`
	History    HistoryConfig `yaml:"history" json:"history"`
}

// ReviewConfig controls what the model is asked to look for.
type ReviewConfig struct {
	CheckSecurity      bool     `yaml:"check_security" json:"check_security"`
	CheckPerformance   bool     `yaml:"check_performance" json:"check_performance"`
	CheckStyle         bool     `yaml:"check_style" json:"check_style"`
	MaxFileSizeKB      int      `yaml:"max_file_size_kb" json:"max_file_size_kb"`
	MaxIssues          int      `yaml:"max_issues" json:"max_issues"`
	IncludeFileContext bool     `yaml:"include_file_context" json:"include_file_context"`
	RedactSecrets      bool     `yaml:"redact_secrets" json:"redact_secrets"`
	RedactPaths        []string `yaml:"redact_paths,omitempty" json:"redact_paths,omitempty"`
}

// HistoryConfig controls where review runs are recorded.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Dir     string `yaml:"dir" json:"dir"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Model:      "deepseek-coder",
		Provider:   "ollama",
		BaseBranch: "main",
		OllamaHost: "http://localhost:11434",
		FailOn:     "high",
		LogLevel:   "warn",
		LogFormat:  "text",
		Review: ReviewConfig{
			CheckSecurity:    true,
			CheckPerformance: true,
			CheckStyle:       true,
			MaxFileSizeKB:    500,
			MaxIssues:        10,
			RedactSecrets:    true,
			RedactPaths:      []string{"**/.env", "**/*secrets*"},
		},
		Ignore: []string{"*.lock", "dist/**", "node_modules/**", "*.min.js"},
		History: HistoryConfig{
			Enabled: true,
			Dir:     ".codereview-history",
		},
	}
}

// MaxFileBytes converts the file size limit to bytes.
func (c Config) MaxFileBytes() int64 {
	return int64(c.Review.MaxFileSizeKB) * 1024
}

// Find looks for FileName in dir and up to three of its parents. It returns
// "" when no file exists.
func Find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	for i := 0; i <= maxParentSearch; i++ {
		candidate := filepath.Join(abs, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			break
		}
		abs = parent
	}
	return "", nil
}

// LoadFile decodes the file at path on top of the defaults, so keys the
// file does not mention keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrConfigParsing, path, err)
	}
	return cfg, nil
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The file is located with Find starting at dir. The overrides map comes
// from CLI flags (only non-empty values are applied).
func Load(dir string, overrides map[string]string) (Config, error) {
	cfg := Default()

	path, err := Find(dir)
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		if cfg, err = LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var envKeys = map[string]string{
	"CODEREVIEW_MODEL":       "model",
	"CODEREVIEW_PROVIDER":    "provider",
	"CODEREVIEW_BASE_BRANCH": "base_branch",
	"OLLAMA_HOST":            "ollama_host",
	"CODEREVIEW_FAIL_ON":     "fail_on",
	"CODEREVIEW_LOG_LEVEL":   "log_level",
}

func mergeEnv(cfg *Config) {
	for env, key := range envKeys {
		if v := os.Getenv(env); v != "" {
			_ = SetField(cfg, key, v)
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	for k, v := range overrides {
		if v == "" {
			continue
		}
		_ = SetField(cfg, k, v)
	}
}

// Validate checks enumerated values.
func Validate(cfg Config) error {
	switch strings.ToLower(cfg.FailOn) {
	case "none", "critical", "high", "medium", "low", "info":
	default:
		return fmt.Errorf("invalid fail_on %q: must be one of none, critical, high, medium, low, info", cfg.FailOn)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be text or json", cfg.LogFormat)
	}
	switch strings.ToLower(cfg.Provider) {
	case "ollama", "lmstudio", "openai-compatible":
	default:
		return fmt.Errorf("invalid provider %q: must be ollama or lmstudio", cfg.Provider)
	}
	if cfg.Review.MaxFileSizeKB < 0 || cfg.Review.MaxIssues < 0 {
		return fmt.Errorf("review limits must not be negative")
	}
	return nil
}

// SetField sets a single config field by its YAML key. Nested keys use a
// dot, e.g. "review.max_issues". Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "model":
		cfg.Model = value
	case "provider":
		cfg.Provider = value
	case "base_branch":
		cfg.BaseBranch = value
	case "ollama_host":
		cfg.OllamaHost = value
	case "fail_on":
		cfg.FailOn = strings.ToLower(value)
	case "log_level":
		cfg.LogLevel = value
	case "log_format":
		cfg.LogFormat = value
	case "ignore":
		cfg.Ignore = splitList(value)
	case "review.check_security":
		return setBool(&cfg.Review.CheckSecurity, key, value)
	case "review.check_performance":
		return setBool(&cfg.Review.CheckPerformance, key, value)
	case "review.check_style":
		return setBool(&cfg.Review.CheckStyle, key, value)
	case "review.include_file_context":
		return setBool(&cfg.Review.IncludeFileContext, key, value)
	case "review.redact_secrets":
		return setBool(&cfg.Review.RedactSecrets, key, value)
	case "review.redact_paths":
		cfg.Review.RedactPaths = splitList(value)
	case "review.max_file_size_kb":
		return setInt(&cfg.Review.MaxFileSizeKB, key, value)
	case "review.max_issues":
		return setInt(&cfg.Review.MaxIssues, key, value)
	case "history.enabled":
		return setBool(&cfg.History.Enabled, key, value)
	case "history.dir":
		cfg.History.Dir = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s must be true or false: %w", key, err)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*dst = n
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append([]byte("# codereview configuration\n"), data...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Set updates a single key in the file at path, creating it from the
// defaults if it does not exist.
func Set(path, key, value string) error {
	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if cfg, err = LoadFile(path); err != nil {
			return err
		}
	}
	if err := SetField(&cfg, key, value); err != nil {
		return err
	}
	if err := Validate(cfg); err != nil {
		return err
	}
	return Save(path, cfg)
}

const defaultTemplate = `# codereview configuration

model: deepseek-coder
# provider: ollama        # or lmstudio for an OpenAI-compatible local server
base_branch: main
# ollama_host: http://localhost:11434
fail_on: high             # exit 1 when an issue at or above this severity is found

review:
  check_security: true
  check_performance: true
  check_style: true
  max_file_size_kb: 500
  max_issues: 10
  include_file_context: false
  redact_secrets: true

ignore:
  - "*.lock"
  - "dist/**"
  - "node_modules/**"
  - "*.min.js"

history:
  enabled: true
  dir: .codereview-history
`

// Init writes the default commented config file into dir. It reports
// created=false without touching anything when the file already exists.
func Init(dir string) (path string, created bool, err error) {
	path = filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	if err := os.WriteFile(path, []byte(defaultTemplate), 0o644); err != nil {
		return path, false, fmt.Errorf("writing %s: %w", FileName, err)
	}
	return path, true, nil
}
