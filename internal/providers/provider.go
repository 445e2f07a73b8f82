package providers

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultTemperature keeps reviews close to deterministic.
const DefaultTemperature = 0.2

// GenerateRequest is a single prompt sent to a local model.
type GenerateRequest struct {
	Model       string
	Prompt      string
	System      string
	Temperature float64
}

// GenerateResponse contains the raw model answer.
type GenerateResponse struct {
	Content      string
	Model        string
	PromptTokens int
	EvalTokens   int
	Duration     time.Duration
}

// Model describes a model installed on the inference server.
type Model struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}

// Generator is the inference abstraction used by the review engine.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Name() string
}

// ModelLister reports which models a server can run.
type ModelLister interface {
	ListModels(ctx context.Context) ([]Model, error)
}

// Backend is a Generator that can also list its models.
type Backend interface {
	Generator
	ModelLister
	Host() string
}

// New creates a backend by provider name.
func New(provider, host string) (Backend, error) {
	switch strings.ToLower(provider) {
	case "", "ollama":
		return NewOllama(host)
	case "lmstudio", "openai-compatible":
		return NewOpenAICompat(host)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

// baseModelName strips the tag from "name:tag".
func baseModelName(name string) string {
	base, _, _ := strings.Cut(name, ":")
	return base
}

// HealthCheck verifies that the server answers and that model, compared by
// base name, is installed.
func HealthCheck(ctx context.Context, b Backend, model string) error {
	models, err := b.ListModels(ctx)
	if err != nil {
		if IsUnavailable(err) || IsAuthError(err) {
			return err
		}
		return &unavailableError{server: b.Name(), host: b.Host(), err: err}
	}

	want := baseModelName(model)
	available := make([]string, 0, len(models))
	for _, m := range models {
		base := baseModelName(m.Name)
		if base == want {
			return nil
		}
		available = append(available, base)
	}
	return &modelMissingError{model: model, available: available}
}
