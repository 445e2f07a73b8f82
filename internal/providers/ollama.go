package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// DefaultOllamaHost is where a stock Ollama install listens.
const DefaultOllamaHost = "http://localhost:11434"

// Ollama implements Backend on top of the Ollama native API.
type Ollama struct {
	host       string
	client     *api.Client
	maxRetries int
}

// NewOllama creates a client for the Ollama server at host. An empty host
// means DefaultOllamaHost.
func NewOllama(host string) (*Ollama, error) {
	return newOllama(host, &http.Client{Timeout: 300 * time.Second})
}

func newOllama(host string, hc *http.Client) (*Ollama, error) {
	if host == "" {
		host = DefaultOllamaHost
	}
	host = strings.TrimRight(host, "/")
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama host %q: %w", host, err)
	}
	return &Ollama{
		host:       host,
		client:     api.NewClient(u, hc),
		maxRetries: defaultMaxRetries,
	}, nil
}

func (o *Ollama) Name() string { return "ollama" }

// Host returns the normalized server URL.
func (o *Ollama) Host() string { return o.host }

// Generate runs a single non-streaming completion.
func (o *Ollama) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	temp := req.Temperature
	if temp == 0 {
		temp = DefaultTemperature
	}
	stream := false
	apiReq := &api.GenerateRequest{
		Model:   req.Model,
		Prompt:  req.Prompt,
		System:  req.System,
		Stream:  &stream,
		Options: map[string]any{"temperature": temp},
	}

	var resp GenerateResponse
	err := retryWithBackoff(ctx, o.maxRetries, func() error {
		var b strings.Builder
		var last api.GenerateResponse
		start := time.Now()
		err := o.client.Generate(ctx, apiReq, func(r api.GenerateResponse) error {
			b.WriteString(r.Response)
			last = r
			return nil
		})
		if err != nil {
			return o.classify(err, req.Model)
		}
		resp = GenerateResponse{
			Content:      b.String(),
			Model:        last.Model,
			PromptTokens: last.PromptEvalCount,
			EvalTokens:   last.EvalCount,
			Duration:     time.Since(start),
		}
		return nil
	})
	if err != nil {
		return GenerateResponse{}, err
	}
	if strings.TrimSpace(resp.Content) == "" {
		return GenerateResponse{}, fmt.Errorf("empty response from model %s", req.Model)
	}
	return resp, nil
}

// ListModels returns the models installed on the server.
func (o *Ollama) ListModels(ctx context.Context) ([]Model, error) {
	list, err := o.client.List(ctx)
	if err != nil {
		return nil, o.classify(err, "")
	}
	models := make([]Model, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, Model{Name: m.Name, Size: m.Size, ModifiedAt: m.ModifiedAt})
	}
	return models, nil
}

// classify maps client errors onto the package's error kinds.
func (o *Ollama) classify(err error, model string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var se api.StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusTooManyRequests:
			return &rateLimitError{statusCode: se.StatusCode}
		case se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden:
			return &authError{message: se.ErrorMessage}
		case se.StatusCode == http.StatusNotFound && model != "":
			return &modelMissingError{model: model}
		case se.StatusCode >= 500:
			return &serverError{statusCode: se.StatusCode, body: se.ErrorMessage}
		default:
			return fmt.Errorf("ollama API error (status %d): %s", se.StatusCode, se.ErrorMessage)
		}
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		return &unavailableError{server: o.Name(), host: o.host, err: err}
	}
	return fmt.Errorf("ollama: %w", err)
}
