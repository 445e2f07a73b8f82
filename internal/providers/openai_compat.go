package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultOpenAICompatHost is the LM Studio default listen address.
const DefaultOpenAICompatHost = "http://localhost:1234"

// OpenAICompat implements Backend for local servers that speak the OpenAI
// chat completions protocol (LM Studio, llama.cpp server, vLLM).
type OpenAICompat struct {
	apiKey     string
	host       string
	client     *http.Client
	maxRetries int
}

// NewOpenAICompat creates a client for the server at host. The optional
// CODEREVIEW_API_KEY environment variable is sent as a bearer token.
func NewOpenAICompat(host string) (*OpenAICompat, error) {
	if host == "" {
		host = DefaultOpenAICompatHost
	}
	// Normalize URL: strip trailing /, /v1, /v1/chat/completions
	host = strings.TrimRight(host, "/")
	host = strings.TrimSuffix(host, "/v1/chat/completions")
	host = strings.TrimSuffix(host, "/v1")

	return &OpenAICompat{
		apiKey:     os.Getenv("CODEREVIEW_API_KEY"),
		host:       host,
		client:     &http.Client{Timeout: 300 * time.Second},
		maxRetries: defaultMaxRetries,
	}, nil
}

func (o *OpenAICompat) Name() string { return "lmstudio" }

// Host returns the normalized server URL.
func (o *OpenAICompat) Host() string { return o.host }

func (o *OpenAICompat) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	temp := req.Temperature
	if temp == 0 {
		temp = DefaultTemperature
	}

	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	payload, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: &temp,
	})
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	var resp GenerateResponse
	err = retryWithBackoff(ctx, o.maxRetries, func() error {
		start := time.Now()
		body, err := o.do(ctx, http.MethodPost, "/v1/chat/completions", payload)
		if err != nil {
			return err
		}

		var result chatResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
		if len(result.Choices) == 0 {
			return fmt.Errorf("no choices in response")
		}
		if result.Choices[0].Message.Content == "" {
			return fmt.Errorf("empty text content in API response")
		}

		resp = GenerateResponse{
			Content:      result.Choices[0].Message.Content,
			Model:        result.Model,
			PromptTokens: result.Usage.PromptTokens,
			EvalTokens:   result.Usage.CompletionTokens,
			Duration:     time.Since(start),
		}
		return nil
	})

	return resp, err
}

// ListModels queries /v1/models.
func (o *OpenAICompat) ListModels(ctx context.Context) ([]Model, error) {
	body, err := o.do(ctx, http.MethodGet, "/v1/models", nil)
	if err != nil {
		return nil, err
	}
	var result struct {
		Data []struct {
			ID      string `json:"id"`
			Created int64  `json:"created"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing model list: %w", err)
	}
	models := make([]Model, 0, len(result.Data))
	for _, m := range result.Data {
		models = append(models, Model{Name: m.ID, ModifiedAt: time.Unix(m.Created, 0).UTC()})
	}
	return models, nil
}

func (o *OpenAICompat) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, o.host+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if o.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	httpResp, err := o.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &unavailableError{server: o.Name(), host: o.host, err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case httpResp.StatusCode == http.StatusTooManyRequests:
		return nil, &rateLimitError{statusCode: httpResp.StatusCode}
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		return nil, &authError{message: string(respBody)}
	case httpResp.StatusCode >= 500:
		return nil, &serverError{statusCode: httpResp.StatusCode, body: string(respBody)}
	case httpResp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, string(respBody))
	}
	return respBody, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}
