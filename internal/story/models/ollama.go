package models

import (
	"context"
	"io"
	"net/http"
	"strings"

	einoollama "github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/components/model"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// NewOllama creates an Ollama chat model.
func NewOllama(ctx context.Context, cfg Config) (model.BaseChatModel, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	timeout := cfg.timeout()
	return einoollama.NewChatModel(ctx, &einoollama.ChatModelConfig{
		BaseURL: baseURL,
		Model:   cfg.Name,
		Timeout: timeout,
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: &ollamaTransport{inner: http.DefaultTransport, provider: "ollama"},
		},
	})
}

// ollamaTransport turns unreachable backends and non-JSON replies (a proxy
// saying "no available server") into UnavailableError.
type ollamaTransport struct {
	inner    http.RoundTripper
	provider string
}

func (t *ollamaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.inner.RoundTrip(req)
	if err != nil {
		return nil, &UnavailableError{Provider: t.provider, Cause: err}
	}

	if resp.StatusCode >= 400 {
		return nil, t.drain(resp)
	}

	// Ollama streams application/x-ndjson, otherwise application/json.
	ct := resp.Header.Get("Content-Type")
	if ct != "" && !strings.Contains(ct, "json") {
		return nil, t.drain(resp)
	}

	return resp, nil
}

func (t *ollamaTransport) drain(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	resp.Body.Close()
	return &UnavailableError{
		Provider: t.provider,
		Body:     strings.TrimSpace(string(body)),
	}
}
