package llm

import (
	"fmt"
	"net/http"
	"time"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider talks to OpenRouter's OpenAI-compatible API.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
// Model IDs are passed through unchanged.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	httpClient := &http.Client{
		Timeout:   2 * time.Minute,
		Transport: &attributionTransport{base: http.DefaultTransport},
	}
	return &OpenRouterProvider{OpenAIProvider: &OpenAIProvider{
		client: newOpenAIClient(cfg.APIKey, baseURL, httpClient),
		model:  cfg.Model,
	}}, nil
}

// attributionTransport adds the app attribution headers OpenRouter reads.
type attributionTransport struct {
	base http.RoundTripper
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Title", "rehearse")
	req.Header.Set("HTTP-Referer", "https://github.com/abhisek/rehearse")
	return t.base.RoundTrip(req)
}
