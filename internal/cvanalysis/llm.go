package cvanalysis

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"sals-backend/internal/apperr"
)

const (
	DefaultLLMBaseURL = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-3.5-turbo"
	DefaultLLMTimeout = 60 * time.Second

	maxTokens   = 1500
	temperature = 0.7
)

type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// LLMClient calls an OpenAI-compatible chat completions endpoint.
type LLMClient struct {
	client *resty.Client
	model  string
	apiKey string
}

func NewLLMClient(cfg LLMConfig) *LLMClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultLLMBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &LLMClient{client: client, model: cfg.Model, apiKey: cfg.APIKey}
}

// Complete sends one system and one user message and returns the first choice.
func (c *LLMClient) Complete(ctx context.Context, system, user string) (string, error) {
	if c.apiKey == "" {
		return "", apperr.Collaborator(nil, "language model is not configured")
	}

	var result chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: system},
				{Role: "user", Content: user},
			},
			MaxTokens:   maxTokens,
			Temperature: temperature,
		}).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", apperr.Collaborator(err, "chat completion")
	}
	if !resp.IsSuccess() {
		return "", apperr.Collaborator(nil, "chat completion returned %d", resp.StatusCode())
	}
	if len(result.Choices) == 0 {
		return "", apperr.Collaborator(nil, "chat completion returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}
