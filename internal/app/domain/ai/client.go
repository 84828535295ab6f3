package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/pkg/config"
)

const (
	defaultModel       = "openai/gpt-4"
	defaultTemperature = 0.7
	defaultMaxTokens   = 4000
	defaultTopP        = 1.0
)

// GenerateOptions tune a single completion request. Zero values fall back to
// the client defaults.
type GenerateOptions struct {
	Model        string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	TopP         float64
}

// Usage is the token accounting reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// AIResponse is the raw text content of one completion plus metadata.
type AIResponse struct {
	Content string
	Model   string
	Usage   Usage
}

// Generator issues one completion request. Failures are never retried here;
// retrying is a policy decision left to callers.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (*AIResponse, error)
}

var _ Generator = (*Client)(nil)

// Client talks to an OpenRouter-compatible chat-completions endpoint.
type Client struct {
	baseURL      string
	apiKey       string
	defaultModel string
	referer      string
	appTitle     string
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewClient builds a client from configuration. The HTTP client carries no
// overall timeout; the caller bounds each request through its context.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		defaultModel: model,
		referer:      cfg.Referer,
		appTitle:     cfg.AppTitle,
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
	Stream      bool          `json:"stream"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate issues one chat-completion request and returns the text of the
// first choice.
func (c *Client) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*AIResponse, error) {
	model := opts.Model
	if model == "" {
		model = c.defaultModel
	}
	systemPrompt := opts.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = "You are a helpful travel planning assistant."
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	topP := opts.TopP
	if topP == 0 {
		topP = defaultTopP
	}

	reqBody := chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		TopP:        topP,
		Stream:      false,
	}

	resp, err := c.doRequest(ctx, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to generate AI response")
	}
	return resp, nil
}

func (c *Client) doRequest(ctx context.Context, reqBody chatCompletionRequest) (*AIResponse, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", c.referer)
	req.Header.Set("X-Title", c.appTitle)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiErrorResponse
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("AI API error: %s", apiErr.Error.Message)
		}
		return nil, fmt.Errorf("AI API error: %s", resp.Status)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("AI API error: response contained no choices")
	}

	c.logger.Debug("AI completion finished",
		zap.String("model", completion.Model),
		zap.Int("total_tokens", completion.Usage.TotalTokens),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &AIResponse{
		Content: completion.Choices[0].Message.Content,
		Model:   completion.Model,
		Usage:   completion.Usage,
	}, nil
}
