// Package llm talks to an OpenAI-compatible chat-completions endpoint.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"recipe-bot/internal/core/ai/provider"
	"recipe-bot/internal/infrastructure/config"
	"recipe-bot/internal/pkg/common"
)

var _ provider.Provider = (*Client)(nil)

// Client is a resty-backed provider.Provider.
type Client struct {
	client      *resty.Client
	model       string
	temperature float64
	maxTokens   int
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string             `json:"model"`
	Messages       []provider.Message `json:"messages"`
	Temperature    float64            `json:"temperature"`
	MaxTokens      int                `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat    `json:"response_format,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message provider.Message `json:"message"`
	} `json:"choices"`
	Usage provider.Usage `json:"usage"`
}

type apiError struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// NewClient builds a client from the LLM section of the config.
func NewClient(cfg config.LLMConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Title", "Recipe Bot").
		SetTimeout(cfg.Timeout)

	return &Client{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete posts one chat-completion request.
func (c *Client) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	body := chatRequest{
		Model:       c.model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	// request values override the configured defaults
	if body.Temperature == 0 {
		body.Temperature = c.temperature
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = c.maxTokens
	}
	if req.JSONMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	common.LogDebug("Sending chat completion",
		zap.String("model", c.model),
		zap.String("purpose", req.Purpose),
		zap.Int("messages", len(req.Messages)),
		zap.Bool("json_mode", req.JSONMode),
	)

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		common.LogAICall(req.Purpose, time.Since(start), err)
		return nil, common.ErrAIServiceError.Wrap(fmt.Errorf("failed to send request: %w", err))
	}

	// non-2xx
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		err := statusError(resp.StatusCode(), resp.Body())
		common.LogError("AI service returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.model),
			zap.String("response", common.Truncate(resp.String(), 500)),
		)
		common.LogAICall(req.Purpose, time.Since(start), err)
		return nil, err
	}

	// parse response
	var parsed chatResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, common.ErrAIServiceError.Wrap(fmt.Errorf("failed to parse response: %w", err))
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return nil, common.ErrAIEmptyResponse
	}

	common.LogAICall(req.Purpose, time.Since(start), nil)
	return &provider.Response{
		Content: parsed.Choices[0].Message.Content,
		Usage:   parsed.Usage,
	}, nil
}

// statusError maps a non-2xx status onto a CustomError. The provider's body
// is kept only as the wrapped cause, never as the message.
func statusError(status int, body []byte) error {
	detail := fmt.Sprintf("status %d", status)
	var ae apiError
	if json.Unmarshal(body, &ae) == nil && ae.Error.Message != "" {
		detail = fmt.Sprintf("status %d: %s", status, ae.Error.Message)
	}
	cause := errors.New(detail)

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return common.ErrAIUnauthorized.Wrap(cause)
	case http.StatusPaymentRequired:
		return common.ErrAIInsufficientFund.Wrap(cause)
	default:
		return common.ErrAIServiceError.Wrap(cause)
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
