package provider

import (
	"context"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat-completion message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one chat-completion call.
type Request struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
	// JSONMode asks the model to answer with a single JSON object.
	JSONMode bool
	// Purpose labels the call in logs and cache keys.
	Purpose string
}

// Response carries the first choice's content.
type Response struct {
	Content string
	Usage   Usage
	// CacheHit is set when the content came from the completion cache.
	CacheHit bool
}

// Usage is token accounting as reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Provider is a chat-completion backend.
type Provider interface {
	// Complete sends the request and returns the first choice.
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Model returns the model name requests are sent to.
	Model() string

	// Close releases idle connections.
	Close() error
}
