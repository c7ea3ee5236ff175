// Package transcript fetches YouTube transcripts from a hosted
// transcription API.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"recipe-bot/internal/infrastructure/config"
	"recipe-bot/internal/pkg/common"
)

// Error is any failure to obtain a transcript. StatusCode is zero when no
// HTTP response was received.
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return "transcript request failed: " + e.Message
	}
	return fmt.Sprintf("transcript request failed (%d): %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unavailable reports whether the video simply has no transcript.
func (e *Error) Unavailable() bool {
	return e.StatusCode == http.StatusNotFound
}

// Options control a single fetch.
type Options struct {
	// PlainText asks for one joined string instead of timed chunks.
	PlainText bool
	// Lang is a preferred transcript language; empty lets the service pick.
	Lang string
}

// Chunk is one timed transcript segment. Offset and Duration are in
// milliseconds.
type Chunk struct {
	Text     string  `json:"text"`
	Offset   float64 `json:"offset"`
	Duration float64 `json:"duration"`
	Lang     string  `json:"lang"`
}

// Transcript is a fetched transcript. Text is always populated; Chunks only
// when the service returned timed segments.
type Transcript struct {
	Text           string
	Chunks         []Chunk
	Lang           string
	AvailableLangs []string
}

type envelope struct {
	Content        json.RawMessage `json:"content"`
	Lang           string          `json:"lang"`
	AvailableLangs []string        `json:"availableLangs"`

	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// Client calls the transcript API.
type Client struct {
	client *resty.Client
}

func NewClient(cfg config.TranscriptConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)

	return &Client{client: client}
}

// Fetch requests the transcript of videoURL.
func (c *Client) Fetch(ctx context.Context, videoURL string, opts Options) (*Transcript, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("url", videoURL).
		SetQueryParam("text", fmt.Sprintf("%t", opts.PlainText))
	if opts.Lang != "" {
		req.SetQueryParam("lang", opts.Lang)
	}

	start := time.Now()
	resp, err := req.Get("/youtube/transcript")
	if err != nil {
		common.LogError("Transcript request failed", zap.String("url", videoURL), zap.Error(err))
		return nil, &Error{Message: "request failed", Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(resp.Body(), &env)

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		msg := http.StatusText(resp.StatusCode())
		if decodeErr == nil && env.Message != "" {
			msg = env.Message
		}
		common.LogError("Transcript service returned error status",
			zap.String("url", videoURL),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("response", common.Truncate(resp.String(), 500)),
		)
		return nil, &Error{StatusCode: resp.StatusCode(), Message: msg}
	}
	if decodeErr != nil {
		return nil, &Error{StatusCode: resp.StatusCode(), Message: "malformed response", Err: decodeErr}
	}

	// the service reports some failures inside a 200 body
	if env.Error != "" {
		status := resp.StatusCode()
		if isUnavailable(env) {
			status = http.StatusNotFound
		}
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		common.LogWarn("Transcript service reported an error",
			zap.String("url", videoURL),
			zap.String("error", env.Error),
			zap.String("details", env.Details),
		)
		return nil, &Error{StatusCode: status, Message: msg}
	}

	t, err := decodeContent(env.Content)
	if err != nil {
		return nil, &Error{StatusCode: resp.StatusCode(), Message: "malformed content", Err: err}
	}
	t.Lang = env.Lang
	t.AvailableLangs = env.AvailableLangs

	common.LogDebug("Transcript fetched",
		zap.String("url", videoURL),
		zap.String("lang", t.Lang),
		zap.Int("length", len(t.Text)),
		zap.Duration("duration", time.Since(start)),
	)
	return t, nil
}

func isUnavailable(env envelope) bool {
	s := strings.ToLower(env.Error + " " + env.Message)
	return strings.Contains(s, "unavailable") || strings.Contains(s, "not-found") || strings.Contains(s, "not found")
}

// decodeContent accepts either a JSON string or an array of chunks.
func decodeContent(raw json.RawMessage) (*Transcript, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return &Transcript{}, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return &Transcript{Text: text}, nil
	}

	var chunks []Chunk
	if err := json.Unmarshal(raw, &chunks); err != nil {
		return nil, err
	}
	parts := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		if s := strings.TrimSpace(ch.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return &Transcript{Text: strings.Join(parts, " "), Chunks: chunks}, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
