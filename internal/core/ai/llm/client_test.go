package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-bot/internal/core/ai/provider"
	"recipe-bot/internal/infrastructure/config"
	"recipe-bot/internal/pkg/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.LLMConfig{
		APIKey:      "sk-test",
		BaseURL:     srv.URL + "/",
		Model:       "test-model",
		Temperature: 0.4,
		MaxTokens:   256,
		Timeout:     5 * time.Second,
	})
}

func TestCompleteSendsContract(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","choices":[{"message":{"role":"assistant","content":"{\"ok\":true}"}}],"usage":{"total_tokens":12}}`))
	})

	resp, err := client.Complete(context.Background(), &provider.Request{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: "sys"},
			{Role: provider.RoleUser, Content: "hi"},
		},
		JSONMode: true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Content)
	assert.Equal(t, 12, resp.Usage.TotalTokens)

	assert.Equal(t, "test-model", got["model"])
	assert.Equal(t, 0.4, got["temperature"])
	assert.Equal(t, map[string]interface{}{"type": "json_object"}, got["response_format"])
	msgs := got["messages"].([]interface{})
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
}

func TestCompleteOmitsResponseFormatWithoutJSONMode(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"content":"text"}}]}`))
	})

	_, err := client.Complete(context.Background(), &provider.Request{
		Messages:    []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
		Temperature: 0.9,
	})
	require.NoError(t, err)
	_, present := got["response_format"]
	assert.False(t, present)
	assert.Equal(t, 0.9, got["temperature"])
}

func TestCompleteErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":{"message":"bad key"}}`, want: common.ErrAIUnauthorized},
		{name: "balance", status: http.StatusPaymentRequired, body: `{"error":{"message":"insufficient balance"}}`, want: common.ErrAIInsufficientFund},
		{name: "server", status: http.StatusBadGateway, body: `upstream down`, want: common.ErrAIServiceError},
		{name: "empty choices", status: http.StatusOK, body: `{"choices":[]}`, want: common.ErrAIEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := client.Complete(context.Background(), &provider.Request{
				Messages: []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
