package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarvisdesk/jarvis/internal/schema"
)

func TestOpenAIProvider_ChatSendsToolsAndParsesCalls(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{
				"message": {
					"content": null,
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "get_weather", "arguments": "{\"city\": \"nyc\"}"}
					}]
				},
				"finish_reason": "tool_calls"
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", srv.URL+"/", "gpt-4o", nil)
	msgs := schema.NewMessages(schema.NewSystemMessage("sys"), schema.NewUserMessage("weather in nyc?"))
	tools := []map[string]any{{
		"type":     "function",
		"function": map[string]any{"name": "get_weather", "parameters": map[string]any{"type": "object"}},
	}}

	resp, err := p.Chat(context.Background(), msgs, tools, schema.NewChatOptions("", 0, 0))
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", got["model"])
	assert.Equal(t, "auto", got["tool_choice"])
	assert.Equal(t, float64(4096), got["max_tokens"])
	assert.Len(t, got["messages"], 2)

	assert.Nil(t, resp.Content)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call_1", resp.ToolCalls[0].ID)
	assert.Equal(t, "get_weather", resp.ToolCalls[0].Name)
	assert.Equal(t, map[string]any{"city": "nyc"}, resp.ToolCalls[0].Arguments)
	assert.Equal(t, "tool_calls", resp.FinishReason)
	assert.Equal(t, 15, resp.Usage["total_tokens"])
}

func TestOpenAIProvider_NonOKIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("bad", srv.URL, "gpt-4o", nil)
	_, err := p.Chat(context.Background(), schema.NewMessages(schema.NewUserMessage("hi")), nil, schema.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
	assert.Contains(t, err.Error(), "bad key")
}

func TestOpenAIProvider_RateLimitMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewOpenAIProvider("k", srv.URL, "gpt-4o", nil)
	_, err := p.Chat(context.Background(), schema.NewMessages(schema.NewUserMessage("hi")), nil, schema.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestOpenAIProvider_DefaultBase(t *testing.T) {
	p := NewOpenAIProvider("k", "", "gpt-4o", nil)
	assert.Equal(t, defaultOpenAIBase, p.apiBase)
	assert.Equal(t, "openai", p.Name())
	assert.Equal(t, "gpt-4o", p.DefaultModel())
}

func TestMessageToWireMap(t *testing.T) {
	asst := messageToWireMap(schema.NewAssistantMessage(nil, []schema.ToolCall{{ID: "c1", Name: "press_key"}}))
	assert.Equal(t, "assistant", asst["role"])
	assert.Nil(t, asst["content"])
	calls := asst["tool_calls"].([]map[string]any)
	require.Len(t, calls, 1)
	assert.Equal(t, "{}", calls[0]["function"].(map[string]any)["arguments"])

	tool := messageToWireMap(schema.NewToolResultMessage("c1", "press_key", "ok"))
	assert.Equal(t, "c1", tool["tool_call_id"])
	assert.Equal(t, "press_key", tool["name"])
	assert.Equal(t, "ok", tool["content"])
}

func TestParseOpenAIResponse_MalformedArguments(t *testing.T) {
	raw := []byte(`{"choices":[{"message":{"content":"","tool_calls":[
		{"id":"c1","function":{"name":"run_command","arguments":"not json"}}]}}]}`)
	resp, err := parseOpenAIResponse(raw)
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, map[string]any{"raw": "not json"}, resp.ToolCalls[0].Arguments)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Nil(t, resp.Content)
}

func TestParseOpenAIResponse_EmptyChoices(t *testing.T) {
	_, err := parseOpenAIResponse([]byte(`{"choices":[]}`))
	assert.Error(t, err)
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]any
	}{
		{"empty", "", map[string]any{}},
		{"valid", `{"x": 1}`, map[string]any{"x": float64(1)}},
		{"missing brace", `{"city": "sf"`, map[string]any{"city": "sf"}},
		{"trailing garbage", `{"key": "enter"} extra`, map[string]any{"key": "enter"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repairJSON(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
