package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarvisdesk/jarvis/internal/schema"
)

func TestOllamaProvider_ChatMapsToolCalls(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		// The client decodes the body line by line, so the reply is one line.
		_, _ = w.Write([]byte(`{"model":"llama3.1","message":{"role":"assistant","content":"",` +
			`"tool_calls":[{"function":{"name":"click_coordinates","arguments":{"x":10,"y":20}}}]},` +
			`"done":true,"done_reason":"stop","prompt_eval_count":7,"eval_count":3}` + "\n"))
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(srv.URL, "llama3.1")
	require.NoError(t, err)

	tools := []map[string]any{{
		"type": "function",
		"function": map[string]any{
			"name":        "click_coordinates",
			"description": "click",
			"parameters": map[string]any{
				"type":       "object",
				"properties": map[string]any{"x": map[string]any{"type": "integer"}},
				"required":   []any{"x"},
			},
		},
	}}
	resp, err := p.Chat(context.Background(),
		schema.NewMessages(schema.NewUserMessage("click it")), tools, schema.NewChatOptions("", 100, 0))
	require.NoError(t, err)

	assert.Equal(t, "llama3.1", got["model"])
	assert.Equal(t, false, got["stream"])
	require.Len(t, got["tools"], 1)

	require.Len(t, resp.ToolCalls, 1)
	call := resp.ToolCalls[0]
	assert.Equal(t, "click_coordinates", call.Name)
	assert.True(t, strings.HasPrefix(call.ID, "call_"))
	assert.Equal(t, float64(10), call.Arguments["x"])
	assert.Equal(t, "tool_calls", resp.FinishReason)
	assert.Equal(t, 10, resp.Usage["total_tokens"])
	assert.Nil(t, resp.Content)
}

func TestOllamaProvider_TextReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"Good evening."},"done":true}`))
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(srv.URL, "llama3.1")
	require.NoError(t, err)
	resp, err := p.Chat(context.Background(), schema.NewMessages(schema.NewUserMessage("hi")), nil, schema.ChatOptions{})
	require.NoError(t, err)
	require.NotNil(t, resp.Content)
	assert.Equal(t, "Good evening.", *resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestToOllamaMessages(t *testing.T) {
	msgs := schema.NewMessages(
		schema.NewAssistantMessage(nil, []schema.ToolCall{{ID: "c1", Name: "press_key", Arguments: map[string]any{"key": "enter"}}}),
		schema.NewToolResultMessage("c1", "press_key", "done"),
	)
	out := toOllamaMessages(msgs)
	require.Len(t, out, 2)
	require.Len(t, out[0].ToolCalls, 1)
	assert.Equal(t, "press_key", out[0].ToolCalls[0].Function.Name)
	assert.Equal(t, "tool", out[1].Role)
	assert.Equal(t, "press_key", out[1].ToolName)
	assert.Equal(t, "done", out[1].Content)
}

func TestNew(t *testing.T) {
	p, err := New(Params{ProviderName: "ollama", APIBase: "localhost:11434", DefaultModel: "llama3.1"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	p, err = New(Params{ProviderName: "", DefaultModel: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	_, err = New(Params{ProviderName: "bogus"})
	assert.Error(t, err)
}
