package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ollama/ollama/api"

	"github.com/jarvisdesk/jarvis/internal/schema"
)

const defaultOllamaBase = "http://localhost:11434"

// OllamaProvider talks to a local Ollama server through its native chat API.
type OllamaProvider struct {
	client       *api.Client
	defaultModel string
}

// NewOllamaProvider builds a client for baseURL. Hosts without a scheme,
// as commonly found in OLLAMA_HOST, are treated as plain http.
func NewOllamaProvider(baseURL, defaultModel string) (*OllamaProvider, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultOllamaBase
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL: %w", err)
	}
	hc := &http.Client{Timeout: 300 * time.Second}
	return &OllamaProvider{
		client:       api.NewClient(parsed, hc),
		defaultModel: defaultModel,
	}, nil
}

func (p *OllamaProvider) DefaultModel() string { return p.defaultModel }

func (p *OllamaProvider) Name() string { return "ollama" }

// Chat implements schema.LLMProvider.
func (p *OllamaProvider) Chat(
	ctx context.Context,
	messages schema.Messages,
	tools []map[string]any,
	opts schema.ChatOptions,
) (schema.LLMResponse, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}

	apiTools, err := toOllamaTools(tools)
	if err != nil {
		return schema.LLMResponse{}, err
	}

	stream := false
	req := &api.ChatRequest{
		Model:    model,
		Messages: toOllamaMessages(messages),
		Tools:    apiTools,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": opts.Temperature,
		},
	}
	if opts.MaxTokens > 0 {
		req.Options["num_predict"] = opts.MaxTokens
	}

	var final api.ChatResponse
	var text strings.Builder
	var calls []api.ToolCall
	err = p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		text.WriteString(resp.Message.Content)
		calls = append(calls, resp.Message.ToolCalls...)
		if resp.Done {
			final = resp
		}
		return nil
	})
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("ollama chat: %w", err)
	}

	out := schema.LLMResponse{
		FinishReason: final.DoneReason,
		Usage: map[string]int{
			"prompt_tokens":     final.PromptEvalCount,
			"completion_tokens": final.EvalCount,
			"total_tokens":      final.PromptEvalCount + final.EvalCount,
		},
	}
	if out.FinishReason == "" {
		out.FinishReason = "stop"
	}
	if s := text.String(); s != "" {
		out.Content = &s
	}
	for _, c := range calls {
		args := map[string]any(c.Function.Arguments)
		if args == nil {
			args = map[string]any{}
		}
		out.ToolCalls = append(out.ToolCalls, schema.ToolCall{
			ID:        "call_" + uuid.NewString(),
			Name:      c.Function.Name,
			Arguments: args,
		})
	}
	if len(out.ToolCalls) > 0 {
		out.FinishReason = "tool_calls"
	}
	return out, nil
}

func toOllamaMessages(messages schema.Messages) []api.Message {
	out := make([]api.Message, 0, messages.Len())
	for _, m := range messages.Messages {
		msg := api.Message{Role: string(m.Role), Content: m.Text()}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, api.ToolCall{
				Function: api.ToolCallFunction{
					Name:      tc.Name,
					Arguments: api.ToolCallFunctionArguments(tc.Arguments),
				},
			})
		}
		if m.Role == schema.RoleTool {
			msg.ToolName = m.ToolName
		}
		out = append(out, msg)
	}
	return out
}

// toOllamaTools re-decodes OpenAI-style function definitions into api.Tool.
// Both use the same JSON shape.
func toOllamaTools(defs []map[string]any) (api.Tools, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	out := make(api.Tools, 0, len(defs))
	for _, def := range defs {
		raw, err := json.Marshal(def)
		if err != nil {
			return nil, fmt.Errorf("marshal tool definition: %w", err)
		}
		var t api.Tool
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("convert tool definition: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}
