package agent

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jarvisdesk/jarvis/internal/schema"
)

// scriptedProvider replays canned responses in order and records every
// conversation it was sent.
type scriptedProvider struct {
	mu        sync.Mutex
	responses []schema.LLMResponse
	err       error
	calls     []schema.Messages
	toolDefs  [][]map[string]any
}

func (p *scriptedProvider) Chat(_ context.Context, msgs schema.Messages, tools []map[string]any, _ schema.ChatOptions) (schema.LLMResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, msgs.Clone())
	p.toolDefs = append(p.toolDefs, tools)
	if p.err != nil {
		return schema.LLMResponse{}, p.err
	}
	if len(p.responses) == 0 {
		return schema.LLMResponse{}, errors.New("script exhausted")
	}
	resp := p.responses[0]
	if len(p.responses) > 1 {
		p.responses = p.responses[1:]
	}
	return resp, nil
}

func (p *scriptedProvider) DefaultModel() string { return "test-model" }
func (p *scriptedProvider) Name() string         { return "scripted" }

func (p *scriptedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func text(s string) schema.LLMResponse {
	return schema.LLMResponse{Content: &s, FinishReason: "stop"}
}

func toolCalls(calls ...schema.ToolCall) schema.LLMResponse {
	return schema.LLMResponse{ToolCalls: calls, FinishReason: "tool_calls"}
}

// stubTool answers with a fixed result or error and records its arguments.
type stubTool struct {
	name   string
	result string
	err    error

	mu   sync.Mutex
	args []map[string]any
}

func (t *stubTool) Name() string        { return t.name }
func (t *stubTool) Description() string { return "stub " + t.name }
func (t *stubTool) Parameters() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{"q":{"type":"string"}}}`)
}

func (t *stubTool) Execute(_ context.Context, params map[string]any) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.args = append(t.args, params)
	return t.result, t.err
}

// fakeRecorder counts metric observations.
type fakeRecorder struct {
	mu          sync.Mutex
	llm         int
	llmErrors   int
	tools       map[string]int
	toolFailure map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{tools: map[string]int{}, toolFailure: map[string]int{}}
}

func (r *fakeRecorder) ObserveLLM(_ string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llm++
	if err != nil {
		r.llmErrors++
	}
}

func (r *fakeRecorder) ObserveTool(tool string, _ time.Duration, failed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool]++
	if failed {
		r.toolFailure[tool]++
	}
}
