package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jarvisdesk/jarvis/internal/metrics"
	"github.com/jarvisdesk/jarvis/internal/schema"
	"github.com/jarvisdesk/jarvis/internal/shared/llmutils"
	"github.com/jarvisdesk/jarvis/internal/tools"
)

const (
	noFinalResponse = "Agent did not produce a final AI response."
	maxIterReached  = "I've reached the maximum number of tool iterations without a final answer."
)

// Runner executes the LLM ↔ tool iteration loop for one turn.
type Runner struct {
	provider schema.LLMProvider
	settings schema.AgentSettings
	metrics  metrics.Recorder
}

// NewRunner creates a Runner. A nil recorder records nothing.
func NewRunner(provider schema.LLMProvider, settings schema.AgentSettings, recorder metrics.Recorder) *Runner {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if settings.MaxIter <= 0 {
		settings.MaxIter = 10
	}
	return &Runner{provider: provider, settings: settings, metrics: recorder}
}

// Run drives conversation until the model answers without tool calls or the
// iteration limit is reached. conversation must already hold the system
// prompt, history and the new user message; it is extended in place.
//
// Every tool call in a response is executed in order. Tool failures are fed
// back to the model as tool results and never abort the turn. Only an LLM
// failure returns a non-nil error.
func (r *Runner) Run(
	ctx context.Context,
	conversation *schema.Messages,
	tls *tools.ToolList,
	hooks schema.Hooks,
) (finalContent string, toolsUsed []string, err error) {
	for i := 0; i < r.settings.MaxIter; i++ {
		start := time.Now()
		resp, err := r.provider.Chat(ctx,
			*conversation,
			tls.Definitions(),
			schema.NewChatOptions(r.settings.Model, r.settings.MaxTokens, r.settings.Temperature),
		)
		r.metrics.ObserveLLM(r.provider.Name(), time.Since(start), err)
		if err != nil {
			zap.L().Error("LLM error", zap.String("provider", r.provider.Name()), zap.Error(err))
			return "", toolsUsed, fmt.Errorf("llm call: %w", err)
		}

		if !resp.HasToolCalls() {
			content := ""
			if resp.Content != nil {
				content = llmutils.StripThink(*resp.Content)
			}
			return llmutils.StringOrDefault(content, noFinalResponse), toolsUsed, nil
		}

		if resp.Content != nil {
			if clean := llmutils.StripThink(*resp.Content); clean != "" {
				hooks.Progress(clean)
			}
		}

		conversation.AddAssistant(resp.Content, resp.ToolCalls)
		zap.L().Debug("Tool calls requested", zap.Int("iteration", i), zap.String("calls", llmutils.ToolHint(resp.ToolCalls)))

		for _, tc := range resp.ToolCalls {
			toolsUsed = append(toolsUsed, tc.Name)
			result := r.execute(ctx, tls, tc, hooks)
			conversation.AddToolResult(tc.ID, tc.Name, result)
		}
	}

	return maxIterReached, toolsUsed, nil
}

// execute runs one tool call and renders its outcome as tool-result text.
func (r *Runner) execute(ctx context.Context, tls *tools.ToolList, tc schema.ToolCall, hooks schema.Hooks) string {
	argsJSON, _ := json.Marshal(tc.Arguments)
	zap.L().Info("Tool call", zap.String("name", tc.Name), zap.String("args", llmutils.Truncate(string(argsJSON), 200)))

	hooks.ToolStart(tc)
	start := time.Now()

	var result string
	failed := false
	if t := tls.Get(tc.Name); t != nil {
		out, err := t.Execute(ctx, tc.Arguments)
		if err != nil {
			zap.L().Warn("Tool failed", zap.String("name", tc.Name), zap.Error(err))
			result = fmt.Sprintf("Error executing tool %s: %v", tc.Name, err)
			failed = true
		} else {
			result = out
		}
	} else {
		result = fmt.Sprintf("Error: Tool %s not found.", tc.Name)
		failed = true
	}

	elapsed := time.Since(start)
	r.metrics.ObserveTool(tc.Name, elapsed, failed)
	hooks.ToolResult(tc, result, elapsed)
	return result
}
