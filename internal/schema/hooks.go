package schema

import "time"

// Hooks receives the intermediate steps of one agent turn.
// Any field may be nil.
type Hooks struct {
	OnProgress   func(text string)
	OnToolStart  func(call ToolCall)
	OnToolResult func(call ToolCall, result string, elapsed time.Duration)
}

func (h Hooks) Progress(text string) {
	if h.OnProgress != nil {
		h.OnProgress(text)
	}
}

func (h Hooks) ToolStart(call ToolCall) {
	if h.OnToolStart != nil {
		h.OnToolStart(call)
	}
}

func (h Hooks) ToolResult(call ToolCall, result string, elapsed time.Duration) {
	if h.OnToolResult != nil {
		h.OnToolResult(call, result, elapsed)
	}
}
