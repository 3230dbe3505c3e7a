package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jarvisdesk/jarvis/internal/schema"
)

// setSenderMsg hands the model the program's Send so the worker can stream
// intermediate steps back into the event loop.
type setSenderMsg struct {
	send func(tea.Msg)
}

type progressMsg struct {
	text string
}

type toolStartMsg struct {
	call schema.ToolCall
}

type toolResultMsg struct {
	call    schema.ToolCall
	result  string
	elapsed time.Duration
}

// replyMsg ends a turn.
type replyMsg struct {
	threadID string
	content  string
	err      error
}
