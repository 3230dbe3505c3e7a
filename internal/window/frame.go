package window

import (
	"github.com/jarvisdesk/jarvis/internal/bus"
)

// Frame types exchanged over the websocket.
const (
	FrameMessage  = "message"
	FrameProgress = "progress"
	FrameBusy     = "busy"
	FrameSession  = "session"
)

// Senders shown in the chat log.
const (
	SenderJarvis = "JARVIS"
	SenderError  = "System Error"
)

const greeting = "System online. How may I assist you?"

// Frame is one JSON websocket message in either direction.
type Frame struct {
	Type     string `json:"type"`
	Sender   string `json:"sender,omitempty"`
	Content  string `json:"content,omitempty"`
	Busy     *bool  `json:"busy,omitempty"`
	ThreadID string `json:"threadId,omitempty"`
	ToolHint bool   `json:"toolHint,omitempty"`
}

func busyFrame(busy bool) Frame {
	return Frame{Type: FrameBusy, Busy: &busy}
}

// framesFor translates an agent reply into the frames a client renders.
// A final reply or error also clears the busy indicator.
func framesFor(msg bus.OutboundMessage) []Frame {
	switch {
	case msg.IsProgress():
		hint, _ := msg.Metadata[bus.MetaToolHint].(bool)
		return []Frame{{Type: FrameProgress, Content: msg.Content, ToolHint: hint}}
	case msg.IsError():
		return []Frame{
			{Type: FrameMessage, Sender: SenderError, Content: "An error occurred: " + msg.Content},
			busyFrame(false),
		}
	case msg.Channel == bus.ChannelCron:
		name, _ := msg.Metadata[bus.MetaSchedule].(string)
		content := msg.Content
		if name != "" {
			content = "[" + name + "] " + content
		}
		return []Frame{{Type: FrameMessage, Sender: SenderJarvis, Content: content}}
	default:
		return []Frame{
			{Type: FrameMessage, Sender: SenderJarvis, Content: msg.Content},
			busyFrame(false),
		}
	}
}
