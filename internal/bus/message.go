package bus

import "time"

// Metadata keys understood by the windows.
const (
	MetaProgress = "_progress"  // bool: intermediate step, not the final reply
	MetaToolHint = "_tool_hint" // bool: progress text describes a tool call
	MetaError    = "_error"     // bool: content is an error report
	MetaSchedule = "_schedule"  // string: name of the schedule that produced the reply
)

// InboundMessage is a message received from a chat window.
type InboundMessage struct {
	Channel   Channel
	SenderID  string         // user identifier within the channel
	ChatID    string         // window / connection identifier
	Content   string         // message text
	Timestamp time.Time      // when the message was received
	Metadata  map[string]any // window-specific extra data
}

// NewInboundMessage creates an InboundMessage with Timestamp set to now.
func NewInboundMessage(channel Channel, senderID, chatID, content string) InboundMessage {
	return InboundMessage{
		Channel:   channel,
		SenderID:  senderID,
		ChatID:    chatID,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// SessionKey returns the unique key used to look up the conversation thread.
// Window chat ids are already unique thread ids, so they are used as-is.
func (m InboundMessage) SessionKey() string {
	if m.Channel == ChannelWindow || m.Channel == ChannelTUI {
		return m.ChatID
	}
	return RoutingKey(m.Channel, m.ChatID)
}

// Preview returns a short snippet of the message content for logging.
func (m InboundMessage) Preview() string {
	preview := m.Content
	if len(preview) > 80 {
		preview = preview[:80] + "..."
	}
	return preview
}

// OutboundMessage is a response to be sent back through a window.
type OutboundMessage struct {
	Channel  Channel
	ChatID   string         // destination window / connection identifier
	Content  string         // text to send
	Metadata map[string]any // hints such as MetaProgress
}

func NewOutboundMessage(channel Channel, chatID, content string) OutboundMessage {
	return OutboundMessage{Channel: channel, ChatID: chatID, Content: content}
}

// IsProgress reports whether the message is an intermediate step.
func (m OutboundMessage) IsProgress() bool { return metaBool(m.Metadata, MetaProgress) }

// IsError reports whether the message reports a failed turn.
func (m OutboundMessage) IsError() bool { return metaBool(m.Metadata, MetaError) }

func metaBool(md map[string]any, key string) bool {
	v, _ := md[key].(bool)
	return v
}
