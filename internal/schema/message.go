package schema

import "encoding/json"

// Role is the author of one conversation entry.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall represents one function call in an assistant message.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ToWireMap serialises a ToolCall into the OpenAI wire-format map.
// Used by providers and the session store.
func (tc ToolCall) ToWireMap() map[string]any {
	argsJSON, _ := json.Marshal(tc.Arguments)
	if tc.Arguments == nil {
		argsJSON = []byte("{}")
	}
	return map[string]any{
		"id":   tc.ID,
		"type": "function",
		"function": map[string]any{
			"name":      tc.Name,
			"arguments": string(argsJSON),
		},
	}
}

// Message is one entry in the conversation history.
//
// Content is nil only for assistant turns that carry nothing but tool calls.
// ToolCallID and ToolName are set for tool-result messages.
// ToolsUsed is session-only bookkeeping and is never sent to the LLM.
type Message struct {
	Role       Role
	Content    *string
	ToolCalls  []ToolCall
	ToolCallID string
	ToolName   string
	ToolsUsed  []string
}

// Text returns the message content, or "" when there is none.
func (m Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// HasToolCalls reports whether the message is an assistant turn requesting tools.
func (m Message) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: &content}
}

func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: &content}
}

func NewAssistantMessage(content *string, toolCalls []ToolCall) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: toolCalls}
}

func NewToolResultMessage(toolCallID, toolName, result string) Message {
	return Message{
		Role:       RoleTool,
		Content:    &result,
		ToolCallID: toolCallID,
		ToolName:   toolName,
	}
}
