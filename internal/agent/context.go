package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jarvisdesk/jarvis/internal/schema"
)

// bootstrapFiles lists workspace files loaded into the system prompt.
var bootstrapFiles = []string{"JARVIS.md", "USER.md"}

const desktopGuidance = `## Desktop Control
- To act on something on screen, call describe_screen_content first and ask for the coordinates of the element you need.
- Then use click_coordinates with those coordinates. Coordinates start at the top-left corner (0,0) of the primary screen.
- Click an input field before calling type_text, and use press_key for keys such as enter, tab or esc.
- run_command executes on the user's machine. Prefer read-only commands and explain anything destructive before running it.`

// PromptBuilder assembles system prompts and message lists for the LLM.
type PromptBuilder struct {
	workspace string
	persona   string
	now       func() time.Time
}

// NewPromptBuilder creates a PromptBuilder for the given workspace.
// persona is the identity line placed at the top of every system prompt.
func NewPromptBuilder(workspace, persona string) *PromptBuilder {
	return &PromptBuilder{workspace: workspace, persona: persona, now: time.Now}
}

// BuildSystemPrompt assembles the full system prompt: persona, runtime
// facts, desktop guidance and workspace bootstrap files.
func (pb *PromptBuilder) BuildSystemPrompt() string {
	parts := []string{pb.buildIdentity(), desktopGuidance}

	if bootstrap := pb.loadBootstrapFiles(); bootstrap != "" {
		parts = append(parts, bootstrap)
	}

	return strings.Join(parts, "\n\n---\n\n")
}

// buildIdentity returns the core identity section of the system prompt.
func (pb *PromptBuilder) buildIdentity() string {
	now := pb.now()
	tz, _ := now.Zone()
	if tz == "" {
		tz = "UTC"
	}
	osName := runtime.GOOS
	if osName == "darwin" {
		osName = "macOS"
	}

	return fmt.Sprintf(`# Jarvis

%s

## Current Time
%s (%s)

## Runtime
%s %s, Go %s

## Workspace
Your workspace is at: %s

Always be helpful, accurate, and concise. Before calling tools, briefly tell the user what you're about to do.
If you need to use tools, call them directly. Never announce a tool call without making it.`,
		pb.persona,
		now.Format("2006-01-02 15:04 (Monday)"), tz,
		osName, runtime.GOARCH, runtime.Version(),
		pb.workspace,
	)
}

// loadBootstrapFiles reads all bootstrap markdown files from the workspace.
func (pb *PromptBuilder) loadBootstrapFiles() string {
	var parts []string
	for _, name := range bootstrapFiles {
		data, err := os.ReadFile(filepath.Join(pb.workspace, name))
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			parts = append(parts, fmt.Sprintf("## %s\n\n%s", name, text))
		}
	}
	return strings.Join(parts, "\n\n")
}

// BuildMessages builds the complete message list for an LLM call:
// system prompt, then history, then the new user message.
func (pb *PromptBuilder) BuildMessages(history schema.Messages, currentMessage string, channel, threadID string) schema.Messages {
	systemPrompt := pb.BuildSystemPrompt()
	if channel != "" && threadID != "" {
		systemPrompt += fmt.Sprintf("\n\n## Current Session\nChannel: %s\nThread: %s", channel, threadID)
	}

	messages := schema.NewMessages()
	messages.AddSystem(systemPrompt)
	messages.Append(history)
	messages.AddUser(currentMessage)

	return messages
}
