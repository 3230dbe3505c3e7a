package agent

// DefaultSystemPrompt is the assistant persona used when the config leaves
// systemPrompt empty.
const DefaultSystemPrompt = "You are Jarvis, the AI assistant created by Rahees Ahmed. You are a helpful assistant that can answer questions and help with tasks."

// AgentConfig holds the model and loop settings for the assistant.
type AgentConfig struct {
	Workspace    string  `json:"workspace"`
	Model        string  `json:"model"`
	MaxTokens    int     `json:"maxTokens"`
	Temperature  float64 `json:"temperature"`
	MaxToolIter  int     `json:"maxToolIterations"`
	MemoryWindow int     `json:"memoryWindow"`
	SystemPrompt string  `json:"systemPrompt,omitempty"`
}

func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Workspace:    "~/.jarvis/workspace",
		Model:        "gpt-4o",
		MaxTokens:    4096,
		Temperature:  0,
		MaxToolIter:  10,
		MemoryWindow: 50,
	}
}

// Persona returns the configured system prompt or the default persona.
func (c AgentConfig) Persona() string {
	if c.SystemPrompt != "" {
		return c.SystemPrompt
	}
	return DefaultSystemPrompt
}
