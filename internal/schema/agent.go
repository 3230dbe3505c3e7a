package schema

import "context"

type AgentSettings struct {
	Model        string
	MaxIter      int
	Temperature  float64
	MaxTokens    int
	MemoryWindow int
}

func NewAgentSettings(model string, maxIter int, temperature float64, maxTokens int, memoryWindow int) AgentSettings {
	return AgentSettings{
		Model:        model,
		MaxIter:      maxIter,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
		MemoryWindow: memoryWindow,
	}
}

// AgentLooper is what the chat windows and the scheduler drive.
type AgentLooper interface {
	// ProcessDirect runs one turn on the given thread outside the bus and
	// returns the final reply.
	ProcessDirect(ctx context.Context, content, threadID string, hooks Hooks) (string, error)
	// Run consumes the inbound bus until ctx is cancelled.
	Run(ctx context.Context) error
}
