package providers

import (
	"fmt"

	"github.com/jarvisdesk/jarvis/internal/schema"
)

// Params are the raw values needed to construct any schema.LLMProvider.
// Extracted from config.Config by the caller to avoid an import cycle.
type Params struct {
	APIKey       string
	APIBase      string
	ExtraHeaders map[string]string
	DefaultModel string
	ProviderName string // "openai" or "ollama"
}

// New creates the schema.LLMProvider named by p.ProviderName.
//   - ollama         → OllamaProvider (native api client)
//   - openai or ""   → OpenAIProvider (any OpenAI-compatible endpoint)
func New(p Params) (schema.LLMProvider, error) {
	switch p.ProviderName {
	case "ollama":
		return NewOllamaProvider(p.APIBase, p.DefaultModel)
	case "openai", "":
		return NewOpenAIProvider(p.APIKey, p.APIBase, p.DefaultModel, p.ExtraHeaders), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", p.ProviderName)
	}
}
