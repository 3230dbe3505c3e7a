package provider

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// DefaultOllamaBase is where a local Ollama server listens.
const DefaultOllamaBase = "http://localhost:11434"

// ProviderConfig holds credentials for one LLM provider.
type ProviderConfig struct {
	APIKey       string            `json:"apiKey"`
	APIBase      string            `json:"apiBase,omitempty"`
	ExtraHeaders map[string]string `json:"extraHeaders,omitempty"`
}

// ProvidersConfig holds credentials for the supported LLM providers and
// selects the active one.
type ProvidersConfig struct {
	Active string         `json:"provider"`
	OpenAI ProviderConfig `json:"openai"`
	Ollama ProviderConfig `json:"ollama"`
}

func DefaultProvidersConfig() ProvidersConfig {
	return ProvidersConfig{
		Active: ProviderOpenAI,
		Ollama: ProviderConfig{APIBase: DefaultOllamaBase},
	}
}

// ByName returns the provider config for name, or nil when unknown.
func (p *ProvidersConfig) ByName(name string) *ProviderConfig {
	switch name {
	case ProviderOpenAI:
		return &p.OpenAI
	case ProviderOllama:
		return &p.Ollama
	}
	return nil
}

// Names lists the provider names in display order.
func Names() []string {
	return []string{ProviderOpenAI, ProviderOllama}
}
