package tool

const (
	SearchBackendTavily = "tavily"
	SearchBackendBrave  = "brave"
)

// SearchToolConfig configures the search_on_web tool.
type SearchToolConfig struct {
	Backend    string `json:"backend"`
	APIKey     string `json:"apiKey"`
	MaxResults int    `json:"maxResults"`
	CacheTTL   int    `json:"cacheTTL"` // seconds, 0 disables the cache
}

func DefaultSearchToolConfig() SearchToolConfig {
	return SearchToolConfig{Backend: SearchBackendTavily, MaxResults: 2, CacheTTL: 300}
}
