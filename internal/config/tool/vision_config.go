package tool

// VisionToolConfig configures describe_screen_content.
type VisionToolConfig struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"maxTokens"`
	// CaptureCommand overrides the screenshot command; "{file}" is replaced
	// with the output path.
	CaptureCommand string `json:"captureCommand,omitempty"`
}

func DefaultVisionToolConfig() VisionToolConfig {
	return VisionToolConfig{Model: "gpt-4o", MaxTokens: 500}
}
