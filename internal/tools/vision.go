package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/meguminnnnnnnnn/go-openai"
	"go.uber.org/zap"
)

const defaultScreenPrompt = "Describe the current screen content in detail."

// VisionDescriber asks a vision model about a JPEG image.
type VisionDescriber interface {
	Model() string
	Describe(ctx context.Context, prompt string, jpegData []byte, detail string) (string, error)
}

// OpenAIVision describes images with an OpenAI chat completion model.
type OpenAIVision struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIVision returns nil when apiKey is empty.
func NewOpenAIVision(apiKey, apiBase, model string, maxTokens int) *OpenAIVision {
	if apiKey == "" {
		return nil
	}
	config := openai.DefaultConfig(apiKey)
	if base := strings.TrimRight(strings.TrimSpace(apiBase), "/"); base != "" {
		config.BaseURL = base
	}
	if model == "" {
		model = "gpt-4o"
	}
	if maxTokens <= 0 {
		maxTokens = 500
	}
	return &OpenAIVision{
		client:    openai.NewClientWithConfig(config),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (v *OpenAIVision) Model() string { return v.model }

func (v *OpenAIVision) Describe(ctx context.Context, prompt string, jpegData []byte, detail string) (string, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegData)
	resp, err := v.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     v.model,
		MaxTokens: v.maxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURL,
						Detail: openai.ImageURLDetail(detail),
					},
				},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("vision completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("vision completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// DescribeScreenTool captures the screen and asks a vision model to describe it.
type DescribeScreenTool struct {
	capturer  ScreenCapturer
	describer VisionDescriber
}

// NewDescribeScreenTool creates the tool. describer may be nil when no vision
// API key is configured; the tool then reports the missing client.
func NewDescribeScreenTool(capturer ScreenCapturer, describer VisionDescriber) *DescribeScreenTool {
	return &DescribeScreenTool{capturer: capturer, describer: describer}
}

func (t *DescribeScreenTool) Name() string { return string(ToolDescribeScreen) }
func (t *DescribeScreenTool) Description() string {
	return "Captures the primary screen, sends it to a vision model for analysis, and returns the model's description. " +
		"Use it before clicking to find the coordinates of on-screen elements."
}
func (t *DescribeScreenTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"user_prompt": {
				"type": "string",
				"description": "What to ask the vision model about the screen",
				"default": "Describe the current screen content in detail."
			},
			"detail_level": {
				"type": "string",
				"enum": ["low", "high"],
				"description": "Image analysis detail; 'low' is cheaper",
				"default": "low"
			}
		}
	}`)
}

func (t *DescribeScreenTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	if t.describer == nil {
		return "Error: OpenAI client failed to initialize. Check API key.", nil
	}

	prompt := strings.TrimSpace(stringParam(params, "user_prompt"))
	if prompt == "" {
		prompt = defaultScreenPrompt
	}
	detail := "low"
	if v, ok := params["detail_level"].(string); ok {
		detail = v
	}
	if detail != "low" && detail != "high" {
		return "Error: Invalid detail_level. Must be 'low' or 'high'.", nil
	}

	img, err := t.capturer.Capture(ctx)
	if err != nil {
		zap.L().Warn("screen capture failed", zap.Error(err))
		return fmt.Sprintf("Error during screen description generation: %v", err), nil
	}
	zap.L().Debug("screen captured", zap.Int("bytes", len(img)), zap.String("detail", detail))

	text, err := t.describer.Describe(ctx, prompt, img, detail)
	if err != nil {
		zap.L().Warn("screen description failed", zap.Error(err))
		return fmt.Sprintf("Error during screen description generation: %v", err), nil
	}
	return fmt.Sprintf("Screen Description (from %s):\n%s", t.describer.Model(), text), nil
}
