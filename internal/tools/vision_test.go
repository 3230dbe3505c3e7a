package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// screenshotRunner writes a small PNG to the path the capture command names.
type screenshotRunner struct {
	args []string
	err  error
}

func (s *screenshotRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	s.args = append([]string{name}, args...)
	if s.err != nil {
		return nil, s.err
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return nil, os.WriteFile(args[len(args)-1], buf.Bytes(), 0o600)
}

type stubCapturer struct {
	data []byte
	err  error
}

func (s stubCapturer) Capture(context.Context) ([]byte, error) { return s.data, s.err }

type stubDescriber struct {
	prompt, detail string
	reply          string
	err            error
}

func (s *stubDescriber) Model() string { return "gpt-4o" }
func (s *stubDescriber) Describe(_ context.Context, prompt string, _ []byte, detail string) (string, error) {
	s.prompt, s.detail = prompt, detail
	return s.reply, s.err
}

func TestCommandCapturer_ReencodesAsJPEG(t *testing.T) {
	r := &screenshotRunner{}
	c, err := NewCommandCapturer("", "linux", r)
	require.NoError(t, err)

	data, err := c.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "import", r.args[0])
	assert.Equal(t, []string{"-window", "root"}, r.args[1:3])

	_, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestCommandCapturer_AppendsFileWhenTemplateLacksIt(t *testing.T) {
	r := &screenshotRunner{}
	c, err := NewCommandCapturer("grim", "linux", r)
	require.NoError(t, err)
	_, err = c.Capture(context.Background())
	require.NoError(t, err)
	require.Len(t, r.args, 2)
	assert.True(t, strings.HasSuffix(r.args[1], "screen.png"))
}

func TestCommandCapturer_Errors(t *testing.T) {
	_, err := NewCommandCapturer("", "windows", nil)
	assert.ErrorIs(t, err, ErrCaptureUnsupported)

	c, err := NewCommandCapturer("", "darwin", &screenshotRunner{err: errors.New("no permission")})
	require.NoError(t, err)
	_, err = c.Capture(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no permission")
}

func TestDescribeScreenTool(t *testing.T) {
	d := &stubDescriber{reply: "A terminal window."}
	tool := NewDescribeScreenTool(stubCapturer{data: []byte{1}}, d)

	got, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "Screen Description (from gpt-4o):\nA terminal window.", got)
	assert.Equal(t, defaultScreenPrompt, d.prompt)
	assert.Equal(t, "low", d.detail)

	_, _ = tool.Execute(context.Background(), map[string]any{"user_prompt": "Where is OK?", "detail_level": "high"})
	assert.Equal(t, "Where is OK?", d.prompt)
	assert.Equal(t, "high", d.detail)
}

func TestDescribeScreenTool_Errors(t *testing.T) {
	assert.Nil(t, NewOpenAIVision("", "", "gpt-4o", 500))
	got, _ := NewDescribeScreenTool(stubCapturer{}, nil).Execute(context.Background(), nil)
	assert.Equal(t, "Error: OpenAI client failed to initialize. Check API key.", got)

	tool := NewDescribeScreenTool(stubCapturer{data: []byte{1}}, &stubDescriber{})
	got, _ = tool.Execute(context.Background(), map[string]any{"detail_level": "ultra"})
	assert.Equal(t, "Error: Invalid detail_level. Must be 'low' or 'high'.", got)

	tool = NewDescribeScreenTool(stubCapturer{err: errors.New("no display")}, &stubDescriber{})
	got, _ = tool.Execute(context.Background(), nil)
	assert.Equal(t, "Error during screen description generation: no display", got)

	tool = NewDescribeScreenTool(stubCapturer{data: []byte{1}}, &stubDescriber{err: errors.New("quota")})
	got, _ = tool.Execute(context.Background(), nil)
	assert.Equal(t, "Error during screen description generation: quota", got)
}

func TestOpenAIVision_SendsImagePart(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","model":"gpt-4o",
			"choices":[{"index":0,"message":{"role":"assistant","content":"A login form."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	v := NewOpenAIVision("sk-test", srv.URL+"/v1", "", 0)
	require.NotNil(t, v)
	got, err := v.Describe(context.Background(), "What is shown?", []byte{0xff, 0xd8}, "low")
	require.NoError(t, err)
	assert.Equal(t, "A login form.", got)

	assert.Equal(t, "gpt-4o", body["model"])
	assert.Equal(t, float64(500), body["max_tokens"])
	msgs := body["messages"].([]any)
	parts := msgs[0].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)
	img := parts[1].(map[string]any)["image_url"].(map[string]any)
	assert.True(t, strings.HasPrefix(img["url"].(string), "data:image/jpeg;base64,"))
	assert.Equal(t, "low", img["detail"])
}

func TestNewOpenAIVision_NoKey(t *testing.T) {
	assert.Nil(t, NewOpenAIVision("", "", "gpt-4o", 500))
}
