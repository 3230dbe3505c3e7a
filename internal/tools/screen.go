package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrCaptureUnsupported is returned when no screenshot command is known for the platform.
var ErrCaptureUnsupported = errors.New("screen capture is not supported on this platform")

const (
	captureFilePlaceholder = "{file}"
	captureJPEGQuality     = 85
)

// ScreenCapturer grabs the primary screen as JPEG bytes.
type ScreenCapturer interface {
	Capture(ctx context.Context) ([]byte, error)
}

// defaultCaptureCommand returns the screenshot command template for goos.
func defaultCaptureCommand(goos string) (string, error) {
	switch goos {
	case "darwin":
		return "screencapture -x -t png {file}", nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "import -window root {file}", nil
	default:
		return "", fmt.Errorf("%w (%s)", ErrCaptureUnsupported, goos)
	}
}

// CommandCapturer runs an external screenshot program that writes an image
// file, then re-encodes the result as JPEG.
type CommandCapturer struct {
	argv   []string
	runner CommandRunner
}

// NewCommandCapturer builds a capturer from a command template such as
// "import -window root {file}". An empty template selects the goos default.
func NewCommandCapturer(template, goos string, runner CommandRunner) (*CommandCapturer, error) {
	if strings.TrimSpace(template) == "" {
		var err error
		if template, err = defaultCaptureCommand(goos); err != nil {
			return nil, err
		}
	}
	argv := strings.Fields(template)
	if !strings.Contains(template, captureFilePlaceholder) {
		argv = append(argv, captureFilePlaceholder)
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &CommandCapturer{argv: argv, runner: runner}, nil
}

// NewPlatformCapturer is NewCommandCapturer for the running OS.
func NewPlatformCapturer(template string) (*CommandCapturer, error) {
	return NewCommandCapturer(template, runtime.GOOS, ExecRunner{})
}

func (c *CommandCapturer) Capture(ctx context.Context) ([]byte, error) {
	dir, err := os.MkdirTemp("", "jarvis-screen-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)
	file := filepath.Join(dir, "screen.png")

	args := make([]string, len(c.argv)-1)
	for i, a := range c.argv[1:] {
		args[i] = strings.ReplaceAll(a, captureFilePlaceholder, file)
	}
	if _, err := c.runner.Run(ctx, c.argv[0], args...); err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read screenshot: %w", err)
	}
	return toJPEG(raw)
}

// toJPEG decodes any registered image format and encodes it as JPEG.
func toJPEG(raw []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: captureJPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
