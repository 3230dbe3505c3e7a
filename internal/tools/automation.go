package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	toolcfg "github.com/jarvisdesk/jarvis/internal/config/tool"
)

// ErrAutomationUnsupported is returned when no automation driver exists for the platform.
var ErrAutomationUnsupported = errors.New("desktop automation is not supported on this platform")

const defaultTypeInterval = 0.05

// CommandRunner runs an external program and returns its combined output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner is the CommandRunner backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return out, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Driver moves the pointer and synthesises keyboard input.
// Press receives a canonical key name (see canonicalKey) or a single character.
type Driver interface {
	Name() string
	Click(ctx context.Context, x, y int) error
	Type(ctx context.Context, text string, interval time.Duration) error
	Press(ctx context.Context, key string) error
}

// NewDriver selects a driver by name, or by goos when name is empty.
func NewDriver(name, goos string, runner CommandRunner) (Driver, error) {
	if runner == nil {
		runner = ExecRunner{}
	}
	if name == "" {
		switch goos {
		case "linux", "freebsd", "openbsd", "netbsd":
			name = toolcfg.DriverXdotool
		case "darwin":
			name = toolcfg.DriverCliclick
		default:
			return nil, fmt.Errorf("%w (%s)", ErrAutomationUnsupported, goos)
		}
	}
	switch name {
	case toolcfg.DriverXdotool:
		return &xdotoolDriver{runner: runner}, nil
	case toolcfg.DriverCliclick:
		return &cliclickDriver{runner: runner}, nil
	default:
		return nil, fmt.Errorf("unknown automation driver %q", name)
	}
}

// NewPlatformDriver is NewDriver for the running OS with the real command runner.
func NewPlatformDriver(name string) (Driver, error) {
	return NewDriver(name, runtime.GOOS, ExecRunner{})
}

// ---------------------------------------------------------------------------
// Key names
// ---------------------------------------------------------------------------

// keyAliases maps accepted key names to a canonical name.
var keyAliases = map[string]string{
	"enter": "enter", "return": "enter",
	"esc": "esc", "escape": "esc",
	"tab":       "tab",
	"space":     "space",
	"backspace": "backspace",
	"delete":    "delete", "del": "delete",
	"insert": "insert",
	"home":   "home",
	"end":    "end",
	"pageup": "pageup", "pgup": "pageup",
	"pagedown": "pagedown", "pgdn": "pagedown",
	"up": "up", "down": "down", "left": "left", "right": "right",
	"ctrl": "ctrl", "ctrlleft": "ctrl", "ctrlright": "ctrl",
	"shift": "shift", "shiftleft": "shift", "shiftright": "shift",
	"alt": "alt", "altleft": "alt", "altright": "alt", "option": "alt",
	"cmd": "cmd", "command": "cmd",
	"win": "win", "winleft": "win", "winright": "win", "super": "win",
	"capslock":    "capslock",
	"printscreen": "printscreen", "prtsc": "printscreen", "prntscrn": "printscreen",
	"volumeup":   "volumeup",
	"volumedown": "volumedown",
	"volumemute": "volumemute",
}

func init() {
	for i := 1; i <= 24; i++ {
		k := "f" + strconv.Itoa(i)
		keyAliases[k] = k
	}
}

// canonicalKey returns the canonical name for key, or false when the key is
// neither a known name nor a single character.
func canonicalKey(key string) (string, bool) {
	if k, ok := keyAliases[strings.ToLower(key)]; ok {
		return k, true
	}
	if len([]rune(key)) == 1 {
		return strings.ToLower(key), true
	}
	return "", false
}

func isSingleChar(key string) bool { return len([]rune(key)) == 1 }

// ---------------------------------------------------------------------------
// xdotool (X11)
// ---------------------------------------------------------------------------

var xdotoolKeys = map[string]string{
	"enter": "Return", "esc": "Escape", "tab": "Tab", "space": "space",
	"backspace": "BackSpace", "delete": "Delete", "insert": "Insert",
	"home": "Home", "end": "End", "pageup": "Prior", "pagedown": "Next",
	"up": "Up", "down": "Down", "left": "Left", "right": "Right",
	"ctrl": "Control_L", "shift": "Shift_L", "alt": "Alt_L",
	"cmd": "Super_L", "win": "Super_L", "capslock": "Caps_Lock",
	"printscreen": "Print",
	"volumeup":    "XF86AudioRaiseVolume",
	"volumedown":  "XF86AudioLowerVolume",
	"volumemute":  "XF86AudioMute",
}

type xdotoolDriver struct {
	runner CommandRunner
}

func (d *xdotoolDriver) Name() string { return toolcfg.DriverXdotool }

func (d *xdotoolDriver) Click(ctx context.Context, x, y int) error {
	_, err := d.runner.Run(ctx, "xdotool", "mousemove", "--sync",
		strconv.Itoa(x), strconv.Itoa(y), "click", "1")
	return err
}

func (d *xdotoolDriver) Type(ctx context.Context, text string, interval time.Duration) error {
	_, err := d.runner.Run(ctx, "xdotool", "type",
		"--delay", strconv.FormatInt(interval.Milliseconds(), 10), "--", text)
	return err
}

func (d *xdotoolDriver) Press(ctx context.Context, key string) error {
	if isSingleChar(key) {
		// "type" resolves punctuation that "key" would need keysym names for.
		_, err := d.runner.Run(ctx, "xdotool", "type", "--", key)
		return err
	}
	sym, ok := xdotoolKeys[key]
	if !ok && strings.HasPrefix(key, "f") {
		sym, ok = strings.ToUpper(key), true
	}
	if !ok {
		return fmt.Errorf("key %q is not supported by xdotool", key)
	}
	_, err := d.runner.Run(ctx, "xdotool", "key", sym)
	return err
}

// ---------------------------------------------------------------------------
// cliclick (macOS)
// ---------------------------------------------------------------------------

var cliclickKeys = map[string]string{
	"enter": "return", "esc": "esc", "tab": "tab", "space": "space",
	"backspace": "delete", "delete": "fwd-delete",
	"home": "home", "end": "end", "pageup": "page-up", "pagedown": "page-down",
	"up": "arrow-up", "down": "arrow-down", "left": "arrow-left", "right": "arrow-right",
	"volumeup": "volume-up", "volumedown": "volume-down", "volumemute": "mute",
}

var cliclickModifiers = map[string]string{
	"ctrl": "ctrl", "shift": "shift", "alt": "alt", "cmd": "cmd", "win": "cmd",
}

type cliclickDriver struct {
	runner CommandRunner
}

func (d *cliclickDriver) Name() string { return toolcfg.DriverCliclick }

func (d *cliclickDriver) Click(ctx context.Context, x, y int) error {
	_, err := d.runner.Run(ctx, "cliclick", fmt.Sprintf("c:%d,%d", x, y))
	return err
}

// Type ignores interval: cliclick types a whole string in one command.
func (d *cliclickDriver) Type(ctx context.Context, text string, _ time.Duration) error {
	_, err := d.runner.Run(ctx, "cliclick", "t:"+text)
	return err
}

func (d *cliclickDriver) Press(ctx context.Context, key string) error {
	if isSingleChar(key) {
		_, err := d.runner.Run(ctx, "cliclick", "t:"+key)
		return err
	}
	if mod, ok := cliclickModifiers[key]; ok {
		_, err := d.runner.Run(ctx, "cliclick", "kd:"+mod, "ku:"+mod)
		return err
	}
	name, ok := cliclickKeys[key]
	if !ok && strings.HasPrefix(key, "f") {
		if n, err := strconv.Atoi(key[1:]); err == nil && n <= 16 {
			name, ok = key, true
		}
	}
	if !ok {
		return fmt.Errorf("key %q is not supported by cliclick", key)
	}
	_, err := d.runner.Run(ctx, "cliclick", "kp:"+name)
	return err
}

// ---------------------------------------------------------------------------
// Tools
// ---------------------------------------------------------------------------

// ClickTool clicks the left mouse button at absolute screen coordinates.
type ClickTool struct {
	driver Driver
}

func NewClickTool(driver Driver) *ClickTool { return &ClickTool{driver: driver} }

func (t *ClickTool) Name() string { return string(ToolClick) }
func (t *ClickTool) Description() string {
	return "Clicks the mouse at the specified screen coordinates (x, y). " +
		"Use this tool after analyzing the screen to identify the correct coordinates for the target element. " +
		"Coordinates originate from the top-left corner of the primary screen (0,0)."
}
func (t *ClickTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"x": {"type": "integer", "description": "Horizontal pixel offset from the left edge", "minimum": 0},
			"y": {"type": "integer", "description": "Vertical pixel offset from the top edge", "minimum": 0}
		},
		"required": ["x", "y"]
	}`)
}

func (t *ClickTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	x, okX := intParam(params, "x")
	y, okY := intParam(params, "y")
	if !okX || !okY {
		return "Error: x and y are required integers", nil
	}
	if x < 0 || y < 0 {
		return fmt.Sprintf("Error clicking at coordinates (%d, %d): coordinates must be non-negative", x, y), nil
	}
	zap.L().Info("clicking", zap.Int("x", x), zap.Int("y", y))
	if err := t.driver.Click(ctx, x, y); err != nil {
		zap.L().Warn("click failed", zap.Int("x", x), zap.Int("y", y), zap.Error(err))
		return fmt.Sprintf("Error clicking at coordinates (%d, %d): %v", x, y, err), nil
	}
	return fmt.Sprintf("Successfully clicked at coordinates (%d, %d).", x, y), nil
}

// TypeTextTool types text into the focused window.
type TypeTextTool struct {
	driver Driver
}

func NewTypeTextTool(driver Driver) *TypeTextTool { return &TypeTextTool{driver: driver} }

func (t *TypeTextTool) Name() string { return string(ToolTypeText) }
func (t *TypeTextTool) Description() string {
	return "Types the given text using the keyboard. " +
		"Make sure the correct input field is focused before calling this tool (e.g., by clicking it first)."
}
func (t *TypeTextTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"text": {"type": "string", "description": "Text to type"},
			"interval": {"type": "number", "description": "Seconds between keystrokes", "default": 0.05, "minimum": 0}
		},
		"required": ["text"]
	}`)
}

func (t *TypeTextTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	text := stringParam(params, "text")
	if text == "" {
		return "Error: text is required", nil
	}
	interval := defaultTypeInterval
	if v, ok := floatParam(params, "interval"); ok && v >= 0 {
		interval = v
	}
	zap.L().Info("typing text", zap.Int("chars", len([]rune(text))))
	if err := t.driver.Type(ctx, text, time.Duration(interval*float64(time.Second))); err != nil {
		zap.L().Warn("type failed", zap.Error(err))
		return fmt.Sprintf("Error typing text: %v", err), nil
	}
	return fmt.Sprintf("Successfully typed text: '%s'", text), nil
}

// PressKeyTool presses and releases a single key.
type PressKeyTool struct {
	driver Driver
}

func NewPressKeyTool(driver Driver) *PressKeyTool { return &PressKeyTool{driver: driver} }

func (t *PressKeyTool) Name() string { return string(ToolPressKey) }
func (t *PressKeyTool) Description() string {
	return "Presses a specific keyboard key (e.g., 'enter', 'ctrl', 'shift', 'alt', 'f1', 'a', 'b'). " +
		"For special keys like Enter, Tab, Esc, use their names."
}
func (t *PressKeyTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"key": {"type": "string", "description": "Key name or single character"}
		},
		"required": ["key"]
	}`)
}

func (t *PressKeyTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	key := stringParam(params, "key")
	canon, ok := canonicalKey(key)
	if !ok {
		return fmt.Sprintf("Error: Invalid key name '%s'. Use standard key names like 'enter', 'esc', 'f1', or single characters.", key), nil
	}
	zap.L().Info("pressing key", zap.String("key", canon))
	if err := t.driver.Press(ctx, canon); err != nil {
		zap.L().Warn("key press failed", zap.String("key", key), zap.Error(err))
		return fmt.Sprintf("Error pressing key '%s': %v", key, err), nil
	}
	return fmt.Sprintf("Successfully pressed key '%s'.", key), nil
}
