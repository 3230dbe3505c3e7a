// Package session manages per-thread conversation history stored as JSONL files.
//
// File format:
//
//	Line 1:  {"_type":"metadata","key":"…","created_at":"…","updated_at":"…","metadata":{…}}
//	Line 2+: one JSON message object per line
package session

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jarvisdesk/jarvis/internal/schema"
)

// Info summarises one persisted session for listings.
type Info struct {
	Key          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
	Path         string
}

// Manager loads and persists sessions as JSONL files.
type Manager struct {
	sessionsDir string   // workspace/sessions/
	cache       sync.Map // key → *Session
}

// NewManager creates a Manager rooted at the workspace directory.
// It creates the sessions subdirectory if necessary.
func NewManager(workspace string) (*Manager, error) {
	dir := filepath.Join(workspace, "sessions")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}

	return &Manager{sessionsDir: dir}, nil
}

// Dir returns the directory holding the session files.
func (m *Manager) Dir() string { return m.sessionsDir }

// GetOrCreate returns the cached session for key, loading from disk if needed,
// or creating an empty new one.
func (m *Manager) GetOrCreate(key string) *Session {
	if v, ok := m.cache.Load(key); ok {
		return v.(*Session)
	}

	s := m.load(key)
	if s == nil {
		s = newSession(key)
	}

	actual, _ := m.cache.LoadOrStore(key, s)

	return actual.(*Session)
}

// Save writes the session to disk and updates the cache.
func (m *Manager) Save(s *Session) error {
	path := m.sessionPath(s.Key)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	s.mu.Lock()
	msgs := s.Messages.Clone()
	meta := map[string]any{
		"_type":      "metadata",
		"key":        s.Key,
		"created_at": s.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at": s.UpdatedAt.UTC().Format(time.RFC3339),
		"metadata":   s.Metadata,
	}
	s.mu.Unlock()

	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, msg := range msgs.Messages {
		if err := enc.Encode(messageToWire(msg, now)); err != nil {
			return fmt.Errorf("encode message: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write session %s: %w", path, err)
	}

	m.cache.Store(s.Key, s)
	return nil
}

// Invalidate removes a session from the in-memory cache (used after /new).
func (m *Manager) Invalidate(key string) {
	m.cache.Delete(key)
}

// Delete removes a session from the cache and from disk.
// Deleting a session that was never saved is not an error.
func (m *Manager) Delete(key string) error {
	m.cache.Delete(key)
	if err := os.Remove(m.sessionPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete session %s: %w", key, err)
	}
	return nil
}

// ListSessions returns all persisted sessions, sorted newest-first.
func (m *Manager) ListSessions() []Info {
	entries, _ := filepath.Glob(filepath.Join(m.sessionsDir, "*.jsonl"))
	out := make([]Info, 0, len(entries))

	for _, path := range entries {
		info, ok := readInfo(path)
		if ok {
			out = append(out, info)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

func readInfo(path string) (Info, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, false
	}
	defer f.Close()

	r := bufio.NewReader(f)
	first, err := readLine(r)
	if len(first) == 0 && err != nil {
		return Info{}, false
	}
	var data map[string]any
	if json.Unmarshal(first, &data) != nil || data["_type"] != "metadata" {
		return Info{}, false
	}

	info := Info{Path: path}
	info.Key, _ = data["key"].(string)
	info.CreatedAt = parseStamp(data["created_at"])
	info.UpdatedAt = parseStamp(data["updated_at"])
	if info.Key == "" {
		info.Key = keyFromFilename(filepath.Base(path))
	}
	for err == nil {
		var line []byte
		line, err = readLine(r)
		if len(line) > 0 {
			info.MessageCount++
		}
	}
	return info, true
}

// readLine returns the next non-empty trimmed line. Lines have no length cap.
func readLine(r *bufio.Reader) ([]byte, error) {
	for {
		line, err := r.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) > 0 || err != nil {
			return line, err
		}
	}
}

func parseStamp(v any) time.Time {
	ts, _ := v.(string)
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ---------------------------------------------------------------------------
// Wire format helpers

// wireMessage is the on-disk JSON representation of a message.
type wireMessage struct {
	Role       string           `json:"role"`
	Content    *string          `json:"content"`
	ToolCalls  []map[string]any `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
	Name       string           `json:"name,omitempty"`
	ToolsUsed  []string         `json:"tools_used,omitempty"`
	Timestamp  string           `json:"timestamp"`
}

func messageToWire(msg schema.Message, ts string) wireMessage {
	w := wireMessage{
		Role:       string(msg.Role),
		Content:    msg.Content,
		ToolCallID: msg.ToolCallID,
		Name:       msg.ToolName,
		ToolsUsed:  msg.ToolsUsed,
		Timestamp:  ts,
	}
	for _, tc := range msg.ToolCalls {
		w.ToolCalls = append(w.ToolCalls, tc.ToWireMap())
	}
	return w
}

// wireToMessage converts an on-disk wire map back to a typed Message.
func wireToMessage(data map[string]any) schema.Message {
	role, _ := data["role"].(string)
	msg := schema.Message{Role: schema.Role(role)}
	if c, ok := data["content"].(string); ok {
		msg.Content = &c
	}

	// Restore tool calls stored in session as []any of wire-format maps.
	if tcs, ok := data["tool_calls"].([]any); ok {
		for _, tc := range tcs {
			tcm, ok := tc.(map[string]any)
			if !ok {
				continue
			}
			fn, _ := tcm["function"].(map[string]any)
			id, _ := tcm["id"].(string)
			name, _ := fn["name"].(string)
			argsStr, _ := fn["arguments"].(string)
			var args map[string]any
			_ = json.Unmarshal([]byte(argsStr), &args)
			msg.ToolCalls = append(msg.ToolCalls, schema.ToolCall{
				ID:        id,
				Name:      name,
				Arguments: args,
			})
		}
	}

	msg.ToolCallID, _ = data["tool_call_id"].(string)
	msg.ToolName, _ = data["name"].(string)
	if tu, ok := data["tools_used"].([]any); ok {
		for _, t := range tu {
			if s, ok := t.(string); ok {
				msg.ToolsUsed = append(msg.ToolsUsed, s)
			}
		}
	}

	return msg
}

// ---------------------------------------------------------------------------
// Internal helpers

// sessionPath converts a session key to its JSONL file path.
func (m *Manager) sessionPath(key string) string {
	return filepath.Join(m.sessionsDir, safeFilename(key)+".jsonl")
}

// safeFilename percent-encodes filesystem-unsafe characters so that distinct
// keys never share a file.
func safeFilename(name string) string {
	const unsafe = `<>:"/\|?*%`
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(unsafe, r) || r < 0x20 {
			fmt.Fprintf(&b, "%%%02X", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// keyFromFilename reverses safeFilename for a session file name.
func keyFromFilename(base string) string {
	name := strings.TrimSuffix(base, ".jsonl")
	if key, err := url.PathUnescape(name); err == nil {
		return key
	}
	return name
}

// load reads a session from disk. It returns nil when the file cannot be
// opened. A read error part-way keeps the messages parsed so far.
func (m *Manager) load(key string) *Session {
	path := m.sessionPath(key)

	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	s := newSession(key)

	r := bufio.NewReader(f)
	for {
		line, err := readLine(r)
		if len(line) > 0 {
			s.applyLine(line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep what was read so a later Save does not wipe the thread.
			zap.L().Warn("error reading session file", zap.String("key", key), zap.Error(err))
			break
		}
	}

	return s
}

// applyLine decodes one JSONL line into the session.
func (s *Session) applyLine(line []byte) {
	var data map[string]any
	if err := json.Unmarshal(line, &data); err != nil {
		zap.L().Warn("skipping malformed session line", zap.String("key", s.Key), zap.Error(err))
		return
	}

	if data["_type"] == "metadata" {
		if meta, ok := data["metadata"].(map[string]any); ok {
			s.Metadata = meta
		}
		if t := parseStamp(data["created_at"]); !t.IsZero() {
			s.CreatedAt = t
		}
		if t := parseStamp(data["updated_at"]); !t.IsZero() {
			s.UpdatedAt = t
		}
		return
	}
	s.Messages.Add(wireToMessage(data))
}
