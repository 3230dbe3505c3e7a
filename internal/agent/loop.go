package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jarvisdesk/jarvis/internal/bus"
	"github.com/jarvisdesk/jarvis/internal/schema"
	"github.com/jarvisdesk/jarvis/internal/session"
	"github.com/jarvisdesk/jarvis/internal/shared/llmutils"
	"github.com/jarvisdesk/jarvis/internal/tools"
)

const helpText = `Jarvis commands:
/new   - Start a new conversation
/tools - List available tools
/help  - Show available commands`

// AgentLoop is the core processing engine.
//
// It reads InboundMessages from the bus, runs one agent turn per message and
// publishes OutboundMessages. Messages on the same thread are processed one
// at a time in arrival order; different threads run concurrently.
type AgentLoop struct {
	bus      bus.Bus
	settings schema.AgentSettings

	promptBuilder *PromptBuilder
	sessions      *session.Manager
	tools         *tools.ToolList
	runner        *Runner

	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	queues map[string][]bus.InboundMessage
	wg     sync.WaitGroup
}

var _ schema.AgentLooper = (*AgentLoop)(nil)

// NewAgentLoop creates an AgentLoop over the tools in registry.
func NewAgentLoop(
	b bus.Bus,
	runner *Runner,
	settings schema.AgentSettings,
	sessions *session.Manager,
	registry *tools.Registry,
	promptBuilder *PromptBuilder,
) *AgentLoop {
	return &AgentLoop{
		bus:           b,
		settings:      settings,
		promptBuilder: promptBuilder,
		sessions:      sessions,
		tools:         registry.AllTools(),
		runner:        runner,
		locks:         make(map[string]*sync.Mutex),
		queues:        make(map[string][]bus.InboundMessage),
	}
}

// Run reads from the inbound bus until ctx is cancelled, then waits for
// in-flight turns to finish.
func (loop *AgentLoop) Run(ctx context.Context) error {
	zap.L().Info("Agent loop started", zap.Int("tools", loop.tools.Len()))

	for {
		select {
		case msg := <-loop.bus.InboundChan():
			loop.enqueue(ctx, msg)
		case <-ctx.Done():
			zap.L().Info("Agent loop stopping")
			loop.wg.Wait()
			return ctx.Err()
		}
	}
}

// ProcessDirect runs one turn on threadID outside the bus (terminal window,
// REPL, scheduler) and returns the final reply.
func (loop *AgentLoop) ProcessDirect(ctx context.Context, content, threadID string, hooks schema.Hooks) (string, error) {
	return loop.processTurn(ctx, channelOf(threadID), threadID, content, hooks)
}

// enqueue appends msg to its thread queue and starts a drain goroutine when
// the thread has none.
func (loop *AgentLoop) enqueue(ctx context.Context, msg bus.InboundMessage) {
	key := msg.SessionKey()

	loop.mu.Lock()
	pending, running := loop.queues[key]
	loop.queues[key] = append(pending, msg)
	loop.mu.Unlock()

	if running {
		return
	}
	loop.wg.Add(1)
	go loop.drain(ctx, key)
}

func (loop *AgentLoop) drain(ctx context.Context, key string) {
	defer loop.wg.Done()
	for {
		loop.mu.Lock()
		pending := loop.queues[key]
		if len(pending) == 0 {
			delete(loop.queues, key)
			loop.mu.Unlock()
			return
		}
		msg := pending[0]
		loop.queues[key] = pending[1:]
		loop.mu.Unlock()

		loop.handleMessage(ctx, msg)
	}
}

func (loop *AgentLoop) handleMessage(ctx context.Context, msg bus.InboundMessage) {
	zap.L().Info(
		"Processing message",
		zap.String("channel", string(msg.Channel)),
		zap.String("sender", msg.SenderID),
		zap.String("content", msg.Preview()),
	)

	final, err := loop.processTurn(ctx, msg.Channel, msg.SessionKey(), msg.Content, loop.makeProgressHooks(ctx, msg))

	out := bus.NewOutboundMessage(msg.Channel, msg.ChatID, final)
	out.Metadata = copyMeta(msg.Metadata)
	if err != nil {
		out.Content = err.Error()
		out.Metadata[bus.MetaError] = true
	}
	if perr := loop.bus.PublishOutbound(ctx, out); perr != nil {
		zap.L().Warn("Dropping reply", zap.String("chat_id", msg.ChatID), zap.Error(perr))
	}
}

// processTurn runs slash commands or one full agent turn on the thread key
// while holding the thread lock.
func (loop *AgentLoop) processTurn(ctx context.Context, channel bus.Channel, key, content string, hooks schema.Hooks) (string, error) {
	lock := loop.threadLock(key)
	lock.Lock()
	defer lock.Unlock()

	ses := loop.sessions.GetOrCreate(key)

	if reply, ok := loop.handleSlashCommand(content, ses); ok {
		return reply, nil
	}

	conversation := loop.promptBuilder.BuildMessages(
		ses.History(loop.settings.MemoryWindow),
		content,
		string(channel),
		key,
	)

	final, toolsUsed, err := loop.runner.Run(ctx, &conversation, loop.tools, hooks)
	if err != nil {
		return "", fmt.Errorf("thread %s: %w", key, err)
	}

	zap.L().Info("Response",
		zap.String("thread", key),
		zap.Int("length", len(final)),
		zap.Strings("tools_used", toolsUsed),
	)

	ses.AddUser(content)
	ses.AddAssistant(final, toolsUsed)
	if err := loop.sessions.Save(ses); err != nil {
		zap.L().Warn("Failed to save thread", zap.String("thread", key), zap.Error(err))
	}

	return final, nil
}

// handleSlashCommand answers a known slash command. ok is false when content
// is an ordinary message.
func (loop *AgentLoop) handleSlashCommand(content string, ses *session.Session) (reply string, ok bool) {
	switch strings.TrimSpace(strings.ToLower(content)) {
	case "/new":
		ses.Clear()
		if err := loop.sessions.Save(ses); err != nil {
			zap.L().Warn("Failed to save cleared thread", zap.String("thread", ses.Key), zap.Error(err))
		}
		loop.sessions.Invalidate(ses.Key)
		return "New session started.", true
	case "/help":
		return helpText, true
	case "/tools":
		return "Available tools:\n- " + strings.Join(loop.tools.Names(), "\n- "), true
	}
	return "", false
}

func (loop *AgentLoop) threadLock(key string) *sync.Mutex {
	loop.mu.Lock()
	defer loop.mu.Unlock()
	l, ok := loop.locks[key]
	if !ok {
		l = &sync.Mutex{}
		loop.locks[key] = l
	}
	return l
}

// makeProgressHooks returns hooks that push intermediate output to the
// outbound bus so windows can display progress.
func (loop *AgentLoop) makeProgressHooks(ctx context.Context, msg bus.InboundMessage) schema.Hooks {
	publish := func(content string, toolHint bool) {
		meta := copyMeta(msg.Metadata)
		meta[bus.MetaProgress] = true
		meta[bus.MetaToolHint] = toolHint
		out := bus.NewOutboundMessage(msg.Channel, msg.ChatID, content)
		out.Metadata = meta
		if err := loop.bus.PublishOutbound(ctx, out); err != nil {
			zap.L().Debug("Progress dropped", zap.Error(err))
		}
	}
	return schema.Hooks{
		OnProgress:  func(text string) { publish(text, false) },
		OnToolStart: func(call schema.ToolCall) { publish(llmutils.CallHint(call), true) },
	}
}

func copyMeta(md map[string]any) map[string]any {
	out := make(map[string]any, len(md)+2)
	for k, v := range md {
		out[k] = v
	}
	return out
}

// channelOf derives the channel from a thread id. Window thread ids carry no
// channel prefix.
func channelOf(threadID string) bus.Channel {
	ch, _ := bus.ThreadRoute(threadID)
	return ch
}
