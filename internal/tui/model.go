// Package tui is the terminal chat window.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/jarvisdesk/jarvis/internal/schema"
	"github.com/jarvisdesk/jarvis/internal/shared/llmutils"
)

const greeting = "System online. How may I assist you?"

// Processor runs one agent turn on a thread.
type Processor interface {
	ProcessDirect(ctx context.Context, content, threadID string, hooks schema.Hooks) (string, error)
}

type role int

const (
	roleUser role = iota
	roleJarvis
	roleError
	roleTool
)

type line struct {
	role    role
	content string
	at      time.Time
}

// Model is the bubbletea model of the chat window.
type Model struct {
	ctx      context.Context
	agent    Processor
	threadID string

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	lines []line
	busy  bool
	send  func(tea.Msg)

	width  int
	height int
	ready  bool
}

// NewThreadID returns a fresh chat window thread id.
func NewThreadID() string {
	return "ui-session-" + uuid.NewString()
}

// New creates the chat model on a fresh thread.
func New(ctx context.Context, agent Processor) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message… (Enter to send)"
	ta.Prompt = "┃ "
	ta.CharLimit = 10000
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleJarvis))

	m := Model{
		ctx:      ctx,
		agent:    agent,
		threadID: NewThreadID(),
		viewport: viewport.New(80, 20),
		textarea: ta,
		spinner:  sp,
		send:     func(tea.Msg) {},
	}
	m.addLine(roleJarvis, greeting)
	return m
}

// ThreadID returns the thread the window is writing to.
func (m Model) ThreadID() string { return m.threadID }

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyCtrlN:
			if !m.busy {
				m.threadID = NewThreadID()
				m.lines = nil
				m.addLine(roleJarvis, greeting)
			}
			return m, nil
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case setSenderMsg:
		m.send = msg.send
		return m, nil

	case progressMsg:
		m.addLine(roleTool, "… "+msg.text)
		return m, nil

	case toolStartMsg:
		m.addLine(roleTool, "⚙ "+llmutils.CallHint(msg.call))
		return m, nil

	case toolResultMsg:
		m.addLine(roleTool, fmt.Sprintf("  ✓ %s (%s)",
			llmutils.Truncate(strings.ReplaceAll(msg.result, "\n", " "), 120),
			msg.elapsed.Round(time.Millisecond)))
		return m, nil

	case replyMsg:
		if msg.threadID != m.threadID {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.addLine(roleError, fmt.Sprintf("An error occurred: %v", msg.err))
		} else {
			m.addLine(roleJarvis, msg.content)
		}
		return m, m.textarea.Focus()

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if !m.busy {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// submit sends the typed message to the agent on a background command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if m.busy || input == "" {
		return m, nil
	}

	m.addLine(roleUser, input)
	m.textarea.Reset()
	m.textarea.Blur()
	m.busy = true

	return m, tea.Batch(m.spinner.Tick, m.runTurn(input))
}

// runTurn is the worker: it runs one turn and streams tool activity back
// through send.
func (m Model) runTurn(input string) tea.Cmd {
	ctx, agent, threadID, send := m.ctx, m.agent, m.threadID, m.send
	return func() tea.Msg {
		hooks := schema.Hooks{
			OnProgress:  func(text string) { send(progressMsg{text: text}) },
			OnToolStart: func(call schema.ToolCall) { send(toolStartMsg{call: call}) },
			OnToolResult: func(call schema.ToolCall, result string, elapsed time.Duration) {
				send(toolResultMsg{call: call, result: result, elapsed: elapsed})
			},
		}
		reply, err := agent.ProcessDirect(ctx, input, threadID, hooks)
		return replyMsg{threadID: threadID, content: reply, err: err}
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	const headerHeight, footerHeight, inputHeight = 1, 2, 5
	m.viewport.Width = width
	m.viewport.Height = max(height-headerHeight-footerHeight-inputHeight, 3)
	m.textarea.SetWidth(max(width-2, 10))

	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-6, 20)),
	); err == nil {
		m.renderer = r
	}
	m.ready = true
	m.refresh()
}

func (m *Model) addLine(r role, content string) {
	m.lines = append(m.lines, line{role: r, content: content, at: time.Now()})
	m.refresh()
}

func (m *Model) refresh() {
	var b strings.Builder
	for i, l := range m.lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderLine(l))
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderLine(l line) string {
	stamp := l.at.Format("15:04:05")
	switch l.role {
	case roleUser:
		return styleUser.Render("You ["+stamp+"]") + "\n" + styleBody.Render(l.content) + "\n"
	case roleError:
		return styleError.Render("System Error ["+stamp+"]") + "\n" + styleBody.Render(l.content) + "\n"
	case roleTool:
		return styleTool.Render(l.content)
	default:
		content := l.content
		if m.renderer != nil {
			if out, err := m.renderer.Render(content); err == nil {
				content = strings.TrimSpace(out)
			}
		}
		return styleJarvis.Render("JARVIS ["+stamp+"]") + "\n" + styleBody.Render(content) + "\n"
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	state := "Ready"
	if m.busy {
		state = m.spinner.View() + " Thinking..."
	}
	header := styleHeader.Width(m.width).Render(fmt.Sprintf("JARVIS | %s | %s", state, m.threadID))

	footer := styleFooter.Render(lipgloss.JoinHorizontal(lipgloss.Left,
		styleKey.Render("Enter"), styleMuted.Render(" send • "),
		styleKey.Render("↑↓"), styleMuted.Render(" scroll • "),
		styleKey.Render("Ctrl+N"), styleMuted.Render(" new thread • "),
		styleKey.Render("Ctrl+C"), styleMuted.Render(" quit"),
	))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		m.textarea.View(),
		footer,
	)
}

// Run opens the chat window and blocks until the user quits.
func Run(ctx context.Context, agent Processor) error {
	p := tea.NewProgram(New(ctx, agent), tea.WithAltScreen(), tea.WithContext(ctx))

	go p.Send(setSenderMsg{send: p.Send})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat window: %w", err)
	}
	return nil
}
