package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jarvisdesk/jarvis/internal/bus"
	"github.com/jarvisdesk/jarvis/internal/schema"
	"github.com/jarvisdesk/jarvis/internal/shared/cmdutils"
	"github.com/jarvisdesk/jarvis/internal/shared/llmutils"
)

var (
	agentMessage string
	agentSession string
	agentLogs    bool
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Talk to the agent from a line prompt",
	RunE:  runAgent,
}

func init() {
	agentCmd.Flags().StringVarP(&agentMessage, "message", "m", "", "Send a single message and exit")
	agentCmd.Flags().StringVarP(&agentSession, "session", "s", bus.RoutingKey(bus.ChannelCLI, bus.ChatIDDirect), "Thread ID")
	agentCmd.Flags().BoolVar(&agentLogs, "logs", false, "Write logs to stderr instead of the log file")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

func runAgent(_ *cobra.Command, _ []string) error {
	_, container, cleanup, err := bootstrap(agentLogs)
	if err != nil {
		return err
	}
	defer cleanup()

	loop := container.AgentLoop()

	if agentMessage != "" {
		return runSingleMessage(loop, agentSession)
	}

	channel, chatID := bus.ThreadRoute(agentSession)
	return runInteractive(loop, container.MessageBus(), channel, chatID)
}

// runSingleMessage sends one message to the agent and prints the response.
func runSingleMessage(loop schema.AgentLooper, threadID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	hooks := schema.Hooks{
		OnToolStart: func(call schema.ToolCall) { cmdutils.PrintHint(llmutils.CallHint(call)) },
	}
	reply, err := loop.ProcessDirect(ctx, agentMessage, threadID, hooks)
	if err != nil {
		cmdutils.PrintError(err)
		return err
	}

	cmdutils.PrintResponse(reply)
	return nil
}

// runInteractive starts the REPL loop: reads lines from stdin, sends each to
// the agent via the bus, and waits for each reply before prompting again.
func runInteractive(loop schema.AgentLooper, msgBus bus.Bus, channel bus.Channel, chatID string) error {
	fmt.Printf("%s Interactive mode (type 'exit' or Ctrl+C to quit)\n\n", cmdutils.Logo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listenForSignals(cancel)

	go func() { _ = loop.Run(ctx) }()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		cmdutils.Prompt()

		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if exitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}

		sendAndWait(ctx, msgBus, channel, chatID, line)
	}
}

// listenForSignals cancels ctx on SIGINT or SIGTERM and exits.
func listenForSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nGoodbye!")
		cancel()
		os.Exit(0)
	}()
}

// sendAndWait pushes a message onto the inbound bus and blocks until the agent
// publishes the final reply (or ctx is cancelled).
func sendAndWait(ctx context.Context, msgBus bus.Bus, channel bus.Channel, chatID, content string) {
	if err := msgBus.PublishInbound(ctx, bus.NewInboundMessage(channel, "user", chatID, content)); err != nil {
		cmdutils.PrintError(err)
		return
	}

	for {
		select {
		case msg := <-msgBus.OutboundChan():
			switch {
			case msg.IsProgress():
				cmdutils.PrintHint(msg.Content)
				continue
			case msg.IsError():
				cmdutils.PrintError(fmt.Errorf("%s", msg.Content))
			default:
				cmdutils.PrintResponse(msg.Content)
			}
			return
		case <-ctx.Done():
			return
		}
	}
}
