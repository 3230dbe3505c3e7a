package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jarvisdesk/jarvis/internal/tui"
)

var chatLogs bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the terminal chat window",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatLogs, "logs", false, "Write logs to stderr instead of the log file")
}

func runChat(_ *cobra.Command, _ []string) error {
	_, container, cleanup, err := bootstrap(chatLogs)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	err = tui.Run(ctx, container.AgentLoop())
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
