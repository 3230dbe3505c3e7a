package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jarvisdesk/jarvis/internal/shared/cmdutils"
	"github.com/jarvisdesk/jarvis/internal/window"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser chat window, scheduled prompts and /metrics",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config window.addr)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, container, cleanup, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Window.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := window.NewServer(addr, container.MessageBus(), container.Metrics().Handler())
	scheduler := container.Scheduler()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return container.AgentLoop().Run(gctx) })
	g.Go(func() error { return scheduler.Start(gctx) })
	g.Go(func() error { return server.Start(gctx) })

	fmt.Printf("%s Jarvis is listening on http://%s (%d tools, %d schedules). Press Ctrl+C to stop.\n",
		cmdutils.Logo, addr, container.Tools().Len(), len(scheduler.List()))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
