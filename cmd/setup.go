package cmd

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jarvisdesk/jarvis/internal/config"
	"github.com/jarvisdesk/jarvis/internal/dependency"
	"github.com/jarvisdesk/jarvis/internal/logging"
)

// loadConfig reads the config file and overlays .env and environment values.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.LoadEnv(cfg, config.DotEnvPaths()...); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	return cfg, nil
}

// logFile is where interactive modes log so the terminal stays clean.
func logFile() string {
	return filepath.Join(config.DataDir(), "logs", "jarvis.log")
}

// initLogging installs the global logger. toStderr keeps logs on the
// terminal; otherwise they go to logFile.
func initLogging(toStderr bool) (*zap.Logger, error) {
	opts := logging.Options{Verbose: verbose}
	if !toStderr {
		opts.File = logFile()
	}
	return logging.Init(opts)
}

// bootstrap loads config, starts logging and wires the services.
func bootstrap(logsToStderr bool) (*config.Config, *dependency.Container, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := initLogging(logsToStderr)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() { _ = logger.Sync() }

	container, err := dependency.New(cfg)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return cfg, container, cleanup, nil
}
