// Package dependency wires core jarvis services using go.uber.org/dig.
package dependency

import (
	"fmt"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/jarvisdesk/jarvis/internal/agent"
	"github.com/jarvisdesk/jarvis/internal/bus"
	"github.com/jarvisdesk/jarvis/internal/config"
	"github.com/jarvisdesk/jarvis/internal/cron"
	"github.com/jarvisdesk/jarvis/internal/metrics"
	"github.com/jarvisdesk/jarvis/internal/providers"
	"github.com/jarvisdesk/jarvis/internal/schema"
	"github.com/jarvisdesk/jarvis/internal/session"
	"github.com/jarvisdesk/jarvis/internal/tools"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	provider  schema.LLMProvider
	msgBus    *bus.MessageBus
	loop      *agent.AgentLoop
	sessions  *session.Manager
	registry  *tools.Registry
	metrics   *metrics.Prometheus
	scheduler *cron.Scheduler
}

func (c *Container) Provider() schema.LLMProvider { return c.provider }
func (c *Container) MessageBus() *bus.MessageBus  { return c.msgBus }
func (c *Container) AgentLoop() *agent.AgentLoop  { return c.loop }
func (c *Container) Sessions() *session.Manager   { return c.sessions }
func (c *Container) Tools() *tools.Registry       { return c.registry }
func (c *Container) Metrics() *metrics.Prometheus { return c.metrics }
func (c *Container) Scheduler() *cron.Scheduler   { return c.scheduler }

// LLMModel is a named string type so dig can distinguish it from plain
// strings when injecting the effective model name.
type LLMModel string

// New builds and wires all core services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	constructors := []any{
		func() *config.Config { return cfg },
		newProvider,
		resolveLLMModel,
		newMessageBus,
		newSessionManager,
		newMetrics,
		NewToolRegistry,
		newPromptBuilder,
		newAgentSettings,
		newRunner,
		newAgentLoop,
		newScheduler,
	}
	for _, c := range constructors {
		if err := d.Provide(c); err != nil {
			return nil, err
		}
	}

	var result *Container
	err := d.Invoke(func(
		provider schema.LLMProvider,
		msgBus *bus.MessageBus,
		loop *agent.AgentLoop,
		sessions *session.Manager,
		registry *tools.Registry,
		prom *metrics.Prometheus,
		scheduler *cron.Scheduler,
	) {
		result = &Container{
			provider:  provider,
			msgBus:    msgBus,
			loop:      loop,
			sessions:  sessions,
			registry:  registry,
			metrics:   prom,
			scheduler: scheduler,
		}
	})
	if err != nil {
		return nil, fmt.Errorf("wire services: %w", err)
	}
	return result, nil
}

func newProvider(cfg *config.Config) (schema.LLMProvider, error) {
	name, pc := cfg.ActiveProvider()
	return providers.New(providers.Params{
		APIKey:       pc.APIKey,
		APIBase:      pc.APIBase,
		ExtraHeaders: pc.ExtraHeaders,
		DefaultModel: cfg.Agent.Model,
		ProviderName: name,
	})
}

func resolveLLMModel(cfg *config.Config, p schema.LLMProvider) LLMModel {
	m := cfg.Agent.Model
	if m == "" {
		m = p.DefaultModel()
	}

	return LLMModel(m)
}

func newMessageBus() *bus.MessageBus {
	return bus.NewMessageBus(100)
}

func newSessionManager(cfg *config.Config) (*session.Manager, error) {
	return session.NewManager(cfg.WorkspacePath())
}

func newMetrics(msgBus *bus.MessageBus) *metrics.Prometheus {
	p := metrics.NewPrometheus()
	p.WatchQueue("inbound", msgBus.InboundSize)
	p.WatchQueue("outbound", msgBus.OutboundSize)
	return p
}

// NewToolRegistry builds the tool set from cfg. Desktop tools whose driver or
// screenshot command is unavailable on this machine are left out.
func NewToolRegistry(cfg *config.Config) (*tools.Registry, error) {
	tc := cfg.Tools

	reports := tools.DefaultWeatherReports()
	if tc.Weather.ReportsFile != "" {
		loaded, err := tools.LoadWeatherReports(config.ExpandHome(tc.Weather.ReportsFile))
		if err != nil {
			return nil, fmt.Errorf("weather reports: %w", err)
		}
		reports = loaded
	}

	builder := tools.NewRegistryBuilder().
		WithTool(tools.NewWeatherTool(reports)).
		WithTool(tools.NewWebSearchTool(
			tools.NewSearchBackend(tc.Search),
			tc.Search.MaxResults,
			time.Duration(tc.Search.CacheTTL)*time.Second,
		)).
		WithTool(tools.NewWebFetchTool(0)).
		WithTool(tools.NewExecTool(cfg.WorkspacePath(), tc.Exec.Timeout, tc.Exec.RestrictToWorkspace, tc.Exec.Shell))

	if tc.Automation.Enabled {
		driver, err := tools.NewPlatformDriver(tc.Automation.Driver)
		if err != nil {
			zap.L().Warn("desktop automation disabled", zap.Error(err))
		} else {
			builder.WithTools(
				tools.NewClickTool(driver),
				tools.NewTypeTextTool(driver),
				tools.NewPressKeyTool(driver),
			)
		}
	}

	capturer, err := tools.NewPlatformCapturer(tc.Vision.CaptureCommand)
	if err != nil {
		zap.L().Warn("screen description disabled", zap.Error(err))
	} else {
		apiKey, apiBase := cfg.VisionAPIKey()
		var describer tools.VisionDescriber
		if v := tools.NewOpenAIVision(apiKey, apiBase, tc.Vision.Model, tc.Vision.MaxTokens); v != nil {
			describer = v
		}
		builder.WithTool(tools.NewDescribeScreenTool(capturer, describer))
	}

	return builder.Build(), nil
}

func newPromptBuilder(cfg *config.Config) *agent.PromptBuilder {
	return agent.NewPromptBuilder(cfg.WorkspacePath(), cfg.Agent.Persona())
}

func newAgentSettings(cfg *config.Config, m LLMModel) schema.AgentSettings {
	return schema.NewAgentSettings(
		string(m),
		cfg.Agent.MaxToolIter,
		cfg.Agent.Temperature,
		cfg.Agent.MaxTokens,
		cfg.Agent.MemoryWindow,
	)
}

func newRunner(p schema.LLMProvider, settings schema.AgentSettings, prom *metrics.Prometheus) *agent.Runner {
	return agent.NewRunner(p, settings, prom)
}

func newAgentLoop(
	b *bus.MessageBus,
	runner *agent.Runner,
	settings schema.AgentSettings,
	sessions *session.Manager,
	registry *tools.Registry,
	pb *agent.PromptBuilder,
) *agent.AgentLoop {
	return agent.NewAgentLoop(b, runner, settings, sessions, registry, pb)
}

func newScheduler(cfg *config.Config, loop *agent.AgentLoop, b *bus.MessageBus) (*cron.Scheduler, error) {
	s := cron.NewScheduler(loop, b, time.Local)
	for _, sc := range cfg.Schedules {
		if err := s.Add(cron.Schedule{Name: sc.Name, Expr: sc.Cron, Prompt: sc.Prompt}); err != nil {
			return nil, err
		}
	}
	return s, nil
}
