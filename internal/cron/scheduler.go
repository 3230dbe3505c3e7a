// Package cron sends configured prompts to the agent on a cron schedule and
// delivers the replies to the open chat windows.
package cron

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	robfigcron "github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jarvisdesk/jarvis/internal/bus"
	"github.com/jarvisdesk/jarvis/internal/schema"
)

// Processor runs one agent turn on a thread.
type Processor interface {
	ProcessDirect(ctx context.Context, content, threadID string, hooks schema.Hooks) (string, error)
}

// Schedule is one prompt sent to the agent whenever Expr fires.
type Schedule struct {
	Name   string
	Expr   string // standard 5-field cron expression
	Prompt string
}

// ThreadID returns the conversation thread the schedule's turns are saved to.
func (s Schedule) ThreadID() string {
	return bus.RoutingKey(bus.ChannelCron, s.Name)
}

// Status describes a registered schedule.
type Status struct {
	Schedule
	NextRun    time.Time
	LastRun    time.Time
	LastStatus string // "", "ok" or "error"
	LastError  string
}

type entry struct {
	status  Status
	entryID robfigcron.EntryID
}

var parser = robfigcron.NewParser(
	robfigcron.Minute | robfigcron.Hour | robfigcron.Dom | robfigcron.Month | robfigcron.Dow | robfigcron.Descriptor,
)

// Scheduler fires prompts at the agent.
type Scheduler struct {
	agent Processor
	bus   bus.Bus
	loc   *time.Location

	robfig *robfigcron.Cron

	mu      sync.Mutex
	ctx     context.Context
	entries map[string]*entry
}

// NewScheduler creates a Scheduler. Replies are published on b; a nil bus
// only records them. A nil loc means time.Local.
func NewScheduler(agent Processor, b bus.Bus, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		agent:   agent,
		bus:     b,
		loc:     loc,
		robfig:  robfigcron.New(robfigcron.WithLocation(loc), robfigcron.WithParser(parser)),
		ctx:     context.Background(),
		entries: make(map[string]*entry),
	}
}

// Add registers a schedule. Names must be unique and expressions valid.
func (s *Scheduler) Add(sched Schedule) error {
	sched.Name = strings.TrimSpace(sched.Name)
	if sched.Name == "" {
		return errors.New("schedule name is required")
	}
	if strings.TrimSpace(sched.Prompt) == "" {
		return fmt.Errorf("schedule %q: prompt is required", sched.Name)
	}
	parsed, err := parser.Parse(sched.Expr)
	if err != nil {
		return fmt.Errorf("schedule %q: invalid cron expression %q: %w", sched.Name, sched.Expr, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[sched.Name]; exists {
		return fmt.Errorf("schedule %q already registered", sched.Name)
	}

	name := sched.Name
	e := &entry{status: Status{Schedule: sched}}
	e.entryID = s.robfig.Schedule(parsed, robfigcron.FuncJob(func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()
		s.execute(ctx, name)
	}))
	s.entries[name] = e

	zap.L().Info("cron: schedule added", zap.String("name", name), zap.String("expr", sched.Expr))
	return nil
}

// Remove unregisters a schedule and reports whether it existed.
func (s *Scheduler) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[name]
	if !ok {
		return false
	}
	s.robfig.Remove(e.entryID)
	delete(s.entries, name)
	return true
}

// List returns all schedules ordered by next run.
func (s *Scheduler) List() []Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Status, 0, len(s.entries))
	for _, e := range s.entries {
		st := e.status
		st.NextRun = s.robfig.Entry(e.entryID).Next
		if st.NextRun.IsZero() {
			if parsed, err := parser.Parse(st.Expr); err == nil {
				st.NextRun = parsed.Next(time.Now().In(s.loc))
			}
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].NextRun.Equal(out[k].NextRun) {
			return out[i].Name < out[k].Name
		}
		return out[i].NextRun.Before(out[k].NextRun)
	})
	return out
}

// RunNow fires the named schedule immediately and waits for the reply.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	_, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("schedule %q not found", name)
	}
	return s.execute(ctx, name)
}

// Start runs the scheduler until ctx is cancelled. Running jobs are allowed
// to finish before it returns.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	n := len(s.entries)
	s.mu.Unlock()

	s.robfig.Start()
	zap.L().Info("cron: started", zap.Int("schedules", n))

	<-ctx.Done()

	<-s.robfig.Stop().Done()
	zap.L().Info("cron: stopped")
	return ctx.Err()
}

func (s *Scheduler) execute(ctx context.Context, name string) error {
	s.mu.Lock()
	e, ok := s.entries[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("schedule %q not found", name)
	}
	sched := e.status.Schedule
	s.mu.Unlock()

	start := time.Now()
	zap.L().Info("cron: executing schedule", zap.String("name", name))

	reply, err := s.agent.ProcessDirect(ctx, sched.Prompt, sched.ThreadID(), schema.Hooks{})

	out := bus.NewOutboundMessage(bus.ChannelCron, name, reply)
	out.Metadata = map[string]any{bus.MetaSchedule: name}

	s.mu.Lock()
	if e, ok := s.entries[name]; ok {
		e.status.LastRun = start
		e.status.LastStatus = "ok"
		e.status.LastError = ""
		if err != nil {
			e.status.LastStatus = "error"
			e.status.LastError = err.Error()
		}
	}
	s.mu.Unlock()

	if err != nil {
		zap.L().Error("cron: schedule failed", zap.String("name", name), zap.Error(err))
		out.Content = err.Error()
		out.Metadata[bus.MetaError] = true
	}

	if s.bus != nil {
		if perr := s.bus.PublishOutbound(ctx, out); perr != nil {
			zap.L().Warn("cron: reply dropped", zap.String("name", name), zap.Error(perr))
		}
	}
	return err
}
