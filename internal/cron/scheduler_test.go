package cron

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jarvisdesk/jarvis/internal/bus"
	"github.com/jarvisdesk/jarvis/internal/schema"
)

type fakeAgent struct {
	mu      sync.Mutex
	reply   string
	err     error
	threads []string
	prompts []string
}

func (a *fakeAgent) ProcessDirect(_ context.Context, content, threadID string, _ schema.Hooks) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.threads = append(a.threads, threadID)
	a.prompts = append(a.prompts, content)
	return a.reply, a.err
}

func (a *fakeAgent) calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.threads)
}

// ─── Add ───────────────────────────────────────────────────────────────────

func TestAdd_Valid(t *testing.T) {
	s := NewScheduler(&fakeAgent{}, nil, time.UTC)
	if err := s.Add(Schedule{Name: "morning", Expr: "0 9 * * *", Prompt: "brief me"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := s.List()
	if len(list) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(list))
	}
	next := list[0].NextRun
	if next.IsZero() || next.In(time.UTC).Hour() != 9 || next.Minute() != 0 {
		t.Errorf("unexpected next run: %v", next)
	}
}

func TestAdd_Rejects(t *testing.T) {
	s := NewScheduler(&fakeAgent{}, nil, time.UTC)
	if err := s.Add(Schedule{Name: "a", Expr: "* * * * *", Prompt: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string]Schedule{
		"invalid expr": {Name: "b", Expr: "every tuesday", Prompt: "x"},
		"seconds":      {Name: "c", Expr: "*/5 * * * * *", Prompt: "x"},
		"no name":      {Name: " ", Expr: "* * * * *", Prompt: "x"},
		"no prompt":    {Name: "d", Expr: "* * * * *"},
		"duplicate":    {Name: "a", Expr: "@hourly", Prompt: "x"},
	}
	for label, sched := range cases {
		if err := s.Add(sched); err == nil {
			t.Errorf("%s: expected error", label)
		}
	}
	if n := len(s.List()); n != 1 {
		t.Errorf("expected 1 schedule after rejects, got %d", n)
	}
}

func TestRemove(t *testing.T) {
	s := NewScheduler(&fakeAgent{}, nil, time.UTC)
	_ = s.Add(Schedule{Name: "a", Expr: "@daily", Prompt: "x"})
	if !s.Remove("a") {
		t.Fatal("expected Remove to find schedule")
	}
	if s.Remove("a") {
		t.Error("expected second Remove to miss")
	}
	if len(s.List()) != 0 {
		t.Error("expected empty list")
	}
}

// ─── Execution ─────────────────────────────────────────────────────────────

func TestRunNow_PublishesReply(t *testing.T) {
	agent := &fakeAgent{reply: "Good morning, sir."}
	b := bus.NewMessageBus(4)
	s := NewScheduler(agent, b, time.UTC)
	_ = s.Add(Schedule{Name: "morning", Expr: "0 9 * * *", Prompt: "brief me"})

	if err := s.RunNow(context.Background(), "morning"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agent.threads[0] != "cron:morning" || agent.prompts[0] != "brief me" {
		t.Errorf("unexpected call: %v %v", agent.threads, agent.prompts)
	}

	out := <-b.OutboundChan()
	if out.Channel != bus.ChannelCron || out.ChatID != "morning" {
		t.Errorf("unexpected routing: %s/%s", out.Channel, out.ChatID)
	}
	if out.Content != "Good morning, sir." {
		t.Errorf("unexpected content: %q", out.Content)
	}
	if out.Metadata[bus.MetaSchedule] != "morning" {
		t.Errorf("missing schedule metadata: %v", out.Metadata)
	}

	st := s.List()[0]
	if st.LastStatus != "ok" || st.LastRun.IsZero() {
		t.Errorf("unexpected status: %+v", st)
	}
}

func TestRunNow_RecordsError(t *testing.T) {
	agent := &fakeAgent{err: errors.New("llm down")}
	b := bus.NewMessageBus(4)
	s := NewScheduler(agent, b, time.UTC)
	_ = s.Add(Schedule{Name: "n", Expr: "@hourly", Prompt: "x"})

	if err := s.RunNow(context.Background(), "n"); err == nil {
		t.Fatal("expected error")
	}
	out := <-b.OutboundChan()
	if !out.IsError() || !strings.Contains(out.Content, "llm down") {
		t.Errorf("unexpected outbound: %+v", out)
	}
	st := s.List()[0]
	if st.LastStatus != "error" || st.LastError != "llm down" {
		t.Errorf("unexpected status: %+v", st)
	}
}

func TestRunNow_Unknown(t *testing.T) {
	s := NewScheduler(&fakeAgent{}, nil, nil)
	if err := s.RunNow(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for unknown schedule")
	}
}

func TestStart_FiresAndStops(t *testing.T) {
	agent := &fakeAgent{reply: "tick"}
	s := NewScheduler(agent, nil, time.UTC)
	_ = s.Add(Schedule{Name: "tick", Expr: "@every 1s", Prompt: "tick"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	deadline := time.Now().Add(3 * time.Second)
	for agent.calls() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	cancel()

	if agent.calls() == 0 {
		t.Fatal("schedule never fired")
	}
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
