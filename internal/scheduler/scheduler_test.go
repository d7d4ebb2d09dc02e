package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edgard/jokebot/internal/config"
	"github.com/edgard/jokebot/internal/logger"
	"github.com/edgard/jokebot/internal/scheduler"
)

func newScheduler(t *testing.T) *scheduler.Scheduler {
	t.Helper()
	s, err := scheduler.New(logger.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestEveryRunsUntilRemoved(t *testing.T) {
	t.Parallel()
	s := newScheduler(t)

	var runs atomic.Int32
	id, err := s.Every("tick", 20*time.Millisecond, func() { runs.Add(1) })
	if err != nil {
		t.Fatalf("Every: %v", err)
	}
	s.Start()

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if runs.Load() < 2 {
		t.Fatalf("job ran %d times, want at least 2", runs.Load())
	}

	if err := s.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	after := runs.Load()
	time.Sleep(100 * time.Millisecond)
	if runs.Load() != after {
		t.Fatalf("job kept running after Remove: %d -> %d", after, runs.Load())
	}
}

func TestEveryRejectsNonPositiveInterval(t *testing.T) {
	t.Parallel()
	s := newScheduler(t)
	if _, err := s.Every("bad", 0, func() {}); err == nil {
		t.Fatal("expected error for zero interval")
	}
}

func TestScheduleTasks(t *testing.T) {
	t.Parallel()
	s := newScheduler(t)

	noop := func(context.Context) error { return nil }
	cfg := config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"enabled":  {Enabled: true, Schedule: "0 0 4 * * *"},
		"disabled": {Enabled: false, Schedule: "0 0 4 * * *"},
		"missing":  {Enabled: true, Schedule: "0 0 4 * * *"},
		"broken":   {Enabled: true, Schedule: "not a cron"},
	}}
	registry := map[string]scheduler.TaskFunc{
		"enabled":  noop,
		"disabled": noop,
		"broken":   noop,
	}

	if got := s.ScheduleTasks(cfg, registry); got != 1 {
		t.Fatalf("ScheduleTasks scheduled %d tasks, want 1", got)
	}
}
