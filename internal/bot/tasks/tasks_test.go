package tasks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/edgard/jokebot/internal/bot/tasks"
	"github.com/edgard/jokebot/internal/config"
	"github.com/edgard/jokebot/internal/logger"
)

type fakeMaintainer struct {
	calls int
	err   error
}

func (f *fakeMaintainer) RunSQLMaintenance(ctx context.Context) error {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("maintenance ran without a deadline")
	}
	return f.err
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	store := &fakeMaintainer{}
	registry := tasks.RegisterAllTasks(tasks.TaskDeps{Logger: logger.Discard(), Store: store})

	task, ok := registry[config.DefaultMaintenanceTask]
	if !ok {
		t.Fatalf("registry = %v, missing %q", registry, config.DefaultMaintenanceTask)
	}
	if err := task(context.Background()); err != nil {
		t.Fatalf("task: %v", err)
	}
	if store.calls != 1 {
		t.Errorf("calls = %d, want 1", store.calls)
	}
}

func TestSQLMaintenanceFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	store := &fakeMaintainer{err: boom}
	task := tasks.RegisterAllTasks(tasks.TaskDeps{Logger: logger.Discard(), Store: store})[config.DefaultMaintenanceTask]

	if err := task(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}
