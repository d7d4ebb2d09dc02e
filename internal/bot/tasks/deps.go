// Package tasks implements the cron-style maintenance tasks run by the scheduler.
package tasks

import (
	"context"
	"log/slog"
)

// Maintainer runs storage housekeeping.
type Maintainer interface {
	RunSQLMaintenance(ctx context.Context) error
}

// TaskDeps contains the dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  Maintainer
}
