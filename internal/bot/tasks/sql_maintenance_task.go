package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/edgard/jokebot/internal/scheduler"
)

const maintenanceTimeout = 5 * time.Minute

// newSQLMaintenanceTask optimizes and vacuums the SQLite file.
func newSQLMaintenanceTask(deps TaskDeps) scheduler.TaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, maintenanceTimeout)
		defer cancel()

		log.InfoContext(ctx, "Starting SQL maintenance")
		start := time.Now()

		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "SQL maintenance failed", "error", err, "duration", time.Since(start))
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "SQL maintenance completed", "duration", time.Since(start))
		return nil
	}
}
