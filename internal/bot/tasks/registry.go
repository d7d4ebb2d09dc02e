package tasks

import (
	"github.com/edgard/jokebot/internal/config"
	"github.com/edgard/jokebot/internal/scheduler"
)

// RegisterAllTasks returns every known task keyed by the name used in the
// scheduler.tasks configuration section.
func RegisterAllTasks(deps TaskDeps) map[string]scheduler.TaskFunc {
	tasks := map[string]scheduler.TaskFunc{
		config.DefaultMaintenanceTask: newSQLMaintenanceTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
