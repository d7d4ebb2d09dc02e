// Package scheduler runs named cron tasks and repeating interval jobs on a single gocron scheduler.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/edgard/jokebot/internal/config"
	"github.com/edgard/jokebot/internal/logger"
)

// TaskFunc is the signature of a cron task. The context is cancelled on Stop.
type TaskFunc func(ctx context.Context) error

// Scheduler wraps a gocron scheduler.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc

	mu      sync.Mutex
	running bool
}

// New creates a stopped scheduler.
func New(log *slog.Logger) (*Scheduler, error) {
	if log == nil {
		log = logger.Discard()
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(logger.NewGocronLogger(log)),
		gocron.WithStopTimeout(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: s,
		logger:    log.With("component", "scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// AddCron schedules task under name using a cron expression with seconds.
func (s *Scheduler) AddCron(name, cronExpr string, task TaskFunc) error {
	_, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, true),
		gocron.NewTask(s.runTask, name, task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.logger.Error("Failed to schedule task", "task_name", name, "schedule", cronExpr, "error", err)
		return fmt.Errorf("failed to schedule task %q: %w", name, err)
	}
	s.logger.Info("Scheduled task", "task_name", name, "schedule", cronExpr)
	return nil
}

// ScheduleTasks registers every enabled configured task found in registry and
// returns how many were scheduled. Unknown or failing tasks are logged and skipped.
func (s *Scheduler) ScheduleTasks(cfg config.SchedulerConfig, registry map[string]TaskFunc) int {
	if len(cfg.Tasks) == 0 {
		s.logger.Warn("No scheduler tasks configured")
		return 0
	}

	scheduled := 0
	for name, taskCfg := range cfg.Tasks {
		if !taskCfg.Enabled {
			s.logger.Info("Skipping disabled task", "task_name", name)
			continue
		}
		task, ok := registry[name]
		if !ok {
			s.logger.Warn("Scheduled task configured but not found in registry, skipping", "task_name", name)
			continue
		}
		if err := s.AddCron(name, taskCfg.Schedule, task); err != nil {
			continue
		}
		scheduled++
	}
	return scheduled
}

func (s *Scheduler) runTask(name string, task TaskFunc) {
	s.logger.Info("Running scheduled task", "task_name", name)
	start := time.Now()
	if err := task(s.ctx); err != nil {
		s.logger.Error("Scheduled task failed", "task_name", name, "error", err)
	}
	s.logger.Info("Finished scheduled task", "task_name", name, "duration", time.Since(start))
}

// Every registers fn to run every interval, first after one interval has passed.
// A run that is still executing when the next is due delays that next run.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) (uuid.UUID, error) {
	if interval <= 0 {
		return uuid.Nil, fmt.Errorf("job %q: interval must be positive, got %s", name, interval)
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to schedule job %q: %w", name, err)
	}
	return job.ID(), nil
}

// Remove unschedules a job created by Every or AddCron.
func (s *Scheduler) Remove(id uuid.UUID) error {
	if err := s.scheduler.RemoveJob(id); err != nil {
		return fmt.Errorf("failed to remove job %s: %w", id, err)
	}
	return nil
}

// Start begins executing jobs. Calling it twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started", "jobs", len(s.scheduler.Jobs()))
}

// Stop cancels task contexts and shuts gocron down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()
	if err := s.scheduler.Shutdown(); err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
		return fmt.Errorf("failed to shutdown scheduler: %w", err)
	}
	s.running = false
	s.logger.Info("Scheduler stopped")
	return nil
}
