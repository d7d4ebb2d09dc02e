// Package autopost keeps at most one repeating joke timer per chat and routes
// each post to the forum thread the chat was last active in.
package autopost

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edgard/jokebot/internal/errs"
	"github.com/edgard/jokebot/internal/events"
	"github.com/edgard/jokebot/internal/logger"
	"github.com/edgard/jokebot/internal/metrics"
	"github.com/edgard/jokebot/internal/settings"
)

// JobScheduler registers repeating jobs.
type JobScheduler interface {
	Every(name string, interval time.Duration, fn func()) (uuid.UUID, error)
	Remove(id uuid.UUID) error
}

// SettingsReader returns a chat's current settings.
type SettingsReader interface {
	GetOrCreate(ctx context.Context, chatID int64) (settings.Settings, error)
}

// Poster posts one joke to a chat thread. threadID 0 means the main thread.
type Poster interface {
	PostJoke(ctx context.Context, chatID int64, threadID int) error
}

// Options tune timing. Zero values fall back to one minute per interval unit
// and a 30 second tick timeout.
type Options struct {
	IntervalUnit time.Duration
	TickTimeout  time.Duration
}

type entry struct {
	jobID      uuid.UUID
	interval   time.Duration
	generation uint64
}

// Scheduler owns the per-chat timers.
type Scheduler struct {
	jobs      JobScheduler
	settings  SettingsReader
	poster    Poster
	reporter  errs.Reporter
	publisher events.Publisher
	logger    *slog.Logger

	unit        time.Duration
	tickTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	entries    map[int64]*entry
	threads    map[int64]int
	generation uint64
	closed     bool
}

// New creates a scheduler with no timers.
func New(
	jobs JobScheduler,
	settingsReader SettingsReader,
	poster Poster,
	reporter errs.Reporter,
	publisher events.Publisher,
	log *slog.Logger,
	opts Options,
) *Scheduler {
	if log == nil {
		log = logger.Discard()
	}
	if opts.IntervalUnit <= 0 {
		opts.IntervalUnit = time.Minute
	}
	if opts.TickTimeout <= 0 {
		opts.TickTimeout = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:        jobs,
		settings:    settingsReader,
		poster:      poster,
		reporter:    reporter,
		publisher:   publisher,
		logger:      log.With("component", "autopost"),
		unit:        opts.IntervalUnit,
		tickTimeout: opts.TickTimeout,
		ctx:         ctx,
		cancel:      cancel,
		entries:     make(map[int64]*entry),
		threads:     make(map[int64]int),
	}
}

// Start registers a timer firing every intervalMinutes units. It returns false
// without touching anything when the chat already has a timer.
func (s *Scheduler) Start(chatID int64, intervalMinutes int) (bool, error) {
	if intervalMinutes < 1 {
		return false, errs.NewValidationError(fmt.Sprintf("interval must be at least 1, got %d", intervalMinutes), nil)
	}
	interval := time.Duration(intervalMinutes) * s.unit

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Debug("Ignoring start after shutdown", "chat_id", chatID)
		return false, nil
	}
	if _, exists := s.entries[chatID]; exists {
		s.mu.Unlock()
		s.logger.Debug("Auto-post already running", "chat_id", chatID)
		return false, nil
	}

	s.generation++
	generation := s.generation
	jobID, err := s.jobs.Every(fmt.Sprintf("autopost:%d", chatID), interval, func() {
		s.tick(chatID, generation)
	})
	if err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("start auto-post for chat %d: %w", chatID, err)
	}
	s.entries[chatID] = &entry{jobID: jobID, interval: interval, generation: generation}
	metrics.AutoPostActive.Set(float64(len(s.entries)))
	s.mu.Unlock()

	metrics.AutoPostStarted.Inc()
	s.logger.Info("Auto-post started", "chat_id", chatID, "interval", interval)
	s.publish(events.AutoPostStarted{Meta: events.Now(), ChatID: chatID, Interval: interval})
	return true, nil
}

// Stop cancels the chat's timer and forgets its thread. It reports whether a
// timer was cancelled; stopping a chat without one is a no-op.
func (s *Scheduler) Stop(chatID int64) bool {
	return s.stop(chatID, 0)
}

// stop removes the chat's timer when generation is 0 or matches the live entry.
func (s *Scheduler) stop(chatID int64, generation uint64) bool {
	s.mu.Lock()
	e, ok := s.entries[chatID]
	if ok && generation != 0 && e.generation != generation {
		s.mu.Unlock()
		return false
	}
	delete(s.entries, chatID)
	delete(s.threads, chatID)
	metrics.AutoPostActive.Set(float64(len(s.entries)))
	s.mu.Unlock()

	if !ok {
		return false
	}

	if err := s.jobs.Remove(e.jobID); err != nil {
		s.logger.Warn("Failed to remove auto-post job", "chat_id", chatID, "job_id", e.jobID, "error", err)
	}
	metrics.AutoPostStopped.Inc()
	s.logger.Info("Auto-post stopped", "chat_id", chatID)
	s.publish(events.AutoPostStopped{Meta: events.Now(), ChatID: chatID})
	return true
}

// EnsureStarted remembers threadID (when non-zero) as the chat's posting thread
// and starts a timer if the chat has none and posting is enabled.
func (s *Scheduler) EnsureStarted(ctx context.Context, chatID int64, threadID int) error {
	s.mu.Lock()
	if threadID != 0 {
		s.threads[chatID] = threadID
	}
	_, exists := s.entries[chatID]
	s.mu.Unlock()

	if exists {
		return nil
	}

	st, err := s.settings.GetOrCreate(ctx, chatID)
	if err != nil {
		return err
	}
	if !st.Enabled {
		return nil
	}

	// Start re-checks existence under the lock, so racing callers start one timer.
	_, err = s.Start(chatID, st.IntervalMinutes)
	return err
}

// Reschedule restarts the chat's timer from its current settings, keeping the
// remembered thread. A disabled chat ends up with no timer.
func (s *Scheduler) Reschedule(ctx context.Context, chatID int64) error {
	threadID := s.ThreadID(chatID)
	s.Stop(chatID)
	return s.EnsureStarted(ctx, chatID, threadID)
}

// StopAll cancels every timer and refuses new ones. Used on shutdown.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	s.closed = true
	chats := make([]int64, 0, len(s.entries))
	for chatID := range s.entries {
		chats = append(chats, chatID)
	}
	s.mu.Unlock()

	for _, chatID := range chats {
		s.Stop(chatID)
	}
	s.cancel()
	s.logger.Info("All auto-post timers stopped", "count", len(chats))
}

// IsRunning reports whether chatID has a timer.
func (s *Scheduler) IsRunning(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[chatID]
	return ok
}

// Interval returns the chat's timer interval, or 0 when it has none.
func (s *Scheduler) Interval(chatID int64) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[chatID]; ok {
		return e.interval
	}
	return 0
}

// ThreadID returns the remembered posting thread for chatID.
func (s *Scheduler) ThreadID(chatID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threads[chatID]
}

// Active lists chats with a timer in ascending order.
func (s *Scheduler) Active() []int64 {
	s.mu.Lock()
	chats := make([]int64, 0, len(s.entries))
	for chatID := range s.entries {
		chats = append(chats, chatID)
	}
	s.mu.Unlock()

	sort.Slice(chats, func(i, j int) bool { return chats[i] < chats[j] })
	return chats
}

// live returns the thread to post to, or false when generation is no longer current.
func (s *Scheduler) live(chatID int64, generation uint64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[chatID]
	if !ok || e.generation != generation {
		return 0, false
	}
	return s.threads[chatID], true
}

func (s *Scheduler) tick(chatID int64, generation uint64) {
	ctx, cancel := context.WithTimeout(s.ctx, s.tickTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Auto-post tick panicked", "chat_id", chatID, "panic", r, "stack", string(debug.Stack()))
			s.report(ctx, fmt.Errorf("auto-post tick for chat %d panicked: %v", chatID, r), chatID)
		}
	}()

	if _, ok := s.live(chatID, generation); !ok {
		return
	}

	st, err := s.settings.GetOrCreate(ctx, chatID)
	if err != nil {
		s.report(ctx, fmt.Errorf("auto-post settings for chat %d: %w", chatID, err), chatID)
		return
	}
	if !st.Enabled {
		s.logger.Info("Auto-post disabled, stopping timer", "chat_id", chatID)
		s.stop(chatID, generation)
		return
	}

	threadID, ok := s.live(chatID, generation)
	if !ok {
		return
	}
	if err := s.poster.PostJoke(ctx, chatID, threadID); err != nil {
		s.report(ctx, fmt.Errorf("auto-post joke to chat %d: %w", chatID, err), chatID)
	}
}

func (s *Scheduler) report(ctx context.Context, err error, chatID int64) {
	if s.reporter == nil {
		s.logger.ErrorContext(ctx, "Auto-post failure", "chat_id", chatID, "error", err)
		return
	}
	s.reporter.Report(ctx, err, "chat_id", chatID)
}

func (s *Scheduler) publish(e events.Event) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.tickTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("Auto-post event listener failed", "event", e.Name(), "error", err)
	}
}
