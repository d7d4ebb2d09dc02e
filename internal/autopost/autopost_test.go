package autopost

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/edgard/jokebot/internal/events"
	"github.com/edgard/jokebot/internal/logger"
	"github.com/edgard/jokebot/internal/scheduler"
	"github.com/edgard/jokebot/internal/settings"
)

// fakeJobs records registered jobs so tests can fire them by hand.
type fakeJobs struct {
	mu      sync.Mutex
	jobs    map[uuid.UUID]fakeJob
	created int
	removed int
}

type fakeJob struct {
	name     string
	interval time.Duration
	fn       func()
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{jobs: make(map[uuid.UUID]fakeJob)}
}

func (f *fakeJobs) Every(name string, interval time.Duration, fn func()) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.jobs[id] = fakeJob{name: name, interval: interval, fn: fn}
	f.created++
	return id, nil
}

func (f *fakeJobs) Remove(id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[id]; !ok {
		return errors.New("unknown job")
	}
	delete(f.jobs, id)
	f.removed++
	return nil
}

func (f *fakeJobs) live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

// fire runs the job of chatID once, as gocron would.
func (f *fakeJobs) fire(t *testing.T, chatID int64) {
	t.Helper()
	name := fmt.Sprintf("autopost:%d", chatID)
	f.mu.Lock()
	var fn func()
	for _, j := range f.jobs {
		if j.name == name {
			fn = j.fn
		}
	}
	f.mu.Unlock()
	if fn == nil {
		t.Fatalf("no job registered for chat %d", chatID)
	}
	fn()
}

type fakeSettings struct {
	mu    sync.Mutex
	chats map[int64]settings.Settings
	err   error
	reads atomic.Int32
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{chats: make(map[int64]settings.Settings)}
}

func (f *fakeSettings) GetOrCreate(_ context.Context, chatID int64) (settings.Settings, error) {
	f.reads.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return settings.Settings{}, f.err
	}
	s, ok := f.chats[chatID]
	if !ok {
		s = settings.Settings{ChatID: chatID, Enabled: true, IntervalMinutes: 30}
		f.chats[chatID] = s
	}
	return s, nil
}

func (f *fakeSettings) set(s settings.Settings) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats[s.ChatID] = s
}

type post struct {
	chatID   int64
	threadID int
}

type fakePoster struct {
	mu    sync.Mutex
	posts []post
	err   error
	panic bool
}

func (p *fakePoster) PostJoke(_ context.Context, chatID int64, threadID int) error {
	if p.panic {
		panic("poster exploded")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts = append(p.posts, post{chatID, threadID})
	return p.err
}

func (p *fakePoster) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.posts)
}

type fakeReporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *fakeReporter) Report(_ context.Context, err error, _ ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *fakeReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

type harness struct {
	jobs     *fakeJobs
	settings *fakeSettings
	poster   *fakePoster
	reporter *fakeReporter
	events   *events.Dispatcher
	sched    *Scheduler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		jobs:     newFakeJobs(),
		settings: newFakeSettings(),
		poster:   &fakePoster{},
		reporter: &fakeReporter{},
		events:   events.NewDispatcher(logger.Discard()),
	}
	h.sched = New(h.jobs, h.settings, h.poster, h.reporter, h.events, logger.Discard(), Options{})
	t.Cleanup(h.sched.StopAll)
	return h
}

func TestStartIsNoOpWhenRunning(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	started, err := h.sched.Start(1, 10)
	if err != nil || !started {
		t.Fatalf("first Start = %v, %v", started, err)
	}
	started, err = h.sched.Start(1, 5)
	if err != nil || started {
		t.Fatalf("second Start = %v, %v", started, err)
	}
	if h.jobs.created != 1 {
		t.Fatalf("created %d jobs, want 1", h.jobs.created)
	}
	if got := h.sched.Interval(1); got != 10*time.Minute {
		t.Fatalf("interval = %s, want 10m", got)
	}
}

func TestStartRejectsInvalidInterval(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if _, err := h.sched.Start(1, 0); err == nil {
		t.Fatal("expected error for zero interval")
	}
	if h.jobs.created != 0 {
		t.Fatal("invalid start must not register a job")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	var stopped atomic.Int32
	events.Subscribe(h.events, "count", func(context.Context, events.AutoPostStopped) error {
		stopped.Add(1)
		return nil
	})

	if h.sched.Stop(1) {
		t.Fatal("Stop without a timer reported true")
	}
	if _, err := h.sched.Start(1, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !h.sched.Stop(1) {
		t.Fatal("Stop with a timer reported false")
	}
	if h.sched.Stop(1) {
		t.Fatal("second Stop reported true")
	}
	if h.jobs.live() != 0 || stopped.Load() != 1 {
		t.Fatalf("live jobs=%d stopped events=%d", h.jobs.live(), stopped.Load())
	}
}

func TestEnsureStartedConcurrentStartsOneTimer(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	var wg sync.WaitGroup
	for i := range 30 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := h.sched.EnsureStarted(context.Background(), -42, i%3); err != nil {
				t.Errorf("EnsureStarted: %v", err)
			}
		}()
	}
	wg.Wait()

	if h.jobs.created != 1 || h.jobs.live() != 1 {
		t.Fatalf("created=%d live=%d, want exactly one timer", h.jobs.created, h.jobs.live())
	}
}

func TestEnsureStartedDisabledChat(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.settings.set(settings.Settings{ChatID: 9, Enabled: false, IntervalMinutes: 30})

	if err := h.sched.EnsureStarted(context.Background(), 9, 0); err != nil {
		t.Fatalf("EnsureStarted: %v", err)
	}
	if h.sched.IsRunning(9) {
		t.Fatal("disabled chat got a timer")
	}
}

func TestEnsureStartedSettingsFailure(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.settings.err = errors.New("db down")

	if err := h.sched.EnsureStarted(context.Background(), 9, 0); err == nil {
		t.Fatal("expected settings error")
	}
}

func TestTickPostsToRememberedThread(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	if err := h.sched.EnsureStarted(ctx, -1, 77); err != nil {
		t.Fatalf("EnsureStarted: %v", err)
	}
	h.jobs.fire(t, -1)

	// A later message in another topic moves the posts there.
	if err := h.sched.EnsureStarted(ctx, -1, 88); err != nil {
		t.Fatalf("EnsureStarted: %v", err)
	}
	// Thread 0 (main chat) keeps the remembered topic.
	if err := h.sched.EnsureStarted(ctx, -1, 0); err != nil {
		t.Fatalf("EnsureStarted: %v", err)
	}
	h.jobs.fire(t, -1)

	want := []post{{-1, 77}, {-1, 88}}
	if len(h.poster.posts) != len(want) || h.poster.posts[0] != want[0] || h.poster.posts[1] != want[1] {
		t.Fatalf("posts = %+v, want %+v", h.poster.posts, want)
	}
}

func TestTickStopsWhenDisabled(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	if _, err := h.sched.Start(5, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	h.settings.set(settings.Settings{ChatID: 5, Enabled: false, IntervalMinutes: 1})
	h.jobs.fire(t, 5)

	if h.poster.count() != 0 {
		t.Fatal("disabled chat received a joke")
	}
	if h.sched.IsRunning(5) || h.jobs.live() != 0 {
		t.Fatal("timer survived a disabled tick")
	}
}

func TestTickFailuresKeepTimer(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.poster.err = errors.New("telegram timeout")

	if _, err := h.sched.Start(3, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	h.jobs.fire(t, 3)
	h.jobs.fire(t, 3)

	h.settings.err = errors.New("db locked")
	h.jobs.fire(t, 3)

	if h.reporter.count() != 3 {
		t.Fatalf("reported %d errors, want 3", h.reporter.count())
	}
	if !h.sched.IsRunning(3) {
		t.Fatal("failures cancelled the timer")
	}
}

func TestTickRecoversPanic(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.poster.panic = true

	if _, err := h.sched.Start(4, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	h.jobs.fire(t, 4)

	if h.reporter.count() != 1 || !h.sched.IsRunning(4) {
		t.Fatalf("reported=%d running=%v", h.reporter.count(), h.sched.IsRunning(4))
	}
}

func TestStaleTickDoesNothing(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	if _, err := h.sched.Start(6, 1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	var stale func()
	for _, j := range h.jobs.jobs {
		stale = j.fn
	}

	h.sched.Stop(6)
	if _, err := h.sched.Start(6, 2); err != nil {
		t.Fatalf("restart: %v", err)
	}
	reads := h.settings.reads.Load()
	stale()

	if h.poster.count() != 0 || h.settings.reads.Load() != reads {
		t.Fatal("stale tick acted on the new timer")
	}
	if !h.sched.IsRunning(6) {
		t.Fatal("stale tick stopped the new timer")
	}
}

func TestRescheduleAppliesNewInterval(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	if err := h.sched.EnsureStarted(ctx, 8, 12); err != nil {
		t.Fatalf("EnsureStarted: %v", err)
	}
	h.settings.set(settings.Settings{ChatID: 8, Enabled: true, IntervalMinutes: 5})
	if err := h.sched.Reschedule(ctx, 8); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}

	if got := h.sched.Interval(8); got != 5*time.Minute {
		t.Fatalf("interval = %s, want 5m", got)
	}
	if h.sched.ThreadID(8) != 12 {
		t.Fatalf("thread = %d, want 12", h.sched.ThreadID(8))
	}
	if h.jobs.live() != 1 {
		t.Fatalf("live jobs = %d, want 1", h.jobs.live())
	}

	h.settings.set(settings.Settings{ChatID: 8, Enabled: false, IntervalMinutes: 5})
	if err := h.sched.Reschedule(ctx, 8); err != nil {
		t.Fatalf("Reschedule disabled: %v", err)
	}
	if h.sched.IsRunning(8) {
		t.Fatal("disabled chat kept a timer after Reschedule")
	}
}

func TestStopAll(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	for _, chatID := range []int64{1, 2, 3} {
		if _, err := h.sched.Start(chatID, 1); err != nil {
			t.Fatalf("Start(%d): %v", chatID, err)
		}
	}
	if got := h.sched.Active(); len(got) != 3 || got[0] != 1 {
		t.Fatalf("Active = %v", got)
	}

	h.sched.StopAll()
	if h.jobs.live() != 0 || len(h.sched.Active()) != 0 {
		t.Fatalf("live jobs=%d active=%v after StopAll", h.jobs.live(), h.sched.Active())
	}
	if started, _ := h.sched.Start(1, 1); started {
		t.Fatal("Start succeeded after StopAll")
	}
}

func TestWithGocron(t *testing.T) {
	t.Parallel()

	jobs, err := scheduler.New(logger.Discard())
	if err != nil {
		t.Fatalf("scheduler.New: %v", err)
	}
	jobs.Start()
	t.Cleanup(func() { _ = jobs.Stop() })

	poster := &fakePoster{}
	sched := New(jobs, newFakeSettings(), poster, &fakeReporter{}, nil, logger.Discard(),
		Options{IntervalUnit: 10 * time.Millisecond, TickTimeout: time.Second})
	t.Cleanup(sched.StopAll)

	if _, err := sched.Start(-100, 2); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for poster.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if poster.count() < 2 {
		t.Fatalf("got %d posts, want at least 2", poster.count())
	}

	sched.Stop(-100)
	time.Sleep(50 * time.Millisecond)
	after := poster.count()
	time.Sleep(100 * time.Millisecond)
	if poster.count() != after {
		t.Fatalf("posts continued after Stop: %d -> %d", after, poster.count())
	}
}
