package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/edgard/jokebot/internal/logger"
	"github.com/edgard/jokebot/internal/metrics"
)

// Publisher is what producers of events depend on.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type listener struct {
	id   uint64
	name string
	fn   func(ctx context.Context, e Event) error
}

// Dispatcher delivers events to the listeners subscribed to their type.
// It is safe for concurrent use.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]listener
	seq       atomic.Uint64
	logger    *slog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = logger.Discard()
	}
	return &Dispatcher{
		listeners: make(map[string][]listener),
		logger:    log.With("component", "events"),
	}
}

// Subscribe registers fn for events of type E under name and returns a
// function that removes the subscription.
func Subscribe[E Event](d *Dispatcher, name string, fn func(ctx context.Context, e E) error) (unsubscribe func()) {
	var zero E
	key := zero.Name()

	l := listener{
		id:   d.seq.Add(1),
		name: name,
		fn: func(ctx context.Context, e Event) error {
			typed, ok := e.(E)
			if !ok {
				return fmt.Errorf("listener %s: unexpected event type %T", name, e)
			}
			return fn(ctx, typed)
		},
	}

	d.mu.Lock()
	d.listeners[key] = append(d.listeners[key], l)
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { d.remove(key, l.id) })
	}
}

func (d *Dispatcher) remove(key string, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	current := d.listeners[key]
	kept := make([]listener, 0, len(current))
	for _, l := range current {
		if l.id != id {
			kept = append(kept, l)
		}
	}
	d.listeners[key] = kept
}

// Publish runs every listener of e's type concurrently and waits for all of them.
// A failing or panicking listener does not affect the others; failures are
// logged, counted and returned joined.
func (d *Dispatcher) Publish(ctx context.Context, e Event) error {
	if e == nil {
		return errors.New("publish nil event")
	}

	d.mu.RLock()
	subs := append([]listener(nil), d.listeners[e.Name()]...)
	d.mu.RUnlock()

	if len(subs) == 0 {
		return nil
	}

	results := make([]error, len(subs))
	var wg sync.WaitGroup
	for i, l := range subs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = d.invoke(ctx, l, e)
		}()
	}
	wg.Wait()

	return errors.Join(results...)
}

func (d *Dispatcher) invoke(ctx context.Context, l listener, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener %s panicked: %v", l.name, r)
			d.logger.ErrorContext(ctx, "Event listener panicked",
				"event", e.Name(), "listener", l.name, "panic", r, "stack", string(debug.Stack()))
			metrics.ListenerFailures.WithLabelValues(e.Name()).Inc()
		}
	}()

	if err := l.fn(ctx, e); err != nil {
		d.logger.ErrorContext(ctx, "Event listener failed", "event", e.Name(), "listener", l.name, "error", err)
		metrics.ListenerFailures.WithLabelValues(e.Name()).Inc()
		return fmt.Errorf("listener %s: %w", l.name, err)
	}
	return nil
}
