package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edgard/jokebot/internal/logger"
	"github.com/edgard/jokebot/internal/resilience"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	b := resilience.NewBreaker(resilience.BreakerConfig{Name: "test", MaxFailures: 2, OpenTimeout: time.Hour}, logger.Discard())
	boom := errors.New("boom")
	fail := func(context.Context) error { return boom }

	for i := range 2 {
		if err := b.Execute(context.Background(), fail); !errors.Is(err, boom) {
			t.Fatalf("call %d: err = %v, want %v", i, err, boom)
		}
	}

	var called bool
	err := b.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen", err)
	}
	if called {
		t.Error("operation ran while the circuit was open")
	}
	if got := b.State(); got != "open" {
		t.Errorf("State() = %q, want open", got)
	}
}

func TestBreakerRecoversAfterTimeout(t *testing.T) {
	t.Parallel()

	b := resilience.NewBreaker(resilience.BreakerConfig{Name: "test", MaxFailures: 1, OpenTimeout: 20 * time.Millisecond}, logger.Discard())
	_ = b.Execute(context.Background(), func(context.Context) error { return errors.New("boom") })

	time.Sleep(50 * time.Millisecond)
	if err := b.Execute(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("probe call: %v", err)
	}
	if got := b.State(); got != "closed" {
		t.Errorf("State() = %q, want closed", got)
	}
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	t.Parallel()

	b := resilience.NewBreaker(resilience.BreakerConfig{Name: "test", MaxFailures: 1, OpenTimeout: time.Hour}, logger.Discard())
	for range 3 {
		_ = b.Execute(context.Background(), func(context.Context) error { return context.Canceled })
	}
	if got := b.State(); got != "closed" {
		t.Errorf("State() = %q, want closed", got)
	}
}
