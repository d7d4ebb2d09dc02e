package jokes_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/edgard/jokebot/internal/database"
	"github.com/edgard/jokebot/internal/errs"
	"github.com/edgard/jokebot/internal/events"
	"github.com/edgard/jokebot/internal/jokes"
	"github.com/edgard/jokebot/internal/logger"
)

func setup(t *testing.T) (*jokes.Service, *events.Dispatcher) {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "jokes.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	d := events.NewDispatcher(logger.Discard())
	return jokes.NewService(database.NewStore(db, logger.Discard()), d, logger.Discard()), d
}

func TestPostJokeEmpty(t *testing.T) {
	t.Parallel()
	svc, _ := setup(t)

	err := svc.PostJoke(context.Background(), 1, 0)
	if !errors.Is(err, jokes.ErrNoJokes) || !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("PostJoke on empty store = %v", err)
	}
}

func TestSendPublishesAndCounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, d := setup(t)

	var got []events.JokeSent
	events.Subscribe(d, "capture", func(_ context.Context, e events.JokeSent) error {
		got = append(got, e)
		return nil
	})

	added, err := svc.AddJoke(ctx, "  knock knock  ", "Tech")
	if err != nil {
		t.Fatalf("AddJoke: %v", err)
	}
	if added.Content != "knock knock" || added.Category != "tech" {
		t.Fatalf("AddJoke normalized to %+v", added)
	}

	if err := svc.PostJoke(ctx, -5, 11); err != nil {
		t.Fatalf("PostJoke: %v", err)
	}
	if _, err := svc.Send(ctx, -5, 0, "TECH", events.TriggerCommand); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := svc.Send(ctx, -5, 0, "animals", events.TriggerCommand); !errors.Is(err, jokes.ErrNoJokes) {
		t.Fatalf("Send unknown category = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("published %d events, want 2", len(got))
	}
	if got[0].ThreadID != 11 || got[0].Trigger != events.TriggerAutoPost || got[1].Trigger != events.TriggerCommand {
		t.Fatalf("events = %+v", got)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalJokes != 1 || stats.TotalUsage != 2 {
		t.Fatalf("Stats = %+v", stats)
	}
}

func TestSendDeliveryFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, d := setup(t)

	events.Subscribe(d, "broken", func(context.Context, events.JokeSent) error {
		return errors.New("chat not found")
	})
	if _, err := svc.AddJoke(ctx, "joke", ""); err != nil {
		t.Fatalf("AddJoke: %v", err)
	}

	err := svc.PostJoke(ctx, 1, 0)
	if !errors.Is(err, errs.ErrDelivery) {
		t.Fatalf("PostJoke = %v, want delivery error", err)
	}
}

func TestAddJokeValidation(t *testing.T) {
	t.Parallel()
	svc, _ := setup(t)

	if _, err := svc.AddJoke(context.Background(), "   ", "general"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("AddJoke blank = %v", err)
	}
}
