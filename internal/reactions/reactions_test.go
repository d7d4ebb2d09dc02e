package reactions_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/edgard/jokebot/internal/database"
	"github.com/edgard/jokebot/internal/logger"
	"github.com/edgard/jokebot/internal/reactions"
)

type delivery struct {
	chatID   int64
	threadID int
	kind     string
	content  string
}

type fakeSender struct {
	sent []delivery
	err  error
}

func (f *fakeSender) SendText(_ context.Context, chatID int64, threadID int, text string) error {
	f.sent = append(f.sent, delivery{chatID, threadID, "text", text})
	return f.err
}

func (f *fakeSender) SendSticker(_ context.Context, chatID int64, threadID int, fileID string) error {
	f.sent = append(f.sent, delivery{chatID, threadID, "sticker", fileID})
	return f.err
}

func newStore(t *testing.T, rs ...database.Reaction) database.Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "reactions.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	store := database.NewStore(db, logger.Discard())
	for i := range rs {
		if err := store.AddReaction(context.Background(), &rs[i]); err != nil {
			t.Fatalf("AddReaction: %v", err)
		}
	}
	return store
}

func always() float64 { return 0 }

func never() float64 { return 0.99 }

func TestMatch(t *testing.T) {
	t.Parallel()
	list := []database.Reaction{
		{ID: 1, Content: "random only"},
		{ID: 2, TriggerText: "Hello", Content: "hi"},
		{ID: 3, TriggerText: "hello there", Content: "general kenobi"},
	}
	tests := []struct {
		text string
		want int64
	}{
		{"well HELLO there", 2},
		{"nothing here", 0},
		{"", 0},
	}
	for _, tt := range tests {
		got := reactions.Match(list, tt.text)
		switch {
		case tt.want == 0 && got != nil:
			t.Errorf("Match(%q) = %+v, want nil", tt.text, got)
		case tt.want != 0 && (got == nil || got.ID != tt.want):
			t.Errorf("Match(%q) = %+v, want id %d", tt.text, got, tt.want)
		}
	}
}

func TestReactTriggerWinsOverChance(t *testing.T) {
	t.Parallel()
	store := newStore(t,
		database.Reaction{Content: "😂"},
		database.Reaction{TriggerText: "deploy", Content: "not on friday"},
	)
	sender := &fakeSender{}
	svc := reactions.NewService(store, sender, nil, reactions.Options{RandomChance: 0, Roll: never})

	got, err := svc.React(context.Background(), -100, 5, "Time to DEPLOY")
	if err != nil || got == nil || got.Content != "not on friday" {
		t.Fatalf("React = %+v, %v", got, err)
	}
	want := delivery{-100, 5, "text", "not on friday"}
	if len(sender.sent) != 1 || sender.sent[0] != want {
		t.Fatalf("sent %+v, want %+v", sender.sent, want)
	}
}

func TestReactRandom(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		chance float64
		roll   func() float64
		sent   int
	}{
		{"roll under chance", 1, always, 1},
		{"roll over chance", 0.5, never, 0},
		{"disabled", 0, always, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newStore(t, database.Reaction{Type: database.ReactionSticker, Content: "CAACAgIAAx"})
			sender := &fakeSender{}
			svc := reactions.NewService(store, sender, nil, reactions.Options{RandomChance: tt.chance, Roll: tt.roll})

			if _, err := svc.React(context.Background(), -1, 0, "plain message"); err != nil {
				t.Fatalf("React: %v", err)
			}
			if len(sender.sent) != tt.sent {
				t.Fatalf("sent %+v, want %d deliveries", sender.sent, tt.sent)
			}
			if tt.sent == 1 && sender.sent[0].kind != "sticker" {
				t.Errorf("delivery = %+v, want a sticker", sender.sent[0])
			}
		})
	}
}

func TestReactEmptyStore(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	svc := reactions.NewService(newStore(t), sender, nil, reactions.Options{RandomChance: 1, Roll: always})

	got, err := svc.React(context.Background(), -1, 0, "anything")
	if err != nil || got != nil || len(sender.sent) != 0 {
		t.Fatalf("React = %+v, %v, sent %+v", got, err, sender.sent)
	}
}

func TestReactSendFailure(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	store := newStore(t, database.Reaction{TriggerText: "hi", Content: "hey"})
	svc := reactions.NewService(store, &fakeSender{err: boom}, nil, reactions.Options{})

	if _, err := svc.React(context.Background(), -1, 0, "hi all"); !errors.Is(err, boom) {
		t.Fatalf("React = %v, want %v", err, boom)
	}
}
