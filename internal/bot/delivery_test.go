package bot_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/edgard/jokebot/internal/bot"
	"github.com/edgard/jokebot/internal/config"
	"github.com/edgard/jokebot/internal/database"
	"github.com/edgard/jokebot/internal/events"
	"github.com/edgard/jokebot/internal/logger"
)

type message struct {
	chatID   int64
	threadID int
	text     string
}

type fakeSender struct {
	mu   sync.Mutex
	msgs []message
	err  error
}

func (f *fakeSender) SendText(_ context.Context, chatID int64, threadID int, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, message{chatID, threadID, text})
	return f.err
}

type fakeRecorder struct {
	mu   sync.Mutex
	rows []database.Notification
}

func (f *fakeRecorder) RecordNotification(_ context.Context, n *database.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, *n)
	return nil
}

func newDelivery(t *testing.T) (*events.Dispatcher, *fakeSender, *fakeRecorder, func()) {
	t.Helper()
	sender := &fakeSender{}
	recorder := &fakeRecorder{}
	d := events.NewDispatcher(logger.Discard())
	messages := config.MessagesConfig{RankEarned: "%s|%s|%s|%s"}
	unsubscribe := bot.NewDelivery(sender, recorder, messages, logger.Discard()).Subscribe(d)
	return d, sender, recorder, unsubscribe
}

func TestDeliveryAnnouncesRank(t *testing.T) {
	t.Parallel()
	d, sender, _, _ := newDelivery(t)

	err := d.Publish(context.Background(), events.RankEarned{
		Meta:        events.Now(),
		UserID:      7,
		ChatID:      -1,
		ThreadID:    3,
		DisplayName: "@ann",
		Rank:        events.RankInfo{Name: "Agent", Emoji: "🕵️", Description: "Reliable"},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(sender.msgs) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.msgs))
	}
	want := message{chatID: -1, threadID: 3, text: "@ann|🕵️|Agent|Reliable"}
	if sender.msgs[0] != want {
		t.Errorf("sent %+v, want %+v", sender.msgs[0], want)
	}
}

func TestDeliverySendsJokeToThread(t *testing.T) {
	t.Parallel()
	d, sender, _, _ := newDelivery(t)

	if err := d.Publish(context.Background(), events.JokeSent{Meta: events.Now(), ChatID: -5, ThreadID: 9, Content: "knock knock"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	want := message{chatID: -5, threadID: 9, text: "😄 knock knock"}
	if len(sender.msgs) != 1 || sender.msgs[0] != want {
		t.Errorf("sent %+v, want [%+v]", sender.msgs, want)
	}
}

func TestDeliverySendFailureIsReturned(t *testing.T) {
	t.Parallel()
	d, sender, _, _ := newDelivery(t)
	sender.err = errors.New("telegram down")

	err := d.Publish(context.Background(), events.JokeSent{Meta: events.Now(), ChatID: -5, Content: "x"})
	if !errors.Is(err, sender.err) {
		t.Errorf("err = %v, want %v", err, sender.err)
	}
}

func TestDeliveryRecordsNotification(t *testing.T) {
	t.Parallel()
	d, _, recorder, _ := newDelivery(t)

	e := events.NotificationSent{Meta: events.Now(), ChatID: -2, SentBy: 1, Message: "hello"}
	if err := d.Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(recorder.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(recorder.rows))
	}
	row := recorder.rows[0]
	if row.ChatID != -2 || row.SentBy != 1 || row.Message != "hello" || !row.SentAt.Equal(e.At) {
		t.Errorf("row = %+v", row)
	}
}

func TestDeliveryUnsubscribe(t *testing.T) {
	t.Parallel()
	d, sender, _, unsubscribe := newDelivery(t)
	unsubscribe()

	if err := d.Publish(context.Background(), events.JokeSent{Meta: events.Now(), ChatID: -5, Content: "x"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(sender.msgs) != 0 {
		t.Errorf("sent %d messages after unsubscribe", len(sender.msgs))
	}
}
