package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edgard/jokebot/internal/config"
	"github.com/edgard/jokebot/internal/database"
	"github.com/edgard/jokebot/internal/events"
)

// TextSender posts plain text to a chat thread.
type TextSender interface {
	SendText(ctx context.Context, chatID int64, threadID int, text string) error
}

// NotificationRecorder persists admin announcements.
type NotificationRecorder interface {
	RecordNotification(ctx context.Context, n *database.Notification) error
}

// Delivery turns domain events into Telegram messages and audit rows.
type Delivery struct {
	sender   TextSender
	store    NotificationRecorder
	messages config.MessagesConfig
	logger   *slog.Logger
}

// NewDelivery creates the delivery listeners.
func NewDelivery(sender TextSender, store NotificationRecorder, messages config.MessagesConfig, log *slog.Logger) *Delivery {
	return &Delivery{
		sender:   sender,
		store:    store,
		messages: messages,
		logger:   log.With("component", "delivery"),
	}
}

// Subscribe registers the listeners on d. The returned func removes them all.
func (l *Delivery) Subscribe(d *events.Dispatcher) (unsubscribe func()) {
	unsubs := []func(){
		events.Subscribe(d, "announce_rank", l.announceRank),
		events.Subscribe(d, "deliver_joke", l.deliverJoke),
		events.Subscribe(d, "record_notification", l.recordNotification),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (l *Delivery) announceRank(ctx context.Context, e events.RankEarned) error {
	text := fmt.Sprintf(l.messages.RankEarned, e.DisplayName, e.Rank.Emoji, e.Rank.Name, e.Rank.Description)
	if err := l.sender.SendText(ctx, e.ChatID, e.ThreadID, text); err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "Rank announced", "chat_id", e.ChatID, "user_id", e.UserID, "rank", e.Rank.Name)
	return nil
}

func (l *Delivery) deliverJoke(ctx context.Context, e events.JokeSent) error {
	return l.sender.SendText(ctx, e.ChatID, e.ThreadID, "😄 "+e.Content)
}

func (l *Delivery) recordNotification(ctx context.Context, e events.NotificationSent) error {
	return l.store.RecordNotification(ctx, &database.Notification{
		ChatID:  e.ChatID,
		Message: e.Message,
		SentBy:  e.SentBy,
		SentAt:  e.OccurredAt(),
	})
}
