package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"

	"github.com/edgard/jokebot/internal/errs"
	"github.com/edgard/jokebot/internal/logger"
	"github.com/edgard/jokebot/internal/resilience"
)

const (
	sendTimeout       = 10 * time.Second
	defaultRatePerSec = 25
)

// Sender posts text and stickers through a go-telegram client. Sends are paced by a
// global rate limit and go through a circuit breaker that opens after repeated
// transport or server failures.
type Sender struct {
	bot     *bot.Bot
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  *slog.Logger
}

// NewSender returns a Sender for b allowing ratePerSec messages per second
// (25 when ratePerSec <= 0).
func NewSender(b *bot.Bot, log *slog.Logger, ratePerSec int) *Sender {
	if log == nil {
		log = logger.Discard()
	}
	if ratePerSec <= 0 {
		ratePerSec = defaultRatePerSec
	}
	breaker := resilience.NewBreaker(resilience.BreakerConfig{
		Name:         "telegram_send",
		IsSuccessful: countsAsHealthy,
	}, log)
	return &Sender{
		bot:     b,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
		breaker: breaker,
		logger:  log.With("component", "telegram_sender"),
	}
}

// countsAsHealthy keeps per-chat rejections, such as a bot kicked from a group,
// from opening the circuit for every chat.
func countsAsHealthy(err error) bool {
	return err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, bot.ErrorBadRequest) ||
		errors.Is(err, bot.ErrorForbidden)
}

// SendText sends text to chatID. A non-zero threadID targets that forum topic.
func (s *Sender) SendText(ctx context.Context, chatID int64, threadID int, text string) error {
	return s.send(ctx, "message", chatID, threadID, func(ctx context.Context) error {
		_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:          chatID,
			MessageThreadID: threadID,
			Text:            text,
		})
		return err
	})
}

// SendSticker sends the sticker with the given Telegram file ID to chatID.
func (s *Sender) SendSticker(ctx context.Context, chatID int64, threadID int, fileID string) error {
	return s.send(ctx, "sticker", chatID, threadID, func(ctx context.Context) error {
		_, err := s.bot.SendSticker(ctx, &bot.SendStickerParams{
			ChatID:          chatID,
			MessageThreadID: threadID,
			Sticker:         &models.InputFileString{Data: fileID},
		})
		return err
	})
}

func (s *Sender) send(ctx context.Context, kind string, chatID int64, threadID int, call func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return errs.NewDeliveryError(fmt.Sprintf("rate limit wait for chat %d", chatID), err)
	}

	if err := s.breaker.Execute(ctx, call); err != nil {
		s.logger.ErrorContext(ctx, "Failed to send "+kind, "chat_id", chatID, "thread_id", threadID, "error", err)
		return errs.NewDeliveryError(fmt.Sprintf("send %s to chat %d", kind, chatID), err)
	}
	s.logger.DebugContext(ctx, "Sent "+kind, "chat_id", chatID, "thread_id", threadID)
	return nil
}

// TextSender is the part of Sender the admin notifier needs.
type TextSender interface {
	SendText(ctx context.Context, chatID int64, threadID int, text string) error
}

// AdminNotifier forwards error notices to the admin's private chat.
type AdminNotifier struct {
	sender  TextSender
	adminID int64
}

// NewAdminNotifier returns a notifier writing to adminID.
func NewAdminNotifier(sender TextSender, adminID int64) *AdminNotifier {
	return &AdminNotifier{sender: sender, adminID: adminID}
}

// NotifyAdmin sends text to the admin.
func (n *AdminNotifier) NotifyAdmin(ctx context.Context, text string) error {
	return n.sender.SendText(ctx, n.adminID, 0, text)
}
