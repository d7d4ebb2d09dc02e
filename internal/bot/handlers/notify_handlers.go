package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/jokebot/internal/events"
)

const notificationListLimit = 10

type notifyHandlers struct {
	deps HandlerDeps
}

// NewNotifyHandler returns a handler for /notify text: it posts an announcement
// to the current chat and raises NotificationSent.
func NewNotifyHandler(deps HandlerDeps) bot.HandlerFunc {
	return notifyHandlers{deps}.notify
}

// NewNotificationsHandler returns a handler for /notifications.
func NewNotificationsHandler(deps HandlerDeps) bot.HandlerFunc {
	return notifyHandlers{deps}.list
}

func (h notifyHandlers) notify(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	text := commandArgs(msg.Text)
	if text == "" {
		reply(ctx, h.deps, msg, h.deps.Config.Messages.MissingArgument)
		return
	}

	announcement := h.deps.Config.Messages.NotificationHead + "\n\n" + text
	if err := h.deps.Sender.SendText(ctx, msg.Chat.ID, msg.MessageThreadID, announcement); err != nil {
		h.deps.Reporter.Report(ctx, err, "chat_id", msg.Chat.ID, "handler", "notify")
		return
	}

	err := h.deps.Events.Publish(ctx, events.NotificationSent{
		Meta:    events.Now(),
		ChatID:  msg.Chat.ID,
		SentBy:  msg.From.ID,
		Message: text,
	})
	if err != nil {
		h.deps.Reporter.Report(ctx, err, "chat_id", msg.Chat.ID, "handler", "notify")
	}
}

func (h notifyHandlers) list(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	list, err := h.deps.Store.ListNotifications(ctx, msg.Chat.ID, notificationListLimit)
	if err != nil {
		h.deps.Reporter.Report(ctx, err, "chat_id", msg.Chat.ID)
		reply(ctx, h.deps, msg, h.deps.Config.Messages.GeneralError)
		return
	}
	if len(list) == 0 {
		reply(ctx, h.deps, msg, h.deps.Config.Messages.NoNotifications)
		return
	}
	reply(ctx, h.deps, msg, formatNotifications(list))
}
