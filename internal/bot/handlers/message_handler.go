package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/jokebot/internal/database"
	"github.com/edgard/jokebot/internal/events"
	"github.com/edgard/jokebot/internal/metrics"
	"github.com/edgard/jokebot/internal/rank"
)

// NewMessageHandler returns the default handler: it greets joining members, counts
// every ordinary message, re-evaluates the sender's rank, reacts to group chatter
// and keeps the group's joke timer running.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "message")

	msg := update.Message
	if msg == nil {
		return
	}
	if len(msg.NewChatMembers) > 0 || msg.LeftChatMember != nil {
		h.handleMembers(ctx, msg)
		return
	}
	if msg.From == nil || msg.From.IsBot {
		return
	}
	if strings.HasPrefix(msg.Text, "/") {
		log.DebugContext(ctx, "Ignoring unknown command", "chat_id", msg.Chat.ID, "text", msg.Text)
		return
	}

	user := &database.User{
		UserID:    msg.From.ID,
		Username:  msg.From.Username,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
	}
	if err := deps.Store.UpsertUser(ctx, user); err != nil {
		deps.Reporter.Report(ctx, err, "chat_id", msg.Chat.ID, "user_id", msg.From.ID)
		return
	}

	count, err := deps.Store.IncrementMessageCount(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		deps.Reporter.Report(ctx, err, "chat_id", msg.Chat.ID, "user_id", msg.From.ID)
		return
	}
	metrics.MessagesRecorded.Inc()

	if err := deps.Events.Publish(ctx, events.MessageRecorded{
		Meta:     events.Now(),
		UserID:   msg.From.ID,
		ChatID:   msg.Chat.ID,
		ThreadID: msg.MessageThreadID,
		Count:    count,
	}); err != nil {
		log.WarnContext(ctx, "MessageRecorded listener failed", "error", err)
	}

	subject := rank.Subject{
		UserID:      msg.From.ID,
		ChatID:      msg.Chat.ID,
		ThreadID:    msg.MessageThreadID,
		DisplayName: displayName(msg.From),
	}
	if _, err := deps.Ranks.Evaluate(ctx, subject, count); err != nil {
		deps.Reporter.Report(ctx, err, "chat_id", msg.Chat.ID, "user_id", msg.From.ID)
	}

	if !isGroup(msg.Chat) {
		return
	}
	if deps.Reactor != nil && msg.Text != "" {
		if _, err := deps.Reactor.React(ctx, msg.Chat.ID, msg.MessageThreadID, msg.Text); err != nil {
			deps.Reporter.Report(ctx, err, "chat_id", msg.Chat.ID, "handler", "reaction")
		}
	}
	if err := deps.AutoPost.EnsureStarted(ctx, msg.Chat.ID, msg.MessageThreadID); err != nil {
		deps.Reporter.Report(ctx, err, "chat_id", msg.Chat.ID)
	}
}

// handleMembers registers and greets joining members and says goodbye to
// leaving ones. Bot accounts are skipped.
func (h messageHandler) handleMembers(ctx context.Context, msg *models.Message) {
	deps := h.deps
	for i := range msg.NewChatMembers {
		member := &msg.NewChatMembers[i]
		if member.IsBot {
			continue
		}
		user := &database.User{
			UserID:    member.ID,
			Username:  member.Username,
			FirstName: member.FirstName,
			LastName:  member.LastName,
		}
		if err := deps.Store.UpsertUser(ctx, user); err != nil {
			deps.Reporter.Report(ctx, err, "chat_id", msg.Chat.ID, "user_id", member.ID)
			continue
		}
		metrics.MembersJoined.Inc()
		reply(ctx, deps, msg, fmt.Sprintf(deps.Config.Messages.MemberWelcome, memberName(member)))
	}

	if left := msg.LeftChatMember; left != nil && !left.IsBot {
		metrics.MembersLeft.Inc()
		reply(ctx, deps, msg, fmt.Sprintf(deps.Config.Messages.MemberLeft, memberName(left)))
	}
}

// memberName prefers the first name, as service messages usually address people by it.
func memberName(u *models.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return displayName(u)
}
