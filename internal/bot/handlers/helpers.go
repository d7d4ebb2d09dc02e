package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot/models"
)

// reply answers msg in its chat and topic. Send failures are logged only.
func reply(ctx context.Context, deps HandlerDeps, msg *models.Message, text string) {
	if err := deps.Sender.SendText(ctx, msg.Chat.ID, msg.MessageThreadID, text); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to send reply", "chat_id", msg.Chat.ID, "error", err)
	}
}

// commandArgs returns the text after the command word, so "/addjoke@bot a b" yields "a b".
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	if i := strings.IndexAny(text, " \n\t"); i >= 0 {
		return strings.TrimSpace(text[i+1:])
	}
	return ""
}

// isGroup reports whether the chat is a group or supergroup.
func isGroup(chat models.Chat) bool {
	return chat.Type == models.ChatTypeGroup || chat.Type == models.ChatTypeSupergroup
}

// displayName renders a Telegram user the way rank announcements and tops show users.
func displayName(u *models.User) string {
	switch {
	case u == nil:
		return "user"
	case u.Username != "":
		return "@" + u.Username
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return "user"
	}
}

// withBotName substitutes the bot's @username into help texts.
func withBotName(deps HandlerDeps, text string) string {
	if deps.Config.Telegram.BotUsername == "" {
		return text
	}
	return strings.ReplaceAll(text, "@botname", "@"+deps.Config.Telegram.BotUsername)
}
