// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminOnly lets a command through only for the configured admin or a user in
// the admins table. Everyone else gets the unauthorized message.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				return
			}

			msg := update.Message
			log := deps.Logger.With("middleware", "AdminOnly")

			allowed, err := isAdmin(ctx, deps, msg.From.ID)
			if err != nil {
				log.ErrorContext(ctx, "Failed to check admin rights", "user_id", msg.From.ID, "error", err)
				reply(ctx, deps, msg, deps.Config.Messages.GeneralError)
				return
			}
			if !allowed {
				log.WarnContext(ctx, "Unauthorized access attempt", "user_id", msg.From.ID, "chat_id", msg.Chat.ID)
				reply(ctx, deps, msg, deps.Config.Messages.Unauthorized)
				return
			}

			next(ctx, bot, update)
		}
	}
}

func isAdmin(ctx context.Context, deps HandlerDeps, userID int64) (bool, error) {
	if userID == deps.Config.Telegram.AdminUserID {
		return true, nil
	}
	return deps.Store.IsAdmin(ctx, userID)
}
