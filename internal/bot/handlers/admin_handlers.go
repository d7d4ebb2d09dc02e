package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type adminHandlers struct {
	deps HandlerDeps
}

// NewAddAdminHandler returns a handler for /addadmin <user id>.
// Replying to a message with /addadmin promotes that message's author.
func NewAddAdminHandler(deps HandlerDeps) bot.HandlerFunc {
	return adminHandlers{deps}.add
}

// NewRemoveAdminHandler returns a handler for /removeadmin <user id>.
func NewRemoveAdminHandler(deps HandlerDeps) bot.HandlerFunc {
	return adminHandlers{deps}.remove
}

// NewAdminsHandler returns a handler for /admins.
func NewAdminsHandler(deps HandlerDeps) bot.HandlerFunc {
	return adminHandlers{deps}.list
}

func (h adminHandlers) add(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	target, ok := targetUser(msg)
	if !ok {
		reply(ctx, h.deps, msg, h.deps.Config.Messages.MissingArgument)
		return
	}
	if err := h.deps.Store.AddAdmin(ctx, target, msg.From.ID); err != nil {
		h.fail(ctx, msg, err)
		return
	}
	h.deps.Logger.InfoContext(ctx, "Admin added", "admin_id", target, "added_by", msg.From.ID)
	reply(ctx, h.deps, msg, fmt.Sprintf(h.deps.Config.Messages.AdminAdded, target))
}

func (h adminHandlers) remove(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	target, ok := targetUser(msg)
	if !ok || target == h.deps.Config.Telegram.AdminUserID {
		reply(ctx, h.deps, msg, h.deps.Config.Messages.MissingArgument)
		return
	}
	removed, err := h.deps.Store.RemoveAdmin(ctx, target)
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	if !removed {
		reply(ctx, h.deps, msg, h.deps.Config.Messages.NoAdmins)
		return
	}
	h.deps.Logger.InfoContext(ctx, "Admin removed", "admin_id", target, "removed_by", msg.From.ID)
	reply(ctx, h.deps, msg, fmt.Sprintf(h.deps.Config.Messages.AdminRemoved, target))
}

func (h adminHandlers) list(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	admins, err := h.deps.Store.ListAdmins(ctx)
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	reply(ctx, h.deps, msg, formatAdmins(h.deps.Config.Telegram.AdminUserID, admins))
}

func (h adminHandlers) fail(ctx context.Context, msg *models.Message, err error) {
	h.deps.Reporter.Report(ctx, err, "chat_id", msg.Chat.ID)
	reply(ctx, h.deps, msg, h.deps.Config.Messages.GeneralError)
}

// targetUser reads the user id argument, falling back to the replied-to author.
func targetUser(msg *models.Message) (int64, bool) {
	if arg := commandArgs(msg.Text); arg != "" {
		id, err := strconv.ParseInt(arg, 10, 64)
		return id, err == nil && id > 0
	}
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		return msg.ReplyToMessage.From.ID, true
	}
	return 0, false
}
