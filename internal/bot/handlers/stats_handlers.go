package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/jokebot/internal/database"
	"github.com/edgard/jokebot/internal/rank"
)

const (
	topLimit    = 10
	maxTopLimit = 50

	// Telegram rejects texts longer than 4096 characters.
	maxMessageLen = 4000
)

type statsHandlers struct {
	deps HandlerDeps
}

// NewStatsHandler returns a handler for /stats: the sender's count and rank in this chat.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandlers{deps}.stats
}

// NewTopHandler returns a handler for /top [N].
func NewTopHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandlers{deps}.top
}

// NewAllStatsHandler returns a handler for /allstats: every counted member of the chat.
func NewAllStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandlers{deps}.allStats
}

// NewSummaryHandler returns a handler for /summary.
func NewSummaryHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandlers{deps}.summary
}

// NewRankHandler returns a handler for /rank. It shares /stats output.
func NewRankHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandlers{deps}.stats
}

// NewRanksHandler returns a handler for /ranks.
func NewRanksHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandlers{deps}.ranks
}

func (h statsHandlers) stats(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	stats, err := h.deps.Store.GetUserStats(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	if stats == nil {
		reply(ctx, h.deps, msg, fmt.Sprintf(h.deps.Config.Messages.NoUserStats, displayName(msg.From)))
		return
	}

	tiers, err := h.deps.Catalog.Tiers(ctx)
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	var next *database.Rank
	if r, ok := rank.Next(tiers, stats.MessageCount); ok {
		next = &r
	}
	reply(ctx, h.deps, msg, formatUserStats(displayName(msg.From), stats, next))
}

func (h statsHandlers) top(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	top, err := h.deps.Store.TopUsers(ctx, msg.Chat.ID, topSize(commandArgs(msg.Text)))
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	if len(top) == 0 {
		reply(ctx, h.deps, msg, h.deps.Config.Messages.NoChatStats)
		return
	}
	reply(ctx, h.deps, msg, formatTop(top))
}

// topSize parses the optional /top N argument. Missing or invalid values fall
// back to the default and large ones are capped.
func topSize(args string) int {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || n < 1 {
		return topLimit
	}
	return min(n, maxTopLimit)
}

func (h statsHandlers) allStats(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	all, err := h.deps.Store.ChatStats(ctx, msg.Chat.ID)
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	if len(all) == 0 {
		reply(ctx, h.deps, msg, h.deps.Config.Messages.NoChatStats)
		return
	}
	for _, part := range splitMessage(formatAllStats(all), maxMessageLen) {
		reply(ctx, h.deps, msg, part)
	}
}

func (h statsHandlers) summary(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	summary, err := h.deps.Store.ChatSummary(ctx, msg.Chat.ID)
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	top, err := h.deps.Store.TopUsers(ctx, msg.Chat.ID, 1)
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	var leader *database.UserChatStats
	if len(top) > 0 {
		leader = &top[0]
	}
	reply(ctx, h.deps, msg, formatSummary(summary, leader))
}

func (h statsHandlers) ranks(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	tiers, err := h.deps.Catalog.Tiers(ctx)
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	if len(tiers) == 0 {
		reply(ctx, h.deps, msg, h.deps.Config.Messages.NoRanks)
		return
	}
	reply(ctx, h.deps, msg, formatRanks(tiers))
}

func (h statsHandlers) fail(ctx context.Context, msg *models.Message, err error) {
	h.deps.Reporter.Report(ctx, err, "chat_id", msg.Chat.ID)
	reply(ctx, h.deps, msg, h.deps.Config.Messages.GeneralError)
}
