package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/jokebot/internal/errs"
	"github.com/edgard/jokebot/internal/events"
	"github.com/edgard/jokebot/internal/jokes"
)

const jokeListLimit = 20

type jokeHandlers struct {
	deps HandlerDeps
}

// NewJokeHandler returns a handler for /joke [category]. The joke itself is
// delivered by the JokeSent listener.
func NewJokeHandler(deps HandlerDeps) bot.HandlerFunc {
	return jokeHandlers{deps}.joke
}

// NewJokesOnHandler returns a handler for /jokeson.
func NewJokesOnHandler(deps HandlerDeps) bot.HandlerFunc {
	return jokeHandlers{deps}.jokesOn
}

// NewJokesOffHandler returns a handler for /jokesoff.
func NewJokesOffHandler(deps HandlerDeps) bot.HandlerFunc {
	return jokeHandlers{deps}.jokesOff
}

// NewSetIntervalHandler returns a handler for /setinterval N.
func NewSetIntervalHandler(deps HandlerDeps) bot.HandlerFunc {
	return jokeHandlers{deps}.setInterval
}

// NewAddJokeHandler returns a handler for /addjoke [#category] text.
func NewAddJokeHandler(deps HandlerDeps) bot.HandlerFunc {
	return jokeHandlers{deps}.addJoke
}

// NewJokesHandler returns a handler for /jokes.
func NewJokesHandler(deps HandlerDeps) bot.HandlerFunc {
	return jokeHandlers{deps}.list
}

// NewJokeStatsHandler returns a handler for /jokestats.
func NewJokeStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return jokeHandlers{deps}.stats
}

func (h jokeHandlers) joke(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	category := commandArgs(msg.Text)

	_, err := h.deps.Jokes.Send(ctx, msg.Chat.ID, msg.MessageThreadID, category, events.TriggerCommand)
	switch {
	case errors.Is(err, jokes.ErrNoJokes):
		reply(ctx, h.deps, msg, h.deps.Config.Messages.NoJokes)
	case err != nil:
		h.deps.Reporter.Report(ctx, err, "chat_id", msg.Chat.ID, "handler", "joke")
		if errs.Code(err) != errs.CodeDelivery {
			reply(ctx, h.deps, msg, h.deps.Config.Messages.GeneralError)
		}
	}
}

func (h jokeHandlers) jokesOn(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	if _, err := h.deps.Settings.SetEnabled(ctx, msg.Chat.ID, true); err != nil {
		h.fail(ctx, msg, err)
		return
	}
	if isGroup(msg.Chat) {
		if err := h.deps.AutoPost.Reschedule(ctx, msg.Chat.ID); err != nil {
			h.fail(ctx, msg, err)
			return
		}
	}
	reply(ctx, h.deps, msg, h.deps.Config.Messages.JokesEnabled)
}

func (h jokeHandlers) jokesOff(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	if _, err := h.deps.Settings.SetEnabled(ctx, msg.Chat.ID, false); err != nil {
		h.fail(ctx, msg, err)
		return
	}
	h.deps.AutoPost.Stop(msg.Chat.ID)
	reply(ctx, h.deps, msg, h.deps.Config.Messages.JokesDisabled)
}

func (h jokeHandlers) setInterval(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	minutes, err := strconv.Atoi(commandArgs(msg.Text))
	if err != nil {
		reply(ctx, h.deps, msg, h.deps.Config.Messages.InvalidInterval)
		return
	}

	updated, err := h.deps.Settings.SetInterval(ctx, msg.Chat.ID, minutes)
	if errors.Is(err, errs.ErrValidation) {
		reply(ctx, h.deps, msg, h.deps.Config.Messages.InvalidInterval)
		return
	}
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}

	if isGroup(msg.Chat) {
		if err := h.deps.AutoPost.Reschedule(ctx, msg.Chat.ID); err != nil {
			h.fail(ctx, msg, err)
			return
		}
	}
	reply(ctx, h.deps, msg, fmt.Sprintf(h.deps.Config.Messages.IntervalSet, updated.IntervalMinutes))
}

func (h jokeHandlers) addJoke(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	text, category := splitCategory(commandArgs(msg.Text))
	if text == "" {
		reply(ctx, h.deps, msg, h.deps.Config.Messages.MissingArgument)
		return
	}
	if _, err := h.deps.Jokes.AddJoke(ctx, text, category); err != nil {
		h.fail(ctx, msg, err)
		return
	}
	reply(ctx, h.deps, msg, h.deps.Config.Messages.JokeAdded)
}

// splitCategory takes a leading "#category" off args.
func splitCategory(args string) (text, category string) {
	if !strings.HasPrefix(args, "#") {
		return args, ""
	}
	fields := strings.SplitN(args, " ", 2)
	category = strings.TrimPrefix(fields[0], "#")
	if len(fields) == 2 {
		text = strings.TrimSpace(fields[1])
	}
	return text, category
}

func (h jokeHandlers) list(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	list, err := h.deps.Jokes.List(ctx, jokeListLimit)
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	if len(list) == 0 {
		reply(ctx, h.deps, msg, h.deps.Config.Messages.NoJokes)
		return
	}
	reply(ctx, h.deps, msg, formatJokes(list))
}

func (h jokeHandlers) stats(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	stats, err := h.deps.Jokes.Stats(ctx)
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	reply(ctx, h.deps, msg, formatJokeStats(stats))
}

func (h jokeHandlers) fail(ctx context.Context, msg *models.Message, err error) {
	h.deps.Reporter.Report(ctx, err, "chat_id", msg.Chat.ID)
	reply(ctx, h.deps, msg, h.deps.Config.Messages.GeneralError)
}
