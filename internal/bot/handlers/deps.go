package handlers

import (
	"context"
	"log/slog"

	"github.com/edgard/jokebot/internal/config"
	"github.com/edgard/jokebot/internal/database"
	"github.com/edgard/jokebot/internal/errs"
	"github.com/edgard/jokebot/internal/events"
	"github.com/edgard/jokebot/internal/jokes"
	"github.com/edgard/jokebot/internal/rank"
	"github.com/edgard/jokebot/internal/settings"
)

// Sender posts a reply. threadID 0 is the chat's main thread.
type Sender interface {
	SendText(ctx context.Context, chatID int64, threadID int, text string) error
}

// Reactor answers group messages with canned reactions.
type Reactor interface {
	React(ctx context.Context, chatID int64, threadID int, text string) (*database.Reaction, error)
}

// AutoPoster controls per-chat joke timers.
type AutoPoster interface {
	EnsureStarted(ctx context.Context, chatID int64, threadID int) error
	Reschedule(ctx context.Context, chatID int64) error
	Stop(chatID int64) bool
}

// RankEvaluator assigns ranks from message counts.
type RankEvaluator interface {
	Evaluate(ctx context.Context, subject rank.Subject, messageCount int64) (rank.Outcome, error)
}

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	Sender   Sender
	Settings *settings.Service
	Jokes    *jokes.Service
	Catalog  *rank.Catalog
	Ranks    RankEvaluator
	AutoPost AutoPoster
	Reactor  Reactor
	Events   events.Publisher
	Reporter errs.Reporter
}
