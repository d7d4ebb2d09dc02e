// Package reactions answers group chatter with canned texts and stickers.
package reactions

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/edgard/jokebot/internal/database"
	"github.com/edgard/jokebot/internal/logger"
	"github.com/edgard/jokebot/internal/metrics"
)

// Store is the persistence the service needs.
type Store interface {
	ListReactions(ctx context.Context) ([]database.Reaction, error)
	RandomReaction(ctx context.Context) (*database.Reaction, error)
}

// Sender delivers a reaction to a chat thread.
type Sender interface {
	SendText(ctx context.Context, chatID int64, threadID int, text string) error
	SendSticker(ctx context.Context, chatID int64, threadID int, fileID string) error
}

// Options tunes the service.
type Options struct {
	// RandomChance is the probability in [0, 1] of answering a message that
	// matches no trigger with a random reaction.
	RandomChance float64
	// Roll returns a float in [0, 1). Defaults to math/rand/v2.
	Roll func() float64
}

// Service picks and sends reactions.
type Service struct {
	store  Store
	sender Sender
	chance float64
	roll   func() float64
	logger *slog.Logger
}

// NewService returns a Service backed by store.
func NewService(store Store, sender Sender, log *slog.Logger, opts Options) *Service {
	if log == nil {
		log = logger.Discard()
	}
	if opts.Roll == nil {
		opts.Roll = rand.Float64
	}
	return &Service{
		store:  store,
		sender: sender,
		chance: opts.RandomChance,
		roll:   opts.Roll,
		logger: log.With("component", "reactions"),
	}
}

// Match returns the first reaction whose trigger occurs in text, ignoring case.
func Match(reactions []database.Reaction, text string) *database.Reaction {
	text = strings.ToLower(text)
	for i := range reactions {
		trigger := strings.ToLower(strings.TrimSpace(reactions[i].TriggerText))
		if trigger != "" && strings.Contains(text, trigger) {
			return &reactions[i]
		}
	}
	return nil
}

// React answers a group message. A trigger match is always sent; otherwise a
// random reaction is sent with the configured chance. The sent reaction is
// returned, or nil when the message got none.
func (s *Service) React(ctx context.Context, chatID int64, threadID int, text string) (*database.Reaction, error) {
	all, err := s.store.ListReactions(ctx)
	if err != nil {
		return nil, err
	}

	pick := "trigger"
	reaction := Match(all, text)
	if reaction == nil {
		if len(all) == 0 || s.chance <= 0 || s.roll() >= s.chance {
			return nil, nil
		}
		pick = "random"
		if reaction, err = s.store.RandomReaction(ctx); err != nil || reaction == nil {
			return nil, err
		}
	}

	if err := s.send(ctx, chatID, threadID, reaction); err != nil {
		return nil, err
	}
	metrics.ReactionsSent.WithLabelValues(pick).Inc()
	s.logger.DebugContext(ctx, "Reaction sent",
		"chat_id", chatID, "thread_id", threadID, "reaction_id", reaction.ID, "pick", pick)
	return reaction, nil
}

func (s *Service) send(ctx context.Context, chatID int64, threadID int, r *database.Reaction) error {
	if r.Type == database.ReactionSticker {
		return s.sender.SendSticker(ctx, chatID, threadID, r.Content)
	}
	return s.sender.SendText(ctx, chatID, threadID, r.Content)
}
