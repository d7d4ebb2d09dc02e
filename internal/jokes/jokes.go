// Package jokes picks jokes for chats and keeps their usage statistics.
package jokes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/edgard/jokebot/internal/database"
	"github.com/edgard/jokebot/internal/errs"
	"github.com/edgard/jokebot/internal/events"
	"github.com/edgard/jokebot/internal/logger"
	"github.com/edgard/jokebot/internal/metrics"
)

// ErrNoJokes is returned when no joke matches the request.
var ErrNoJokes = errs.NewNotFoundError("no jokes available", nil)

// Store is the persistence the service needs.
type Store interface {
	AddJoke(ctx context.Context, joke *database.Joke) error
	RandomJoke(ctx context.Context, category string) (*database.Joke, error)
	MarkJokeSent(ctx context.Context, jokeID, chatID int64) error
	ListJokes(ctx context.Context, limit int) ([]database.Joke, error)
	JokeStats(ctx context.Context) ([]database.JokeCategoryStats, error)
}

// Stats summarizes the joke collection.
type Stats struct {
	TotalJokes int64
	TotalUsage int64
	Categories []database.JokeCategoryStats
}

// Service selects jokes and raises JokeSent for delivery.
type Service struct {
	store     Store
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService returns a Service backed by store.
func NewService(store Store, publisher events.Publisher, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    log.With("component", "jokes"),
	}
}

// PostJoke sends a random joke of any category on behalf of the auto-poster.
func (s *Service) PostJoke(ctx context.Context, chatID int64, threadID int) error {
	_, err := s.Send(ctx, chatID, threadID, "", events.TriggerAutoPost)
	return err
}

// Send picks a random joke (of category, when set), records that chatID got it
// and publishes JokeSent. Delivery failures surface as the returned error.
func (s *Service) Send(ctx context.Context, chatID int64, threadID int, category, trigger string) (*database.Joke, error) {
	category = strings.ToLower(strings.TrimSpace(category))

	joke, err := s.store.RandomJoke(ctx, category)
	if err != nil {
		return nil, err
	}
	if joke == nil {
		return nil, ErrNoJokes
	}

	if err := s.store.MarkJokeSent(ctx, joke.ID, chatID); err != nil {
		return nil, err
	}
	metrics.JokesSent.WithLabelValues(trigger).Inc()

	s.logger.InfoContext(ctx, "Joke selected",
		"chat_id", chatID, "thread_id", threadID, "joke_id", joke.ID, "category", joke.Category, "trigger", trigger)

	err = s.publisher.Publish(ctx, events.JokeSent{
		Meta:     events.Now(),
		ChatID:   chatID,
		ThreadID: threadID,
		JokeID:   joke.ID,
		Content:  joke.Content,
		Category: joke.Category,
		Trigger:  trigger,
	})
	if err != nil {
		return joke, errs.NewDeliveryError(fmt.Sprintf("deliver joke %d to chat %d", joke.ID, chatID), err)
	}
	return joke, nil
}

// AddJoke stores a new joke. An empty category becomes "general".
func (s *Service) AddJoke(ctx context.Context, content, category string) (*database.Joke, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errs.NewValidationError("joke text is empty", nil)
	}
	joke := &database.Joke{
		Content:  content,
		Category: strings.ToLower(strings.TrimSpace(category)),
	}
	if err := s.store.AddJoke(ctx, joke); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Joke added", "joke_id", joke.ID, "category", joke.Category)
	return joke, nil
}

// List returns up to limit jokes, most used first.
func (s *Service) List(ctx context.Context, limit int) ([]database.Joke, error) {
	return s.store.ListJokes(ctx, limit)
}

// Stats totals jokes and their usage per category.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	categories, err := s.store.JokeStats(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Categories: categories}
	for _, c := range categories {
		stats.TotalJokes += c.Count
		stats.TotalUsage += c.Usage
	}
	return stats, nil
}
