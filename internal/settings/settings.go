// Package settings exposes per-chat auto-post settings with defaults created on first access.
package settings

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/edgard/jokebot/internal/database"
	"github.com/edgard/jokebot/internal/errs"
	"github.com/edgard/jokebot/internal/logger"
)

// Defaults applied to a chat seen for the first time.
const (
	DefaultEnabled         = true
	DefaultIntervalMinutes = 30
)

const lookupTimeout = 10 * time.Second

// Store is the persistence the service needs.
type Store interface {
	GetOrCreateChatSettings(ctx context.Context, chatID int64) (*database.ChatSettings, error)
	UpdateChatSettings(ctx context.Context, chatID int64, update database.ChatSettingsUpdate) (*database.ChatSettings, error)
}

// Settings is a chat's auto-post configuration.
type Settings struct {
	ChatID          int64
	Enabled         bool
	IntervalMinutes int
}

// Update is a partial change; nil fields keep their stored value.
type Update struct {
	Enabled         *bool
	IntervalMinutes *int `validate:"omitempty,min=1"`
}

// Service reads and writes chat settings.
type Service struct {
	store    Store
	validate *validator.Validate
	group    singleflight.Group
	logger   *slog.Logger
}

// NewService returns a Service backed by store.
func NewService(store Store, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   log.With("component", "settings"),
	}
}

// GetOrCreate returns the chat's settings, creating the default row on first access.
// Concurrent callers for the same chat share one storage round trip. The shared
// lookup is detached from any single caller's cancellation; each caller stops
// waiting when its own ctx ends.
func (s *Service) GetOrCreate(ctx context.Context, chatID int64) (Settings, error) {
	ch := s.group.DoChan(strconv.FormatInt(chatID, 10), func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()

		row, err := s.store.GetOrCreateChatSettings(lookupCtx, chatID)
		if err != nil {
			return nil, err
		}
		return fromRow(row), nil
	})

	select {
	case <-ctx.Done():
		return Settings{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Settings{}, wrapStorage("get chat settings", res.Err)
		}
		return res.Val.(Settings), nil
	}
}

// Update applies u after validating it. Nothing is written when u is invalid.
func (s *Service) Update(ctx context.Context, chatID int64, u Update) (Settings, error) {
	if err := s.validate.Struct(u); err != nil {
		return Settings{}, errs.NewValidationError("invalid chat settings", err)
	}

	row, err := s.store.UpdateChatSettings(ctx, chatID, database.ChatSettingsUpdate{
		JokesEnabled:    u.Enabled,
		IntervalMinutes: u.IntervalMinutes,
	})
	if err != nil {
		return Settings{}, wrapStorage("update chat settings", err)
	}

	updated := fromRow(row)
	s.logger.InfoContext(ctx, "Chat settings updated",
		"chat_id", chatID, "enabled", updated.Enabled, "interval_minutes", updated.IntervalMinutes)
	return updated, nil
}

// SetEnabled is a shorthand for an Update that only toggles posting.
func (s *Service) SetEnabled(ctx context.Context, chatID int64, enabled bool) (Settings, error) {
	return s.Update(ctx, chatID, Update{Enabled: &enabled})
}

// SetInterval is a shorthand for an Update that only changes the interval.
func (s *Service) SetInterval(ctx context.Context, chatID int64, minutes int) (Settings, error) {
	return s.Update(ctx, chatID, Update{IntervalMinutes: &minutes})
}

func fromRow(row *database.ChatSettings) Settings {
	return Settings{
		ChatID:          row.ChatID,
		Enabled:         row.JokesEnabled,
		IntervalMinutes: row.IntervalMinutes,
	}
}

func wrapStorage(op string, err error) error {
	if errs.Code(err) == errs.CodeDatabase {
		return err
	}
	return errs.NewDatabaseError(op, err)
}
