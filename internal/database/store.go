package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/jokebot/internal/errs"
	"github.com/edgard/jokebot/internal/logger"
)

// Store defines the interface for database operations.
// Every failure is returned as an errs database error.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error

	// UpsertUser inserts the user or refreshes their names.
	UpsertUser(ctx context.Context, user *User) error

	// GetUser returns the user, or nil, nil if unknown.
	GetUser(ctx context.Context, userID int64) (*User, error)

	// IncrementMessageCount adds one to the user's counter in chatID and returns the new value.
	// The user must already exist.
	IncrementMessageCount(ctx context.Context, userID, chatID int64) (int64, error)

	// GetUserStats returns the user's counter in chatID with their rank, or nil, nil if none.
	GetUserStats(ctx context.Context, userID, chatID int64) (*UserChatStats, error)

	// TopUsers returns the chat's top 'limit' users by message count.
	TopUsers(ctx context.Context, chatID int64, limit int) ([]UserChatStats, error)

	// ChatStats returns every counted user of chatID ordered like TopUsers.
	ChatStats(ctx context.Context, chatID int64) ([]UserChatStats, error)

	// ChatSummary aggregates the counters of chatID.
	ChatSummary(ctx context.Context, chatID int64) (*ChatSummary, error)

	// ListRanks returns the ranks of category (all when empty) ordered by threshold then id.
	ListRanks(ctx context.Context, category string) ([]Rank, error)

	// CountRanks returns the number of stored ranks.
	CountRanks(ctx context.Context) (int64, error)

	// CreateRank inserts a rank and sets its ID.
	CreateRank(ctx context.Context, rank *Rank) error

	// GetUserRank returns the user's current rank, or nil, nil if none.
	GetUserRank(ctx context.Context, userID int64) (*Rank, error)

	// AssignRank sets the user's current rank, replacing any previous one.
	AssignRank(ctx context.Context, userID, rankID int64) error

	// GetOrCreateChatSettings returns the chat's settings, inserting defaults on first access.
	GetOrCreateChatSettings(ctx context.Context, chatID int64) (*ChatSettings, error)

	// UpdateChatSettings applies the non-nil fields of update and returns the new settings.
	UpdateChatSettings(ctx context.Context, chatID int64, update ChatSettingsUpdate) (*ChatSettings, error)

	// AddJoke inserts a joke and sets its ID.
	AddJoke(ctx context.Context, joke *Joke) error

	// CountJokes returns the number of stored jokes.
	CountJokes(ctx context.Context) (int64, error)

	// RandomJoke picks a random joke of category (any when empty). Returns nil, nil if none.
	RandomJoke(ctx context.Context, category string) (*Joke, error)

	// MarkJokeSent bumps the joke's usage and records it in the chat's history atomically.
	MarkJokeSent(ctx context.Context, jokeID, chatID int64) error

	// ListJokes returns up to 'limit' jokes, most used first.
	ListJokes(ctx context.Context, limit int) ([]Joke, error)

	// JokeStats summarizes jokes per category.
	JokeStats(ctx context.Context) ([]JokeCategoryStats, error)

	// AddAdmin grants admin rights. Adding an existing admin is a no-op.
	AddAdmin(ctx context.Context, telegramID, addedBy int64) error

	// RemoveAdmin revokes admin rights and reports whether a row was removed.
	RemoveAdmin(ctx context.Context, telegramID int64) (bool, error)

	// IsAdmin reports whether telegramID was granted admin rights.
	IsAdmin(ctx context.Context, telegramID int64) (bool, error)

	// ListAdmins returns all runtime admins.
	ListAdmins(ctx context.Context) ([]Admin, error)

	// RecordNotification stores a sent admin announcement.
	RecordNotification(ctx context.Context, n *Notification) error

	// ListNotifications returns the chat's latest 'limit' announcements, newest first.
	ListNotifications(ctx context.Context, chatID int64, limit int) ([]Notification, error)

	// AddReaction inserts a reaction and sets its ID.
	AddReaction(ctx context.Context, reaction *Reaction) error

	// CountReactions returns the number of stored reactions.
	CountReactions(ctx context.Context) (int64, error)

	// ListReactions returns all reactions in insertion order.
	ListReactions(ctx context.Context) ([]Reaction, error)

	// RandomReaction picks a random reaction. Returns nil, nil if none.
	RandomReaction(ctx context.Context) (*Reaction, error)
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, log *slog.Logger) Store {
	if log == nil {
		log = logger.Discard()
	}
	return &sqlxStore{
		db:     db,
		logger: log.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errs.NewDatabaseError("ping", err)
	}
	return nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Running SQL maintenance")
	start := time.Now()

	for _, stmt := range []string{"PRAGMA optimize;", "VACUUM;", "ANALYZE;"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.logger.ErrorContext(ctx, "SQL maintenance statement failed", "statement", stmt, "error", err)
			return errs.NewDatabaseError("sql maintenance "+stmt, err)
		}
	}

	s.logger.InfoContext(ctx, "SQL maintenance finished", "duration", time.Since(start))
	return nil
}

func (s *sqlxStore) UpsertUser(ctx context.Context, user *User) error {
	if user == nil || user.UserID == 0 {
		return errs.NewValidationError("user must have a non-zero user_id", nil)
	}
	now := time.Now().UTC()
	user.UpdatedAt = now
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}

	query := `
        INSERT INTO users (user_id, username, first_name, last_name, created_at, updated_at)
        VALUES (:user_id, :username, :first_name, :last_name, :created_at, :updated_at)
        ON CONFLICT (user_id) DO UPDATE SET
            username = excluded.username,
            first_name = excluded.first_name,
            last_name = excluded.last_name,
            updated_at = excluded.updated_at;
    `
	if _, err := s.db.NamedExecContext(ctx, query, user); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting user", "user_id", user.UserID, "error", err)
		return errs.NewDatabaseError(fmt.Sprintf("upsert user %d", user.UserID), err)
	}
	return nil
}

func (s *sqlxStore) GetUser(ctx context.Context, userID int64) (*User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, `SELECT * FROM users WHERE user_id = ?`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.NewDatabaseError(fmt.Sprintf("get user %d", userID), err)
	}
	return &user, nil
}

func (s *sqlxStore) IncrementMessageCount(ctx context.Context, userID, chatID int64) (int64, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errs.NewDatabaseError("begin transaction", err)
	}
	defer s.rollback(ctx, tx)

	_, err = tx.ExecContext(ctx, `
        INSERT INTO message_stats (user_id, chat_id, message_count, last_message_at, created_at, updated_at)
        VALUES (?, ?, 1, ?, ?, ?)
        ON CONFLICT (user_id, chat_id) DO UPDATE SET
            message_count = message_count + 1,
            last_message_at = excluded.last_message_at,
            updated_at = excluded.updated_at;
    `, userID, chatID, now, now, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error incrementing message count", "user_id", userID, "chat_id", chatID, "error", err)
		return 0, errs.NewDatabaseError(fmt.Sprintf("increment message count (user %d, chat %d)", userID, chatID), err)
	}

	var count int64
	err = tx.GetContext(ctx, &count,
		`SELECT message_count FROM message_stats WHERE user_id = ? AND chat_id = ?`, userID, chatID)
	if err != nil {
		return 0, errs.NewDatabaseError("read message count", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, errs.NewDatabaseError("commit message count", err)
	}
	return count, nil
}

const userStatsColumns = `
    u.user_id, u.username, u.first_name, u.last_name, u.created_at, u.updated_at,
    ms.message_count, ms.last_message_at,
    COALESCE(r.name, '') AS rank_name,
    COALESCE(r.emoji, '') AS rank_emoji`

const userStatsJoins = `
    FROM message_stats ms
    JOIN users u ON u.user_id = ms.user_id
    LEFT JOIN user_ranks ur ON ur.user_id = ms.user_id
    LEFT JOIN ranks r ON r.id = ur.rank_id`

func (s *sqlxStore) GetUserStats(ctx context.Context, userID, chatID int64) (*UserChatStats, error) {
	var stats UserChatStats
	query := `SELECT` + userStatsColumns + userStatsJoins + `
    WHERE ms.user_id = ? AND ms.chat_id = ?`
	if err := s.db.GetContext(ctx, &stats, query, userID, chatID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.NewDatabaseError(fmt.Sprintf("get stats (user %d, chat %d)", userID, chatID), err)
	}
	return &stats, nil
}

func (s *sqlxStore) TopUsers(ctx context.Context, chatID int64, limit int) ([]UserChatStats, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT` + userStatsColumns + userStatsJoins + `
    WHERE ms.chat_id = ?
    ORDER BY ms.message_count DESC, u.user_id ASC
    LIMIT ?`
	var top []UserChatStats
	if err := s.db.SelectContext(ctx, &top, query, chatID, limit); err != nil {
		return nil, errs.NewDatabaseError(fmt.Sprintf("top users in chat %d", chatID), err)
	}
	return top, nil
}

func (s *sqlxStore) ChatStats(ctx context.Context, chatID int64) ([]UserChatStats, error) {
	query := `SELECT` + userStatsColumns + userStatsJoins + `
    WHERE ms.chat_id = ?
    ORDER BY ms.message_count DESC, u.user_id ASC`
	var all []UserChatStats
	if err := s.db.SelectContext(ctx, &all, query, chatID); err != nil {
		return nil, errs.NewDatabaseError(fmt.Sprintf("stats of chat %d", chatID), err)
	}
	return all, nil
}

func (s *sqlxStore) ChatSummary(ctx context.Context, chatID int64) (*ChatSummary, error) {
	var summary ChatSummary
	err := s.db.GetContext(ctx, &summary, `
        SELECT COUNT(*) AS total_users,
               COALESCE(SUM(message_count), 0) AS total_messages,
               COALESCE(MAX(message_count), 0) AS max_messages
        FROM message_stats WHERE chat_id = ?`, chatID)
	if err != nil {
		return nil, errs.NewDatabaseError(fmt.Sprintf("summary of chat %d", chatID), err)
	}
	return &summary, nil
}

func (s *sqlxStore) ListRanks(ctx context.Context, category string) ([]Rank, error) {
	var ranks []Rank
	err := s.db.SelectContext(ctx, &ranks, `
        SELECT * FROM ranks
        WHERE ? = '' OR category = ?
        ORDER BY min_messages ASC, id ASC`, category, category)
	if err != nil {
		return nil, errs.NewDatabaseError("list ranks", err)
	}
	return ranks, nil
}

func (s *sqlxStore) CountRanks(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM ranks`); err != nil {
		return 0, errs.NewDatabaseError("count ranks", err)
	}
	return n, nil
}

func (s *sqlxStore) CreateRank(ctx context.Context, rank *Rank) error {
	if rank == nil || rank.Name == "" {
		return errs.NewValidationError("rank must have a name", nil)
	}
	if rank.MinMessages < 0 {
		return errs.NewValidationError("rank threshold must not be negative", nil)
	}
	res, err := s.db.NamedExecContext(ctx, `
        INSERT INTO ranks (name, category, min_messages, description, emoji)
        VALUES (:name, :category, :min_messages, :description, :emoji)`, rank)
	if err != nil {
		return errs.NewDatabaseError("create rank "+rank.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errs.NewDatabaseError("rank id", err)
	}
	rank.ID = id
	return nil
}

func (s *sqlxStore) GetUserRank(ctx context.Context, userID int64) (*Rank, error) {
	var rank Rank
	err := s.db.GetContext(ctx, &rank, `
        SELECT r.* FROM user_ranks ur
        JOIN ranks r ON r.id = ur.rank_id
        WHERE ur.user_id = ?`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.NewDatabaseError(fmt.Sprintf("get rank of user %d", userID), err)
	}
	return &rank, nil
}

func (s *sqlxStore) AssignRank(ctx context.Context, userID, rankID int64) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO user_ranks (user_id, rank_id, earned_at)
        VALUES (?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE SET
            rank_id = excluded.rank_id,
            earned_at = excluded.earned_at`, userID, rankID, time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error assigning rank", "user_id", userID, "rank_id", rankID, "error", err)
		return errs.NewDatabaseError(fmt.Sprintf("assign rank %d to user %d", rankID, userID), err)
	}
	return nil
}

func (s *sqlxStore) GetOrCreateChatSettings(ctx context.Context, chatID int64) (*ChatSettings, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO chat_settings (chat_id, created_at, updated_at)
        VALUES (?, ?, ?)`, chatID, now, now)
	if err != nil {
		return nil, errs.NewDatabaseError(fmt.Sprintf("create settings for chat %d", chatID), err)
	}
	return s.getChatSettings(ctx, s.db, chatID)
}

func (s *sqlxStore) UpdateChatSettings(ctx context.Context, chatID int64, update ChatSettingsUpdate) (*ChatSettings, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errs.NewDatabaseError("begin transaction", err)
	}
	defer s.rollback(ctx, tx)

	_, err = tx.ExecContext(ctx, `
        INSERT OR IGNORE INTO chat_settings (chat_id, created_at, updated_at)
        VALUES (?, ?, ?)`, chatID, now, now)
	if err != nil {
		return nil, errs.NewDatabaseError(fmt.Sprintf("create settings for chat %d", chatID), err)
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE chat_settings SET
            jokes_enabled = COALESCE(?, jokes_enabled),
            interval_minutes = COALESCE(?, interval_minutes),
            updated_at = ?
        WHERE chat_id = ?`, update.JokesEnabled, update.IntervalMinutes, now, chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating chat settings", "chat_id", chatID, "error", err)
		return nil, errs.NewDatabaseError(fmt.Sprintf("update settings for chat %d", chatID), err)
	}

	settings, err := s.getChatSettings(ctx, tx, chatID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errs.NewDatabaseError("commit chat settings", err)
	}
	return settings, nil
}

func (s *sqlxStore) getChatSettings(ctx context.Context, q sqlx.QueryerContext, chatID int64) (*ChatSettings, error) {
	var settings ChatSettings
	if err := sqlx.GetContext(ctx, q, &settings, `SELECT * FROM chat_settings WHERE chat_id = ?`, chatID); err != nil {
		return nil, errs.NewDatabaseError(fmt.Sprintf("read settings for chat %d", chatID), err)
	}
	return &settings, nil
}

func (s *sqlxStore) AddJoke(ctx context.Context, joke *Joke) error {
	if joke == nil || joke.Content == "" {
		return errs.NewValidationError("joke must have content", nil)
	}
	if joke.Category == "" {
		joke.Category = "general"
	}
	joke.CreatedAt = time.Now().UTC()

	res, err := s.db.NamedExecContext(ctx, `
        INSERT INTO jokes (content, category, used_count, created_at)
        VALUES (:content, :category, :used_count, :created_at)`, joke)
	if err != nil {
		return errs.NewDatabaseError("add joke", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errs.NewDatabaseError("joke id", err)
	}
	joke.ID = id
	return nil
}

func (s *sqlxStore) CountJokes(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM jokes`); err != nil {
		return 0, errs.NewDatabaseError("count jokes", err)
	}
	return n, nil
}

func (s *sqlxStore) RandomJoke(ctx context.Context, category string) (*Joke, error) {
	var joke Joke
	err := s.db.GetContext(ctx, &joke, `
        SELECT * FROM jokes
        WHERE ? = '' OR category = ?
        ORDER BY RANDOM()
        LIMIT 1`, category, category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.NewDatabaseError("random joke", err)
	}
	return &joke, nil
}

func (s *sqlxStore) MarkJokeSent(ctx context.Context, jokeID, chatID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.NewDatabaseError("begin transaction", err)
	}
	defer s.rollback(ctx, tx)

	res, err := tx.ExecContext(ctx, `UPDATE jokes SET used_count = used_count + 1 WHERE id = ?`, jokeID)
	if err != nil {
		return errs.NewDatabaseError(fmt.Sprintf("bump usage of joke %d", jokeID), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NewNotFoundError(fmt.Sprintf("joke %d", jokeID), nil)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO joke_history (joke_id, chat_id, sent_at) VALUES (?, ?, ?)`,
		jokeID, chatID, time.Now().UTC())
	if err != nil {
		return errs.NewDatabaseError(fmt.Sprintf("record joke %d in chat %d", jokeID, chatID), err)
	}

	if err := tx.Commit(); err != nil {
		return errs.NewDatabaseError("commit joke history", err)
	}
	return nil
}

func (s *sqlxStore) ListJokes(ctx context.Context, limit int) ([]Joke, error) {
	if limit <= 0 {
		limit = 20
	}
	var jokes []Joke
	err := s.db.SelectContext(ctx, &jokes, `SELECT * FROM jokes ORDER BY used_count DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, errs.NewDatabaseError("list jokes", err)
	}
	return jokes, nil
}

func (s *sqlxStore) JokeStats(ctx context.Context) ([]JokeCategoryStats, error) {
	var stats []JokeCategoryStats
	err := s.db.SelectContext(ctx, &stats, `
        SELECT category, COUNT(*) AS count, COALESCE(SUM(used_count), 0) AS usage
        FROM jokes GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, errs.NewDatabaseError("joke stats", err)
	}
	return stats, nil
}

func (s *sqlxStore) AddAdmin(ctx context.Context, telegramID, addedBy int64) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO admins (telegram_id, added_by, added_at) VALUES (?, ?, ?)`,
		telegramID, addedBy, time.Now().UTC())
	if err != nil {
		return errs.NewDatabaseError(fmt.Sprintf("add admin %d", telegramID), err)
	}
	return nil
}

func (s *sqlxStore) RemoveAdmin(ctx context.Context, telegramID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM admins WHERE telegram_id = ?`, telegramID)
	if err != nil {
		return false, errs.NewDatabaseError(fmt.Sprintf("remove admin %d", telegramID), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errs.NewDatabaseError("rows affected", err)
	}
	return n > 0, nil
}

func (s *sqlxStore) IsAdmin(ctx context.Context, telegramID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM admins WHERE telegram_id = ?)`, telegramID)
	if err != nil {
		return false, errs.NewDatabaseError(fmt.Sprintf("check admin %d", telegramID), err)
	}
	return exists, nil
}

func (s *sqlxStore) ListAdmins(ctx context.Context) ([]Admin, error) {
	var admins []Admin
	if err := s.db.SelectContext(ctx, &admins, `SELECT * FROM admins ORDER BY added_at ASC, id ASC`); err != nil {
		return nil, errs.NewDatabaseError("list admins", err)
	}
	return admins, nil
}

func (s *sqlxStore) RecordNotification(ctx context.Context, n *Notification) error {
	if n == nil || n.Message == "" {
		return errs.NewValidationError("notification must have a message", nil)
	}
	if n.SentAt.IsZero() {
		n.SentAt = time.Now().UTC()
	}
	res, err := s.db.NamedExecContext(ctx, `
        INSERT INTO notifications (chat_id, message, sent_by, sent_at)
        VALUES (:chat_id, :message, :sent_by, :sent_at)`, n)
	if err != nil {
		return errs.NewDatabaseError(fmt.Sprintf("record notification in chat %d", n.ChatID), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errs.NewDatabaseError("notification id", err)
	}
	n.ID = id
	return nil
}

func (s *sqlxStore) ListNotifications(ctx context.Context, chatID int64, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []Notification
	err := s.db.SelectContext(ctx, &out, `
        SELECT * FROM notifications WHERE chat_id = ?
        ORDER BY sent_at DESC, id DESC LIMIT ?`, chatID, limit)
	if err != nil {
		return nil, errs.NewDatabaseError(fmt.Sprintf("list notifications of chat %d", chatID), err)
	}
	return out, nil
}

func (s *sqlxStore) AddReaction(ctx context.Context, reaction *Reaction) error {
	if reaction == nil || reaction.Content == "" {
		return errs.NewValidationError("reaction must have content", nil)
	}
	if reaction.Type == "" {
		reaction.Type = ReactionMessage
	}
	if reaction.Type != ReactionMessage && reaction.Type != ReactionSticker {
		return errs.NewValidationError(fmt.Sprintf("unknown reaction type %q", reaction.Type), nil)
	}
	if reaction.Category == "" {
		reaction.Category = "general"
	}
	reaction.CreatedAt = time.Now().UTC()

	res, err := s.db.NamedExecContext(ctx, `
        INSERT INTO reactions (trigger_text, reaction_type, reaction_content, category, created_at)
        VALUES (:trigger_text, :reaction_type, :reaction_content, :category, :created_at)`, reaction)
	if err != nil {
		return errs.NewDatabaseError("add reaction", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errs.NewDatabaseError("reaction id", err)
	}
	reaction.ID = id
	return nil
}

func (s *sqlxStore) CountReactions(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM reactions`); err != nil {
		return 0, errs.NewDatabaseError("count reactions", err)
	}
	return n, nil
}

func (s *sqlxStore) ListReactions(ctx context.Context) ([]Reaction, error) {
	var out []Reaction
	if err := s.db.SelectContext(ctx, &out, `SELECT * FROM reactions ORDER BY id ASC`); err != nil {
		return nil, errs.NewDatabaseError("list reactions", err)
	}
	return out, nil
}

func (s *sqlxStore) RandomReaction(ctx context.Context) (*Reaction, error) {
	var r Reaction
	if err := s.db.GetContext(ctx, &r, `SELECT * FROM reactions ORDER BY RANDOM() LIMIT 1`); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.NewDatabaseError("random reaction", err)
	}
	return &r, nil
}

// rollback is deferred after BeginTxx; it is a no-op once the transaction is committed.
func (s *sqlxStore) rollback(ctx context.Context, tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		s.logger.WarnContext(ctx, "Error rolling back transaction", "error", err)
	}
}
