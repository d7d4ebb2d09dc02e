package database

import (
	"time"
)

// User is a Telegram account seen by the bot. UserID is the Telegram user ID.
type User struct {
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// DisplayName returns the best human-readable name for the user.
func (u User) DisplayName() string {
	switch {
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

// MessageStat is the per-(user, chat) message counter.
type MessageStat struct {
	UserID        int64     `db:"user_id"`
	ChatID        int64     `db:"chat_id"`
	MessageCount  int64     `db:"message_count"`
	LastMessageAt time.Time `db:"last_message_at"`
}

// UserChatStats is a user's counter in one chat joined with their current rank, if any.
type UserChatStats struct {
	User
	MessageCount  int64     `db:"message_count"`
	LastMessageAt time.Time `db:"last_message_at"`
	RankName      string    `db:"rank_name"`
	RankEmoji     string    `db:"rank_emoji"`
}

// ChatSummary aggregates the counters of one chat.
type ChatSummary struct {
	TotalUsers    int64 `db:"total_users"`
	TotalMessages int64 `db:"total_messages"`
	MaxMessages   int64 `db:"max_messages"`
}

// Rank is one tier of a ranking ladder.
type Rank struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Category    string `db:"category"`
	MinMessages int64  `db:"min_messages"`
	Description string `db:"description"`
	Emoji       string `db:"emoji"`
}

// ChatSettings controls auto-posting for one chat.
type ChatSettings struct {
	ID              int64     `db:"id"`
	ChatID          int64     `db:"chat_id"`
	JokesEnabled    bool      `db:"jokes_enabled"`
	IntervalMinutes int       `db:"interval_minutes"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// ChatSettingsUpdate is a partial update; nil fields are left unchanged.
type ChatSettingsUpdate struct {
	JokesEnabled    *bool
	IntervalMinutes *int
}

// Joke is a stored joke.
type Joke struct {
	ID        int64     `db:"id"`
	Content   string    `db:"content"`
	Category  string    `db:"category"`
	UsedCount int64     `db:"used_count"`
	CreatedAt time.Time `db:"created_at"`
}

// JokeCategoryStats summarizes jokes of one category.
type JokeCategoryStats struct {
	Category string `db:"category"`
	Count    int64  `db:"count"`
	Usage    int64  `db:"usage"`
}

// Admin is a user granted admin commands at runtime.
type Admin struct {
	ID         int64     `db:"id"`
	TelegramID int64     `db:"telegram_id"`
	AddedBy    int64     `db:"added_by"`
	AddedAt    time.Time `db:"added_at"`
}

// Notification is an admin announcement posted to a chat.
type Notification struct {
	ID      int64     `db:"id"`
	ChatID  int64     `db:"chat_id"`
	Message string    `db:"message"`
	SentBy  int64     `db:"sent_by"`
	SentAt  time.Time `db:"sent_at"`
}

// Reaction types.
const (
	ReactionMessage = "message"
	ReactionSticker = "sticker"
)

// Reaction is a canned reply to group chatter. Content is the text, or the
// sticker file ID when Type is ReactionSticker. An empty TriggerText makes the
// reaction eligible only for random picks.
type Reaction struct {
	ID          int64     `db:"id"`
	TriggerText string    `db:"trigger_text"`
	Type        string    `db:"reaction_type"`
	Content     string    `db:"reaction_content"`
	Category    string    `db:"category"`
	CreatedAt   time.Time `db:"created_at"`
}
