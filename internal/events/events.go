// Package events defines the closed set of domain events and an in-process
// dispatcher that fans them out to typed listeners.
package events

import "time"

// Event is implemented only by the types in this package.
type Event interface {
	// Name identifies the event type, e.g. in logs and metric labels.
	Name() string
	// OccurredAt is when the event was raised.
	OccurredAt() time.Time

	sealed()
}

// Meta carries fields shared by every event.
type Meta struct {
	At time.Time
}

// OccurredAt returns the event time.
func (m Meta) OccurredAt() time.Time { return m.At }

func (Meta) sealed() {}

// Now returns Meta stamped with the current time.
func Now() Meta { return Meta{At: time.Now().UTC()} }

// RankInfo is the part of a rank tier listeners need to announce it.
type RankInfo struct {
	ID          int64
	Name        string
	Category    string
	MinMessages int64
	Description string
	Emoji       string
}

// MessageRecorded is raised after a user's message counter was incremented.
type MessageRecorded struct {
	Meta
	UserID   int64
	ChatID   int64
	ThreadID int
	Count    int64
}

// RankEarned is raised when a user moves to a new rank tier.
type RankEarned struct {
	Meta
	UserID      int64
	ChatID      int64
	ThreadID    int
	DisplayName string
	Rank        RankInfo
	// Previous is nil on the user's first assignment.
	Previous *RankInfo
}

// JokeSent is raised when a joke was picked for a chat and should be delivered.
type JokeSent struct {
	Meta
	ChatID   int64
	ThreadID int
	JokeID   int64
	Content  string
	Category string
	Trigger  string
}

// Joke triggers.
const (
	TriggerCommand  = "command"
	TriggerAutoPost = "autopost"
)

// AutoPostStarted is raised when a chat's repeating joke timer is registered.
type AutoPostStarted struct {
	Meta
	ChatID   int64
	Interval time.Duration
}

// AutoPostStopped is raised when a chat's timer is cancelled.
type AutoPostStopped struct {
	Meta
	ChatID int64
}

// NotificationSent is raised after an admin announcement was posted to a chat.
type NotificationSent struct {
	Meta
	ChatID  int64
	SentBy  int64
	Message string
}

func (MessageRecorded) Name() string  { return "message_recorded" }
func (RankEarned) Name() string       { return "rank_earned" }
func (JokeSent) Name() string         { return "joke_sent" }
func (AutoPostStarted) Name() string  { return "autopost_started" }
func (AutoPostStopped) Name() string  { return "autopost_stopped" }
func (NotificationSent) Name() string { return "notification_sent" }
