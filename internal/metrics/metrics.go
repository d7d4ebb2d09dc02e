// Package metrics declares the Prometheus collectors exported by jokebot and
// the small HTTP server that exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jokebot_messages_recorded_total",
		Help: "Inbound messages counted towards user statistics",
	})
	RanksEarned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jokebot_ranks_earned_total",
		Help: "Rank transitions persisted, by rank category",
	}, []string{"category"})
	JokesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jokebot_jokes_sent_total",
		Help: "Jokes posted to chats, by trigger",
	}, []string{"trigger"})
	AutoPostStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jokebot_autopost_started_total",
		Help: "Per-chat auto-post timers started",
	})
	AutoPostStopped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jokebot_autopost_stopped_total",
		Help: "Per-chat auto-post timers cancelled",
	})
	AutoPostActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jokebot_autopost_active_chats",
		Help: "Chats with a live auto-post timer",
	})
	MembersJoined = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jokebot_members_joined_total",
		Help: "Members greeted after joining a chat",
	})
	MembersLeft = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jokebot_members_left_total",
		Help: "Members that left a chat",
	})
	ReactionsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jokebot_reactions_sent_total",
		Help: "Reactions posted to group chats, by how they were picked",
	}, []string{"pick"})
	Errors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jokebot_errors_total",
		Help: "Reported errors, by error code",
	}, []string{"code"})
	ListenerFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jokebot_event_listener_failures_total",
		Help: "Event listener failures, by event name",
	}, []string{"event"})
)

// MustRegister registers all collectors with registerer.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		MessagesRecorded,
		RanksEarned,
		JokesSent,
		AutoPostStarted,
		AutoPostStopped,
		AutoPostActive,
		MembersJoined,
		MembersLeft,
		ReactionsSent,
		Errors,
		ListenerFailures,
	)
}
