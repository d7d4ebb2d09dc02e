package rank

import (
	"context"
	"log/slog"
	"sync"

	"github.com/edgard/jokebot/internal/database"
	"github.com/edgard/jokebot/internal/errs"
	"github.com/edgard/jokebot/internal/events"
	"github.com/edgard/jokebot/internal/logger"
	"github.com/edgard/jokebot/internal/metrics"
)

// Store is the storage the assigner needs.
type Store interface {
	Lister
	GetUserRank(ctx context.Context, userID int64) (*database.Rank, error)
	AssignRank(ctx context.Context, userID, rankID int64) error
}

// Subject identifies whose count is evaluated and where an announcement goes.
type Subject struct {
	UserID      int64
	ChatID      int64
	ThreadID    int
	DisplayName string
}

// Kind is the result of an evaluation.
type Kind int

const (
	NoChange Kind = iota
	RankEarned
)

func (k Kind) String() string {
	if k == RankEarned {
		return "rank_earned"
	}
	return "no_change"
}

// Outcome describes what Evaluate did.
type Outcome struct {
	Kind     Kind
	Rank     *database.Rank
	Previous *database.Rank
}

// Assigner evaluates a user's count against the catalog and records transitions.
type Assigner struct {
	catalog   *Catalog
	store     Store
	publisher events.Publisher
	logger    *slog.Logger
	locks     userLocks
}

// NewAssigner wires an assigner. The catalog must read from the same store.
func NewAssigner(catalog *Catalog, store Store, publisher events.Publisher, log *slog.Logger) *Assigner {
	if log == nil {
		log = logger.Discard()
	}
	return &Assigner{
		catalog:   catalog,
		store:     store,
		publisher: publisher,
		logger:    log.With("component", "rank_assigner"),
		locks:     userLocks{m: make(map[int64]*userLock)},
	}
}

// Evaluate assigns the best tier for messageCount if it differs from the user's
// current one, and announces it. Calls for the same user are serialized.
func (a *Assigner) Evaluate(ctx context.Context, subject Subject, messageCount int64) (Outcome, error) {
	unlock := a.locks.lock(subject.UserID)
	defer unlock()

	tiers, err := a.catalog.Tiers(ctx)
	if err != nil {
		return Outcome{}, wrapStorage("list ranks", err)
	}

	best, ok := Best(tiers, messageCount)
	if !ok {
		return Outcome{Kind: NoChange}, nil
	}

	current, err := a.store.GetUserRank(ctx, subject.UserID)
	if err != nil {
		return Outcome{}, wrapStorage("read current rank", err)
	}
	if current != nil && current.ID == best.ID {
		return Outcome{Kind: NoChange, Rank: current}, nil
	}

	if err := a.store.AssignRank(ctx, subject.UserID, best.ID); err != nil {
		return Outcome{}, wrapStorage("assign rank", err)
	}
	metrics.RanksEarned.WithLabelValues(best.Category).Inc()

	a.logger.InfoContext(ctx, "Rank earned",
		"user_id", subject.UserID, "chat_id", subject.ChatID,
		"rank", best.Name, "message_count", messageCount)

	event := events.RankEarned{
		Meta:        events.Now(),
		UserID:      subject.UserID,
		ChatID:      subject.ChatID,
		ThreadID:    subject.ThreadID,
		DisplayName: subject.DisplayName,
		Rank:        Info(best),
	}
	if current != nil {
		prev := Info(*current)
		event.Previous = &prev
	}
	if err := a.publisher.Publish(ctx, event); err != nil {
		a.logger.WarnContext(ctx, "Rank announcement failed", "user_id", subject.UserID, "error", err)
	}

	return Outcome{Kind: RankEarned, Rank: &best, Previous: current}, nil
}

func wrapStorage(op string, err error) error {
	if errs.Code(err) == errs.CodeDatabase {
		return err
	}
	return errs.NewDatabaseError(op, err)
}

// userLocks hands out one mutex per user, dropped once nobody holds or waits for it.
type userLocks struct {
	mu sync.Mutex
	m  map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func (l *userLocks) lock(userID int64) (unlock func()) {
	l.mu.Lock()
	ul, ok := l.m[userID]
	if !ok {
		ul = &userLock{}
		l.m[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()

		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.m, userID)
		}
		l.mu.Unlock()
	}
}
