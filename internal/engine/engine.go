// Package engine owns the game state. Commands validate preconditions,
// mutate in-memory state under one mutex, hand the affected collections to
// the persistence writer and record an activity. Queries read the same
// state and never wait on storage.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/julianstephens/streakwars/internal/logger"
	"github.com/julianstephens/streakwars/internal/metrics"
	"github.com/julianstephens/streakwars/internal/models"
	"github.com/julianstephens/streakwars/internal/storage"
)

// state is the full set of game collections. Activities are kept most
// recent first.
type state struct {
	user       *models.User
	habits     []models.Habit
	groups     []models.Group
	logs       []models.HabitLog
	sabotages  []models.Sabotage
	activities []models.Activity
}

type Engine struct {
	mu      sync.Mutex
	st      state
	loading bool

	store   storage.Provider
	persist *persister

	now     func() time.Time
	loc     *time.Location
	newID   func() string
	sync    bool
	retry   storage.RetryPolicy
	metrics *metrics.Metrics
	log     *log.Logger
}

type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the zone whose midnight separates calendar days.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// WithIDGenerator replaces the UUIDv7 generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// WithSyncPersistence writes every affected collection before the command
// returns instead of handing it to the background writer.
func WithSyncPersistence() Option {
	return func(e *Engine) { e.sync = true }
}

func WithRetryPolicy(p storage.RetryPolicy) Option {
	return func(e *Engine) { e.retry = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// New builds an engine with empty state. Call Load (or use Open) before
// issuing commands against persisted data.
func New(store storage.Provider, opts ...Option) *Engine {
	e := &Engine{
		now:   time.Now,
		loc:   time.Local,
		newID: newUUID,
		retry: storage.DefaultRetryPolicy(),
		log:   logger.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.loc == nil {
		e.loc = time.Local
	}

	e.store = storage.WithRetry(store, e.retry, func(key string, err error, next time.Duration) {
		e.log.Warn("Retrying save", "collection", key, "error", err, "next", next)
		e.metrics.SaveRetried(key)
	})
	e.persist = newPersister(e.store, e.log, e.metrics)
	if !e.sync {
		e.persist.start()
	}
	return e
}

// Open initializes store, builds an engine and loads persisted state.
func Open(ctx context.Context, store storage.Provider, opts ...Option) (*Engine, error) {
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	e := New(store, opts...)
	e.Load(ctx)
	return e, nil
}

// Location returns the zone used for calendar days.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Today returns the current calendar day in the engine's zone.
func (e *Engine) Today() string {
	return models.CalendarDay(e.now(), e.loc)
}

// Flush blocks until every queued save has been attempted.
func (e *Engine) Flush(ctx context.Context) error {
	if e.sync {
		return nil
	}
	return e.persist.flush(ctx)
}

// Close flushes pending saves and stops the writer. The store is left open
// for its owner to close.
func (e *Engine) Close(ctx context.Context) error {
	if e.sync {
		return nil
	}
	return e.persist.close(ctx)
}

// Health reports the persistence state.
func (e *Engine) Health() Health {
	return e.persist.health()
}

func (e *Engine) observe(command string, outcome Outcome, start time.Time) {
	e.metrics.ObserveCommand(command, outcome.String(), time.Since(start))
	if outcome != OK {
		e.log.Debug("Command rejected", "command", command, "outcome", outcome)
	}
}

// refreshPlayerGauges must be called with e.mu held.
func (e *Engine) refreshPlayerGauges() {
	if e.metrics == nil || e.st.user == nil {
		return
	}
	e.metrics.SetPlayer(e.st.user.Coins, len(e.activeSabotagesLocked(e.st.user.ID, e.now())))
}
