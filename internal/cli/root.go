package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/streakwars/internal/backup"
	"github.com/julianstephens/streakwars/internal/config"
	"github.com/julianstephens/streakwars/internal/constants"
	"github.com/julianstephens/streakwars/internal/engine"
	"github.com/julianstephens/streakwars/internal/lock"
	"github.com/julianstephens/streakwars/internal/logger"
	"github.com/julianstephens/streakwars/internal/metrics"
	"github.com/julianstephens/streakwars/internal/storage"
)

// Context is shared by every command. The store and engine are opened on
// first use so commands that never touch game state (version, keyring) do
// not take the instance lock.
type Context struct {
	Config  config.Config
	Metrics *metrics.Metrics
	Out     io.Writer
	In      io.Reader

	// OpenStore builds the configured backend. Tests replace it.
	OpenStore func(cfg config.Config) (storage.Provider, error)
	// EngineOptions are appended to the defaults derived from Config.
	EngineOptions []engine.Option

	base  context.Context
	store storage.Provider
	game  *engine.Engine
	lock  *lock.Lock
}

func NewContext(base context.Context, cfg config.Config) *Context {
	return &Context{
		Config:    cfg,
		Out:       os.Stdout,
		In:        os.Stdin,
		OpenStore: OpenStore,
		base:      base,
	}
}

// Context returns the process context, canceled on interrupt.
func (c *Context) Context() context.Context {
	if c.base == nil {
		return context.Background()
	}
	return c.base
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Backend returns the initialized raw store, without namespace wrapping.
func (c *Context) Backend() (storage.Provider, error) {
	if c.store != nil {
		return c.store, nil
	}
	if c.Config.Store != constants.StoreMemory && c.lock == nil {
		l, err := lock.Acquire(c.Config.ConfigDir)
		if err != nil {
			return nil, err
		}
		c.lock = l
	}

	store, err := c.OpenStore(c.Config)
	if err != nil {
		return nil, err
	}
	if err := store.Init(c.Context()); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize %s store: %w", c.Config.Store, err)
	}
	c.store = store
	return store, nil
}

// Game opens the engine over the configured store and loads saved state.
func (c *Context) Game() (*engine.Engine, error) {
	if c.game != nil {
		return c.game, nil
	}
	store, err := c.Backend()
	if err != nil {
		return nil, err
	}
	loc, err := c.Config.Location()
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithLocation(loc),
		engine.WithMetrics(c.Metrics),
		engine.WithLogger(logger.Default()),
	}
	opts = append(opts, c.EngineOptions...)

	game := engine.New(storage.WithNamespace(store, c.Config.Namespace), opts...)
	game.Load(c.Context())
	c.game = game
	return game, nil
}

// Shutdown flushes pending saves, closes the store and releases the lock.
// It is safe to call more than once.
func (c *Context) Shutdown(ctx context.Context) error {
	var errs []error
	if c.game != nil {
		if err := c.game.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush pending saves: %w", err))
		}
		if h := c.game.Health(); h.Degraded {
			for key, err := range h.LastErrors {
				errs = append(errs, fmt.Errorf("%s not saved: %w", key, err))
			}
		}
		c.game = nil
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
		c.store = nil
	}
	if c.lock != nil {
		if err := c.lock.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release lock: %w", err))
		}
		c.lock = nil
	}
	return errors.Join(errs...)
}

// PerformAutomaticBackup snapshots the sqlite database and only logs
// failures.
func (c *Context) PerformAutomaticBackup() {
	if c.Config.Store != constants.StoreSQLite {
		return
	}
	if _, err := backup.NewManager(c.Config.SQLitePath()).Create(c.Context()); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// requireUser returns the engine once a player profile exists.
func (c *Context) requireUser() (*engine.Engine, error) {
	game, err := c.Game()
	if err != nil {
		return nil, err
	}
	if _, ok := game.User(); !ok {
		return nil, engine.NoActiveUser.Err()
	}
	return game, nil
}

// ShutdownContext bounds how long Shutdown may spend flushing saves.
func ShutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
