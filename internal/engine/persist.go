package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/streakwars/internal/constants"
	"github.com/julianstephens/streakwars/internal/metrics"
	"github.com/julianstephens/streakwars/internal/storage"
)

// Health is the persistence status. Degraded is set while any collection's
// most recent save failed; in-memory state is still authoritative then.
type Health struct {
	Degraded   bool
	Pending    int
	LastErrors map[string]error
	LastSaved  map[string]time.Time
}

// persister writes collection snapshots through a single goroutine. Only the
// latest snapshot per key is kept, so a burst of commands costs one write per
// collection.
type persister struct {
	store   storage.Provider
	log     *log.Logger
	metrics *metrics.Metrics

	mu        sync.Mutex
	pending   map[string][]byte
	lastErr   map[string]error
	lastSaved map[string]time.Time
	closed    bool

	ctx      context.Context
	cancel   context.CancelFunc
	wake     chan struct{}
	flushReq chan chan struct{}
	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func newPersister(store storage.Provider, l *log.Logger, m *metrics.Metrics) *persister {
	ctx, cancel := context.WithCancel(context.Background())
	return &persister{
		store:     store,
		log:       l,
		metrics:   m,
		pending:   make(map[string][]byte),
		lastErr:   make(map[string]error),
		lastSaved: make(map[string]time.Time),
		ctx:       ctx,
		cancel:    cancel,
		wake:      make(chan struct{}, 1),
		flushReq:  make(chan chan struct{}),
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

func (p *persister) start() {
	go p.run()
}

func (p *persister) run() {
	defer close(p.stopped)
	for {
		select {
		case <-p.wake:
			p.drain()
		case done := <-p.flushReq:
			p.drain()
			close(done)
		case <-p.stop:
			p.drainFinal()
			return
		}
	}
}

// enqueue replaces any queued snapshot for key and wakes the writer. Once the
// writer has stopped, the snapshot is written inline with ctx instead.
func (p *persister) enqueue(ctx context.Context, key string, value []byte) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.log.Warn("Persister closed, saving inline", "collection", key)
		p.write(ctx, key, value)
		return
	}
	p.pending[key] = value
	n := len(p.pending)
	p.mu.Unlock()

	p.metrics.SetPending(n)
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) drain() { p.drainUntilEmpty(false) }

// drainFinal drains and marks the writer closed under the same lock, so no
// snapshot can be queued after the last batch.
func (p *persister) drainFinal() { p.drainUntilEmpty(true) }

func (p *persister) drainUntilEmpty(final bool) {
	for {
		p.mu.Lock()
		if len(p.pending) == 0 {
			p.closed = final
			p.mu.Unlock()
			p.metrics.SetPending(0)
			return
		}
		batch := p.pending
		p.pending = make(map[string][]byte)
		p.mu.Unlock()

		for _, key := range constants.AllKeys {
			if value, ok := batch[key]; ok {
				p.write(p.ctx, key, value)
				delete(batch, key)
			}
		}
		// Keys outside the known set still get written.
		for key, value := range batch {
			p.write(p.ctx, key, value)
		}
	}
}

// write saves one collection and records the result. Failures are logged per
// collection and never returned to the command that caused them.
func (p *persister) write(ctx context.Context, key string, value []byte) {
	start := time.Now()
	err := p.store.Save(ctx, key, value)
	p.metrics.ObserveSave(key, err, time.Since(start))

	p.mu.Lock()
	if err != nil {
		p.lastErr[key] = err
	} else {
		delete(p.lastErr, key)
		p.lastSaved[key] = time.Now()
	}
	p.mu.Unlock()

	if err != nil {
		p.log.Error("Failed to persist collection", "collection", key, "bytes", len(value), "error", err)
		return
	}
	p.log.Debug("Persisted collection", "collection", key, "bytes", len(value))
}

// recordEncodeError marks a collection that could not be serialized.
func (p *persister) recordEncodeError(key string, err error) {
	p.mu.Lock()
	p.lastErr[key] = fmt.Errorf("encode: %w", err)
	p.mu.Unlock()
	p.log.Error("Failed to encode collection", "collection", key, "error", err)
}

func (p *persister) flush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case p.flushReq <- done:
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drains the queue and stops the writer. If ctx expires first the
// in-flight save is canceled.
func (p *persister) close(ctx context.Context) error {
	p.stopOnce.Do(func() { close(p.stop) })
	select {
	case <-p.stopped:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-p.stopped
		return errors.Join(ctx.Err(), p.unsaved())
	}
}

func (p *persister) unsaved() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.lastErr) == 0 {
		return nil
	}
	return fmt.Errorf("%d collection(s) not saved", len(p.lastErr))
}

func (p *persister) health() Health {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Health{
		Degraded:   len(p.lastErr) > 0,
		Pending:    len(p.pending),
		LastErrors: maps.Clone(p.lastErr),
		LastSaved:  maps.Clone(p.lastSaved),
	}
}

// save hands the named collections to the persister. Must be called with
// e.mu held so the snapshot matches the state the command produced.
func (e *Engine) save(ctx context.Context, keys ...string) {
	for _, key := range keys {
		value, err := e.encodeLocked(key)
		if err != nil {
			e.persist.recordEncodeError(key, err)
			continue
		}
		if e.sync {
			e.persist.write(ctx, key, value)
			continue
		}
		e.persist.enqueue(ctx, key, value)
	}
}

func (e *Engine) encodeLocked(key string) ([]byte, error) {
	switch key {
	case constants.KeyUser:
		return json.Marshal(e.st.user)
	case constants.KeyHabits:
		return json.Marshal(nonNil(e.st.habits))
	case constants.KeyGroups:
		return json.Marshal(nonNil(e.st.groups))
	case constants.KeyLogs:
		return json.Marshal(nonNil(e.st.logs))
	case constants.KeySabotages:
		return json.Marshal(nonNil(e.st.sabotages))
	case constants.KeyActivities:
		return json.Marshal(nonNil(e.st.activities))
	default:
		return nil, fmt.Errorf("unknown collection %q", key)
	}
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
