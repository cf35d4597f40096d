// Package memory is a map-backed storage.Provider for tests and ephemeral
// sessions. Failures can be injected per key.
package memory

import (
	"context"
	"sync"

	"github.com/julianstephens/streakwars/internal/storage"
)

// FaultFunc decides whether an operation on key fails.
type FaultFunc func(key string) error

type Store struct {
	mu        sync.Mutex
	data      map[string][]byte
	saves     map[string]int
	saveFault FaultFunc
	loadFault FaultFunc
}

func NewStore() *Store {
	return &Store{
		data:  make(map[string][]byte),
		saves: make(map[string]int),
	}
}

func (s *Store) Init(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) Location() string { return "memory" }

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadFault != nil {
		if err := s.loadFault(key); err != nil {
			return nil, err
		}
	}
	v, ok := s.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.saves[key]++
	if s.saveFault != nil {
		if err := s.saveFault(key); err != nil {
			return err
		}
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Put stores raw bytes without counting a save, for seeding fixtures.
func (s *Store) Put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
}

// Get returns the stored bytes for key.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return append([]byte(nil), v...), ok
}

// SaveAttempts returns how many times Save was called for key, including
// failed attempts.
func (s *Store) SaveAttempts(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves[key]
}

func (s *Store) FailSaves(fn FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveFault = fn
}

func (s *Store) FailLoads(fn FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadFault = fn
}
