// Package redis keeps each record as a redis string.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/julianstephens/streakwars/internal/storage"
)

// Client is the subset of *redis.Client the store uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

type Store struct {
	client   Client
	location string
}

// New parses a redis:// URL. A password, if any, is supplied separately so
// it can come from the OS keyring.
func New(rawURL, password string) (*Store, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if opts.Password != "" {
		return nil, fmt.Errorf("redis URL must not contain a password")
	}
	opts.Password = password
	return &Store{
		client:   redis.NewClient(opts),
		location: fmt.Sprintf("redis://%s/%d", opts.Addr, opts.DB),
	}, nil
}

func NewWithClient(client Client, location string) *Store {
	return &Store{client: client, location: location}
}

func (s *Store) Init(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Location() string {
	return s.location
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) {
			return fmt.Errorf("failed to save %s: %w: %w", key, storage.ErrTransient, err)
		}
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
