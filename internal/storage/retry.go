package storage

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/julianstephens/streakwars/internal/constants"
)

// ErrTransient marks an error as safe to retry. Backends and tests wrap it
// when a failure is known to be temporary.
var ErrTransient = errors.New("transient storage error")

// IsTransient reports whether err is worth retrying. This covers SQLite
// busy/locked codes reported by modernc.org/sqlite, network timeouts and
// anything wrapping ErrTransient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) {
		return true
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
		return sqliteErr.Code() == sqlite3.SQLITE_IOERR_SHORT_READ
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := err.Error()
	for _, pattern := range []string{
		"SQLITE_BUSY",
		"SQLITE_LOCKED",
		"SQLITE_IOERR_SHORT_READ",
		"database is locked",
		"database table is locked",
		"connection refused",
		"connection reset",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// RetryPolicy bounds how Save is retried.
type RetryPolicy struct {
	MaxRetries      uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy retries three times between 50ms and 500ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      constants.SaveMaxRetries,
		InitialInterval: constants.SaveRetryInitial,
		MaxInterval:     constants.SaveRetryMax,
	}
}

// Retrying retries transient Save failures with exponential backoff.
// Load is attempted once since it only runs at startup and a failure there
// degrades to an empty collection.
type Retrying struct {
	Provider
	policy  RetryPolicy
	onRetry func(key string, err error, next time.Duration)
}

// WithRetry wraps p with policy. onRetry may be nil.
func WithRetry(p Provider, policy RetryPolicy, onRetry func(key string, err error, next time.Duration)) *Retrying {
	return &Retrying{Provider: p, policy: policy, onRetry: onRetry}
}

func (r *Retrying) Save(ctx context.Context, key string, value []byte) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.InitialInterval
	b.MaxInterval = r.policy.MaxInterval

	op := func() (struct{}, error) {
		err := r.Provider.Save(ctx, key, value)
		if err != nil && !IsTransient(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(r.policy.MaxRetries + 1),
	}
	if r.onRetry != nil {
		opts = append(opts, backoff.WithNotify(func(err error, next time.Duration) {
			r.onRetry(key, err, next)
		}))
	}

	_, err := backoff.Retry(ctx, op, opts...)
	return err
}
