package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/streakwars/internal/constants"
)

// Entry names one secret kept in the OS keyring.
type Entry string

const (
	// EntryPostgres holds a full PostgreSQL connection string, password included
	EntryPostgres Entry = "postgres-dsn"
	// EntryRedisPassword holds the password for the redis store
	EntryRedisPassword Entry = "redis-password"
)

// Entries lists every secret the app knows about.
var Entries = []Entry{EntryPostgres, EntryRedisPassword}

var (
	// ErrNotFound is returned when no secret is stored for an entry
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func ParseEntry(s string) (Entry, error) {
	for _, e := range Entries {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown keyring entry %q (expected %s or %s)", s, EntryPostgres, EntryRedisPassword)
}

func (e Entry) user() string {
	return constants.DefaultKeyringUser + ":" + string(e)
}

// Get retrieves a secret from the OS keyring.
func Get(e Entry) (string, error) {
	secret, err := keyring.Get(constants.AppName, e.user())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores a secret in the OS keyring.
func Set(e Entry, secret string) error {
	if secret == "" {
		return errors.New("secret cannot be empty")
	}
	if err := keyring.Set(constants.AppName, e.user(), secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// Delete removes a secret from the OS keyring.
func Delete(e Entry) error {
	if err := keyring.Delete(constants.AppName, e.user()); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
