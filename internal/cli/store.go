package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/streakwars/internal/config"
	"github.com/julianstephens/streakwars/internal/constants"
	"github.com/julianstephens/streakwars/internal/keyring"
	"github.com/julianstephens/streakwars/internal/logger"
	"github.com/julianstephens/streakwars/internal/storage"
	"github.com/julianstephens/streakwars/internal/storage/file"
	"github.com/julianstephens/streakwars/internal/storage/memory"
	"github.com/julianstephens/streakwars/internal/storage/postgres"
	"github.com/julianstephens/streakwars/internal/storage/redis"
	"github.com/julianstephens/streakwars/internal/storage/sqlite"
)

// OpenStore builds the backend named by cfg.Store. Secrets come from the OS
// keyring, never from the config file.
func OpenStore(cfg config.Config) (storage.Provider, error) {
	switch cfg.Store {
	case constants.StoreSQLite:
		return sqlite.NewStore(cfg.SQLitePath()), nil
	case constants.StoreFile:
		return file.NewStore(cfg.FileStoreDir()), nil
	case constants.StoreMemory:
		return memory.NewStore(), nil
	case constants.StorePostgres:
		dsn, err := postgresDSN(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.New(dsn), nil
	case constants.StoreRedis:
		password, err := keyring.Get(keyring.EntryRedisPassword)
		if err != nil {
			if !errors.Is(err, keyring.ErrNotFound) {
				logger.Warn("Redis password unavailable, connecting without one", "error", err)
			}
			password = ""
		}
		return redis.New(cfg.RedisURL, password)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// postgresDSN prefers the configured connection string and falls back to
// the keyring. A configured string must not embed a password.
func postgresDSN(cfg config.Config) (string, error) {
	if cfg.PostgresDSN != "" {
		if _, err := postgres.ValidateConnString(cfg.PostgresDSN); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return "", fmt.Errorf("%w; store it with 'streakwars keyring set %s' instead", err, keyring.EntryPostgres)
			}
			return "", err
		}
		return cfg.PostgresDSN, nil
	}

	dsn, err := keyring.Get(keyring.EntryPostgres)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", errors.New("no PostgreSQL connection string configured; set postgres_dsn or run 'streakwars keyring set postgres-dsn'")
		}
		return "", err
	}
	return dsn, nil
}
