package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/streakwars/internal/logger"
	"github.com/julianstephens/streakwars/internal/migration"
	"github.com/julianstephens/streakwars/internal/storage"
	"github.com/julianstephens/streakwars/migrations"
)

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// dsn enables WAL with a busy timeout so a concurrent backup or a second
// reader does not fail writes immediately.
func (s *Store) dsn() string {
	return filepath.Clean(s.path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
}

func (s *Store) Init(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(ctx); err != nil {
		s.db.Close()
		s.db = nil
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) Location() string {
	return s.path
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.DialectSQLite), nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(ctx, func(msg string) {
		logger.Debug(msg, "store", "sqlite")
	})
	return err
}

func (s *Store) ValidateSchema(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("store not initialized")
	}
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion(ctx)
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	if s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_records WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	if s.db == nil {
		return fmt.Errorf("store not initialized")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_records (key, value, updated_at, size_bytes)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at,
			size_bytes = excluded.size_bytes`,
		key, string(value), time.Now().UTC().Format(time.RFC3339Nano), len(value))
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (s *Store) Records(ctx context.Context) ([]storage.RecordInfo, error) {
	if s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}

	rows, err := s.db.QueryContext(ctx, "SELECT key, size_bytes, updated_at FROM kv_records ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.RecordInfo
	for rows.Next() {
		var info storage.RecordInfo
		var updatedAt string
		if err := rows.Scan(&info.Key, &info.SizeBytes, &updatedAt); err != nil {
			return nil, err
		}
		// Rows written before size tracking keep a zero timestamp if unparsable.
		info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		out = append(out, info)
	}
	return out, rows.Err()
}
