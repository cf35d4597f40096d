// Package config resolves runtime settings from defaults, the optional
// config.yaml file, STREAKWARS_* environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/streakwars/internal/constants"
)

type Config struct {
	// ConfigDir holds the config file, lockfile, logs and default database.
	ConfigDir string `yaml:"-"`

	Store     string `yaml:"store" env:"STREAKWARS_STORE"`
	Namespace string `yaml:"namespace" env:"STREAKWARS_NAMESPACE"`
	Timezone  string `yaml:"timezone" env:"STREAKWARS_TIMEZONE"`
	Debug     bool   `yaml:"debug" env:"STREAKWARS_DEBUG"`

	// DataPath is the SQLite database file or the record directory for the
	// file store.
	DataPath string `yaml:"data_path" env:"STREAKWARS_DATA_PATH"`
	// PostgresDSN must not carry a password; use the keyring for that.
	PostgresDSN string `yaml:"postgres_dsn" env:"STREAKWARS_POSTGRES_DSN"`
	RedisURL    string `yaml:"redis_url" env:"STREAKWARS_REDIS_URL"`

	MetricsAddr string `yaml:"metrics_addr" env:"STREAKWARS_METRICS_ADDR"`
}

// Overrides carries values given explicitly on the command line. Empty
// fields are left alone.
type Overrides struct {
	Store       string
	Namespace   string
	Timezone    string
	DataPath    string
	MetricsAddr string
	Debug       bool
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Defaults returns the configuration used when nothing else is set.
func Defaults(configDir string) Config {
	return Config{
		ConfigDir: configDir,
		Store:     constants.StoreSQLite,
	}
}

// FilePath returns the config.yaml location for configDir.
func FilePath(configDir string) string {
	return filepath.Join(configDir, constants.ConfigFileName)
}

// Load resolves the configuration for configDir.
func Load(configDir string, ov Overrides) (Config, error) {
	dir, err := ExpandHome(configDir)
	if err != nil {
		return Config{}, err
	}
	cfg := Defaults(dir)

	data, err := os.ReadFile(FilePath(dir))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", FilePath(dir), err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("failed to read %s: %w", FilePath(dir), err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if ov.Store != "" {
		cfg.Store = ov.Store
	}
	if ov.Namespace != "" {
		cfg.Namespace = ov.Namespace
	}
	if ov.Timezone != "" {
		cfg.Timezone = ov.Timezone
	}
	if ov.DataPath != "" {
		cfg.DataPath = ov.DataPath
	}
	if ov.MetricsAddr != "" {
		cfg.MetricsAddr = ov.MetricsAddr
	}
	if ov.Debug {
		cfg.Debug = true
	}

	if cfg.DataPath != "" {
		if cfg.DataPath, err = ExpandHome(cfg.DataPath); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case constants.StoreSQLite, constants.StoreFile, constants.StoreMemory:
	case constants.StorePostgres:
		// The DSN may come from the keyring; checked when the store opens.
	case constants.StoreRedis:
		if c.RedisURL == "" {
			return errors.New("store redis requires redis_url or STREAKWARS_REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown store %q (expected sqlite, postgres, redis, file or memory)", c.Store)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the time zone that decides where a calendar day starts.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SQLitePath returns the database file for the sqlite store.
func (c Config) SQLitePath() string {
	if c.DataPath != "" {
		return c.DataPath
	}
	return filepath.Join(c.ConfigDir, constants.DefaultDBName)
}

// FileStoreDir returns the record directory for the file store.
func (c Config) FileStoreDir() string {
	if c.DataPath != "" {
		return c.DataPath
	}
	return filepath.Join(c.ConfigDir, "data")
}

// Write persists the file-backed settings to config.yaml.
func (c Config) Write() error {
	if err := os.MkdirAll(c.ConfigDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(FilePath(c.ConfigDir), data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
