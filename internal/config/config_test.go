package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/streakwars/internal/constants"
)

func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, constants.ConfigFileName), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir, Overrides{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store != constants.StoreSQLite {
		t.Errorf("Store = %q, want sqlite", cfg.Store)
	}
	if cfg.SQLitePath() != filepath.Join(dir, constants.DefaultDBName) {
		t.Errorf("SQLitePath = %q", cfg.SQLitePath())
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "store: file\nnamespace: from-file\ntimezone: UTC\n")

	cfg, err := Load(dir, Overrides{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store != "file" || cfg.Namespace != "from-file" {
		t.Errorf("file values not applied: %+v", cfg)
	}

	t.Setenv("STREAKWARS_NAMESPACE", "from-env")
	t.Setenv("STREAKWARS_STORE", "memory")
	cfg, err = Load(dir, Overrides{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Namespace != "from-env" || cfg.Store != "memory" {
		t.Errorf("env should override file: %+v", cfg)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("unset env should keep file value, got %q", cfg.Timezone)
	}

	cfg, err = Load(dir, Overrides{Namespace: "from-flag", Store: "sqlite"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Namespace != "from-flag" || cfg.Store != "sqlite" {
		t.Errorf("flags should override env: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		ov      Overrides
		wantErr string
	}{
		{"unknown store", "", Overrides{Store: "mongo"}, "unknown store"},
		{"bad timezone", "", Overrides{Timezone: "Mars/Olympus"}, "invalid timezone"},
		{"redis without url", "", Overrides{Store: "redis"}, "redis_url"},
		{"malformed yaml", "store: [", Overrides{}, "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.file != "" {
				writeConfigFile(t, dir, tt.file)
			}
			_, err := Load(dir, tt.ov)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Defaults(dir)
	cfg.Store = constants.StoreFile
	cfg.Timezone = "Europe/Berlin"

	if err := cfg.Write(); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := Load(dir, Overrides{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Store != constants.StoreFile || got.Timezone != "Europe/Berlin" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.FileStoreDir() != filepath.Join(dir, "data") {
		t.Errorf("FileStoreDir = %q", got.FileStoreDir())
	}
}

func TestLocationDefaultsToLocal(t *testing.T) {
	loc, err := Config{}.Location()
	if err != nil || loc.String() != "Local" {
		t.Errorf("Location() = %v, %v", loc, err)
	}
}
