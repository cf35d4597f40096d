package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/streakwars/internal/storage"
)

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	store := NewStore(dir)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if _, err := store.Load(ctx, "streak_wars_groups"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.Save(ctx, "streak_wars_groups", []byte(`[]`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "streak_wars_groups", []byte(`[{"id":"g"}]`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, "streak_wars_groups")
	if err != nil || string(got) != `[{"id":"g"}]` {
		t.Errorf("Load = %q, %v", got, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "streak_wars_groups.json" {
		t.Errorf("expected only the record file, temp files left behind: %v", entries)
	}
}

func TestRejectsPathKeys(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, key := range []string{"", "..", "../escape", `a\b`} {
		if err := store.Save(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("expected error for key %q", key)
		}
	}
}

func TestSaveRespectsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewStore(t.TempDir()).Save(ctx, "k", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
