package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/julianstephens/streakwars/internal/constants"
	"github.com/julianstephens/streakwars/internal/models"
	"github.com/julianstephens/streakwars/internal/storage"
)

// Load replaces in-memory state with the persisted collections. Keys load in
// parallel and fail independently: a missing, unreadable or malformed
// record leaves only that collection empty.
func (e *Engine) Load(ctx context.Context) {
	e.mu.Lock()
	e.loading = true
	e.mu.Unlock()

	var (
		loaded state
		wg     sync.WaitGroup
	)
	targets := map[string]any{
		constants.KeyUser:       &loaded.user,
		constants.KeyHabits:     &loaded.habits,
		constants.KeyGroups:     &loaded.groups,
		constants.KeyLogs:       &loaded.logs,
		constants.KeySabotages:  &loaded.sabotages,
		constants.KeyActivities: &loaded.activities,
	}

	start := time.Now()
	for _, key := range constants.AllKeys {
		wg.Add(1)
		go func(key string, target any) {
			defer wg.Done()
			if !e.loadKey(ctx, key, target) {
				e.metrics.LoadFailed(key)
			}
		}(key, targets[key])
	}
	wg.Wait()

	for _, h := range loaded.habits {
		if err := h.Validate(); err != nil {
			e.log.Warn("Loaded habit failed validation", "habit", h.ID, "error", err)
		}
	}

	e.mu.Lock()
	e.st = loaded
	e.loading = false
	e.refreshPlayerGauges()
	e.mu.Unlock()

	e.log.Debug("Loaded game state", "store", e.store.Location(), "elapsed", time.Since(start))
}

// loadKey decodes one record into target. It returns false when the record
// existed but could not be used. On failure target is reset to its zero
// value so a partial decode never leaks into state.
func (e *Engine) loadKey(ctx context.Context, key string, target any) bool {
	data, err := e.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.log.Debug("No stored record", "collection", key)
			return true
		}
		e.log.Warn("Failed to load collection", "collection", key, "error", err)
		return false
	}

	if err := json.Unmarshal(data, target); err != nil {
		e.log.Error("Failed to parse collection, starting empty", "collection", key, "error", err)
		resetTarget(target)
		return false
	}
	return true
}

func resetTarget(target any) {
	switch t := target.(type) {
	case **models.User:
		*t = nil
	case *[]models.Habit:
		*t = nil
	case *[]models.Group:
		*t = nil
	case *[]models.HabitLog:
		*t = nil
	case *[]models.Sabotage:
		*t = nil
	case *[]models.Activity:
		*t = nil
	}
}

// IsLoading reports whether Load is in progress.
func (e *Engine) IsLoading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}
