package engine

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/streakwars/internal/constants"
	"github.com/julianstephens/streakwars/internal/models"
)

type demoHabit struct {
	name     string
	icon     string
	shared   bool
	streak   int
	daysDone int
}

var demoHabits = []demoHabit{
	{name: "Morning Workout", icon: "💪", shared: true, streak: 5, daysDone: 5},
	{name: "Read 30 Minutes", icon: "📚", shared: false, streak: 3, daysDone: 3},
	{name: "Drink 8 Glasses Water", icon: "💧", shared: true, streak: 0, daysDone: 0},
}

// SeedDemo gives the player sample habits with back-dated streaks and a few
// feed entries. Records that already exist are left alone, so seeding twice
// adds nothing. It returns how many records were added.
func (e *Engine) SeedDemo(ctx context.Context) (int, Outcome) {
	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.user == nil {
		e.observe("seed_demo", NoActiveUser, start)
		return 0, NoActiveUser
	}

	userID := e.st.user.ID
	now := e.now()
	today := now.In(e.loc)
	added := 0

	for i, d := range demoHabits {
		id := fmt.Sprintf("habit-%d-%s", i+1, userID)
		if e.habitIndexLocked(id) >= 0 {
			continue
		}

		h := models.Habit{
			ID:             id,
			Name:           d.name,
			Icon:           d.icon,
			UserID:         userID,
			IsShared:       d.shared,
			Streak:         d.streak,
			Multiplier:     models.StreakMultiplier(d.streak),
			CompletedDates: []string{},
		}
		for n := 1; n <= d.daysDone; n++ {
			h.CompletedDates = append(h.CompletedDates, today.AddDate(0, 0, -n).Format(constants.DateFormat))
		}
		if len(h.CompletedDates) > 0 {
			last := h.CompletedDates[0]
			h.LastCompleted = &last
		}
		e.st.habits = append(e.st.habits, h)
		added++
	}

	groupID := e.st.user.CurrentGroupID()
	activities := []models.Activity{
		{
			ID:        "activity-1-" + userID,
			UserID:    userID,
			GroupID:   groupID,
			Timestamp: now.Add(-30 * time.Minute),
			Data:      models.CompletionData{HabitName: "Morning Workout", Coins: 12, Streak: 5},
		},
		{
			ID:        "activity-2-" + userID,
			UserID:    userID,
			GroupID:   groupID,
			Timestamp: now.Add(-time.Hour),
			Data:      models.StreakData{Streak: 5},
		},
		{
			ID:        "activity-3-" + userID,
			UserID:    userID,
			GroupID:   groupID,
			Timestamp: now.Add(-2 * time.Hour),
			Data:      models.CompletionData{HabitName: "Read 30 Minutes", Coins: 12, Streak: 3},
		},
	}
	if added > 0 {
		e.save(ctx, constants.KeyHabits)
	}

	addedActivities := 0
	for _, a := range activities {
		if slices.ContainsFunc(e.st.activities, func(x models.Activity) bool { return x.ID == a.ID }) {
			continue
		}
		e.st.activities = append(e.st.activities, a)
		addedActivities++
	}
	if addedActivities > 0 {
		slices.SortStableFunc(e.st.activities, func(a, b models.Activity) int {
			return b.Timestamp.Compare(a.Timestamp)
		})
		e.save(ctx, constants.KeyActivities)
	}

	e.observe("seed_demo", OK, start)
	return added + addedActivities, OK
}
