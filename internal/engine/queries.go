package engine

import (
	"slices"
	"time"

	"github.com/julianstephens/streakwars/internal/models"
)

// Snapshot is a deep copy of the whole game state at one instant.
type Snapshot struct {
	User       *models.User
	Habits     []models.Habit
	Groups     []models.Group
	Logs       []models.HabitLog
	Sabotages  []models.Sabotage
	Activities []models.Activity
	Now        time.Time
	Location   *time.Location
	Loading    bool
}

// Today returns the snapshot's calendar day.
func (s Snapshot) Today() string {
	return models.CalendarDay(s.Now, s.Location)
}

// CurrentGroup returns the player's group, if any.
func (s Snapshot) CurrentGroup() (models.Group, bool) {
	if s.User == nil || s.User.GroupID == nil {
		return models.Group{}, false
	}
	for _, g := range s.Groups {
		if g.ID == *s.User.GroupID {
			return g, true
		}
	}
	return models.Group{}, false
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Habits:     cloneHabits(e.st.habits),
		Groups:     cloneGroups(e.st.groups),
		Logs:       slices.Clone(e.st.logs),
		Sabotages:  slices.Clone(e.st.sabotages),
		Activities: slices.Clone(e.st.activities),
		Now:        e.now(),
		Location:   e.loc,
		Loading:    e.loading,
	}
	if e.st.user != nil {
		u := cloneUser(*e.st.user)
		snap.User = &u
	}
	return snap
}

// User returns the player profile, or false before CreateUser.
func (e *Engine) User() (models.User, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st.user == nil {
		return models.User{}, false
	}
	return cloneUser(*e.st.user), true
}

func (e *Engine) Habits() []models.Habit {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneHabits(e.st.habits)
}

func (e *Engine) Habit(id string) (models.Habit, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.habitIndexLocked(id); i >= 0 {
		return cloneHabit(e.st.habits[i]), true
	}
	return models.Habit{}, false
}

func (e *Engine) Groups() []models.Group {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneGroups(e.st.groups)
}

func (e *Engine) Group(id string) (models.Group, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.groupIndexLocked(id); i >= 0 {
		return cloneGroup(e.st.groups[i]), true
	}
	return models.Group{}, false
}

func (e *Engine) Logs() []models.HabitLog {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.st.logs)
}

func (e *Engine) Sabotages() []models.Sabotage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.st.sabotages)
}

// Activities returns the feed, most recent first.
func (e *Engine) Activities() []models.Activity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.st.activities)
}

// GetActiveSabotages returns the sabotages currently in effect against
// userID. Expiry is evaluated against the clock on every call; stored
// records are never modified.
func (e *Engine) GetActiveSabotages(userID string) []models.Sabotage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeSabotagesLocked(userID, e.now())
}

func (e *Engine) activeSabotagesLocked(userID string, now time.Time) []models.Sabotage {
	var out []models.Sabotage
	for _, s := range e.st.sabotages {
		if s.ToUserID == userID && s.IsActiveAt(now) {
			out = append(out, s)
		}
	}
	return out
}

func cloneUser(u models.User) models.User {
	if u.GroupID != nil {
		id := *u.GroupID
		u.GroupID = &id
	}
	return u
}

func cloneHabit(h models.Habit) models.Habit {
	if h.LastCompleted != nil {
		day := *h.LastCompleted
		h.LastCompleted = &day
	}
	h.CompletedDates = slices.Clone(h.CompletedDates)
	if h.CompletedDates == nil {
		h.CompletedDates = []string{}
	}
	return h
}

func cloneHabits(hs []models.Habit) []models.Habit {
	if hs == nil {
		return nil
	}
	out := make([]models.Habit, len(hs))
	for i, h := range hs {
		out[i] = cloneHabit(h)
	}
	return out
}

func cloneGroup(g models.Group) models.Group {
	g.MemberIDs = slices.Clone(g.MemberIDs)
	return g
}

func cloneGroups(gs []models.Group) []models.Group {
	if gs == nil {
		return nil
	}
	out := make([]models.Group, len(gs))
	for i, g := range gs {
		out[i] = cloneGroup(g)
	}
	return out
}
