package engine

import (
	"context"
	"strings"
	"time"

	"github.com/julianstephens/streakwars/internal/constants"
	"github.com/julianstephens/streakwars/internal/models"
)

// Completion summarizes a successful CompleteHabit.
type Completion struct {
	Habit       models.Habit
	CoinsEarned int
	Day         string
	Log         models.HabitLog
}

// CreateUser creates the local player profile. A profile is created once;
// later calls return ProfileExists.
func (e *Engine) CreateUser(ctx context.Context, name string) (models.User, Outcome) {
	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	name = strings.TrimSpace(name)
	if models.ValidateName("player", name) != nil {
		e.observe("create_user", InvalidInput, start)
		return models.User{}, InvalidInput
	}
	if e.st.user != nil {
		e.observe("create_user", ProfileExists, start)
		return models.User{}, ProfileExists
	}

	user := models.User{
		ID:         e.newID(),
		Name:       name,
		Avatar:     models.AvatarURL(name),
		Coins:      constants.StartingCoins,
		TrustScore: constants.StartingTrustScore,
	}
	e.st.user = &user

	e.save(ctx, constants.KeyUser)
	e.refreshPlayerGauges()
	e.observe("create_user", OK, start)
	e.log.Info("Created player", "id", user.ID, "name", user.Name)
	return cloneUser(user), OK
}

// CreateGroup creates a group with the default weekly challenge.
func (e *Engine) CreateGroup(ctx context.Context, name string) (models.Group, Outcome) {
	return e.CreateGroupWith(ctx, name, models.ChallengeWeekly)
}

// CreateGroupWith creates a group the player joins immediately.
func (e *Engine) CreateGroupWith(ctx context.Context, name string, challenge models.ChallengeType) (models.Group, Outcome) {
	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.user == nil {
		e.observe("create_group", NoActiveUser, start)
		return models.Group{}, NoActiveUser
	}
	name = strings.TrimSpace(name)
	if models.ValidateName("group", name) != nil || !challenge.Valid() {
		e.observe("create_group", InvalidInput, start)
		return models.Group{}, InvalidInput
	}

	group := models.Group{
		ID:            e.newID(),
		Name:          name,
		MemberIDs:     []string{e.st.user.ID},
		CreatedAt:     e.now(),
		ChallengeType: challenge,
	}
	e.st.groups = append(e.st.groups, group)
	e.save(ctx, constants.KeyGroups)

	groupID := group.ID
	e.st.user.GroupID = &groupID
	e.save(ctx, constants.KeyUser)

	e.observe("create_group", OK, start)
	e.log.Info("Created group", "id", group.ID, "name", group.Name)
	return cloneGroup(group), OK
}

// JoinGroup adds the player to an existing group and makes it current.
func (e *Engine) JoinGroup(ctx context.Context, groupID string) Outcome {
	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.user == nil {
		e.observe("join_group", NoActiveUser, start)
		return NoActiveUser
	}
	idx := e.groupIndexLocked(groupID)
	if idx < 0 {
		e.observe("join_group", NotFound, start)
		return NotFound
	}
	if e.st.groups[idx].HasMember(e.st.user.ID) {
		e.observe("join_group", AlreadyMember, start)
		return AlreadyMember
	}

	g := cloneGroup(e.st.groups[idx])
	g.MemberIDs = append(g.MemberIDs, e.st.user.ID)
	e.st.groups[idx] = g
	e.save(ctx, constants.KeyGroups)

	id := g.ID
	e.st.user.GroupID = &id
	e.save(ctx, constants.KeyUser)

	e.observe("join_group", OK, start)
	e.log.Info("Joined group", "id", g.ID)
	return OK
}

// AddHabit creates a habit owned by the player. An empty icon picks the
// first icon of the palette.
func (e *Engine) AddHabit(ctx context.Context, name, icon string, isShared bool) (models.Habit, Outcome) {
	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.user == nil {
		e.observe("add_habit", NoActiveUser, start)
		return models.Habit{}, NoActiveUser
	}
	name = strings.TrimSpace(name)
	if models.ValidateName("habit", name) != nil {
		e.observe("add_habit", InvalidInput, start)
		return models.Habit{}, InvalidInput
	}
	if icon == "" {
		icon = constants.HabitIcons[0]
	}

	habit := models.Habit{
		ID:             e.newID(),
		Name:           name,
		Icon:           icon,
		UserID:         e.st.user.ID,
		IsShared:       isShared,
		Streak:         0,
		Multiplier:     constants.BaseMultiplier,
		CompletedDates: []string{},
	}
	e.st.habits = append(e.st.habits, habit)
	e.save(ctx, constants.KeyHabits)

	e.observe("add_habit", OK, start)
	return cloneHabit(habit), OK
}

// CompleteHabit records today's completion. The streak grows only when the
// previous completion was yesterday; any gap restarts it at 1. A second call
// on the same calendar day changes nothing.
func (e *Engine) CompleteHabit(ctx context.Context, habitID string) (Completion, Outcome) {
	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.user == nil {
		e.observe("complete_habit", NoActiveUser, start)
		return Completion{}, NoActiveUser
	}
	idx := e.habitIndexLocked(habitID)
	if idx < 0 || e.st.habits[idx].UserID != e.st.user.ID {
		e.observe("complete_habit", NotFound, start)
		return Completion{}, NotFound
	}

	now := e.now()
	today := models.CalendarDay(now, e.loc)
	habit := cloneHabit(e.st.habits[idx])
	if habit.CompletedOn(today) || (habit.LastCompleted != nil && *habit.LastCompleted == today) {
		e.observe("complete_habit", AlreadyCompleted, start)
		return Completion{}, AlreadyCompleted
	}
	yesterday, err := models.PreviousDay(today)
	if err != nil {
		e.log.Error("Failed to compute previous day", "today", today, "error", err)
		e.observe("complete_habit", InvalidInput, start)
		return Completion{}, InvalidInput
	}

	streak := models.NextStreak(habit, yesterday)
	multiplier := models.StreakMultiplier(streak)
	coins := models.CoinReward(multiplier)

	habit.Streak = streak
	habit.Multiplier = multiplier
	habit.LastCompleted = &today
	habit.CompletedDates = append(habit.CompletedDates, today)
	e.st.habits[idx] = habit
	e.save(ctx, constants.KeyHabits)

	e.st.user.Coins += coins
	e.save(ctx, constants.KeyUser)

	entry := models.HabitLog{
		ID:       e.newID(),
		HabitID:  habit.ID,
		UserID:   e.st.user.ID,
		Date:     today,
		Verified: true,
	}
	e.st.logs = append(e.st.logs, entry)
	e.save(ctx, constants.KeyLogs)

	e.prependActivityLocked(models.Activity{
		ID:        e.newID(),
		UserID:    e.st.user.ID,
		GroupID:   e.st.user.CurrentGroupID(),
		Timestamp: now,
		Data: models.CompletionData{
			HabitName: habit.Name,
			Coins:     coins,
			Streak:    streak,
		},
	})
	e.save(ctx, constants.KeyActivities)

	e.refreshPlayerGauges()
	e.observe("complete_habit", OK, start)
	e.log.Info("Completed habit", "habit", habit.Name, "streak", streak, "coins", coins)
	return Completion{Habit: cloneHabit(habit), CoinsEarned: coins, Day: today, Log: entry}, OK
}

// ApplySabotage spends coins to place a 24 hour debuff on targetUserID.
func (e *Engine) ApplySabotage(ctx context.Context, kind models.SabotageType, targetUserID string) (models.Sabotage, Outcome) {
	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.user == nil {
		e.observe("apply_sabotage", NoActiveUser, start)
		return models.Sabotage{}, NoActiveUser
	}
	cost, err := models.SabotageCost(kind)
	if err != nil || strings.TrimSpace(targetUserID) == "" || targetUserID == e.st.user.ID {
		e.observe("apply_sabotage", InvalidInput, start)
		return models.Sabotage{}, InvalidInput
	}
	if e.st.user.Coins < cost {
		e.observe("apply_sabotage", InsufficientFunds, start)
		return models.Sabotage{}, InsufficientFunds
	}

	now := e.now()
	sabotage := models.Sabotage{
		ID:         e.newID(),
		Type:       kind,
		FromUserID: e.st.user.ID,
		ToUserID:   targetUserID,
		GroupID:    e.st.user.CurrentGroupID(),
		Timestamp:  now,
		ExpiresAt:  now.Add(constants.SabotageDuration),
		Active:     true,
	}
	e.st.sabotages = append(e.st.sabotages, sabotage)
	e.save(ctx, constants.KeySabotages)

	e.st.user.Coins -= cost
	e.save(ctx, constants.KeyUser)

	e.prependActivityLocked(models.Activity{
		ID:           e.newID(),
		UserID:       e.st.user.ID,
		TargetUserID: targetUserID,
		GroupID:      e.st.user.CurrentGroupID(),
		Timestamp:    now,
		Data: models.SabotageData{
			SabotageType: kind,
			Coins:        cost,
		},
	})
	e.save(ctx, constants.KeyActivities)

	e.refreshPlayerGauges()
	e.observe("apply_sabotage", OK, start)
	e.log.Info("Applied sabotage", "type", kind, "target", targetUserID, "cost", cost)
	return sabotage, OK
}

func (e *Engine) prependActivityLocked(a models.Activity) {
	e.st.activities = append([]models.Activity{a}, e.st.activities...)
}

func (e *Engine) habitIndexLocked(id string) int {
	for i := range e.st.habits {
		if e.st.habits[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) groupIndexLocked(id string) int {
	for i := range e.st.groups {
		if e.st.groups[i].ID == id {
			return i
		}
	}
	return -1
}
