package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/streakwars/internal/constants"
	"github.com/julianstephens/streakwars/internal/engine"
	"github.com/julianstephens/streakwars/internal/models"
	"github.com/julianstephens/streakwars/internal/storage/memory"
	"github.com/julianstephens/streakwars/internal/tui/components/habitlist"
	"github.com/julianstephens/streakwars/internal/tui/components/shop"
)

func newTestGame(t *testing.T) *engine.Engine {
	t.Helper()
	return newTestGameWith(t, memory.NewStore())
}

func newTestGameWith(t *testing.T, store *memory.Store) *engine.Engine {
	t.Helper()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	n := 0
	game := engine.New(store,
		engine.WithClock(func() time.Time { return now }),
		engine.WithLocation(time.UTC),
		engine.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%04d", n)
		}),
		engine.WithSyncPersistence(),
		engine.WithLogger(log.New(io.Discard)),
	)
	game.Load(context.Background())
	t.Cleanup(func() { _ = game.Close(context.Background()) })
	return game
}

func putJSON(t *testing.T, store *memory.Store, key string, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	store.Put(key, b)
}

func ptr[T any](v T) *T { return &v }

// send feeds msg to the model and then any messages produced by the
// returned command, one level deep.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if out := cmd(); out != nil {
		switch out.(type) {
		case habitlist.CompleteHabitMsg, habitlist.AddHabitMsg, shop.BuyMsg:
			next, _ = m.Update(out)
			m = next.(Model)
		}
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEnterCompletesSelectedHabit(t *testing.T) {
	ctx := context.Background()
	game := newTestGame(t)
	_, o := game.CreateUser(ctx, "Alex")
	require.Equal(t, engine.OK, o)
	h, o := game.AddHabit(ctx, "Read", "📚", false)
	require.Equal(t, engine.OK, o)

	m := NewModel(ctx, game)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = send(t, m, keyMsg("enter"))

	got, ok := game.Habit(h.ID)
	require.True(t, ok)
	assert.Equal(t, 1, got.Streak)
	assert.Contains(t, m.status, "+10 coins")
	assert.False(t, m.statusErr)

	user, _ := game.User()
	assert.Equal(t, 110, user.Coins)
	assert.Contains(t, m.View(), "110")
}

func TestTabCyclesScreens(t *testing.T) {
	game := newTestGame(t)
	m := NewModel(context.Background(), game)

	for _, want := range []SessionState{StateFeed, StateLeaderboard, StateSabotage, StateHome} {
		m = send(t, m, keyMsg("tab"))
		assert.Equal(t, want, m.state)
	}
}

func TestAddHabitOpensFormAndEscCancels(t *testing.T) {
	ctx := context.Background()
	game := newTestGame(t)
	_, _ = game.CreateUser(ctx, "Alex")

	m := NewModel(ctx, game)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = send(t, m, keyMsg("a"))
	require.Equal(t, StateAddHabit, m.state)
	require.NotNil(t, m.form)

	// q types into the form instead of quitting
	m = send(t, m, keyMsg("q"))
	assert.False(t, m.quitting)

	m = send(t, m, keyMsg("esc"))
	assert.Equal(t, StateHome, m.state)
	assert.Nil(t, m.form)
	assert.Empty(t, game.Habits())
}

func TestBuyWithoutTargetsShowsError(t *testing.T) {
	ctx := context.Background()
	game := newTestGame(t)
	_, _ = game.CreateUser(ctx, "Alex")

	m := NewModel(ctx, game)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m.state = StateSabotage
	m = send(t, m, keyMsg("enter"))

	assert.Equal(t, StateSabotage, m.state)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "No one to sabotage")
}

func TestBuyPicksTargetAndApplies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	putJSON(t, store, constants.KeyUser, models.User{ID: "u1", Name: "Alex", Coins: 100, TrustScore: 1, GroupID: ptr("g1")})
	putJSON(t, store, constants.KeyGroups, []models.Group{{ID: "g1", Name: "Crew", MemberIDs: []string{"u1", "rival-42"}, ChallengeType: models.ChallengeWeekly}})
	game := newTestGameWith(t, store)

	m := NewModel(ctx, game)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m.state = StateSabotage
	m = send(t, m, keyMsg("enter"))
	require.Equal(t, StatePickTarget, m.state)
	require.NotNil(t, m.targetForm)
	assert.Equal(t, models.SabotageDelay, m.targetForm.Type)
	assert.Equal(t, "rival-42", m.targetForm.Target)

	m.submitSabotage()
	m.closeForm()
	assert.Equal(t, StateSabotage, m.state)
	assert.False(t, m.statusErr, m.status)
	assert.Contains(t, m.status, "Player l-42")

	user, _ := game.User()
	assert.Equal(t, 75, user.Coins)
	require.Len(t, game.Sabotages(), 1)
	assert.Equal(t, "rival-42", game.Sabotages()[0].ToUserID)
}

func TestLeaderboardView(t *testing.T) {
	ctx := context.Background()
	game := newTestGame(t)
	m := NewModel(ctx, game)
	m.state = StateLeaderboard
	assert.Contains(t, m.View(), "Join or create a group")

	_, _ = game.CreateUser(ctx, "Alex")
	_, _ = game.CreateGroup(ctx, "Crew")
	m = send(t, m, keyMsg("r"))
	view := m.View()
	assert.Contains(t, view, "Crew")
	assert.True(t, strings.Contains(view, "Alex"))
}

func TestQuit(t *testing.T) {
	m := NewModel(context.Background(), newTestGame(t))
	next, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.True(t, next.(Model).quitting)
	assert.Empty(t, next.(Model).View())
}
