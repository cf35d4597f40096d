package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streakwars/internal/engine"
	"github.com/julianstephens/streakwars/internal/models"
	"github.com/julianstephens/streakwars/internal/tui/components/feed"
	"github.com/julianstephens/streakwars/internal/tui/components/habitlist"
	"github.com/julianstephens/streakwars/internal/tui/components/shop"
	"github.com/julianstephens/streakwars/internal/views"
)

type SessionState int

const (
	StateHome SessionState = iota
	StateFeed
	StateLeaderboard
	StateSabotage
	StateAddHabit
	StatePickTarget
)

var tabTitles = []string{"Home", "Feed", "Leaderboard", "Sabotage"}

// refreshInterval keeps relative timestamps and sabotage expiry current.
const refreshInterval = 30 * time.Second

type tickMsg time.Time

type HabitFormModel struct {
	Name   string
	Icon   string
	Shared bool
}

type TargetFormModel struct {
	Type   models.SabotageType
	Target string
}

type Model struct {
	ctx        context.Context
	game       *engine.Engine
	snap       engine.Snapshot
	state      SessionState
	prevState  SessionState
	keys       KeyMap
	help       help.Model
	habitList  habitlist.Model
	feedModel  feed.Model
	shopModel  shop.Model
	form       *huh.Form
	habitForm  *HabitFormModel
	targetForm *TargetFormModel
	status     string
	statusErr  bool
	quitting   bool
	width      int
	height     int
}

func NewModel(ctx context.Context, game *engine.Engine) Model {
	m := Model{
		ctx:       ctx,
		game:      game,
		state:     StateHome,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		habitList: habitlist.New(0, 0),
		feedModel: feed.New(0, 0),
		shopModel: shop.New(0, 0),
	}
	m.refresh()
	return m
}

// Run starts the full-screen interface and blocks until the user quits or
// ctx is canceled.
func Run(ctx context.Context, game *engine.Engine) error {
	p := tea.NewProgram(NewModel(ctx, game), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh pulls a fresh snapshot into every component.
func (m *Model) refresh() {
	m.snap = m.game.Snapshot()
	m.habitList.SetHabits(views.PlayerHabits(m.snap), m.snap.Today())
	m.feedModel.SetSnapshot(m.snap)
	coins := 0
	if m.snap.User != nil {
		coins = m.snap.User.Coins
	}
	m.shopModel.SetCoins(coins)
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m *Model) resize() {
	// tabs, stats line, status line and help
	h := max(m.height-6, 0)
	m.habitList.SetSize(m.width, h)
	m.feedModel.SetSize(m.width, h)
	m.shopModel.SetSize(m.width, max(h-3, 0))
	m.help.Width = m.width
}
