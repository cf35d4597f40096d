package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streakwars/internal/models"
)

type AddHabitMsg struct{}

type CompleteHabitMsg struct {
	ID string
}

type Item struct {
	Habit models.Habit
	Done  bool
}

func (i Item) Title() string {
	mark := "○"
	if i.Done {
		mark = "●"
	}
	return fmt.Sprintf("%s %s %s", mark, i.Habit.Icon, i.Habit.Name)
}

func (i Item) Description() string {
	desc := fmt.Sprintf("🔥 %d day streak | x%.1f", i.Habit.Streak, i.Habit.Multiplier)
	if i.Habit.IsShared {
		desc += " | shared"
	}
	if i.Done {
		desc += " | done today"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add      key.Binding
	Complete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add habit"),
		),
		Complete: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "complete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Complete, keys.Add}
	}
	return Model{list: l, keys: keys}
}

// SetHabits replaces the items, marking those completed on today.
func (m *Model) SetHabits(habits []models.Habit, today string) {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{Habit: h, Done: h.CompletedOn(today)}
	}
	m.list.SetItems(items)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Complete):
			if i, ok := m.list.SelectedItem().(Item); ok && !i.Done {
				return m, func() tea.Msg { return CompleteHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
