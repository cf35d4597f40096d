package shop

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streakwars/internal/models"
)

// BuyMsg asks the parent to pick a target for the chosen sabotage.
type BuyMsg struct {
	Type models.SabotageType
}

type Item struct {
	Offer      models.SabotageOffer
	Affordable bool
}

func (i Item) Title() string {
	return fmt.Sprintf("%s  %d 🪙", i.Offer.Name, i.Offer.Cost)
}

func (i Item) Description() string {
	if !i.Affordable {
		return i.Offer.Description + " | not enough coins"
	}
	return i.Offer.Description
}

func (i Item) FilterValue() string { return i.Offer.Name }

type Model struct {
	list list.Model
	buy  key.Binding
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	buy := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "buy"),
	)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{buy}
	}
	m := Model{list: l, buy: buy}
	m.SetCoins(0)
	return m
}

// SetCoins refreshes which offers the player can afford.
func (m *Model) SetCoins(coins int) {
	items := make([]list.Item, len(models.SabotageCatalog))
	for i, o := range models.SabotageCatalog {
		items[i] = Item{Offer: o, Affordable: coins >= o.Cost}
	}
	m.list.SetItems(items)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.buy) {
		if i, ok := m.list.SelectedItem().(Item); ok {
			return m, func() tea.Msg { return BuyMsg{Type: i.Offer.Type} }
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
