package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streakwars/internal/constants"
	"github.com/julianstephens/streakwars/internal/engine"
	"github.com/julianstephens/streakwars/internal/models"
	"github.com/julianstephens/streakwars/internal/tui/components/habitlist"
	"github.com/julianstephens/streakwars/internal/tui/components/shop"
	"github.com/julianstephens/streakwars/internal/views"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tickMsg:
		m.refresh()
		return m, tick()

	case habitlist.AddHabitMsg:
		return m, m.openHabitForm()

	case habitlist.CompleteHabitMsg:
		m.completeHabit(msg.ID)
		return m, nil

	case shop.BuyMsg:
		return m, m.openTargetForm(msg.Type)
	}

	if m.state == StateAddHabit || m.state == StatePickTarget {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			m.status = ""
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
			m.status = ""
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHome:
		m.habitList, cmd = m.habitList.Update(msg)
	case StateFeed:
		m.feedModel, cmd = m.feedModel.Update(msg)
	case StateSabotage:
		m.shopModel, cmd = m.shopModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Cancel) {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.state == StateAddHabit {
			m.submitHabit()
		} else {
			m.submitSabotage()
		}
		m.closeForm()
		return m, nil
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m *Model) closeForm() {
	m.state = m.prevState
	m.form = nil
	m.habitForm = nil
	m.targetForm = nil
}

func (m *Model) openHabitForm() tea.Cmd {
	m.habitForm = &HabitFormModel{Icon: constants.HabitIcons[0]}
	icons := make([]huh.Option[string], len(constants.HabitIcons))
	for i, icon := range constants.HabitIcons {
		icons[i] = huh.NewOption(icon, icon)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit name").
				Value(&m.habitForm.Name).
				Validate(func(s string) error {
					return models.ValidateName("habit", s)
				}),
			huh.NewSelect[string]().
				Title("Icon").
				Options(icons...).
				Value(&m.habitForm.Icon),
			huh.NewConfirm().
				Title("Share with your group?").
				Value(&m.habitForm.Shared),
		),
	).WithShowHelp(false)
	m.prevState = StateHome
	m.state = StateAddHabit
	return m.form.Init()
}

func (m *Model) openTargetForm(kind models.SabotageType) tea.Cmd {
	m.refresh()
	targets := views.SabotageTargets(m.snap)
	if len(targets) == 0 {
		m.setStatus("No one to sabotage yet. Join a group first.", true)
		return nil
	}

	m.targetForm = &TargetFormModel{Type: kind, Target: targets[0]}
	opts := make([]huh.Option[string], len(targets))
	for i, id := range targets {
		opts[i] = huh.NewOption(views.PlaceholderName(id), id)
	}
	offer, _ := kind.Offer()

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("%s (%d coins): choose a target", offer.Name, offer.Cost)).
				Options(opts...).
				Value(&m.targetForm.Target),
		),
	).WithShowHelp(false)
	m.prevState = StateSabotage
	m.state = StatePickTarget
	return m.form.Init()
}

func (m *Model) submitHabit() {
	h, o := m.game.AddHabit(m.ctx, strings.TrimSpace(m.habitForm.Name), m.habitForm.Icon, m.habitForm.Shared)
	m.refresh()
	if o != engine.OK {
		m.setStatus("Could not add habit: "+o.Err().Error(), true)
		return
	}
	m.setStatus(fmt.Sprintf("Added %s %s", h.Icon, h.Name), false)
}

func (m *Model) submitSabotage() {
	s, o := m.game.ApplySabotage(m.ctx, m.targetForm.Type, m.targetForm.Target)
	m.refresh()
	if o != engine.OK {
		m.setStatus("Sabotage failed: "+o.Err().Error(), true)
		return
	}
	offer, _ := s.Type.Offer()
	m.setStatus(fmt.Sprintf("%s sent to %s for %d coins", offer.Name, views.PlaceholderName(s.ToUserID), offer.Cost), false)
}

func (m *Model) completeHabit(id string) {
	c, o := m.game.CompleteHabit(m.ctx, id)
	m.refresh()
	switch o {
	case engine.OK:
		m.setStatus(fmt.Sprintf("%s +%d coins, %d day streak", c.Habit.Name, c.CoinsEarned, c.Habit.Streak), false)
	case engine.AlreadyCompleted:
		m.setStatus("Already completed today", false)
	default:
		m.setStatus("Could not complete habit: "+o.Err().Error(), true)
	}
}
