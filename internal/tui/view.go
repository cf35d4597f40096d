package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streakwars/internal/views"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateHome:
		content = m.viewHome()
	case StateFeed:
		content = m.feedModel.View()
	case StateLeaderboard:
		content = m.viewLeaderboard()
	case StateSabotage:
		content = m.viewSabotage()
	case StateAddHabit, StatePickTarget:
		content = docStyle.Render(m.form.View())
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewStats(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
	return ui
}

func (m Model) viewTabs() string {
	active := m.state
	if active == StateAddHabit || active == StatePickTarget {
		active = m.prevState
	}

	var tabs []string
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStats() string {
	if m.snap.User == nil {
		return dangerStyle.Render("No player yet. Run `streakwars init` first.")
	}
	s := views.Stats(m.snap, m.snap.Today())
	return statsStyle.Render(fmt.Sprintf("%s  |  %d/%d today  |  🔥 %d best  |  %d%% trust",
		views.FormatCoins(s.Coins), s.CompletedToday, s.TotalHabits, s.BestStreak, s.TrustPercent))
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return dangerStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}

func (m Model) viewHome() string {
	return m.habitList.View()
}

func (m Model) viewLeaderboard() string {
	entries := views.Leaderboard(m.snap)
	if len(entries) == 0 {
		return docStyle.Render("Join or create a group to see the leaderboard.")
	}

	var b strings.Builder
	if g, ok := m.snap.CurrentGroup(); ok {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%s (%s challenge)", g.Name, g.ChallengeType)))
		b.WriteString("\n\n")
	}
	for i, e := range entries {
		line := fmt.Sprintf("%-3s %-16s %12s  🔥 %-3d  %3.0f%%",
			views.RankBadge(i), e.Name, views.FormatCoins(e.Coins), e.BestStreak, e.TrustScore*100)
		if e.IsYou {
			line = youStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return docStyle.Render(b.String())
}

func (m Model) viewSabotage() string {
	var header string
	if m.snap.User != nil {
		active := m.game.GetActiveSabotages(m.snap.User.ID)
		if len(active) > 0 {
			var lines []string
			for _, s := range active {
				offer, _ := s.Type.Offer()
				left := s.Remaining(m.snap.Now).Round(time.Minute)
				lines = append(lines, fmt.Sprintf("⚠ %s on you, %s left", offer.Name, left))
			}
			header = dangerStyle.Render(strings.Join(lines, "\n"))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.shopModel.View())
}
