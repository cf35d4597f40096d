package feed

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streakwars/internal/engine"
	"github.com/julianstephens/streakwars/internal/views"
)

var (
	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	empty    bool
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height), empty: true}
}

// SetSnapshot renders the group feed of snap.
func (m *Model) SetSnapshot(snap engine.Snapshot) {
	activities := views.GroupFeed(snap)
	m.empty = len(activities) == 0

	userID := ""
	if snap.User != nil {
		userID = snap.User.ID
	}
	var b strings.Builder
	for _, a := range activities {
		b.WriteString(views.ActivityIcon(a.Type()))
		b.WriteString(" ")
		b.WriteString(textStyle.Render(views.ActivityText(a, userID)))
		b.WriteString("\n   ")
		b.WriteString(timeStyle.Render(views.TimeAgo(a.Timestamp, snap.Now)))
		b.WriteString("\n\n")
	}
	m.viewport.SetContent(b.String())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.empty {
		return "\n  No activity yet.\n  Complete a habit to get things going."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
}
