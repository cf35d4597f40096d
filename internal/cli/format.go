package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/streakwars/internal/engine"
	"github.com/julianstephens/streakwars/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	coinStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// outcomeErr turns a rejected command into an error naming what failed.
func outcomeErr(action string, o engine.Outcome) error {
	return fmt.Errorf("%s: %w", action, o.Err())
}

// interactive reports whether c.In is a terminal a form can drive.
func (c *Context) interactive() bool {
	f, ok := c.In.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// findHabit resolves ref as a full id, a unique id prefix or a
// case-insensitive habit name.
func findHabit(habits []models.Habit, ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
	}

	var matches []models.Habit
	for _, h := range habits {
		if strings.HasPrefix(h.ID, ref) || strings.EqualFold(h.Name, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return models.Habit{}, fmt.Errorf("habit %q: %w", ref, engine.NotFound.Err())
	default:
		return models.Habit{}, fmt.Errorf("habit %q is ambiguous (%d matches), use the full id", ref, len(matches))
	}
}

// findGroup resolves ref as a full id or unique id prefix.
func findGroup(groups []models.Group, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	var matches []string
	for _, g := range groups {
		if g.ID == ref {
			return g.ID, nil
		}
		if strings.HasPrefix(g.ID, ref) || strings.EqualFold(g.Name, ref) {
			matches = append(matches, g.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		// Unknown ids go to the engine, which reports NotFound.
		return ref, nil
	default:
		return "", errors.New("group reference is ambiguous, use the full id")
	}
}

func habitLine(h models.Habit, today string) string {
	mark := "[ ]"
	if h.CompletedOn(today) {
		mark = "[✓]"
	}
	shared := ""
	if h.IsShared {
		shared = mutedStyle.Render(" (shared)")
	}
	return fmt.Sprintf("%s %s %s%s  🔥 %d  x%.1f  %s", mark, h.Icon, h.Name, shared, h.Streak, h.Multiplier, mutedStyle.Render(h.ID))
}
