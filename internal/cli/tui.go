package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streakwars/internal/tui"
)

type TuiCmd struct{}

func (cmd *TuiCmd) Run(ctx *Context) error {
	game, err := ctx.requireUser()
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	if err := tui.Run(ctx.Context(), game); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
