package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/streakwars/internal/constants"
	"github.com/julianstephens/streakwars/internal/views"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a habit."`
	List     HabitListCmd     `cmd:"" help:"List your habits." default:"1"`
	Complete HabitCompleteCmd `cmd:"" help:"Mark a habit done for today."`
	Icons    HabitIconsCmd    `cmd:"" help:"Show the icon palette."`
}

type HabitAddCmd struct {
	Name   string `arg:"" help:"Habit name."`
	Icon   string `help:"Icon shown next to the habit." default:""`
	Shared bool   `help:"Share completions with your group."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	game, err := ctx.Game()
	if err != nil {
		return err
	}
	h, out := game.AddHabit(ctx.Context(), c.Name, c.Icon, c.Shared)
	if err := outcomeErr("add habit", out); err != nil {
		return err
	}
	ctx.printf("✓ Added %s %s\n", h.Icon, h.Name)
	ctx.printf("  id: %s\n", h.ID)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	game, err := ctx.requireUser()
	if err != nil {
		return err
	}
	habits := views.PlayerHabits(game.Snapshot())
	if len(habits) == 0 {
		ctx.println("No habits yet. Add one with 'streakwars habit add <name>'.")
		return nil
	}

	today := game.Today()
	ctx.println(titleStyle.Render("Habits for " + today))
	for _, h := range habits {
		ctx.println("  " + habitLine(h, today))
	}
	return nil
}

type HabitCompleteCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *HabitCompleteCmd) Run(ctx *Context) error {
	game, err := ctx.requireUser()
	if err != nil {
		return err
	}
	h, err := findHabit(views.PlayerHabits(game.Snapshot()), c.Habit)
	if err != nil {
		return err
	}

	done, out := game.CompleteHabit(ctx.Context(), h.ID)
	if err := outcomeErr(fmt.Sprintf("complete %q", h.Name), out); err != nil {
		return err
	}
	ctx.printf("✓ %s %s done! +%d 🪙\n", done.Habit.Icon, done.Habit.Name, done.CoinsEarned)
	ctx.printf("  Streak: %d day(s), multiplier x%.1f\n", done.Habit.Streak, done.Habit.Multiplier)
	if done.Habit.Streak == constants.StreakBonusThreshold {
		ctx.println(coinStyle.Render("  🔥 Streak bonus unlocked!"))
	}
	return nil
}

type HabitIconsCmd struct{}

func (c *HabitIconsCmd) Run(ctx *Context) error {
	ctx.println(strings.Join(constants.HabitIcons, "  "))
	ctx.println(mutedStyle.Render("The first icon is used when --icon is omitted."))
	return nil
}
