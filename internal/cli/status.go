package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/streakwars/internal/views"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *Context) error {
	game, err := ctx.requireUser()
	if err != nil {
		return err
	}
	snap := game.Snapshot()
	stats := views.Stats(snap, snap.Today())

	ctx.println(titleStyle.Render(snap.User.Name))
	ctx.printf("  Coins:       %s\n", coinStyle.Render(views.FormatCoins(stats.Coins)))
	ctx.printf("  Trust:       %d%%\n", stats.TrustPercent)
	ctx.printf("  Today:       %d/%d habits done\n", stats.CompletedToday, stats.TotalHabits)
	ctx.printf("  Best streak: %d days\n", stats.BestStreak)

	if g, ok := snap.CurrentGroup(); ok {
		entries := views.Leaderboard(snap)
		ctx.printf("  Group:       %s (rank %d of %d)\n", g.Name, views.Rank(entries), len(entries))
	} else {
		ctx.println("  Group:       none")
	}

	active := game.GetActiveSabotages(snap.User.ID)
	if len(active) > 0 {
		ctx.println()
		ctx.println(warnStyle.Render(fmt.Sprintf("⚠ %d sabotage(s) active against you", len(active))))
		for _, s := range active {
			offer, _ := s.Type.Offer()
			ctx.printf("  %s: %s (%s left)\n", offer.Name, offer.Description, s.Remaining(snap.Now).Round(time.Minute))
		}
	}

	if h := game.Health(); h.Degraded {
		ctx.println()
		ctx.println(warnStyle.Render("⚠ Some changes could not be saved; run 'streakwars doctor'"))
	}
	return nil
}
