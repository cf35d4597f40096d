package cli

import (
	"github.com/julianstephens/streakwars/internal/views"
)

type LeaderboardCmd struct{}

func (c *LeaderboardCmd) Run(ctx *Context) error {
	game, err := ctx.requireUser()
	if err != nil {
		return err
	}
	snap := game.Snapshot()
	g, ok := snap.CurrentGroup()
	if !ok {
		ctx.println("Join a group to see the leaderboard.")
		return nil
	}

	ctx.println(titleStyle.Render("🏆 " + g.Name))
	for i, e := range views.Leaderboard(snap) {
		name := e.Name
		if e.IsYou {
			name = titleStyle.Render(name + " (you)")
		}
		ctx.printf("  %-4s %-24s %10s  🔥 %-3d trust %.0f%%\n",
			views.RankBadge(i), name, views.FormatCoins(e.Coins), e.BestStreak, e.TrustScore*100)
	}
	return nil
}
