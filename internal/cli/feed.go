package cli

import (
	"github.com/julianstephens/streakwars/internal/views"
)

type FeedCmd struct {
	Limit int `help:"Maximum number of entries." default:"20"`
}

func (c *FeedCmd) Run(ctx *Context) error {
	game, err := ctx.requireUser()
	if err != nil {
		return err
	}
	snap := game.Snapshot()
	feed := views.GroupFeed(snap)
	if len(feed) == 0 {
		ctx.println("Nothing here yet. Complete a habit to get things going.")
		return nil
	}
	if c.Limit > 0 && len(feed) > c.Limit {
		feed = feed[:c.Limit]
	}

	for _, a := range feed {
		ctx.printf("%s %s %s\n",
			views.ActivityIcon(a.Type()),
			views.ActivityText(a, snap.User.ID),
			mutedStyle.Render(views.TimeAgo(a.Timestamp, snap.Now)))
	}
	return nil
}
