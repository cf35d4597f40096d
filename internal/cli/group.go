package cli

import (
	"github.com/julianstephens/streakwars/internal/models"
	"github.com/julianstephens/streakwars/internal/views"
)

type GroupCmd struct {
	Create GroupCreateCmd `cmd:"" help:"Create a group and join it."`
	Join   GroupJoinCmd   `cmd:"" help:"Join a group by id."`
	Show   GroupShowCmd   `cmd:"" help:"Show your current group." default:"1"`
}

type GroupCreateCmd struct {
	Name      string `arg:"" help:"Group name."`
	Challenge string `help:"Challenge type." enum:"weekly,monthly" default:"weekly"`
}

func (c *GroupCreateCmd) Run(ctx *Context) error {
	game, err := ctx.Game()
	if err != nil {
		return err
	}
	challenge, err := models.ParseChallengeType(c.Challenge)
	if err != nil {
		return err
	}
	g, out := game.CreateGroupWith(ctx.Context(), c.Name, challenge)
	if err := outcomeErr("create group", out); err != nil {
		return err
	}
	ctx.printf("✓ Created group %s (%s challenge)\n", g.Name, g.ChallengeType)
	ctx.printf("  id: %s\n", g.ID)
	return nil
}

type GroupJoinCmd struct {
	ID string `arg:"" help:"Group id, id prefix or name."`
}

func (c *GroupJoinCmd) Run(ctx *Context) error {
	game, err := ctx.Game()
	if err != nil {
		return err
	}
	id, err := findGroup(game.Groups(), c.ID)
	if err != nil {
		return err
	}
	if err := outcomeErr("join group", game.JoinGroup(ctx.Context(), id)); err != nil {
		return err
	}
	g, _ := game.Group(id)
	ctx.printf("✓ Joined %s\n", g.Name)
	return nil
}

type GroupShowCmd struct{}

func (c *GroupShowCmd) Run(ctx *Context) error {
	game, err := ctx.requireUser()
	if err != nil {
		return err
	}
	snap := game.Snapshot()
	g, ok := snap.CurrentGroup()
	if !ok {
		ctx.println("You are not in a group. Create one with 'streakwars group create <name>'.")
		return nil
	}

	ctx.println(titleStyle.Render(g.Name))
	ctx.printf("  id:        %s\n", g.ID)
	ctx.printf("  challenge: %s\n", g.ChallengeType)
	ctx.printf("  created:   %s\n", g.CreatedAt.In(snap.Location).Format("2006-01-02"))
	ctx.printf("  members:   %d\n", len(g.MemberIDs))
	for _, id := range g.MemberIDs {
		name := views.PlaceholderName(id)
		if id == snap.User.ID {
			name = snap.User.Name + " (you)"
		}
		ctx.printf("    • %s\n", name)
	}
	return nil
}
