package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/streakwars/internal/models"
	"github.com/julianstephens/streakwars/internal/views"
)

type SabotageCmd struct {
	Shop   SabotageShopCmd   `cmd:"" help:"List sabotages and their prices." default:"1"`
	Apply  SabotageApplyCmd  `cmd:"" help:"Buy a sabotage against a group member."`
	Active SabotageActiveCmd `cmd:"" help:"Show sabotages in effect."`
}

type SabotageShopCmd struct{}

func (c *SabotageShopCmd) Run(ctx *Context) error {
	coins := -1
	if game, err := ctx.Game(); err == nil {
		if u, ok := game.User(); ok {
			coins = u.Coins
		}
	}

	ctx.println(titleStyle.Render("Sabotage shop"))
	for _, o := range models.SabotageCatalog {
		price := coinStyle.Render(fmt.Sprintf("%d 🪙", o.Cost))
		if coins >= 0 && coins < o.Cost {
			price = mutedStyle.Render(fmt.Sprintf("%d 🪙 (need %d more)", o.Cost, o.Cost-coins))
		}
		ctx.printf("  %-6s %-16s %s\n", o.Type, o.Name, price)
		ctx.printf("         %s\n", mutedStyle.Render(o.Description))
	}
	if coins >= 0 {
		ctx.printf("\nYou have %s.\n", views.FormatCoins(coins))
	}
	return nil
}

type SabotageApplyCmd struct {
	Type   string `arg:"" help:"Sabotage type." enum:"delay,proof,jam"`
	Target string `arg:"" help:"Target member id (see 'streakwars group show')."`
}

func (c *SabotageApplyCmd) Run(ctx *Context) error {
	game, err := ctx.requireUser()
	if err != nil {
		return err
	}
	kind, err := models.ParseSabotageType(c.Type)
	if err != nil {
		return err
	}

	s, out := game.ApplySabotage(ctx.Context(), kind, c.Target)
	if err := outcomeErr("apply sabotage", out); err != nil {
		return err
	}
	offer, _ := kind.Offer()
	u, _ := game.User()
	ctx.printf("⚡ %s applied to %s until %s\n", offer.Name, views.PlaceholderName(s.ToUserID), s.ExpiresAt.In(game.Location()).Format("Mon 15:04"))
	ctx.printf("  -%d 🪙, %s left\n", offer.Cost, views.FormatCoins(u.Coins))
	return nil
}

type SabotageActiveCmd struct {
	User string `help:"Member id to inspect (defaults to you)."`
}

func (c *SabotageActiveCmd) Run(ctx *Context) error {
	game, err := ctx.requireUser()
	if err != nil {
		return err
	}
	u, _ := game.User()
	target := c.User
	if target == "" {
		target = u.ID
	}

	active := game.GetActiveSabotages(target)
	if len(active) == 0 {
		ctx.println("No active sabotages.")
		return nil
	}
	now := game.Now()
	for _, s := range active {
		offer, _ := s.Type.Offer()
		from := views.PlaceholderName(s.FromUserID)
		if s.FromUserID == u.ID {
			from = "you"
		}
		ctx.printf("  %s from %s, %s left\n", offer.Name, from, s.Remaining(now).Round(time.Minute))
	}
	return nil
}
