package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streakwars/internal/config"
	"github.com/julianstephens/streakwars/internal/constants"
	"github.com/julianstephens/streakwars/internal/models"
)

const (
	groupSkip   = "skip"
	groupCreate = "create"
	groupJoin   = "join"
)

// InitCmd creates the player profile and, optionally, a first group.
type InitCmd struct {
	Name      string `arg:"" optional:"" help:"Player name."`
	Group     string `help:"Create a group with this name."`
	Join      string `help:"Join an existing group by id."`
	Challenge string `help:"Challenge type for a new group." enum:"weekly,monthly" default:"weekly"`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Group != "" && c.Join != "" {
		return errors.New("--group and --join are mutually exclusive")
	}

	game, err := ctx.Game()
	if err != nil {
		return err
	}
	if existing, ok := game.User(); ok {
		return fmt.Errorf("player %q already exists", existing.Name)
	}

	if strings.TrimSpace(c.Name) == "" {
		if !ctx.interactive() {
			return errors.New("player name is required when not running in a terminal")
		}
		if err := c.runForm(); err != nil {
			return err
		}
	}

	user, out := game.CreateUser(ctx.Context(), c.Name)
	if err := outcomeErr("create player", out); err != nil {
		return err
	}
	ctx.printf("✓ Welcome, %s! You start with %s.\n", user.Name, coinStyle.Render(fmt.Sprintf("%d 🪙", user.Coins)))

	switch {
	case c.Group != "":
		challenge, err := models.ParseChallengeType(c.Challenge)
		if err != nil {
			return err
		}
		g, out := game.CreateGroupWith(ctx.Context(), c.Group, challenge)
		if err := outcomeErr("create group", out); err != nil {
			return err
		}
		ctx.printf("✓ Created group %s (%s challenge)\n", g.Name, g.ChallengeType)
		ctx.printf("  Share this id so friends can join: %s\n", g.ID)
	case c.Join != "":
		id, err := findGroup(game.Groups(), c.Join)
		if err != nil {
			return err
		}
		if err := outcomeErr("join group", game.JoinGroup(ctx.Context(), id)); err != nil {
			return err
		}
		ctx.printf("✓ Joined group %s\n", id)
	}

	if err := c.writeConfig(ctx.Config); err != nil {
		return err
	}
	ctx.println(mutedStyle.Render("Add a habit with 'streakwars habit add <name>' or run 'streakwars' for the TUI."))
	return nil
}

// runForm asks for whatever the flags left out.
func (c *InitCmd) runForm() error {
	choice := groupSkip
	var groupRef string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What should we call you?").
				Value(&c.Name).
				Validate(func(s string) error {
					return models.ValidateName("player", strings.TrimSpace(s))
				}),
			huh.NewSelect[string]().
				Title("Compete with friends?").
				Options(
					huh.NewOption("Not yet", groupSkip),
					huh.NewOption("Create a group", groupCreate),
					huh.NewOption("Join a group", groupJoin),
				).
				Value(&choice),
		),
		huh.NewGroup(
			huh.NewInput().
				TitleFunc(func() string {
					if choice == groupJoin {
						return "Group id"
					}
					return "Group name"
				}, &choice).
				Value(&groupRef).
				Validate(func(s string) error {
					return models.ValidateName("group", strings.TrimSpace(s))
				}),
		).WithHideFunc(func() bool { return choice == groupSkip }),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("setup canceled")
		}
		return err
	}

	switch choice {
	case groupCreate:
		c.Group = groupRef
	case groupJoin:
		c.Join = groupRef
	}
	return nil
}

// writeConfig records the chosen backend so later runs need no flags. An
// existing config file is left untouched.
func (c *InitCmd) writeConfig(cfg config.Config) error {
	if cfg.Store == constants.StoreMemory {
		return nil
	}
	if _, err := os.Stat(config.FilePath(cfg.ConfigDir)); err == nil {
		return nil
	}
	return cfg.Write()
}
