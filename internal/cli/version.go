package cli

import "github.com/julianstephens/streakwars/internal/constants"

type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *Context) error {
	ctx.printf("%s %s\n", constants.AppName, constants.Version)
	return nil
}
