package cli

type DemoCmd struct{}

func (c *DemoCmd) Run(ctx *Context) error {
	game, err := ctx.Game()
	if err != nil {
		return err
	}
	added, out := game.SeedDemo(ctx.Context())
	if err := outcomeErr("seed demo data", out); err != nil {
		return err
	}
	if added == 0 {
		ctx.println("Demo data is already present.")
		return nil
	}
	ctx.printf("✓ Added %d demo records\n", added)
	return nil
}
