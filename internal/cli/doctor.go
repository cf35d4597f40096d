package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/streakwars/internal/constants"
	"github.com/julianstephens/streakwars/internal/engine"
	"github.com/julianstephens/streakwars/internal/keyring"
	"github.com/julianstephens/streakwars/internal/storage"
)

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(ctx *Context) error
	warning bool
}

var errSkipped = errors.New("skipped")

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	checks := []check{
		{name: "Store reachable", run: checkStoreReachable},
		{name: "Schema version", run: checkSchema},
		{name: "Stored records", run: checkRecords},
		{name: "Game data", run: checkGameData},
		{name: "Persistence", run: checkPersistence},
		{name: "Backups present", run: checkBackupsPresent, warning: true},
		{name: "Keyring", run: checkKeyring, warning: true},
		{name: "Clock/timezone", run: checkClockTimezone},
	}

	failed := false
	reachable := true
	for _, c := range checks {
		var err error
		if !reachable && c.name != "Clock/timezone" && c.name != "Keyring" {
			err = errSkipped
		} else {
			err = c.run(ctx)
		}

		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			ctx.printf("⊘ %s: SKIPPED\n", c.name)
		case c.warning:
			ctx.printf("⚠ %s: WARNING\n", c.name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("❌ %s: FAIL\n", c.name)
			ctx.printf("   Error: %v\n", err)
			failed = true
			if c.name == "Store reachable" {
				reachable = false
			}
		}
	}

	ctx.println()
	if failed {
		ctx.println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	store, err := ctx.Backend()
	if err != nil {
		return err
	}
	ctx.printf("   %s\n", store.Location())
	return nil
}

func checkSchema(ctx *Context) error {
	store, err := ctx.Backend()
	if err != nil {
		return err
	}
	v, ok := store.(storage.SchemaValidator)
	if !ok {
		return errSkipped
	}
	return v.ValidateSchema(ctx.Context())
}

func checkRecords(ctx *Context) error {
	store, err := ctx.Backend()
	if err != nil {
		return err
	}
	inspector, ok := store.(storage.Inspector)
	if !ok {
		return errSkipped
	}
	records, err := inspector.Records(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	total := 0
	for _, r := range records {
		total += r.SizeBytes
	}
	ctx.printf("   %d record(s), %s\n", len(records), humanize.Bytes(uint64(total)))
	return nil
}

// checkGameData looks for inconsistencies the engine tolerates on load.
func checkGameData(ctx *Context) error {
	game, err := ctx.Game()
	if err != nil {
		return err
	}
	snap := game.Snapshot()
	if snap.User == nil {
		ctx.println("   no player profile yet")
		return nil
	}

	var problems []error
	seen := make(map[string]bool)
	for _, h := range snap.Habits {
		if seen[h.ID] {
			problems = append(problems, fmt.Errorf("duplicate habit id %s", h.ID))
		}
		seen[h.ID] = true
		if err := h.Validate(); err != nil {
			problems = append(problems, err)
		}
	}
	if gid := snap.User.CurrentGroupID(); gid != "" {
		g, ok := snap.CurrentGroup()
		switch {
		case !ok:
			problems = append(problems, fmt.Errorf("current group %s does not exist", gid))
		case !g.HasMember(snap.User.ID):
			problems = append(problems, fmt.Errorf("player is not listed as a member of %s", g.Name))
		}
	}
	if snap.User.Coins < 0 {
		problems = append(problems, fmt.Errorf("negative coin balance %d", snap.User.Coins))
	}
	return errors.Join(problems...)
}

// checkPersistence writes nothing; it reports saves that failed earlier in
// this process.
func checkPersistence(ctx *Context) error {
	game, err := ctx.Game()
	if err != nil {
		return err
	}
	if err := game.Flush(ctx.Context()); err != nil {
		return err
	}
	return degradedErr(game.Health())
}

func degradedErr(h engine.Health) error {
	if !h.Degraded {
		return nil
	}
	var errs []error
	for key, err := range h.LastErrors {
		errs = append(errs, fmt.Errorf("%s: %w", key, err))
	}
	return errors.Join(errs...)
}

func checkBackupsPresent(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return errSkipped
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found; consider creating one with 'streakwars backup create'")
	}
	ctx.printf("   latest %s\n", humanize.Time(backups[0].Timestamp))
	return nil
}

func checkKeyring(ctx *Context) error {
	switch ctx.Config.Store {
	case constants.StorePostgres, constants.StoreRedis:
	default:
		return errSkipped
	}
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	loc, err := ctx.Config.Location()
	if err != nil {
		return err
	}
	ctx.printf("   days roll over at midnight %s (now %s)\n", loc, now.In(loc).Format("2006-01-02 15:04"))
	return nil
}
