package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/streakwars/internal/cli"
	"github.com/julianstephens/streakwars/internal/config"
	"github.com/julianstephens/streakwars/internal/constants"
	"github.com/julianstephens/streakwars/internal/errors"
	"github.com/julianstephens/streakwars/internal/logger"
	"github.com/julianstephens/streakwars/internal/metrics"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Directory holding config.yaml, logs and the default database." default:"${configDir}" env:"STREAKWARS_CONFIG_DIR"`

	Store       string `help:"Storage backend (sqlite, postgres, redis, file, memory)." enum:",sqlite,postgres,redis,file,memory" default:""`
	Namespace   string `help:"Key namespace, so several players can share one backend."`
	Timezone    string `help:"IANA timezone used to decide calendar days."`
	DataPath    string `help:"SQLite database file or file store directory." type:"path"`
	MetricsAddr string `help:"Serve Prometheus metrics on this address (e.g. :9090)."`
	Debug       bool   `help:"Enable debug logging."`

	Init        cli.InitCmd        `cmd:"" help:"Create your player profile."`
	Tui         cli.TuiCmd         `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Status      cli.StatusCmd      `cmd:"" help:"Show coins, streaks and today's progress."`
	Habit       cli.HabitCmd       `cmd:"" help:"Manage and complete habits."`
	Group       cli.GroupCmd       `cmd:"" help:"Create, join or show your group."`
	Sabotage    cli.SabotageCmd    `cmd:"" help:"Buy sabotages against rivals."`
	Feed        cli.FeedCmd        `cmd:"" help:"Show your group's activity feed."`
	Leaderboard cli.LeaderboardCmd `cmd:"" help:"Rank your group by coins."`
	Demo        cli.DemoCmd        `cmd:"" help:"Seed sample habits and activity."`
	Doctor      cli.DoctorCmd      `cmd:"" help:"Run health checks and diagnostics."`
	Backup      cli.BackupCmd      `cmd:"" help:"Manage database backups."`
	Keyring     cli.KeyringCmd     `cmd:"" help:"Manage backend credentials in the OS keyring."`
	Vers        cli.VersionCmd     `cmd:"" name:"version" help:"Print version information."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("streakwars"),
		kong.Description("Competitive habit tracking: build streaks, earn coins, sabotage your friends."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":   constants.Version,
			"configDir": constants.DefaultConfigDir,
		},
	)

	cfg, err := config.Load(CLI.Config, config.Overrides{
		Store:       CLI.Store,
		Namespace:   CLI.Namespace,
		Timezone:    CLI.Timezone,
		DataPath:    CLI.DataPath,
		MetricsAddr: CLI.MetricsAddr,
		Debug:       CLI.Debug,
	})
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir}); err != nil {
		errors.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, metrics.Registry()); err != nil {
				logger.Error("Metrics server stopped", "error", err)
			}
		}()
	}

	appCtx := cli.NewContext(ctx, cfg)
	appCtx.Metrics = metrics.Default()

	runErr := kctx.Run(appCtx)

	shutdownCtx, cancel := cli.ShutdownContext()
	defer cancel()
	if err := appCtx.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown incomplete", "error", err)
		if runErr == nil {
			runErr = err
		}
	}

	if runErr != nil {
		stop()
		errors.Fatal(runErr)
	}
}
