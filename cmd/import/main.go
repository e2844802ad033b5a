package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tippspiel-app/tippspiel/internal/app"
	"github.com/tippspiel-app/tippspiel/internal/config"
	"github.com/tippspiel-app/tippspiel/internal/platform/logging"
	"github.com/tippspiel-app/tippspiel/internal/usecase"
)

const (
	modeBootstrap = "bootstrap"
	modeUpdate    = "update"
)

func main() {
	var (
		leagueShortcut = flag.String("league", "", "league shortcut, e.g. bl1")
		seasonYear     = flag.Int("season", 0, "season year, e.g. 2024")
		mode           = flag.String("mode", modeUpdate, "bootstrap or update")
		dryRun         = flag.Bool("dry-run", false, "plan and log without writing")
		workers        = flag.Int("workers", 0, "override the change-probe worker count")
		timeout        = flag.Duration("timeout", 15*time.Minute, "overall run timeout")
	)
	flag.Parse()

	if *leagueShortcut == "" || *seasonYear == 0 {
		fmt.Fprintln(os.Stderr, "usage: import -league <shortcut> -season <year> [-mode bootstrap|update] [-dry-run]")
		os.Exit(2)
	}
	if *mode != modeBootstrap && *mode != modeUpdate {
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if *workers > 0 {
		cfg.SyncWorkers = *workers
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	db, err := app.OpenDB(cfg.DBURL)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	feed, err := app.NewFeedClient(cfg, logger)
	if err != nil {
		logger.Error("build feed client", "error", err)
		os.Exit(1)
	}
	importer := app.NewImporter(cfg, app.NewRepositories(db), feed, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	input := usecase.ImportInput{
		LeagueShortcut: *leagueShortcut,
		SeasonYear:     *seasonYear,
		DryRun:         *dryRun,
	}

	var summary usecase.ImportSummary
	switch *mode {
	case modeBootstrap:
		summary, err = importer.Bootstrap(ctx, input)
	case modeUpdate:
		summary, err = importer.SmartUpdate(ctx, input)
	}
	if err != nil {
		logger.Error("import run failed", "mode", *mode, "league", *leagueShortcut, "season", *seasonYear, "error", err)
		os.Exit(1)
	}

	logger.Info("import run finished",
		"mode", *mode,
		"league", summary.LeagueShortcut,
		"season", summary.SeasonYear,
		"dry_run", summary.DryRun,
		"groups_total", summary.GroupsTotal,
		"groups_imported", summary.GroupsImported,
		"matches_total", summary.MatchesTotal,
		"matches_skipped", summary.MatchesSkipped,
		"teams_created", summary.TeamsCreated,
		"teams_updated", summary.TeamsUpdated,
		"matches_created", summary.MatchesCreated,
		"matches_updated", summary.MatchesUpdated,
		"results_created", summary.ResultsCreated,
		"results_updated", summary.ResultsUpdated,
		"results_deleted", summary.ResultsDeleted,
		"first_goals_changed", summary.FirstGoalsChanged,
		"matchdays_planned", summary.MatchdaysPlanned,
		"matchdays_failed", summary.MatchdaysFailed,
	)
}
