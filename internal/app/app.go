package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/tippspiel-app/tippspiel/external/openligadb"
	"github.com/tippspiel-app/tippspiel/internal/config"
	"github.com/tippspiel-app/tippspiel/internal/infrastructure/repository/postgres"
	"github.com/tippspiel-app/tippspiel/internal/interfaces/httpapi"
	"github.com/tippspiel-app/tippspiel/internal/platform/logging"
	"github.com/tippspiel-app/tippspiel/internal/usecase"
)

// Repositories bundles the storage layer so the HTTP server and the batch
// import commands wire against the same set.
type Repositories struct {
	League      *postgres.LeagueRepository
	Matchday    *postgres.MatchdayRepository
	Team        *postgres.TeamRepository
	Match       *postgres.MatchRepository
	Tip         *postgres.TipRepository
	User        *postgres.UserRepository
	Leaderboard *postgres.LeaderboardRepository
	Tx          *postgres.TxRunner
}

func OpenDB(dbURL string) (*sqlx.DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("db url cannot be empty")
	}
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func NewRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		League:      postgres.NewLeagueRepository(db),
		Matchday:    postgres.NewMatchdayRepository(db),
		Team:        postgres.NewTeamRepository(db),
		Match:       postgres.NewMatchRepository(db),
		Tip:         postgres.NewTipRepository(db),
		User:        postgres.NewUserRepository(db),
		Leaderboard: postgres.NewLeaderboardRepository(db),
		Tx:          postgres.NewTxRunner(db),
	}
}

func NewFeedClient(cfg config.Config, logger *logging.Logger) (*openligadb.Client, error) {
	loc, err := time.LoadLocation(cfg.OperatingTimezone)
	if err != nil {
		return nil, fmt.Errorf("load operating timezone %q: %w", cfg.OperatingTimezone, err)
	}
	return openligadb.NewClient(openligadb.ClientConfig{
		BaseURL:    cfg.FeedBaseURL,
		Timeout:    cfg.FeedTimeout,
		MaxRetries: cfg.FeedMaxRetries,
		Location:   loc,
		Logger:     logger,
	}), nil
}

func NewImporter(cfg config.Config, repos Repositories, feed *openligadb.Client, logger *logging.Logger) *usecase.ImporterService {
	return usecase.NewImporterService(
		feed,
		repos.League,
		repos.Matchday,
		repos.Team,
		repos.Match,
		repos.Tx,
		usecase.ImporterConfig{
			DeadlineLead: cfg.DeadlineLead,
			SyncWorkers:  cfg.SyncWorkers,
		},
		logger,
	)
}

func NewHTTPServer(cfg config.Config, db *sqlx.DB, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos := NewRepositories(db)

	feed, err := NewFeedClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	seasonSvc := usecase.NewSeasonService(repos.League, repos.Matchday, repos.Match, nil, logger)
	leaderboardSvc := usecase.NewLeaderboardService(repos.Matchday, repos.Match, repos.Tip, repos.User, repos.Leaderboard, repos.Tx, logger)
	tipSvc := usecase.NewTipService(repos.User, repos.Match, repos.Matchday, repos.Tip, nil, logger)
	importerSvc := NewImporter(cfg, repos, feed, logger)

	handler := httpapi.NewHandler(seasonSvc, leaderboardSvc, tipSvc, importerSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.InternalJobToken)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
