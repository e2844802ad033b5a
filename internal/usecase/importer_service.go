package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/tippspiel-app/tippspiel/external/openligadb"
	"github.com/tippspiel-app/tippspiel/internal/domain/league"
	"github.com/tippspiel-app/tippspiel/internal/domain/match"
	"github.com/tippspiel-app/tippspiel/internal/domain/matchday"
	"github.com/tippspiel-app/tippspiel/internal/domain/storage"
	"github.com/tippspiel-app/tippspiel/internal/domain/team"
	"github.com/tippspiel-app/tippspiel/internal/platform/logging"
)

const (
	// DefaultDeadlineLead is how long before a matchday's earliest kickoff
	// tipping closes.
	DefaultDeadlineLead = 3*time.Hour + 30*time.Minute

	// DefaultSyncWorkers bounds the concurrent change-timestamp probes of a
	// smart update.
	DefaultSyncWorkers = 10
)

// FeedClient is the slice of the feed binding the importer needs.
type FeedClient interface {
	Location() *time.Location
	FetchGroups(ctx context.Context, leagueShortcut string, seasonYear int) ([]openligadb.Group, error)
	FetchSeasonMatches(ctx context.Context, leagueShortcut string, seasonYear int) ([]openligadb.MatchRecord, error)
	FetchMatchdayMatches(ctx context.Context, leagueShortcut string, seasonYear, groupOrderID int) ([]openligadb.MatchRecord, error)
	FetchLastChange(ctx context.Context, leagueShortcut string, seasonYear, groupOrderID int) (time.Time, error)
}

// ImportInput selects the season to import.
type ImportInput struct {
	LeagueShortcut string
	SeasonYear     int
	// DryRun plans and logs but writes nothing.
	DryRun bool
}

func (in ImportInput) validate() error {
	if in.LeagueShortcut == "" {
		return fmt.Errorf("%w: league shortcut is required", ErrInvalidInput)
	}
	if in.SeasonYear < 1900 || in.SeasonYear > 2999 {
		return fmt.Errorf("%w: implausible season year %d", ErrInvalidInput, in.SeasonYear)
	}
	return nil
}

// ImportSummary reports what an import run actually did. Update counters
// increment only when a stored field really changed, so a rerun on an
// unchanged feed reports all zeros.
type ImportSummary struct {
	LeagueShortcut string
	SeasonYear     int
	DryRun         bool

	GroupsTotal       int
	GroupsWithMatches int
	GroupsImported    int
	MatchesTotal      int
	MatchesSkipped    int

	TeamsCreated int
	TeamsUpdated int

	MatchesCreated int
	MatchesUpdated int

	ResultsCreated int
	ResultsUpdated int
	ResultsDeleted int

	FirstGoalsChanged int

	// Smart update only.
	MatchdaysPlanned int
	MatchdaysFailed  int
}

// merge folds a per-matchday delta into the run summary. Only counters are
// merged; identity fields stay untouched.
func (s *ImportSummary) merge(d ImportSummary) {
	s.GroupsImported += d.GroupsImported
	s.MatchesSkipped += d.MatchesSkipped
	s.TeamsCreated += d.TeamsCreated
	s.TeamsUpdated += d.TeamsUpdated
	s.MatchesCreated += d.MatchesCreated
	s.MatchesUpdated += d.MatchesUpdated
	s.ResultsCreated += d.ResultsCreated
	s.ResultsUpdated += d.ResultsUpdated
	s.ResultsDeleted += d.ResultsDeleted
	s.FirstGoalsChanged += d.FirstGoalsChanged
}

// ImporterConfig tunes the reconciliation engine.
type ImporterConfig struct {
	DeadlineLead time.Duration
	SyncWorkers  int
}

func (c ImporterConfig) withDefaults() ImporterConfig {
	if c.DeadlineLead <= 0 {
		c.DeadlineLead = DefaultDeadlineLead
	}
	if c.SyncWorkers <= 0 {
		c.SyncWorkers = DefaultSyncWorkers
	}
	return c
}

// ImporterService reconciles feed data into storage. Bootstrap imports a
// whole season, SmartUpdate re-imports only matchdays whose feed change
// timestamp moved.
type ImporterService struct {
	feed FeedClient

	leagueRepo   league.Repository
	matchdayRepo matchday.Repository
	teamRepo     team.Repository
	matchRepo    match.Repository
	tx           storage.TxRunner

	cfg    ImporterConfig
	logger *logging.Logger
}

func NewImporterService(
	feed FeedClient,
	leagueRepo league.Repository,
	matchdayRepo matchday.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	tx storage.TxRunner,
	cfg ImporterConfig,
	logger *logging.Logger,
) *ImporterService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ImporterService{
		feed:         feed,
		leagueRepo:   leagueRepo,
		matchdayRepo: matchdayRepo,
		teamRepo:     teamRepo,
		matchRepo:    matchRepo,
		tx:           tx,
		cfg:          cfg.withDefaults(),
		logger:       logger,
	}
}

// feedMatch pairs the extracted facts of a record with the raw record,
// which score and goal extraction still need.
type feedMatch struct {
	facts openligadb.MatchFacts
	rec   openligadb.MatchRecord
}

// storedMatch pairs an upserted match row with its feed record for
// first-goal derivation.
type storedMatch struct {
	stored match.Match
	rec    openligadb.MatchRecord
}

// Bootstrap imports a full season: league, season, teams, matchdays with
// deadlines, matches, results and first-goal facts. Idempotent; a second run
// on an identical feed changes nothing.
func (s *ImporterService) Bootstrap(ctx context.Context, in ImportInput) (ImportSummary, error) {
	ctx, span := startSpan(ctx, "importer.Bootstrap")
	defer span.End()

	summary := ImportSummary{LeagueShortcut: in.LeagueShortcut, SeasonYear: in.SeasonYear, DryRun: in.DryRun}
	if err := in.validate(); err != nil {
		return summary, err
	}

	records, err := s.feed.FetchSeasonMatches(ctx, in.LeagueShortcut, in.SeasonYear)
	if err != nil {
		return summary, fmt.Errorf("fetch season matches: %w", err)
	}
	groups, err := s.feed.FetchGroups(ctx, in.LeagueShortcut, in.SeasonYear)
	if err != nil {
		return summary, fmt.Errorf("fetch groups: %w", err)
	}

	summary.MatchesTotal = len(records)
	summary.GroupsTotal = len(groups)

	parsed, leagueName := s.parseRecords(ctx, records, &summary)
	byOrder := make(map[int][]feedMatch)
	for _, fm := range parsed {
		byOrder[fm.facts.MatchdayOrder] = append(byOrder[fm.facts.MatchdayOrder], fm)
	}
	summary.GroupsWithMatches = len(byOrder)

	if in.DryRun {
		s.logger.InfoContext(ctx, "bootstrap dry run, no writes",
			"league", in.LeagueShortcut, "season", in.SeasonYear,
			"groups", summary.GroupsTotal, "groups_with_matches", summary.GroupsWithMatches,
			"matches", summary.MatchesTotal, "matches_skipped", summary.MatchesSkipped)
		return summary, nil
	}

	season, err := s.ensureLeagueSeason(ctx, in.LeagueShortcut, in.SeasonYear, leagueName)
	if err != nil {
		return summary, err
	}

	teamIDs, err := s.syncTeams(ctx, parsed, &summary)
	if err != nil {
		return summary, err
	}

	existing, err := s.matchRepo.ListBySeason(ctx, season.ID)
	if err != nil {
		return summary, fmt.Errorf("list existing matches: %w", err)
	}
	existingByExt := make(map[int64]match.Match, len(existing))
	for _, m := range existing {
		existingByExt[m.ExternalID] = m
	}

	for _, group := range sortGroups(groups) {
		if group.GroupOrderID == nil {
			continue
		}
		groupMatches := byOrder[*group.GroupOrderID]
		md, ok, err := s.syncMatchdayRow(ctx, season.ID, group, groupMatches)
		if err != nil {
			return summary, err
		}
		if !ok {
			continue
		}
		entries, err := s.syncMatches(ctx, md.ID, teamIDs, existingByExt, groupMatches, &summary)
		if err != nil {
			return summary, err
		}
		if err := s.syncFirstGoal(ctx, md, entries, &summary); err != nil {
			return summary, err
		}
		summary.GroupsImported++
	}

	s.logger.InfoContext(ctx, "bootstrap finished",
		"league", in.LeagueShortcut, "season", in.SeasonYear,
		"matchdays", summary.GroupsImported,
		"teams_created", summary.TeamsCreated, "teams_updated", summary.TeamsUpdated,
		"matches_created", summary.MatchesCreated, "matches_updated", summary.MatchesUpdated,
		"results_created", summary.ResultsCreated, "results_updated", summary.ResultsUpdated,
		"results_deleted", summary.ResultsDeleted, "matches_skipped", summary.MatchesSkipped)
	return summary, nil
}

// SmartUpdate probes every matchday's feed change timestamp concurrently and
// re-imports only matchdays whose timestamp is strictly newer than the stored
// stamp. Each re-imported matchday is one storage transaction including the
// stamp write.
func (s *ImporterService) SmartUpdate(ctx context.Context, in ImportInput) (ImportSummary, error) {
	ctx, span := startSpan(ctx, "importer.SmartUpdate")
	defer span.End()

	summary := ImportSummary{LeagueShortcut: in.LeagueShortcut, SeasonYear: in.SeasonYear, DryRun: in.DryRun}
	if err := in.validate(); err != nil {
		return summary, err
	}

	lg, found, err := s.leagueRepo.GetByShortcut(ctx, in.LeagueShortcut)
	if err != nil {
		return summary, fmt.Errorf("load league: %w", err)
	}
	if !found {
		return summary, fmt.Errorf("%w: league %q, run bootstrap first", ErrSeasonNotBootstrapped, in.LeagueShortcut)
	}
	season, found, err := s.leagueRepo.GetSeason(ctx, lg.ID, in.SeasonYear)
	if err != nil {
		return summary, fmt.Errorf("load season: %w", err)
	}
	if !found {
		return summary, fmt.Errorf("%w: %s season %d, run bootstrap first", ErrSeasonNotBootstrapped, in.LeagueShortcut, in.SeasonYear)
	}

	groups, err := s.feed.FetchGroups(ctx, in.LeagueShortcut, in.SeasonYear)
	if err != nil {
		return summary, fmt.Errorf("fetch groups: %w", err)
	}
	summary.GroupsTotal = len(groups)

	stored, err := s.matchdayRepo.ListBySeason(ctx, season.ID)
	if err != nil {
		return summary, fmt.Errorf("list matchdays: %w", err)
	}
	storedByOrder := make(map[int]matchday.Matchday, len(stored))
	for _, md := range stored {
		storedByOrder[md.OrderID] = md
	}

	planned, probeFailures := s.probeChanges(ctx, in, groups, storedByOrder)
	summary.MatchdaysFailed += probeFailures
	summary.MatchdaysPlanned = len(planned)

	if in.DryRun {
		for _, p := range planned {
			s.logger.InfoContext(ctx, "matchday would be re-imported",
				"matchday_order", p.order, "feed_changed_at", p.changedAt)
		}
		s.logger.InfoContext(ctx, "smart update dry run, no writes",
			"league", in.LeagueShortcut, "season", in.SeasonYear,
			"matchdays_planned", summary.MatchdaysPlanned, "probe_failures", probeFailures)
		return summary, nil
	}

	groupByOrder := make(map[int]openligadb.Group, len(groups))
	for _, g := range groups {
		if g.GroupOrderID != nil {
			groupByOrder[*g.GroupOrderID] = g
		}
	}

	for _, p := range planned {
		records, err := s.feed.FetchMatchdayMatches(ctx, in.LeagueShortcut, in.SeasonYear, p.order)
		if err != nil {
			s.logger.WarnContext(ctx, "matchday fetch failed, skipping",
				"matchday_order", p.order, "error", err)
			summary.MatchdaysFailed++
			continue
		}
		summary.MatchesTotal += len(records)

		parsed, _ := s.parseRecords(ctx, records, &summary)

		delta := ImportSummary{}
		err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
			return s.importMatchday(ctx, season.ID, groupByOrder[p.order], parsed, p.changedAt, &delta)
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "matchday import failed, rolled back",
				"matchday_order", p.order, "error", err)
			summary.MatchdaysFailed++
			continue
		}
		summary.merge(delta)
	}

	s.logger.InfoContext(ctx, "smart update finished",
		"league", in.LeagueShortcut, "season", in.SeasonYear,
		"matchdays_planned", summary.MatchdaysPlanned,
		"matchdays_imported", summary.GroupsImported,
		"matchdays_failed", summary.MatchdaysFailed,
		"results_created", summary.ResultsCreated, "results_updated", summary.ResultsUpdated)
	return summary, nil
}

// plannedMatchday is one matchday whose feed timestamp moved past the
// stored stamp.
type plannedMatchday struct {
	order     int
	changedAt time.Time
}

// probeChanges fans change-timestamp lookups out over a bounded pool and
// returns the matchdays to re-import, sorted by ordinal. Probe failures cost
// only that matchday.
func (s *ImporterService) probeChanges(ctx context.Context, in ImportInput, groups []openligadb.Group, storedByOrder map[int]matchday.Matchday) ([]plannedMatchday, int) {
	orders := make([]int, 0, len(groups))
	for _, g := range groups {
		if g.GroupOrderID != nil {
			orders = append(orders, *g.GroupOrderID)
		}
	}

	type probe struct {
		changedAt time.Time
		err       error
	}
	probes := make([]probe, len(orders))

	pool, err := ants.NewPool(s.cfg.SyncWorkers)
	if err != nil {
		// Pool creation only fails on nonsense sizes; fall back to serial.
		for i, order := range orders {
			t, ferr := s.feed.FetchLastChange(ctx, in.LeagueShortcut, in.SeasonYear, order)
			probes[i] = probe{changedAt: t, err: ferr}
		}
	} else {
		defer pool.Release()
		var wg sync.WaitGroup
		for i, order := range orders {
			wg.Add(1)
			submitErr := pool.Submit(func() {
				defer wg.Done()
				t, ferr := s.feed.FetchLastChange(ctx, in.LeagueShortcut, in.SeasonYear, order)
				probes[i] = probe{changedAt: t, err: ferr}
			})
			if submitErr != nil {
				probes[i] = probe{err: submitErr}
				wg.Done()
			}
		}
		wg.Wait()
	}

	var planned []plannedMatchday
	failures := 0
	for i, order := range orders {
		if probes[i].err != nil {
			s.logger.WarnContext(ctx, "change probe failed, matchday not planned",
				"matchday_order", order, "error", probes[i].err)
			failures++
			continue
		}
		md, known := storedByOrder[order]
		changed := !known || md.LastChangedAt == nil || probes[i].changedAt.After(*md.LastChangedAt)
		if changed {
			planned = append(planned, plannedMatchday{order: order, changedAt: probes[i].changedAt})
		}
	}
	sort.Slice(planned, func(i, j int) bool { return planned[i].order < planned[j].order })
	return planned, failures
}

// importMatchday applies one matchday's feed state. Must run inside a
// transaction; the last_changed stamp commits or rolls back with the data.
func (s *ImporterService) importMatchday(ctx context.Context, seasonID int64, group openligadb.Group, parsed []feedMatch, changedAt time.Time, sum *ImportSummary) error {
	md, ok, err := s.syncMatchdayRow(ctx, seasonID, group, parsed)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.InfoContext(ctx, "matchday has no usable matches yet, skipping", "group_name", group.GroupName)
		return nil
	}

	teamIDs, err := s.syncTeams(ctx, parsed, sum)
	if err != nil {
		return err
	}

	externalIDs := make([]int64, 0, len(parsed))
	for _, fm := range parsed {
		externalIDs = append(externalIDs, fm.facts.ExternalID)
	}
	existing, err := s.matchRepo.ListByExternalIDs(ctx, externalIDs)
	if err != nil {
		return fmt.Errorf("list existing matches: %w", err)
	}
	existingByExt := make(map[int64]match.Match, len(existing))
	for _, m := range existing {
		existingByExt[m.ExternalID] = m
	}

	entries, err := s.syncMatches(ctx, md.ID, teamIDs, existingByExt, parsed, sum)
	if err != nil {
		return err
	}
	if err := s.syncFirstGoal(ctx, md, entries, sum); err != nil {
		return err
	}
	if err := s.matchdayRepo.SetLastChanged(ctx, md.ID, changedAt); err != nil {
		return fmt.Errorf("stamp matchday %d: %w", md.ID, err)
	}
	sum.GroupsImported++
	return nil
}

// parseRecords extracts facts from raw records, skipping and logging
// malformed ones. Also surfaces the league display name the feed carries.
func (s *ImporterService) parseRecords(ctx context.Context, records []openligadb.MatchRecord, sum *ImportSummary) ([]feedMatch, string) {
	loc := s.feed.Location()
	parsed := make([]feedMatch, 0, len(records))
	leagueName := ""
	for _, rec := range records {
		if leagueName == "" && rec.LeagueName != "" {
			leagueName = rec.LeagueName
		}
		facts, err := openligadb.ExtractMatchFacts(rec, loc)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping malformed match record", "error", err)
			sum.MatchesSkipped++
			continue
		}
		parsed = append(parsed, feedMatch{facts: facts, rec: rec})
	}
	return parsed, leagueName
}

func (s *ImporterService) ensureLeagueSeason(ctx context.Context, shortcut string, year int, leagueName string) (league.Season, error) {
	lg, found, err := s.leagueRepo.GetByShortcut(ctx, shortcut)
	if err != nil {
		return league.Season{}, fmt.Errorf("load league: %w", err)
	}
	if !found {
		lg, err = s.leagueRepo.Create(ctx, league.League{Shortcut: shortcut, Name: leagueName})
		if err != nil {
			return league.Season{}, fmt.Errorf("create league: %w", err)
		}
	} else if leagueName != "" && leagueName != lg.Name {
		if err := s.leagueRepo.UpdateName(ctx, lg.ID, leagueName); err != nil {
			return league.Season{}, fmt.Errorf("update league name: %w", err)
		}
	}

	season, found, err := s.leagueRepo.GetSeason(ctx, lg.ID, year)
	if err != nil {
		return league.Season{}, fmt.Errorf("load season: %w", err)
	}
	if !found {
		season, err = s.leagueRepo.CreateSeason(ctx, league.Season{LeagueID: lg.ID, Year: year})
		if err != nil {
			return league.Season{}, fmt.Errorf("create season: %w", err)
		}
	}
	return season, nil
}

// syncMatchdayRow upserts the matchday row. A matchday is only created once
// at least one match anchors its deadline; the deadline is never recomputed
// after creation.
func (s *ImporterService) syncMatchdayRow(ctx context.Context, seasonID int64, group openligadb.Group, parsed []feedMatch) (matchday.Matchday, bool, error) {
	if group.GroupOrderID == nil {
		return matchday.Matchday{}, false, nil
	}
	order := *group.GroupOrderID

	md, found, err := s.matchdayRepo.GetBySeasonOrder(ctx, seasonID, order)
	if err != nil {
		return matchday.Matchday{}, false, fmt.Errorf("load matchday %d: %w", order, err)
	}
	if found {
		if group.GroupName != md.Name {
			if err := s.matchdayRepo.UpdateName(ctx, md.ID, group.GroupName); err != nil {
				return matchday.Matchday{}, false, fmt.Errorf("update matchday %d name: %w", order, err)
			}
			md.Name = group.GroupName
		}
		return md, true, nil
	}

	earliest, ok := earliestKickoff(parsed)
	if !ok {
		return matchday.Matchday{}, false, nil
	}
	created, err := s.matchdayRepo.Create(ctx, matchday.Matchday{
		SeasonID:   seasonID,
		OrderID:    order,
		Name:       group.GroupName,
		DeadlineAt: earliest.Add(-s.cfg.DeadlineLead),
	})
	if err != nil {
		return matchday.Matchday{}, false, fmt.Errorf("create matchday %d: %w", order, err)
	}
	return created, true, nil
}

func earliestKickoff(parsed []feedMatch) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, fm := range parsed {
		if !found || fm.facts.KickoffAt.Before(earliest) {
			earliest = fm.facts.KickoffAt
			found = true
		}
	}
	return earliest, found
}

// syncTeams upserts every team seen in parsed. The display name only moves
// to a non-empty feed value; short name and icon follow the feed verbatim.
func (s *ImporterService) syncTeams(ctx context.Context, parsed []feedMatch, sum *ImportSummary) (map[int64]int64, error) {
	var ids []int64
	factsByExt := make(map[int64]openligadb.TeamFacts)
	for _, fm := range parsed {
		for _, tf := range [2]openligadb.TeamFacts{fm.facts.HomeTeam, fm.facts.AwayTeam} {
			merged, seen := factsByExt[tf.ExternalID]
			if !seen {
				ids = append(ids, tf.ExternalID)
				factsByExt[tf.ExternalID] = tf
				continue
			}
			if merged.Name == "" {
				merged.Name = tf.Name
			}
			if merged.ShortName == "" {
				merged.ShortName = tf.ShortName
			}
			if merged.IconURL == "" {
				merged.IconURL = tf.IconURL
			}
			factsByExt[tf.ExternalID] = merged
		}
	}

	existing, err := s.teamRepo.ListByExternalIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	byExt := make(map[int64]team.Team, len(existing))
	for _, t := range existing {
		byExt[t.ExternalID] = t
	}

	out := make(map[int64]int64, len(ids))
	for _, extID := range ids {
		f := factsByExt[extID]
		t, found := byExt[extID]
		if !found {
			created, err := s.teamRepo.Create(ctx, team.Team{
				ExternalID: extID,
				Name:       f.Name,
				ShortName:  f.ShortName,
				IconURL:    f.IconURL,
			})
			if err != nil {
				return nil, fmt.Errorf("create team %d: %w", extID, err)
			}
			sum.TeamsCreated++
			out[extID] = created.ID
			continue
		}

		changed := false
		if f.Name != "" && f.Name != t.Name {
			t.Name = f.Name
			changed = true
		}
		if f.ShortName != t.ShortName {
			t.ShortName = f.ShortName
			changed = true
		}
		if f.IconURL != t.IconURL {
			t.IconURL = f.IconURL
			changed = true
		}
		if changed {
			if err := s.teamRepo.Update(ctx, t); err != nil {
				return nil, fmt.Errorf("update team %d: %w", extID, err)
			}
			sum.TeamsUpdated++
		}
		out[extID] = t.ID
	}
	return out, nil
}

// syncMatches upserts matches keyed by the feed's match id and reconciles
// each match's result. existingByExt is mutated so callers see fresh rows.
func (s *ImporterService) syncMatches(ctx context.Context, matchdayID int64, teamIDs map[int64]int64, existingByExt map[int64]match.Match, parsed []feedMatch, sum *ImportSummary) ([]storedMatch, error) {
	entries := make([]storedMatch, 0, len(parsed))
	for _, fm := range parsed {
		homeID, okHome := teamIDs[fm.facts.HomeTeam.ExternalID]
		awayID, okAway := teamIDs[fm.facts.AwayTeam.ExternalID]
		if !okHome || !okAway {
			s.logger.WarnContext(ctx, "match references unknown team, skipping",
				"match_external_id", fm.facts.ExternalID)
			sum.MatchesSkipped++
			continue
		}

		stored, found := existingByExt[fm.facts.ExternalID]
		if !found {
			created, err := s.matchRepo.Create(ctx, match.Match{
				ExternalID: fm.facts.ExternalID,
				MatchdayID: matchdayID,
				KickoffAt:  fm.facts.KickoffAt,
				HomeTeamID: homeID,
				AwayTeamID: awayID,
				IsFinished: fm.facts.IsFinished,
			})
			if err != nil {
				return nil, fmt.Errorf("create match %d: %w", fm.facts.ExternalID, err)
			}
			sum.MatchesCreated++
			stored = created
		} else if stored.MatchdayID != matchdayID ||
			!stored.KickoffAt.Equal(fm.facts.KickoffAt) ||
			stored.HomeTeamID != homeID ||
			stored.AwayTeamID != awayID ||
			stored.IsFinished != fm.facts.IsFinished {
			stored.MatchdayID = matchdayID
			stored.KickoffAt = fm.facts.KickoffAt
			stored.HomeTeamID = homeID
			stored.AwayTeamID = awayID
			stored.IsFinished = fm.facts.IsFinished
			if err := s.matchRepo.Update(ctx, stored); err != nil {
				return nil, fmt.Errorf("update match %d: %w", fm.facts.ExternalID, err)
			}
			sum.MatchesUpdated++
		}
		existingByExt[fm.facts.ExternalID] = stored

		if err := s.syncResult(ctx, stored.ID, fm.rec, sum); err != nil {
			return nil, err
		}
		entries = append(entries, storedMatch{stored: stored, rec: fm.rec})
	}
	return entries, nil
}

// syncResult keeps the result row in step with the feed: a row exists
// exactly when the feed carries a determinable score.
func (s *ImporterService) syncResult(ctx context.Context, matchID int64, rec openligadb.MatchRecord, sum *ImportSummary) error {
	score, ok := openligadb.ExtractCurrentScore(rec)
	stored, found, err := s.matchRepo.GetResult(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load result for match %d: %w", matchID, err)
	}

	if !ok {
		if found {
			if err := s.matchRepo.DeleteResult(ctx, matchID); err != nil {
				return fmt.Errorf("delete result for match %d: %w", matchID, err)
			}
			sum.ResultsDeleted++
		}
		return nil
	}

	next := match.Result{MatchID: matchID, HomeGoals: score.Home, AwayGoals: score.Away}
	if !found {
		if err := s.matchRepo.SaveResult(ctx, next); err != nil {
			return fmt.Errorf("create result for match %d: %w", matchID, err)
		}
		sum.ResultsCreated++
		return nil
	}
	if stored.HomeGoals != next.HomeGoals || stored.AwayGoals != next.AwayGoals {
		if err := s.matchRepo.SaveResult(ctx, next); err != nil {
			return fmt.Errorf("update result for match %d: %w", matchID, err)
		}
		sum.ResultsUpdated++
	}
	return nil
}

// syncFirstGoal re-derives the matchday's first-goal fact and writes it only
// when a field actually changed.
func (s *ImporterService) syncFirstGoal(ctx context.Context, md matchday.Matchday, entries []storedMatch, sum *ImportSummary) error {
	fact := firstGoalOf(entries)
	if md.FirstGoalFact().Equal(fact) {
		return nil
	}
	if err := s.matchdayRepo.SetFirstGoal(ctx, md.ID, fact); err != nil {
		return fmt.Errorf("set first goal on matchday %d: %w", md.ID, err)
	}
	sum.FirstGoalsChanged++
	return nil
}

// firstGoalOf picks the earliest goal across a matchday's matches, ordering
// by kickoff plus reported minute. Ties keep the first match seen.
func firstGoalOf(entries []storedMatch) matchday.FirstGoal {
	var (
		bestAt     time.Time
		bestMatch  int64
		bestMinute int
		found      bool
	)
	for _, e := range entries {
		minute, ok := openligadb.ExtractFirstGoalMinute(e.rec)
		if !ok {
			continue
		}
		at := e.stored.KickoffAt.Add(time.Duration(minute) * time.Minute)
		if !found || at.Before(bestAt) {
			bestAt = at
			bestMatch = e.stored.ID
			bestMinute = minute
			found = true
		}
	}
	if !found {
		return matchday.FirstGoal{}
	}
	return matchday.FirstGoal{At: &bestAt, MatchID: &bestMatch, Minute: &bestMinute}
}

func sortGroups(groups []openligadb.Group) []openligadb.Group {
	sorted := make([]openligadb.Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		oi, oj := sorted[i].GroupOrderID, sorted[j].GroupOrderID
		if oi == nil || oj == nil {
			return oj == nil && oi != nil
		}
		return *oi < *oj
	})
	return sorted
}
