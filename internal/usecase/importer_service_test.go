package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tippspiel-app/tippspiel/external/openligadb"
	"github.com/tippspiel-app/tippspiel/internal/domain/league"
	"github.com/tippspiel-app/tippspiel/internal/infrastructure/repository/memory"
	"github.com/tippspiel-app/tippspiel/internal/platform/logging"
)

const (
	testLeague = "bl1"
	testSeason = 2024
)

func leagueFixture() league.League {
	return league.League{Shortcut: testLeague, Name: "1. Bundesliga"}
}

func seasonFixture(leagueID int64) league.Season {
	return league.Season{LeagueID: leagueID, Year: testSeason}
}

// fakeFeed serves canned feed data and records which matchdays were fetched.
type fakeFeed struct {
	mu sync.Mutex

	loc             *time.Location
	groups          []openligadb.Group
	seasonMatches   []openligadb.MatchRecord
	matchdayMatches map[int][]openligadb.MatchRecord
	lastChange      map[int]time.Time
	lastChangeErr   map[int]error

	matchdayFetches []int
}

func newFakeFeed(t *testing.T) *fakeFeed {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return &fakeFeed{
		loc:             loc,
		matchdayMatches: make(map[int][]openligadb.MatchRecord),
		lastChange:      make(map[int]time.Time),
		lastChangeErr:   make(map[int]error),
	}
}

func (f *fakeFeed) Location() *time.Location { return f.loc }

func (f *fakeFeed) FetchGroups(_ context.Context, _ string, _ int) ([]openligadb.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.groups, nil
}

func (f *fakeFeed) FetchSeasonMatches(_ context.Context, _ string, _ int) ([]openligadb.MatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seasonMatches, nil
}

func (f *fakeFeed) FetchMatchdayMatches(_ context.Context, _ string, _ int, groupOrderID int) ([]openligadb.MatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matchdayFetches = append(f.matchdayFetches, groupOrderID)
	return f.matchdayMatches[groupOrderID], nil
}

func (f *fakeFeed) FetchLastChange(_ context.Context, _ string, _ int, groupOrderID int) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.lastChangeErr[groupOrderID]; ok {
		return time.Time{}, err
	}
	ts, ok := f.lastChange[groupOrderID]
	if !ok {
		return time.Time{}, fmt.Errorf("no change timestamp for group %d", groupOrderID)
	}
	return ts, nil
}

// setMatchday replaces both the season-wide and the per-matchday view of one
// matchday's records.
func (f *fakeFeed) setMatchday(order int, records ...openligadb.MatchRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matchdayMatches[order] = records

	kept := f.seasonMatches[:0]
	for _, rec := range f.seasonMatches {
		if rec.Group == nil || rec.Group.GroupOrderID == nil || *rec.Group.GroupOrderID != order {
			kept = append(kept, rec)
		}
	}
	f.seasonMatches = append(kept, records...)
}

func intp(v int) *int       { return &v }
func int64p(v int64) *int64 { return &v }
func boolp(v bool) *bool    { return &v }

func feedGroup(order int, name string) openligadb.Group {
	return openligadb.Group{GroupID: int64p(int64(1000 + order)), GroupName: name, GroupOrderID: intp(order)}
}

func feedRecord(matchID int64, order int, kickoff string, finished bool, homeID, awayID int64) openligadb.MatchRecord {
	return openligadb.MatchRecord{
		MatchID:         int64p(matchID),
		MatchDateTime:   kickoff,
		LeagueName:      "1. Bundesliga",
		Group:           &openligadb.Group{GroupOrderID: intp(order), GroupName: fmt.Sprintf("%d. Spieltag", order)},
		Team1:           feedTeam(homeID),
		Team2:           feedTeam(awayID),
		MatchIsFinished: boolp(finished),
	}
}

func feedTeam(id int64) *openligadb.TeamRecord {
	return &openligadb.TeamRecord{
		TeamID:      int64p(id),
		TeamName:    fmt.Sprintf("Team %d", id),
		ShortName:   fmt.Sprintf("T%d", id),
		TeamIconURL: fmt.Sprintf("https://img.example/%d.png", id),
	}
}

func withFinalResult(rec openligadb.MatchRecord, home, away int) openligadb.MatchRecord {
	rec.MatchResults = append(rec.MatchResults, openligadb.MatchResult{
		ResultID:      int64p(int64(len(rec.MatchResults) + 1)),
		ResultName:    "Endergebnis",
		PointsTeam1:   intp(home),
		PointsTeam2:   intp(away),
		ResultOrderID: intp(2),
	})
	return rec
}

func withGoal(rec openligadb.MatchRecord, minute, home, away int) openligadb.MatchRecord {
	rec.Goals = append(rec.Goals, openligadb.Goal{
		GoalID:      int64p(int64(len(rec.Goals) + 1)),
		ScoreTeam1:  intp(home),
		ScoreTeam2:  intp(away),
		MatchMinute: intp(minute),
	})
	return rec
}

type importerFixture struct {
	store        *memory.Store
	feed         *fakeFeed
	service      *ImporterService
	leagueRepo   *memory.LeagueRepository
	matchdayRepo *memory.MatchdayRepository
	matchRepo    *memory.MatchRepository
	teamRepo     *memory.TeamRepository
}

func newImporterFixture(t *testing.T) *importerFixture {
	t.Helper()
	store := memory.NewStore()
	feed := newFakeFeed(t)
	leagueRepo := memory.NewLeagueRepository(store)
	matchdayRepo := memory.NewMatchdayRepository(store)
	teamRepo := memory.NewTeamRepository(store)
	matchRepo := memory.NewMatchRepository(store)
	service := NewImporterService(
		feed, leagueRepo, matchdayRepo, teamRepo, matchRepo, store,
		ImporterConfig{}, logging.NewNop(),
	)
	return &importerFixture{
		store:        store,
		feed:         feed,
		service:      service,
		leagueRepo:   leagueRepo,
		matchdayRepo: matchdayRepo,
		matchRepo:    matchRepo,
		teamRepo:     teamRepo,
	}
}

// seedTwoMatchdays serves matchday 1 with two matches (one finished 2:1 with
// a 12th-minute goal) and matchday 2 with one scoreless upcoming match.
func (fx *importerFixture) seedTwoMatchdays() {
	fx.feed.groups = []openligadb.Group{feedGroup(1, "1. Spieltag"), feedGroup(2, "2. Spieltag")}
	fx.feed.setMatchday(1,
		withGoal(withFinalResult(feedRecord(101, 1, "2024-08-24T15:30:00", true, 1, 2), 2, 1), 12, 1, 0),
		feedRecord(102, 1, "2024-08-24T18:30:00", false, 3, 4),
	)
	fx.feed.setMatchday(2,
		feedRecord(201, 2, "2024-08-31T15:30:00", false, 1, 3),
	)
}

func (fx *importerFixture) bootstrap(t *testing.T) ImportSummary {
	t.Helper()
	summary, err := fx.service.Bootstrap(context.Background(), ImportInput{LeagueShortcut: testLeague, SeasonYear: testSeason})
	if err != nil {
		t.Fatalf("Bootstrap error: %v", err)
	}
	return summary
}

func (fx *importerFixture) seasonID(t *testing.T) int64 {
	t.Helper()
	ctx := context.Background()
	lg, found, err := fx.leagueRepo.GetByShortcut(ctx, testLeague)
	if err != nil || !found {
		t.Fatalf("league not stored: found=%v err=%v", found, err)
	}
	season, found, err := fx.leagueRepo.GetSeason(ctx, lg.ID, testSeason)
	if err != nil || !found {
		t.Fatalf("season not stored: found=%v err=%v", found, err)
	}
	return season.ID
}

func TestImporterService_Bootstrap(t *testing.T) {
	t.Parallel()

	fx := newImporterFixture(t)
	fx.seedTwoMatchdays()
	summary := fx.bootstrap(t)

	if summary.GroupsTotal != 2 || summary.GroupsWithMatches != 2 || summary.GroupsImported != 2 {
		t.Fatalf("unexpected group counts: %+v", summary)
	}
	if summary.TeamsCreated != 4 || summary.MatchesCreated != 3 || summary.ResultsCreated != 1 {
		t.Fatalf("unexpected create counts: %+v", summary)
	}
	if summary.FirstGoalsChanged != 1 {
		t.Fatalf("unexpected first goal count: %+v", summary)
	}

	ctx := context.Background()
	seasonID := fx.seasonID(t)

	md1, found, err := fx.matchdayRepo.GetBySeasonOrder(ctx, seasonID, 1)
	if err != nil || !found {
		t.Fatalf("matchday 1 not stored: found=%v err=%v", found, err)
	}
	wantDeadline := time.Date(2024, 8, 24, 15, 30, 0, 0, fx.feed.loc).Add(-DefaultDeadlineLead)
	if !md1.DeadlineAt.Equal(wantDeadline) {
		t.Fatalf("unexpected deadline: got=%s want=%s", md1.DeadlineAt, wantDeadline)
	}
	if md1.FirstGoalMinute == nil || *md1.FirstGoalMinute != 12 {
		t.Fatalf("unexpected first goal minute: %+v", md1.FirstGoalMinute)
	}
	wantFirstGoalAt := time.Date(2024, 8, 24, 15, 42, 0, 0, fx.feed.loc)
	if md1.FirstGoalAt == nil || !md1.FirstGoalAt.Equal(wantFirstGoalAt) {
		t.Fatalf("unexpected first goal time: %+v", md1.FirstGoalAt)
	}

	matches, err := fx.matchRepo.ListByExternalIDs(ctx, []int64{101})
	if err != nil || len(matches) != 1 {
		t.Fatalf("match 101 not stored: %v", err)
	}
	result, found, err := fx.matchRepo.GetResult(ctx, matches[0].ID)
	if err != nil || !found {
		t.Fatalf("result not stored: found=%v err=%v", found, err)
	}
	if result.HomeGoals != 2 || result.AwayGoals != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestImporterService_Bootstrap_Idempotent(t *testing.T) {
	t.Parallel()

	fx := newImporterFixture(t)
	fx.seedTwoMatchdays()
	fx.bootstrap(t)

	second := fx.bootstrap(t)
	if second.TeamsCreated != 0 || second.TeamsUpdated != 0 ||
		second.MatchesCreated != 0 || second.MatchesUpdated != 0 ||
		second.ResultsCreated != 0 || second.ResultsUpdated != 0 || second.ResultsDeleted != 0 ||
		second.FirstGoalsChanged != 0 {
		t.Fatalf("second bootstrap was not a no-op: %+v", second)
	}
}

func TestImporterService_Bootstrap_SkipsMalformedRecord(t *testing.T) {
	t.Parallel()

	fx := newImporterFixture(t)
	broken := feedRecord(103, 1, "2024-08-24T15:30:00", false, 5, 6)
	broken.Team2 = nil
	fx.feed.groups = []openligadb.Group{feedGroup(1, "1. Spieltag")}
	fx.feed.setMatchday(1,
		feedRecord(101, 1, "2024-08-24T15:30:00", false, 1, 2),
		broken,
	)

	summary := fx.bootstrap(t)
	if summary.MatchesSkipped != 1 {
		t.Fatalf("expected one skipped match, got %+v", summary)
	}
	if summary.MatchesCreated != 1 || summary.TeamsCreated != 2 {
		t.Fatalf("healthy record not imported: %+v", summary)
	}
}

func TestImporterService_Bootstrap_DryRunWritesNothing(t *testing.T) {
	t.Parallel()

	fx := newImporterFixture(t)
	fx.seedTwoMatchdays()

	summary, err := fx.service.Bootstrap(context.Background(), ImportInput{
		LeagueShortcut: testLeague, SeasonYear: testSeason, DryRun: true,
	})
	if err != nil {
		t.Fatalf("Bootstrap error: %v", err)
	}
	if !summary.DryRun || summary.GroupsWithMatches != 2 {
		t.Fatalf("unexpected dry run summary: %+v", summary)
	}
	if _, found, err := fx.leagueRepo.GetByShortcut(context.Background(), testLeague); err != nil || found {
		t.Fatalf("dry run wrote the league: found=%v err=%v", found, err)
	}
}

func TestImporterService_SmartUpdate_NotBootstrapped(t *testing.T) {
	t.Parallel()

	fx := newImporterFixture(t)
	_, err := fx.service.SmartUpdate(context.Background(), ImportInput{LeagueShortcut: testLeague, SeasonYear: testSeason})
	if !errors.Is(err, ErrSeasonNotBootstrapped) {
		t.Fatalf("expected ErrSeasonNotBootstrapped, got %v", err)
	}
}

func TestImporterService_SmartUpdate_OnlyImportsNewerMatchdays(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newImporterFixture(t)
	fx.seedTwoMatchdays()
	fx.bootstrap(t)

	stamp := time.Date(2024, 8, 24, 20, 0, 0, 0, time.UTC)
	fx.feed.lastChange[1] = stamp
	fx.feed.lastChange[2] = stamp

	// Bootstrap leaves no change stamps, so the first run imports both.
	first, err := fx.service.SmartUpdate(ctx, ImportInput{LeagueShortcut: testLeague, SeasonYear: testSeason})
	if err != nil {
		t.Fatalf("SmartUpdate error: %v", err)
	}
	if first.MatchdaysPlanned != 2 || first.GroupsImported != 2 {
		t.Fatalf("first run should import both matchdays: %+v", first)
	}

	seasonID := fx.seasonID(t)
	md1, _, err := fx.matchdayRepo.GetBySeasonOrder(ctx, seasonID, 1)
	if err != nil {
		t.Fatalf("load matchday: %v", err)
	}
	if md1.LastChangedAt == nil || !md1.LastChangedAt.Equal(stamp) {
		t.Fatalf("change stamp not recorded: %+v", md1.LastChangedAt)
	}

	// Unchanged timestamps plan nothing.
	second, err := fx.service.SmartUpdate(ctx, ImportInput{LeagueShortcut: testLeague, SeasonYear: testSeason})
	if err != nil {
		t.Fatalf("SmartUpdate error: %v", err)
	}
	if second.MatchdaysPlanned != 0 || second.GroupsImported != 0 {
		t.Fatalf("second run should be a no-op: %+v", second)
	}

	// A corrected result moves only matchday 1's timestamp.
	fx.feed.setMatchday(1,
		withGoal(withFinalResult(feedRecord(101, 1, "2024-08-24T15:30:00", true, 1, 2), 1, 1), 12, 1, 0),
		feedRecord(102, 1, "2024-08-24T18:30:00", false, 3, 4),
	)
	fx.feed.lastChange[1] = stamp.Add(time.Hour)
	fx.feed.matchdayFetches = nil

	third, err := fx.service.SmartUpdate(ctx, ImportInput{LeagueShortcut: testLeague, SeasonYear: testSeason})
	if err != nil {
		t.Fatalf("SmartUpdate error: %v", err)
	}
	if third.MatchdaysPlanned != 1 || third.GroupsImported != 1 || third.ResultsUpdated != 1 {
		t.Fatalf("third run should re-import only matchday 1: %+v", third)
	}
	if len(fx.feed.matchdayFetches) != 1 || fx.feed.matchdayFetches[0] != 1 {
		t.Fatalf("unexpected matchday fetches: %v", fx.feed.matchdayFetches)
	}

	matches, err := fx.matchRepo.ListByExternalIDs(ctx, []int64{101})
	if err != nil || len(matches) != 1 {
		t.Fatalf("match 101 not stored: %v", err)
	}
	result, found, err := fx.matchRepo.GetResult(ctx, matches[0].ID)
	if err != nil || !found {
		t.Fatalf("result missing after correction: found=%v err=%v", found, err)
	}
	if result.HomeGoals != 1 || result.AwayGoals != 1 {
		t.Fatalf("correction not applied: %+v", result)
	}
}

func TestImporterService_SmartUpdate_ProbeFailureSkipsOnlyThatMatchday(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newImporterFixture(t)
	fx.seedTwoMatchdays()
	fx.bootstrap(t)

	fx.feed.lastChangeErr[1] = errors.New("boom")
	fx.feed.lastChange[2] = time.Date(2024, 8, 31, 20, 0, 0, 0, time.UTC)

	summary, err := fx.service.SmartUpdate(ctx, ImportInput{LeagueShortcut: testLeague, SeasonYear: testSeason})
	if err != nil {
		t.Fatalf("SmartUpdate error: %v", err)
	}
	if summary.MatchdaysFailed != 1 {
		t.Fatalf("probe failure not counted: %+v", summary)
	}
	if summary.MatchdaysPlanned != 1 || summary.GroupsImported != 1 {
		t.Fatalf("healthy matchday not imported: %+v", summary)
	}
}

func TestImporterService_ResultRowTracksFeedScore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newImporterFixture(t)
	fx.feed.groups = []openligadb.Group{feedGroup(1, "1. Spieltag")}
	fx.feed.setMatchday(1,
		withGoal(feedRecord(101, 1, "2024-08-24T15:30:00", false, 1, 2), 40, 1, 0),
	)
	fx.bootstrap(t)

	matches, err := fx.matchRepo.ListByExternalIDs(ctx, []int64{101})
	if err != nil || len(matches) != 1 {
		t.Fatalf("match not stored: %v", err)
	}
	if _, found, _ := fx.matchRepo.GetResult(ctx, matches[0].ID); !found {
		t.Fatal("determinable score should have a result row")
	}

	// The feed retracts the score, e.g. an abandoned match wiped clean.
	fx.feed.setMatchday(1, feedRecord(101, 1, "2024-08-24T15:30:00", false, 1, 2))
	fx.feed.lastChange[1] = time.Date(2024, 8, 24, 21, 0, 0, 0, time.UTC)

	summary, err := fx.service.SmartUpdate(ctx, ImportInput{LeagueShortcut: testLeague, SeasonYear: testSeason})
	if err != nil {
		t.Fatalf("SmartUpdate error: %v", err)
	}
	if summary.ResultsDeleted != 1 {
		t.Fatalf("retracted score not deleted: %+v", summary)
	}
	if _, found, _ := fx.matchRepo.GetResult(ctx, matches[0].ID); found {
		t.Fatal("result row must not outlive the feed's score")
	}
}
