package openligadb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return loc
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

func validRecord() MatchRecord {
	return MatchRecord{
		MatchID:         int64Ptr(66471),
		MatchDateTime:   "2024-08-23T20:30:00",
		Group:           &Group{GroupOrderID: intPtr(1), GroupName: "1. Spieltag"},
		Team1:           &TeamRecord{TeamID: int64Ptr(40), TeamName: "FC Bayern", ShortName: "FCB"},
		Team2:           &TeamRecord{TeamID: int64Ptr(9), TeamName: "VfB Stuttgart"},
		MatchIsFinished: boolPtr(false),
	}
}

func TestParseFeedTimeInterpretsNaiveInLocation(t *testing.T) {
	t.Parallel()

	loc := berlin(t)
	got, err := ParseFeedTime("2024-08-23T20:30:00", loc)
	require.NoError(t, err)

	want := time.Date(2024, 8, 23, 20, 30, 0, 0, loc)
	assert.True(t, got.Equal(want), "got %s want %s", got, want)
	// August in Berlin is CEST, UTC+2.
	assert.True(t, got.Equal(time.Date(2024, 8, 23, 18, 30, 0, 0, time.UTC)))
}

func TestParseFeedTimeKeepsExplicitOffset(t *testing.T) {
	t.Parallel()

	got, err := ParseFeedTime("2024-08-23T20:30:00+02:00", berlin(t))
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 8, 23, 18, 30, 0, 0, time.UTC)))
}

func TestParseFeedTimeFractionalSeconds(t *testing.T) {
	t.Parallel()

	got, err := ParseFeedTime("2024-08-23T22:01:14.857", berlin(t))
	require.NoError(t, err)
	assert.Equal(t, 857_000_000, got.Nanosecond())
}

func TestParseFeedTimeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ParseFeedTime("not-a-date", berlin(t))
	require.Error(t, err)
	_, err = ParseFeedTime("  ", berlin(t))
	require.Error(t, err)
}

func TestExtractMatchFacts(t *testing.T) {
	t.Parallel()

	facts, err := ExtractMatchFacts(validRecord(), berlin(t))
	require.NoError(t, err)

	assert.Equal(t, int64(66471), facts.ExternalID)
	assert.Equal(t, 1, facts.MatchdayOrder)
	assert.False(t, facts.IsFinished)
	assert.Equal(t, int64(40), facts.HomeTeam.ExternalID)
	assert.Equal(t, "FC Bayern", facts.HomeTeam.Name)
	assert.Equal(t, "FCB", facts.HomeTeam.ShortName)
	assert.Equal(t, "", facts.AwayTeam.ShortName, "soft fields default to empty")
}

func TestExtractMatchFactsMissingRequiredFields(t *testing.T) {
	t.Parallel()

	for name, mutate := range map[string]func(*MatchRecord){
		"matchID":         func(r *MatchRecord) { r.MatchID = nil },
		"groupOrderID":    func(r *MatchRecord) { r.Group = nil },
		"matchDateTime":   func(r *MatchRecord) { r.MatchDateTime = "" },
		"matchIsFinished": func(r *MatchRecord) { r.MatchIsFinished = nil },
		"team1":           func(r *MatchRecord) { r.Team1 = nil },
		"team2 teamId":    func(r *MatchRecord) { r.Team2.TeamID = nil },
	} {
		rec := validRecord()
		mutate(&rec)
		_, err := ExtractMatchFacts(rec, berlin(t))
		require.Error(t, err, "expected extraction failure for missing %s", name)
	}
}

func TestExtractCurrentScorePrefersLastGoalEvent(t *testing.T) {
	t.Parallel()

	rec := validRecord()
	rec.Goals = []Goal{
		{ScoreTeam1: intPtr(1), ScoreTeam2: intPtr(0), MatchMinute: intPtr(12)},
		{ScoreTeam1: intPtr(2), ScoreTeam2: intPtr(1), MatchMinute: intPtr(78)},
	}
	rec.MatchResults = []MatchResult{
		{ResultName: "Halbzeit", PointsTeam1: intPtr(1), PointsTeam2: intPtr(0), ResultOrderID: intPtr(1)},
	}

	score, ok := ExtractCurrentScore(rec)
	require.True(t, ok)
	assert.Equal(t, Score{Home: 2, Away: 1}, score)
}

func TestExtractCurrentScorePrefersFinalResultName(t *testing.T) {
	t.Parallel()

	rec := validRecord()
	rec.MatchResults = []MatchResult{
		{ResultName: "Endergebnis", PointsTeam1: intPtr(3), PointsTeam2: intPtr(1), ResultOrderID: intPtr(1)},
		{ResultName: "Halbzeit", PointsTeam1: intPtr(2), PointsTeam2: intPtr(0), ResultOrderID: intPtr(2)},
	}

	score, ok := ExtractCurrentScore(rec)
	require.True(t, ok)
	assert.Equal(t, Score{Home: 3, Away: 1}, score, "final-labelled entry wins over higher order id")
}

func TestExtractCurrentScoreHighestOrderAmongFinals(t *testing.T) {
	t.Parallel()

	rec := validRecord()
	rec.MatchResults = []MatchResult{
		{ResultName: "Endstand", PointsTeam1: intPtr(2), PointsTeam2: intPtr(2), ResultOrderID: intPtr(4)},
		{ResultName: "Final", PointsTeam1: intPtr(1), PointsTeam2: intPtr(1), ResultOrderID: intPtr(2)},
	}

	score, ok := ExtractCurrentScore(rec)
	require.True(t, ok)
	assert.Equal(t, Score{Home: 2, Away: 2}, score)
}

func TestExtractCurrentScoreFallsBackToHighestOrder(t *testing.T) {
	t.Parallel()

	rec := validRecord()
	rec.MatchResults = []MatchResult{
		{ResultName: "Halbzeit", PointsTeam1: intPtr(0), PointsTeam2: intPtr(1), ResultOrderID: intPtr(1)},
		{ResultName: "Zwischenstand", PointsTeam1: intPtr(1), PointsTeam2: intPtr(1), ResultOrderID: intPtr(2)},
	}

	score, ok := ExtractCurrentScore(rec)
	require.True(t, ok)
	assert.Equal(t, Score{Home: 1, Away: 1}, score)
}

func TestExtractCurrentScoreTieBrokenByLatestSeen(t *testing.T) {
	t.Parallel()

	rec := validRecord()
	rec.MatchResults = []MatchResult{
		{ResultName: "A", PointsTeam1: intPtr(0), PointsTeam2: intPtr(0), ResultOrderID: intPtr(1)},
		{ResultName: "B", PointsTeam1: intPtr(1), PointsTeam2: intPtr(0), ResultOrderID: intPtr(1)},
	}

	score, ok := ExtractCurrentScore(rec)
	require.True(t, ok)
	assert.Equal(t, Score{Home: 1, Away: 0}, score)
}

func TestExtractCurrentScoreNone(t *testing.T) {
	t.Parallel()

	rec := validRecord()
	score, ok := ExtractCurrentScore(rec)
	assert.False(t, ok)
	assert.Equal(t, Score{}, score)

	rec.MatchResults = []MatchResult{{ResultName: "Zwischenstand", ResultOrderID: intPtr(3)}}
	_, ok = ExtractCurrentScore(rec)
	assert.False(t, ok, "entry without both values yields no score")
}

func TestExtractFirstGoalMinute(t *testing.T) {
	t.Parallel()

	rec := validRecord()
	_, ok := ExtractFirstGoalMinute(rec)
	assert.False(t, ok)

	rec.Goals = []Goal{
		{MatchMinute: intPtr(500)},
		{MatchMinute: intPtr(23)},
		{MatchMinute: intPtr(70)},
	}
	minute, ok := ExtractFirstGoalMinute(rec)
	require.True(t, ok)
	assert.Equal(t, 23, minute, "implausible minutes are skipped")

	rec.Goals = []Goal{{MatchMinute: intPtr(0)}}
	minute, ok = ExtractFirstGoalMinute(rec)
	require.True(t, ok)
	assert.Equal(t, 0, minute)
}
