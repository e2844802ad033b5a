package openligadb

import (
	"fmt"
	"strings"
	"time"
)

// FirstGoalMinuteMax bounds plausible goal minutes, inclusive. Covers
// regular time, stoppage time and extra time.
const FirstGoalMinuteMax = 130

// MatchFacts are the required facts of one feed match record.
type MatchFacts struct {
	ExternalID    int64
	MatchdayOrder int
	KickoffAt     time.Time
	IsFinished    bool
	HomeTeam      TeamFacts
	AwayTeam      TeamFacts
}

// TeamFacts carry the feed's team identity. Only ExternalID is required;
// the soft fields default to empty strings.
type TeamFacts struct {
	ExternalID int64
	Name       string
	ShortName  string
	IconURL    string
}

// Score is a current score extracted from one match record.
type Score struct {
	Home int
	Away int
}

var feedTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseFeedTime parses a feed timestamp. Time-zone-naive values are
// interpreted in loc, the league's operating timezone.
func ParseFeedTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range feedTimeLayouts {
		parsed, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}

// ExtractMatchFacts pulls the required fields out of one match record.
// A missing required field is a hard extraction failure naming the field and
// the match id when known.
func ExtractMatchFacts(rec MatchRecord, loc *time.Location) (MatchFacts, error) {
	if rec.MatchID == nil {
		return MatchFacts{}, fmt.Errorf("missing matchID")
	}
	matchID := *rec.MatchID

	if rec.Group == nil || rec.Group.GroupOrderID == nil {
		return MatchFacts{}, fmt.Errorf("missing group.groupOrderID for match %d", matchID)
	}
	if strings.TrimSpace(rec.MatchDateTime) == "" {
		return MatchFacts{}, fmt.Errorf("missing matchDateTime for match %d", matchID)
	}
	kickoffAt, err := ParseFeedTime(rec.MatchDateTime, loc)
	if err != nil {
		return MatchFacts{}, fmt.Errorf("parse matchDateTime for match %d: %w", matchID, err)
	}
	if rec.MatchIsFinished == nil {
		return MatchFacts{}, fmt.Errorf("missing matchIsFinished for match %d", matchID)
	}

	home, err := extractTeamFacts(rec.Team1)
	if err != nil {
		return MatchFacts{}, fmt.Errorf("team1 for match %d: %w", matchID, err)
	}
	away, err := extractTeamFacts(rec.Team2)
	if err != nil {
		return MatchFacts{}, fmt.Errorf("team2 for match %d: %w", matchID, err)
	}

	return MatchFacts{
		ExternalID:    matchID,
		MatchdayOrder: *rec.Group.GroupOrderID,
		KickoffAt:     kickoffAt,
		IsFinished:    *rec.MatchIsFinished,
		HomeTeam:      home,
		AwayTeam:      away,
	}, nil
}

func extractTeamFacts(rec *TeamRecord) (TeamFacts, error) {
	if rec == nil {
		return TeamFacts{}, fmt.Errorf("missing team record")
	}
	if rec.TeamID == nil {
		return TeamFacts{}, fmt.Errorf("missing teamId")
	}
	return TeamFacts{
		ExternalID: *rec.TeamID,
		Name:       strings.TrimSpace(rec.TeamName),
		ShortName:  strings.TrimSpace(rec.ShortName),
		IconURL:    strings.TrimSpace(rec.TeamIconURL),
	}, nil
}

// ExtractCurrentScore applies the score precedence rules:
//
//  1. running score after the last in-match goal event;
//  2. result entries whose name marks an end/final state, highest
//     resultOrderID wins;
//  3. the result entry with the highest resultOrderID, ties broken by
//     latest-seen;
//  4. no entry with both values means the match has no score.
func ExtractCurrentScore(rec MatchRecord) (Score, bool) {
	if len(rec.Goals) > 0 {
		last := rec.Goals[len(rec.Goals)-1]
		if last.ScoreTeam1 != nil && last.ScoreTeam2 != nil {
			return Score{Home: *last.ScoreTeam1, Away: *last.ScoreTeam2}, true
		}
	}

	if len(rec.MatchResults) == 0 {
		return Score{}, false
	}

	var finalBest *MatchResult
	finalBestOrder := -1
	for i := range rec.MatchResults {
		r := &rec.MatchResults[i]
		if !isFinalResultName(r.ResultName) || r.PointsTeam1 == nil || r.PointsTeam2 == nil {
			continue
		}
		if order := resultOrder(r); order >= finalBestOrder {
			finalBestOrder = order
			finalBest = r
		}
	}
	if finalBest != nil {
		return Score{Home: *finalBest.PointsTeam1, Away: *finalBest.PointsTeam2}, true
	}

	var best *MatchResult
	bestOrder := -1
	for i := range rec.MatchResults {
		r := &rec.MatchResults[i]
		if order := resultOrder(r); order >= bestOrder {
			bestOrder = order
			best = r
		}
	}
	if best == nil || best.PointsTeam1 == nil || best.PointsTeam2 == nil {
		return Score{}, false
	}
	return Score{Home: *best.PointsTeam1, Away: *best.PointsTeam2}, true
}

// isFinalResultName matches tokens meaning "end" or "final" in the feed's
// locale, e.g. "Endergebnis" or "Endstand".
func isFinalResultName(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, token := range []string{"end", "ende", "final"} {
		if strings.Contains(name, token) {
			return true
		}
	}
	return false
}

func resultOrder(r *MatchResult) int {
	if r.ResultOrderID == nil {
		return -1
	}
	return *r.ResultOrderID
}

// ExtractFirstGoalMinute returns the minute of the first goal event of this
// match carrying a plausible minute value.
func ExtractFirstGoalMinute(rec MatchRecord) (int, bool) {
	for _, goal := range rec.Goals {
		if goal.MatchMinute == nil {
			continue
		}
		minute := *goal.MatchMinute
		if minute >= 0 && minute <= FirstGoalMinuteMax {
			return minute, true
		}
	}
	return 0, false
}
