package postgres

import (
	"time"

	"github.com/tippspiel-app/tippspiel/internal/domain/match"
)

type matchTableModel struct {
	ID         int64     `db:"id"`
	ExternalID int64     `db:"external_id"`
	MatchdayID int64     `db:"matchday_id"`
	KickoffAt  time.Time `db:"kickoff_at"`
	HomeTeamID int64     `db:"home_team_id"`
	AwayTeamID int64     `db:"away_team_id"`
	IsFinished bool      `db:"is_finished"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		MatchdayID: m.MatchdayID,
		KickoffAt:  m.KickoffAt,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		IsFinished: m.IsFinished,
	}
}

type matchInsertModel struct {
	ExternalID int64     `db:"external_id"`
	MatchdayID int64     `db:"matchday_id"`
	KickoffAt  time.Time `db:"kickoff_at"`
	HomeTeamID int64     `db:"home_team_id"`
	AwayTeamID int64     `db:"away_team_id"`
	IsFinished bool      `db:"is_finished"`
}

type resultTableModel struct {
	MatchID   int64 `db:"match_id"`
	HomeGoals int   `db:"home_goals"`
	AwayGoals int   `db:"away_goals"`
}

func (m resultTableModel) toDomain() match.Result {
	return match.Result{MatchID: m.MatchID, HomeGoals: m.HomeGoals, AwayGoals: m.AwayGoals}
}
