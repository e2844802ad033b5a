package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tippspiel-app/tippspiel/internal/domain/match"
	qb "github.com/tippspiel-app/tippspiel/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := exec(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, seasonID int64) ([]match.Match, error) {
	query, args, err := qb.Select("matches.*").From("matches").
		Join("JOIN matchdays ON matchdays.id = matches.matchday_id").
		Where(qb.Eq("matchdays.season_id", seasonID)).
		OrderBy("matches.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListByMatchday(ctx context.Context, matchdayID int64) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("matchday_id", matchdayID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListByExternalIDs(ctx context.Context, externalIDs []int64) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.In("external_id", int64sToAny(externalIDs))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args []any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := exec(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) (match.Match, error) {
	query, args, err := qb.InsertModel("matches", matchInsertModel{
		ExternalID: item.ExternalID,
		MatchdayID: item.MatchdayID,
		KickoffAt:  item.KickoffAt,
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
		IsFinished: item.IsFinished,
	}, "RETURNING id")
	if err != nil {
		return match.Match{}, fmt.Errorf("build insert match query: %w", err)
	}

	if err := exec(ctx, r.db).GetContext(ctx, &item.ID, query, args...); err != nil {
		return match.Match{}, fmt.Errorf("insert match: %w", err)
	}
	return item, nil
}

func (r *MatchRepository) Update(ctx context.Context, item match.Match) error {
	query, args, err := qb.Update("matches").
		Set("matchday_id", item.MatchdayID).
		Set("kickoff_at", item.KickoffAt).
		Set("home_team_id", item.HomeTeamID).
		Set("away_team_id", item.AwayTeamID).
		Set("is_finished", item.IsFinished).
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}

	if _, err := exec(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	return nil
}

func (r *MatchRepository) GetResult(ctx context.Context, matchID int64) (match.Result, bool, error) {
	query, args, err := qb.Select("*").From("match_results").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return match.Result{}, false, fmt.Errorf("build get result query: %w", err)
	}

	var row resultTableModel
	if err := exec(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Result{}, false, nil
		}
		return match.Result{}, false, fmt.Errorf("get match result: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListResultsBySeason(ctx context.Context, seasonID int64) ([]match.Result, error) {
	query, args, err := qb.Select("match_results.*").From("match_results").
		Join("JOIN matches ON matches.id = match_results.match_id").
		Join("JOIN matchdays ON matchdays.id = matches.matchday_id").
		Where(qb.Eq("matchdays.season_id", seasonID)).
		OrderBy("match_results.match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list results query: %w", err)
	}

	var rows []resultTableModel
	if err := exec(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list results by season: %w", err)
	}
	out := make([]match.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// SaveResult upserts on the match id so repeated imports stay one row per
// match.
func (r *MatchRepository) SaveResult(ctx context.Context, item match.Result) error {
	query, args, err := qb.InsertModel("match_results", resultTableModel{
		MatchID:   item.MatchID,
		HomeGoals: item.HomeGoals,
		AwayGoals: item.AwayGoals,
	}, "ON CONFLICT (match_id) DO UPDATE SET home_goals = EXCLUDED.home_goals, away_goals = EXCLUDED.away_goals")
	if err != nil {
		return fmt.Errorf("build save result query: %w", err)
	}

	if _, err := exec(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save match result: %w", err)
	}
	return nil
}

func (r *MatchRepository) DeleteResult(ctx context.Context, matchID int64) error {
	query, args, err := qb.DeleteFrom("match_results").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete result query: %w", err)
	}

	if _, err := exec(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete match result: %w", err)
	}
	return nil
}
