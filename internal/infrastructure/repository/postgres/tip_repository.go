package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tippspiel-app/tippspiel/internal/domain/tip"
	qb "github.com/tippspiel-app/tippspiel/internal/platform/querybuilder"
)

type TipRepository struct {
	db *sqlx.DB
}

func NewTipRepository(db *sqlx.DB) *TipRepository {
	return &TipRepository{db: db}
}

const tipsSeasonJoin = "JOIN matches ON matches.id = tips.match_id " +
	"JOIN matchdays ON matchdays.id = matches.matchday_id"

func (r *TipRepository) GetByUserMatch(ctx context.Context, userID, matchID int64) (tip.Tip, bool, error) {
	query, args, err := qb.Select("*").From("tips").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("match_id", matchID),
		).
		ToSQL()
	if err != nil {
		return tip.Tip{}, false, fmt.Errorf("build get tip query: %w", err)
	}

	var row tipTableModel
	if err := exec(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tip.Tip{}, false, nil
		}
		return tip.Tip{}, false, fmt.Errorf("get tip: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TipRepository) ListBySeason(ctx context.Context, seasonID int64) ([]tip.Tip, error) {
	query, args, err := qb.Select("tips.*").From("tips").
		Join(tipsSeasonJoin).
		Where(qb.Eq("matchdays.season_id", seasonID)).
		OrderBy("tips.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tips query: %w", err)
	}
	return r.selectTips(ctx, query, args)
}

func (r *TipRepository) ListByUserSeason(ctx context.Context, userID, seasonID int64) ([]tip.Tip, error) {
	query, args, err := qb.Select("tips.*").From("tips").
		Join(tipsSeasonJoin).
		Where(
			qb.Eq("tips.user_id", userID),
			qb.Eq("matchdays.season_id", seasonID),
		).
		OrderBy("tips.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tips query: %w", err)
	}
	return r.selectTips(ctx, query, args)
}

func (r *TipRepository) selectTips(ctx context.Context, query string, args []any) ([]tip.Tip, error) {
	var rows []tipTableModel
	if err := exec(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tips: %w", err)
	}
	out := make([]tip.Tip, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Save upserts on (user_id, match_id) and bumps updated_at on change.
func (r *TipRepository) Save(ctx context.Context, item tip.Tip) (tip.Tip, error) {
	query := `INSERT INTO tips (user_id, match_id, home_goals_predicted, away_goals_predicted)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, match_id) DO UPDATE SET
			home_goals_predicted = EXCLUDED.home_goals_predicted,
			away_goals_predicted = EXCLUDED.away_goals_predicted,
			updated_at = now()
		RETURNING id, created_at, updated_at`

	var row tipTableModel
	if err := exec(ctx, r.db).GetContext(ctx, &row, query,
		item.UserID, item.MatchID, item.HomeGoalsPredicted, item.AwayGoalsPredicted); err != nil {
		return tip.Tip{}, fmt.Errorf("save tip: %w", err)
	}
	item.ID = row.ID
	item.CreatedAt = row.CreatedAt
	item.UpdatedAt = row.UpdatedAt
	return item, nil
}

func (r *TipRepository) GetBonusByUserMatchday(ctx context.Context, userID, matchdayID int64) (tip.BonusTip, bool, error) {
	query, args, err := qb.Select("*").From("bonus_tips").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("matchday_id", matchdayID),
		).
		ToSQL()
	if err != nil {
		return tip.BonusTip{}, false, fmt.Errorf("build get bonus tip query: %w", err)
	}

	var row bonusTipTableModel
	if err := exec(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tip.BonusTip{}, false, nil
		}
		return tip.BonusTip{}, false, fmt.Errorf("get bonus tip: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TipRepository) ListBonusBySeason(ctx context.Context, seasonID int64) ([]tip.BonusTip, error) {
	query, args, err := qb.Select("bonus_tips.*").From("bonus_tips").
		Join("JOIN matchdays ON matchdays.id = bonus_tips.matchday_id").
		Where(qb.Eq("matchdays.season_id", seasonID)).
		OrderBy("bonus_tips.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list bonus tips query: %w", err)
	}
	return r.selectBonusTips(ctx, query, args)
}

func (r *TipRepository) ListBonusByUserSeason(ctx context.Context, userID, seasonID int64) ([]tip.BonusTip, error) {
	query, args, err := qb.Select("bonus_tips.*").From("bonus_tips").
		Join("JOIN matchdays ON matchdays.id = bonus_tips.matchday_id").
		Where(
			qb.Eq("bonus_tips.user_id", userID),
			qb.Eq("matchdays.season_id", seasonID),
		).
		OrderBy("bonus_tips.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list bonus tips query: %w", err)
	}
	return r.selectBonusTips(ctx, query, args)
}

func (r *TipRepository) selectBonusTips(ctx context.Context, query string, args []any) ([]tip.BonusTip, error) {
	var rows []bonusTipTableModel
	if err := exec(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select bonus tips: %w", err)
	}
	out := make([]tip.BonusTip, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// SaveBonus upserts on (user_id, matchday_id).
func (r *TipRepository) SaveBonus(ctx context.Context, item tip.BonusTip) (tip.BonusTip, error) {
	query := `INSERT INTO bonus_tips (user_id, matchday_id, first_goal_minute_predicted)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, matchday_id) DO UPDATE SET
			first_goal_minute_predicted = EXCLUDED.first_goal_minute_predicted,
			updated_at = now()
		RETURNING id, created_at, updated_at`

	var row bonusTipTableModel
	if err := exec(ctx, r.db).GetContext(ctx, &row, query,
		item.UserID, item.MatchdayID, item.FirstGoalMinutePredicted); err != nil {
		return tip.BonusTip{}, fmt.Errorf("save bonus tip: %w", err)
	}
	item.ID = row.ID
	item.CreatedAt = row.CreatedAt
	item.UpdatedAt = row.UpdatedAt
	return item, nil
}
