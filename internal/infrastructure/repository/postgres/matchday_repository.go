package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tippspiel-app/tippspiel/internal/domain/matchday"
	qb "github.com/tippspiel-app/tippspiel/internal/platform/querybuilder"
)

type MatchdayRepository struct {
	db *sqlx.DB
}

func NewMatchdayRepository(db *sqlx.DB) *MatchdayRepository {
	return &MatchdayRepository{db: db}
}

func (r *MatchdayRepository) GetByID(ctx context.Context, id int64) (matchday.Matchday, bool, error) {
	query, args, err := qb.Select("*").From("matchdays").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return matchday.Matchday{}, false, fmt.Errorf("build get matchday query: %w", err)
	}

	var row matchdayTableModel
	if err := exec(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchday.Matchday{}, false, nil
		}
		return matchday.Matchday{}, false, fmt.Errorf("get matchday by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchdayRepository) ListBySeason(ctx context.Context, seasonID int64) ([]matchday.Matchday, error) {
	query, args, err := qb.Select("*").From("matchdays").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("order_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matchdays query: %w", err)
	}

	var rows []matchdayTableModel
	if err := exec(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matchdays by season: %w", err)
	}

	out := make([]matchday.Matchday, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchdayRepository) GetBySeasonOrder(ctx context.Context, seasonID int64, orderID int) (matchday.Matchday, bool, error) {
	query, args, err := qb.Select("*").From("matchdays").
		Where(
			qb.Eq("season_id", seasonID),
			qb.Eq("order_id", orderID),
		).
		ToSQL()
	if err != nil {
		return matchday.Matchday{}, false, fmt.Errorf("build get matchday query: %w", err)
	}

	var row matchdayTableModel
	if err := exec(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchday.Matchday{}, false, nil
		}
		return matchday.Matchday{}, false, fmt.Errorf("get matchday by order: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchdayRepository) Create(ctx context.Context, item matchday.Matchday) (matchday.Matchday, error) {
	query, args, err := qb.InsertModel("matchdays", matchdayInsertModel{
		SeasonID:   item.SeasonID,
		OrderID:    item.OrderID,
		Name:       item.Name,
		DeadlineAt: item.DeadlineAt,
	}, "RETURNING id")
	if err != nil {
		return matchday.Matchday{}, fmt.Errorf("build insert matchday query: %w", err)
	}

	if err := exec(ctx, r.db).GetContext(ctx, &item.ID, query, args...); err != nil {
		return matchday.Matchday{}, fmt.Errorf("insert matchday: %w", err)
	}
	return item, nil
}

func (r *MatchdayRepository) UpdateName(ctx context.Context, id int64, name string) error {
	query, args, err := qb.Update("matchdays").
		Set("name", name).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update matchday query: %w", err)
	}

	if _, err := exec(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update matchday name: %w", err)
	}
	return nil
}

func (r *MatchdayRepository) SetFirstGoal(ctx context.Context, id int64, fact matchday.FirstGoal) error {
	query, args, err := qb.Update("matchdays").
		Set("first_goal_at", fact.At).
		Set("first_goal_match_id", fact.MatchID).
		Set("first_goal_minute", fact.Minute).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set first goal query: %w", err)
	}

	if _, err := exec(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set matchday first goal: %w", err)
	}
	return nil
}

func (r *MatchdayRepository) SetLastChanged(ctx context.Context, id int64, changedAt time.Time) error {
	query, args, err := qb.Update("matchdays").
		Set("last_changed_at", changedAt).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set last changed query: %w", err)
	}

	if _, err := exec(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set matchday last changed: %w", err)
	}
	return nil
}
