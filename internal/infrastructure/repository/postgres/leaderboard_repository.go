package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tippspiel-app/tippspiel/internal/domain/leaderboard"
	qb "github.com/tippspiel-app/tippspiel/internal/platform/querybuilder"
)

type leaderboardTableModel struct {
	ID          int64     `db:"id"`
	SeasonID    int64     `db:"season_id"`
	UserID      int64     `db:"user_id"`
	TipsPoints  int       `db:"tips_points"`
	BonusPoints int       `db:"bonus_points"`
	ComputedAt  time.Time `db:"computed_at"`
}

func (m leaderboardTableModel) toDomain() leaderboard.Entry {
	return leaderboard.Entry{
		ID:          m.ID,
		SeasonID:    m.SeasonID,
		UserID:      m.UserID,
		TipsPoints:  m.TipsPoints,
		BonusPoints: m.BonusPoints,
		ComputedAt:  m.ComputedAt,
	}
}

type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) ListBySeason(ctx context.Context, seasonID int64) ([]leaderboard.Entry, error) {
	return r.list(ctx, seasonID, "")
}

// ListBySeasonForUpdate row-locks the entries until the surrounding
// transaction ends, serializing concurrent recomputes of one season.
func (r *LeaderboardRepository) ListBySeasonForUpdate(ctx context.Context, seasonID int64) ([]leaderboard.Entry, error) {
	return r.list(ctx, seasonID, "FOR UPDATE")
}

func (r *LeaderboardRepository) list(ctx context.Context, seasonID int64, suffix string) ([]leaderboard.Entry, error) {
	builder := qb.Select("*").From("leaderboard_entries").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("id")
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list entries query: %w", err)
	}

	var rows []leaderboardTableModel
	if err := exec(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leaderboard entries: %w", err)
	}
	out := make([]leaderboard.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *LeaderboardRepository) Create(ctx context.Context, item leaderboard.Entry) (leaderboard.Entry, error) {
	query := `INSERT INTO leaderboard_entries (season_id, user_id, tips_points, bonus_points)
		VALUES ($1, $2, $3, $4)
		RETURNING id, computed_at`

	var row leaderboardTableModel
	if err := exec(ctx, r.db).GetContext(ctx, &row, query,
		item.SeasonID, item.UserID, item.TipsPoints, item.BonusPoints); err != nil {
		return leaderboard.Entry{}, fmt.Errorf("insert leaderboard entry: %w", err)
	}
	item.ID = row.ID
	item.ComputedAt = row.ComputedAt
	return item, nil
}

func (r *LeaderboardRepository) UpdatePoints(ctx context.Context, id int64, tipsPoints, bonusPoints int) error {
	query, args, err := qb.Update("leaderboard_entries").
		Set("tips_points", tipsPoints).
		Set("bonus_points", bonusPoints).
		SetExpr("computed_at", "now()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update entry query: %w", err)
	}

	if _, err := exec(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update leaderboard entry: %w", err)
	}
	return nil
}
