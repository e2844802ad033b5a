package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tippspiel-app/tippspiel/internal/domain/league"
	qb "github.com/tippspiel-app/tippspiel/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByShortcut(ctx context.Context, shortcut string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("shortcut", shortcut)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := exec(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by shortcut: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) (league.League, error) {
	query, args, err := qb.InsertModel("leagues", leagueInsertModel{
		Shortcut: item.Shortcut,
		Name:     item.Name,
	}, "RETURNING id")
	if err != nil {
		return league.League{}, fmt.Errorf("build insert league query: %w", err)
	}

	if err := exec(ctx, r.db).GetContext(ctx, &item.ID, query, args...); err != nil {
		return league.League{}, fmt.Errorf("insert league: %w", err)
	}
	return item, nil
}

func (r *LeagueRepository) UpdateName(ctx context.Context, id int64, name string) error {
	query, args, err := qb.Update("leagues").
		Set("name", name).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update league query: %w", err)
	}

	if _, err := exec(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update league name: %w", err)
	}
	return nil
}

func (r *LeagueRepository) GetSeason(ctx context.Context, leagueID int64, year int) (league.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("year", year),
		).
		ToSQL()
	if err != nil {
		return league.Season{}, false, fmt.Errorf("build get season query: %w", err)
	}

	var row seasonTableModel
	if err := exec(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Season{}, false, nil
		}
		return league.Season{}, false, fmt.Errorf("get season: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *LeagueRepository) CreateSeason(ctx context.Context, item league.Season) (league.Season, error) {
	query, args, err := qb.InsertModel("seasons", seasonInsertModel{
		LeagueID: item.LeagueID,
		Year:     item.Year,
	}, "RETURNING id")
	if err != nil {
		return league.Season{}, fmt.Errorf("build insert season query: %w", err)
	}

	if err := exec(ctx, r.db).GetContext(ctx, &item.ID, query, args...); err != nil {
		return league.Season{}, fmt.Errorf("insert season: %w", err)
	}
	return item, nil
}
