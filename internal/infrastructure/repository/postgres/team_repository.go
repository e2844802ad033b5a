package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tippspiel-app/tippspiel/internal/domain/team"
	qb "github.com/tippspiel-app/tippspiel/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByExternalIDs(ctx context.Context, externalIDs []int64) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.In("external_id", int64sToAny(externalIDs))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := exec(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams by external ids: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) (team.Team, error) {
	query, args, err := qb.InsertModel("teams", teamInsertModel{
		ExternalID: item.ExternalID,
		Name:       item.Name,
		ShortName:  item.ShortName,
		IconURL:    item.IconURL,
	}, "RETURNING id")
	if err != nil {
		return team.Team{}, fmt.Errorf("build insert team query: %w", err)
	}

	if err := exec(ctx, r.db).GetContext(ctx, &item.ID, query, args...); err != nil {
		return team.Team{}, fmt.Errorf("insert team: %w", err)
	}
	return item, nil
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) error {
	query, args, err := qb.Update("teams").
		Set("name", item.Name).
		Set("short_name", item.ShortName).
		Set("icon_url", item.IconURL).
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}

	if _, err := exec(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	return nil
}
