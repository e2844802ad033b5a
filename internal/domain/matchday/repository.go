package matchday

import (
	"context"
	"time"
)

// Repository exposes matchday persistence.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Matchday, bool, error)
	ListBySeason(ctx context.Context, seasonID int64) ([]Matchday, error)
	GetBySeasonOrder(ctx context.Context, seasonID int64, orderID int) (Matchday, bool, error)
	Create(ctx context.Context, item Matchday) (Matchday, error)
	UpdateName(ctx context.Context, id int64, name string) error
	SetFirstGoal(ctx context.Context, id int64, fact FirstGoal) error
	SetLastChanged(ctx context.Context, id int64, changedAt time.Time) error
}
