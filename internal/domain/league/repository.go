package league

import "context"

// Repository exposes league and season persistence.
type Repository interface {
	GetByShortcut(ctx context.Context, shortcut string) (League, bool, error)
	Create(ctx context.Context, item League) (League, error)
	UpdateName(ctx context.Context, id int64, name string) error

	GetSeason(ctx context.Context, leagueID int64, year int) (Season, bool, error)
	CreateSeason(ctx context.Context, item Season) (Season, error)
}
