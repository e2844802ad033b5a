package match

import "context"

// Repository exposes match and result persistence.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Match, bool, error)
	ListBySeason(ctx context.Context, seasonID int64) ([]Match, error)
	ListByMatchday(ctx context.Context, matchdayID int64) ([]Match, error)
	ListByExternalIDs(ctx context.Context, externalIDs []int64) ([]Match, error)
	Create(ctx context.Context, item Match) (Match, error)
	Update(ctx context.Context, item Match) error

	GetResult(ctx context.Context, matchID int64) (Result, bool, error)
	ListResultsBySeason(ctx context.Context, seasonID int64) ([]Result, error)
	SaveResult(ctx context.Context, item Result) error
	DeleteResult(ctx context.Context, matchID int64) error
}
