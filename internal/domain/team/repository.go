package team

import "context"

// Repository exposes team persistence keyed by the feed's team id.
type Repository interface {
	ListByExternalIDs(ctx context.Context, externalIDs []int64) ([]Team, error)
	Create(ctx context.Context, item Team) (Team, error)
	Update(ctx context.Context, item Team) error
}
