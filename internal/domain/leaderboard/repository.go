package leaderboard

import "context"

// Repository exposes leaderboard entry persistence.
//
// ListBySeasonForUpdate must row-lock the returned entries for the duration
// of the surrounding transaction, so concurrent recomputes of the same season
// serialize instead of losing updates.
type Repository interface {
	ListBySeason(ctx context.Context, seasonID int64) ([]Entry, error)
	ListBySeasonForUpdate(ctx context.Context, seasonID int64) ([]Entry, error)
	Create(ctx context.Context, item Entry) (Entry, error)
	UpdatePoints(ctx context.Context, id int64, tipsPoints, bonusPoints int) error
}
