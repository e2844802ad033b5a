package tip

import "context"

// Repository exposes tip and bonus-tip persistence.
type Repository interface {
	GetByUserMatch(ctx context.Context, userID, matchID int64) (Tip, bool, error)
	ListBySeason(ctx context.Context, seasonID int64) ([]Tip, error)
	ListByUserSeason(ctx context.Context, userID, seasonID int64) ([]Tip, error)
	Save(ctx context.Context, item Tip) (Tip, error)

	GetBonusByUserMatchday(ctx context.Context, userID, matchdayID int64) (BonusTip, bool, error)
	ListBonusBySeason(ctx context.Context, seasonID int64) ([]BonusTip, error)
	ListBonusByUserSeason(ctx context.Context, userID, seasonID int64) ([]BonusTip, error)
	SaveBonus(ctx context.Context, item BonusTip) (BonusTip, error)
}
