package leaderboard

import "time"

// Entry is the stored per-(season, user) point aggregate. Fully derived;
// safe to drop and recompute at any time.
type Entry struct {
	ID          int64
	SeasonID    int64
	UserID      int64
	TipsPoints  int
	BonusPoints int
	ComputedAt  time.Time
}

// TotalPoints is always derived, never stored independently.
func (e Entry) TotalPoints() int {
	return e.TipsPoints + e.BonusPoints
}

// Row is one ranked leaderboard line as served to the presentation layer.
type Row struct {
	UserID      int64
	DisplayName string
	TotalPoints int
	TipsPoints  int
	BonusPoints int
}
