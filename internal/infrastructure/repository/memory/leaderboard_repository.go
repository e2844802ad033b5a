package memory

import (
	"context"
	"sort"
	"time"

	"github.com/tippspiel-app/tippspiel/internal/domain/leaderboard"
)

// LeaderboardRepository implements leaderboard.Repository over the shared
// store. The store has no real row locks; ListBySeasonForUpdate is a plain
// read, which is fine for single-process tests.
type LeaderboardRepository struct {
	store *Store
	now   func() time.Time
}

func NewLeaderboardRepository(store *Store) *LeaderboardRepository {
	return &LeaderboardRepository{store: store, now: time.Now}
}

func (r *LeaderboardRepository) ListBySeason(_ context.Context, seasonID int64) ([]leaderboard.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.listLocked(seasonID), nil
}

func (r *LeaderboardRepository) ListBySeasonForUpdate(_ context.Context, seasonID int64) ([]leaderboard.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.listLocked(seasonID), nil
}

func (r *LeaderboardRepository) listLocked(seasonID int64) []leaderboard.Entry {
	var out []leaderboard.Entry
	for _, e := range r.store.entries {
		if e.SeasonID == seasonID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *LeaderboardRepository) Create(_ context.Context, item leaderboard.Entry) (leaderboard.Entry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	item.ID = r.store.nextID()
	item.ComputedAt = r.now()
	r.store.entries[item.ID] = item
	return item, nil
}

func (r *LeaderboardRepository) UpdatePoints(_ context.Context, id int64, tipsPoints, bonusPoints int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if e, ok := r.store.entries[id]; ok {
		e.TipsPoints = tipsPoints
		e.BonusPoints = bonusPoints
		e.ComputedAt = r.now()
		r.store.entries[id] = e
	}
	return nil
}
