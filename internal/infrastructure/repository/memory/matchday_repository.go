package memory

import (
	"context"
	"sort"
	"time"

	"github.com/tippspiel-app/tippspiel/internal/domain/matchday"
)

// MatchdayRepository implements matchday.Repository over the shared store.
type MatchdayRepository struct {
	store *Store
}

func NewMatchdayRepository(store *Store) *MatchdayRepository {
	return &MatchdayRepository{store: store}
}

func (r *MatchdayRepository) GetByID(_ context.Context, id int64) (matchday.Matchday, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	md, ok := r.store.matchdays[id]
	return md, ok, nil
}

func (r *MatchdayRepository) ListBySeason(_ context.Context, seasonID int64) ([]matchday.Matchday, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []matchday.Matchday
	for _, md := range r.store.matchdays {
		if md.SeasonID == seasonID {
			out = append(out, md)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out, nil
}

func (r *MatchdayRepository) GetBySeasonOrder(_ context.Context, seasonID int64, orderID int) (matchday.Matchday, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, md := range r.store.matchdays {
		if md.SeasonID == seasonID && md.OrderID == orderID {
			return md, true, nil
		}
	}
	return matchday.Matchday{}, false, nil
}

func (r *MatchdayRepository) Create(_ context.Context, item matchday.Matchday) (matchday.Matchday, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	item.ID = r.store.nextID()
	r.store.matchdays[item.ID] = item
	return item, nil
}

func (r *MatchdayRepository) UpdateName(_ context.Context, id int64, name string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if md, ok := r.store.matchdays[id]; ok {
		md.Name = name
		r.store.matchdays[id] = md
	}
	return nil
}

func (r *MatchdayRepository) SetFirstGoal(_ context.Context, id int64, fact matchday.FirstGoal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if md, ok := r.store.matchdays[id]; ok {
		md.FirstGoalAt = fact.At
		md.FirstGoalMatchID = fact.MatchID
		md.FirstGoalMinute = fact.Minute
		r.store.matchdays[id] = md
	}
	return nil
}

func (r *MatchdayRepository) SetLastChanged(_ context.Context, id int64, changedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if md, ok := r.store.matchdays[id]; ok {
		md.LastChangedAt = &changedAt
		r.store.matchdays[id] = md
	}
	return nil
}
