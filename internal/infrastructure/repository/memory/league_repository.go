package memory

import (
	"context"

	"github.com/tippspiel-app/tippspiel/internal/domain/league"
)

// LeagueRepository implements league.Repository over the shared store.
type LeagueRepository struct {
	store *Store
}

func NewLeagueRepository(store *Store) *LeagueRepository {
	return &LeagueRepository{store: store}
}

func (r *LeagueRepository) GetByShortcut(_ context.Context, shortcut string) (league.League, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, lg := range r.store.leagues {
		if lg.Shortcut == shortcut {
			return lg, true, nil
		}
	}
	return league.League{}, false, nil
}

func (r *LeagueRepository) Create(_ context.Context, item league.League) (league.League, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	item.ID = r.store.nextID()
	r.store.leagues[item.ID] = item
	return item, nil
}

func (r *LeagueRepository) UpdateName(_ context.Context, id int64, name string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if lg, ok := r.store.leagues[id]; ok {
		lg.Name = name
		r.store.leagues[id] = lg
	}
	return nil
}

func (r *LeagueRepository) GetSeason(_ context.Context, leagueID int64, year int) (league.Season, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, sn := range r.store.seasons {
		if sn.LeagueID == leagueID && sn.Year == year {
			return sn, true, nil
		}
	}
	return league.Season{}, false, nil
}

func (r *LeagueRepository) CreateSeason(_ context.Context, item league.Season) (league.Season, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	item.ID = r.store.nextID()
	r.store.seasons[item.ID] = item
	return item, nil
}
