package memory

import (
	"context"
	"sort"

	"github.com/tippspiel-app/tippspiel/internal/domain/match"
)

// MatchRepository implements match.Repository over the shared store.
type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	m, ok := r.store.matches[id]
	return m, ok, nil
}

func (r *MatchRepository) ListBySeason(_ context.Context, seasonID int64) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []match.Match
	for _, m := range r.store.matches {
		if md, ok := r.store.matchdays[m.MatchdayID]; ok && md.SeasonID == seasonID {
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) ListByMatchday(_ context.Context, matchdayID int64) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []match.Match
	for _, m := range r.store.matches {
		if m.MatchdayID == matchdayID {
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) ListByExternalIDs(_ context.Context, externalIDs []int64) ([]match.Match, error) {
	wanted := make(map[int64]struct{}, len(externalIDs))
	for _, id := range externalIDs {
		wanted[id] = struct{}{}
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []match.Match
	for _, m := range r.store.matches {
		if _, ok := wanted[m.ExternalID]; ok {
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) (match.Match, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	item.ID = r.store.nextID()
	r.store.matches[item.ID] = item
	return item, nil
}

func (r *MatchRepository) Update(_ context.Context, item match.Match) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.matches[item.ID]; ok {
		r.store.matches[item.ID] = item
	}
	return nil
}

func (r *MatchRepository) GetResult(_ context.Context, matchID int64) (match.Result, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	res, ok := r.store.results[matchID]
	return res, ok, nil
}

func (r *MatchRepository) ListResultsBySeason(_ context.Context, seasonID int64) ([]match.Result, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []match.Result
	for matchID, res := range r.store.results {
		if sID, ok := r.store.seasonIDOfMatch(matchID); ok && sID == seasonID {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out, nil
}

func (r *MatchRepository) SaveResult(_ context.Context, item match.Result) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.results[item.MatchID] = item
	return nil
}

func (r *MatchRepository) DeleteResult(_ context.Context, matchID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.results, matchID)
	return nil
}

func sortMatches(matches []match.Match) {
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
}
