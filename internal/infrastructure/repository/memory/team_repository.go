package memory

import (
	"context"
	"sort"

	"github.com/tippspiel-app/tippspiel/internal/domain/team"
)

// TeamRepository implements team.Repository over the shared store.
type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) ListByExternalIDs(_ context.Context, externalIDs []int64) ([]team.Team, error) {
	wanted := make(map[int64]struct{}, len(externalIDs))
	for _, id := range externalIDs {
		wanted[id] = struct{}{}
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []team.Team
	for _, t := range r.store.teams {
		if _, ok := wanted[t.ExternalID]; ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) (team.Team, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	item.ID = r.store.nextID()
	r.store.teams[item.ID] = item
	return item, nil
}

func (r *TeamRepository) Update(_ context.Context, item team.Team) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.teams[item.ID]; ok {
		r.store.teams[item.ID] = item
	}
	return nil
}
