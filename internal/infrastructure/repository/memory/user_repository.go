package memory

import (
	"context"
	"sort"

	"github.com/tippspiel-app/tippspiel/internal/domain/user"
)

// UserRepository implements user.Repository over the shared store.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (user.User, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	return u, ok, nil
}

func (r *UserRepository) ListByIDs(_ context.Context, ids []int64) ([]user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []user.User
	for _, id := range ids {
		if u, ok := r.store.users[id]; ok {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
