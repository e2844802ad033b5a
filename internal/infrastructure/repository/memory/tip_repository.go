package memory

import (
	"context"
	"sort"
	"time"

	"github.com/tippspiel-app/tippspiel/internal/domain/tip"
)

// TipRepository implements tip.Repository over the shared store.
type TipRepository struct {
	store *Store
	now   func() time.Time
}

func NewTipRepository(store *Store) *TipRepository {
	return &TipRepository{store: store, now: time.Now}
}

func (r *TipRepository) GetByUserMatch(_ context.Context, userID, matchID int64) (tip.Tip, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, t := range r.store.tips {
		if t.UserID == userID && t.MatchID == matchID {
			return t, true, nil
		}
	}
	return tip.Tip{}, false, nil
}

func (r *TipRepository) ListBySeason(_ context.Context, seasonID int64) ([]tip.Tip, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []tip.Tip
	for _, t := range r.store.tips {
		if sID, ok := r.store.seasonIDOfMatch(t.MatchID); ok && sID == seasonID {
			out = append(out, t)
		}
	}
	sortTips(out)
	return out, nil
}

func (r *TipRepository) ListByUserSeason(_ context.Context, userID, seasonID int64) ([]tip.Tip, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []tip.Tip
	for _, t := range r.store.tips {
		if t.UserID != userID {
			continue
		}
		if sID, ok := r.store.seasonIDOfMatch(t.MatchID); ok && sID == seasonID {
			out = append(out, t)
		}
	}
	sortTips(out)
	return out, nil
}

func (r *TipRepository) Save(_ context.Context, item tip.Tip) (tip.Tip, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := r.now()
	if item.ID == 0 {
		item.ID = r.store.nextID()
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	r.store.tips[item.ID] = item
	return item, nil
}

func (r *TipRepository) GetBonusByUserMatchday(_ context.Context, userID, matchdayID int64) (tip.BonusTip, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, b := range r.store.bonusTips {
		if b.UserID == userID && b.MatchdayID == matchdayID {
			return b, true, nil
		}
	}
	return tip.BonusTip{}, false, nil
}

func (r *TipRepository) ListBonusBySeason(_ context.Context, seasonID int64) ([]tip.BonusTip, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []tip.BonusTip
	for _, b := range r.store.bonusTips {
		if md, ok := r.store.matchdays[b.MatchdayID]; ok && md.SeasonID == seasonID {
			out = append(out, b)
		}
	}
	sortBonusTips(out)
	return out, nil
}

func (r *TipRepository) ListBonusByUserSeason(_ context.Context, userID, seasonID int64) ([]tip.BonusTip, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []tip.BonusTip
	for _, b := range r.store.bonusTips {
		if b.UserID != userID {
			continue
		}
		if md, ok := r.store.matchdays[b.MatchdayID]; ok && md.SeasonID == seasonID {
			out = append(out, b)
		}
	}
	sortBonusTips(out)
	return out, nil
}

func (r *TipRepository) SaveBonus(_ context.Context, item tip.BonusTip) (tip.BonusTip, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := r.now()
	if item.ID == 0 {
		item.ID = r.store.nextID()
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	r.store.bonusTips[item.ID] = item
	return item, nil
}

func sortTips(tips []tip.Tip) {
	sort.Slice(tips, func(i, j int) bool { return tips[i].ID < tips[j].ID })
}

func sortBonusTips(tips []tip.BonusTip) {
	sort.Slice(tips, func(i, j int) bool { return tips[i].ID < tips[j].ID })
}
