// Package memory backs the domain repositories with plain maps. Used by
// tests and local development; the data model matches the postgres schema.
package memory

import (
	"context"
	"sync"

	"github.com/tippspiel-app/tippspiel/internal/domain/leaderboard"
	"github.com/tippspiel-app/tippspiel/internal/domain/league"
	"github.com/tippspiel-app/tippspiel/internal/domain/match"
	"github.com/tippspiel-app/tippspiel/internal/domain/matchday"
	"github.com/tippspiel-app/tippspiel/internal/domain/team"
	"github.com/tippspiel-app/tippspiel/internal/domain/tip"
	"github.com/tippspiel-app/tippspiel/internal/domain/user"
)

// Store holds every table behind one lock so cross-entity reads stay
// consistent.
type Store struct {
	mu  sync.RWMutex
	seq int64

	leagues   map[int64]league.League
	seasons   map[int64]league.Season
	matchdays map[int64]matchday.Matchday
	teams     map[int64]team.Team
	matches   map[int64]match.Match
	results   map[int64]match.Result
	tips      map[int64]tip.Tip
	bonusTips map[int64]tip.BonusTip
	users     map[int64]user.User
	entries   map[int64]leaderboard.Entry
}

func NewStore() *Store {
	return &Store{
		leagues:   make(map[int64]league.League),
		seasons:   make(map[int64]league.Season),
		matchdays: make(map[int64]matchday.Matchday),
		teams:     make(map[int64]team.Team),
		matches:   make(map[int64]match.Match),
		results:   make(map[int64]match.Result),
		tips:      make(map[int64]tip.Tip),
		bonusTips: make(map[int64]tip.BonusTip),
		users:     make(map[int64]user.User),
		entries:   make(map[int64]leaderboard.Entry),
	}
}

// RunInTx satisfies storage.TxRunner. The store is single-process and every
// write is already atomic under the lock, so fn just runs; an error from fn
// is passed through without undo.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// PutUser seeds a user. User accounts are managed outside this module, so
// the user repository itself is read-only.
func (s *Store) PutUser(u user.User) user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.nextID()
	}
	s.users[u.ID] = u
	return u
}

// DeleteUser removes a seeded user.
func (s *Store) DeleteUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// nextID must be called with mu held.
func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// seasonIDOfMatch resolves a match to its season via the matchday.
// Must be called with mu held (read or write).
func (s *Store) seasonIDOfMatch(matchID int64) (int64, bool) {
	m, ok := s.matches[matchID]
	if !ok {
		return 0, false
	}
	md, ok := s.matchdays[m.MatchdayID]
	if !ok {
		return 0, false
	}
	return md.SeasonID, true
}
