package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/tippspiel-app/tippspiel/internal/domain/leaderboard"
	"github.com/tippspiel-app/tippspiel/internal/domain/match"
	"github.com/tippspiel-app/tippspiel/internal/domain/matchday"
	"github.com/tippspiel-app/tippspiel/internal/domain/storage"
	"github.com/tippspiel-app/tippspiel/internal/domain/tip"
	"github.com/tippspiel-app/tippspiel/internal/domain/user"
	"github.com/tippspiel-app/tippspiel/internal/platform/logging"
)

// LeaderboardService maintains and serves the per-season standings.
type LeaderboardService struct {
	matchdayRepo    matchday.Repository
	matchRepo       match.Repository
	tipRepo         tip.Repository
	userRepo        user.Repository
	leaderboardRepo leaderboard.Repository
	tx              storage.TxRunner
	logger          *logging.Logger
}

func NewLeaderboardService(
	matchdayRepo matchday.Repository,
	matchRepo match.Repository,
	tipRepo tip.Repository,
	userRepo user.Repository,
	leaderboardRepo leaderboard.Repository,
	tx storage.TxRunner,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeaderboardService{
		matchdayRepo:    matchdayRepo,
		matchRepo:       matchRepo,
		tipRepo:         tipRepo,
		userRepo:        userRepo,
		leaderboardRepo: leaderboardRepo,
		tx:              tx,
		logger:          logger,
	}
}

// RecomputeSeason rebuilds every user's subtotals from stored tips and
// results and reconciles them against the stored entries. Entries already
// matching are left alone so their computed-at timestamps stay put. The
// whole reconcile runs in one transaction with the season's entries
// row-locked, so concurrent recomputes serialize. Returns the number of
// entries created or updated.
func (s *LeaderboardService) RecomputeSeason(ctx context.Context, seasonID int64) (int, error) {
	ctx, span := startSpan(ctx, "leaderboard.RecomputeSeason")
	defer span.End()

	changed := 0
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		breakdowns, err := s.computeSeasonBreakdowns(ctx, seasonID)
		if err != nil {
			return err
		}

		entries, err := s.leaderboardRepo.ListBySeasonForUpdate(ctx, seasonID)
		if err != nil {
			return fmt.Errorf("lock entries: %w", err)
		}
		byUser := make(map[int64]leaderboard.Entry, len(entries))
		for _, e := range entries {
			byUser[e.UserID] = e
		}

		for _, b := range breakdowns {
			e, found := byUser[b.UserID]
			if !found {
				_, err := s.leaderboardRepo.Create(ctx, leaderboard.Entry{
					SeasonID:    seasonID,
					UserID:      b.UserID,
					TipsPoints:  b.TipsPoints,
					BonusPoints: b.BonusPoints,
				})
				if err != nil {
					return fmt.Errorf("create entry for user %d: %w", b.UserID, err)
				}
				changed++
				continue
			}
			if e.TipsPoints != b.TipsPoints || e.BonusPoints != b.BonusPoints {
				if err := s.leaderboardRepo.UpdatePoints(ctx, e.ID, b.TipsPoints, b.BonusPoints); err != nil {
					return fmt.Errorf("update entry for user %d: %w", b.UserID, err)
				}
				changed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "leaderboard recomputed", "season_id", seasonID, "entries_changed", changed)
	return changed, nil
}

// computeSeasonBreakdowns batch-scores every user with at least one tip or
// bonus tip in the season. Users whose account no longer exists are dropped.
func (s *LeaderboardService) computeSeasonBreakdowns(ctx context.Context, seasonID int64) ([]UserScoreBreakdown, error) {
	results, err := s.matchRepo.ListResultsBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	resultByMatch := make(map[int64]match.Result, len(results))
	for _, r := range results {
		resultByMatch[r.MatchID] = r
	}

	matchdays, err := s.matchdayRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list matchdays: %w", err)
	}
	minuteByMatchday := make(map[int64]*int, len(matchdays))
	for _, md := range matchdays {
		minuteByMatchday[md.ID] = md.FirstGoalMinute
	}

	tips, err := s.tipRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list tips: %w", err)
	}
	bonusTips, err := s.tipRepo.ListBonusBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list bonus tips: %w", err)
	}

	byUser := make(map[int64]*UserScoreBreakdown)
	breakdownFor := func(userID int64) *UserScoreBreakdown {
		if b, ok := byUser[userID]; ok {
			return b
		}
		b := &UserScoreBreakdown{UserID: userID, SeasonID: seasonID}
		byUser[userID] = b
		return b
	}
	for _, t := range tips {
		b := breakdownFor(t.UserID)
		if result, ok := resultByMatch[t.MatchID]; ok {
			b.TipsPoints += ScoreTip(t, result)
		}
	}
	for _, bt := range bonusTips {
		b := breakdownFor(bt.UserID)
		b.BonusPoints += ScoreBonus(bt, minuteByMatchday[bt.MatchdayID])
	}

	userIDs := make([]int64, 0, len(byUser))
	for id := range byUser {
		userIDs = append(userIDs, id)
	}
	users, err := s.userRepo.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	known := make(map[int64]struct{}, len(users))
	for _, u := range users {
		known[u.ID] = struct{}{}
	}

	breakdowns := make([]UserScoreBreakdown, 0, len(byUser))
	for id, b := range byUser {
		if _, ok := known[id]; !ok {
			s.logger.WarnContext(ctx, "dropping tips of deleted user", "user_id", id)
			continue
		}
		breakdowns = append(breakdowns, *b)
	}
	sort.Slice(breakdowns, func(i, j int) bool { return breakdowns[i].UserID < breakdowns[j].UserID })
	return breakdowns, nil
}

// ComputeSeason is the read path: the season's stored entries ordered by
// total points descending, tips points descending, then user id ascending.
// The final tie-break makes the order fully deterministic.
func (s *LeaderboardService) ComputeSeason(ctx context.Context, seasonID int64) ([]leaderboard.Row, error) {
	ctx, span := startSpan(ctx, "leaderboard.ComputeSeason")
	defer span.End()

	entries, err := s.leaderboardRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	userIDs := make([]int64, 0, len(entries))
	for _, e := range entries {
		userIDs = append(userIDs, e.UserID)
	}
	users, err := s.userRepo.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	usersByID := make(map[int64]user.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	rows := make([]leaderboard.Row, 0, len(entries))
	for _, e := range entries {
		u, found := usersByID[e.UserID]
		if !found {
			s.logger.WarnContext(ctx, "entry references deleted user, skipping", "user_id", e.UserID)
			continue
		}
		rows = append(rows, leaderboard.Row{
			UserID:      e.UserID,
			DisplayName: u.DisplayName(),
			TotalPoints: e.TotalPoints(),
			TipsPoints:  e.TipsPoints,
			BonusPoints: e.BonusPoints,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		if rows[i].TipsPoints != rows[j].TipsPoints {
			return rows[i].TipsPoints > rows[j].TipsPoints
		}
		return rows[i].UserID < rows[j].UserID
	})
	return rows, nil
}
