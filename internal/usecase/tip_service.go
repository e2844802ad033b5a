package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tippspiel-app/tippspiel/internal/domain/match"
	"github.com/tippspiel-app/tippspiel/internal/domain/matchday"
	"github.com/tippspiel-app/tippspiel/internal/domain/tip"
	"github.com/tippspiel-app/tippspiel/internal/domain/user"
	"github.com/tippspiel-app/tippspiel/internal/platform/logging"
)

// TipUpsertResult reports what an upsert actually did. An identical resubmit
// is neither created nor updated.
type TipUpsertResult struct {
	Created bool
	Updated bool
}

// UpsertTipInput is one user's score prediction for one match.
type UpsertTipInput struct {
	UserID    int64
	MatchID   int64
	HomeGoals int
	AwayGoals int
}

// UpsertBonusTipInput is one user's first-goal-minute prediction for one
// matchday.
type UpsertBonusTipInput struct {
	UserID          int64
	MatchdayID      int64
	FirstGoalMinute int
}

// TipService places and changes tips while the owning matchday is still open.
type TipService struct {
	userRepo     user.Repository
	matchRepo    match.Repository
	matchdayRepo matchday.Repository
	tipRepo      tip.Repository
	now          func() time.Time
	logger       *logging.Logger
}

func NewTipService(
	userRepo user.Repository,
	matchRepo match.Repository,
	matchdayRepo matchday.Repository,
	tipRepo tip.Repository,
	now func() time.Time,
	logger *logging.Logger,
) *TipService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TipService{
		userRepo:     userRepo,
		matchRepo:    matchRepo,
		matchdayRepo: matchdayRepo,
		tipRepo:      tipRepo,
		now:          now,
		logger:       logger,
	}
}

// UpsertTip creates or changes a tip. Rejected when the user or match is
// unknown, a predicted goal count is negative, or the owning matchday's
// deadline has passed. The deadline itself still accepts.
func (s *TipService) UpsertTip(ctx context.Context, in UpsertTipInput) (TipUpsertResult, error) {
	ctx, span := startSpan(ctx, "tip.UpsertTip")
	defer span.End()

	if in.HomeGoals < 0 || in.AwayGoals < 0 {
		return TipUpsertResult{}, fmt.Errorf("%w: predicted goals must not be negative", ErrInvalidInput)
	}
	if err := s.requireUser(ctx, in.UserID); err != nil {
		return TipUpsertResult{}, err
	}

	m, found, err := s.matchRepo.GetByID(ctx, in.MatchID)
	if err != nil {
		return TipUpsertResult{}, fmt.Errorf("load match: %w", err)
	}
	if !found {
		return TipUpsertResult{}, fmt.Errorf("%w: match %d", ErrNotFound, in.MatchID)
	}
	if err := s.requireOpen(ctx, m.MatchdayID); err != nil {
		return TipUpsertResult{}, err
	}

	existing, found, err := s.tipRepo.GetByUserMatch(ctx, in.UserID, in.MatchID)
	if err != nil {
		return TipUpsertResult{}, fmt.Errorf("load tip: %w", err)
	}
	if found {
		if existing.HomeGoalsPredicted == in.HomeGoals && existing.AwayGoalsPredicted == in.AwayGoals {
			return TipUpsertResult{}, nil
		}
		existing.HomeGoalsPredicted = in.HomeGoals
		existing.AwayGoalsPredicted = in.AwayGoals
		if _, err := s.tipRepo.Save(ctx, existing); err != nil {
			return TipUpsertResult{}, fmt.Errorf("save tip: %w", err)
		}
		return TipUpsertResult{Updated: true}, nil
	}

	_, err = s.tipRepo.Save(ctx, tip.Tip{
		UserID:             in.UserID,
		MatchID:            in.MatchID,
		HomeGoalsPredicted: in.HomeGoals,
		AwayGoalsPredicted: in.AwayGoals,
	})
	if err != nil {
		return TipUpsertResult{}, fmt.Errorf("save tip: %w", err)
	}
	return TipUpsertResult{Created: true}, nil
}

// UpsertBonusTip creates or changes a bonus tip. The predicted minute must
// lie within [0, BonusMinuteMax].
func (s *TipService) UpsertBonusTip(ctx context.Context, in UpsertBonusTipInput) (TipUpsertResult, error) {
	ctx, span := startSpan(ctx, "tip.UpsertBonusTip")
	defer span.End()

	if in.FirstGoalMinute < 0 || in.FirstGoalMinute > tip.BonusMinuteMax {
		return TipUpsertResult{}, fmt.Errorf("%w: predicted minute must be within [0, %d]", ErrInvalidInput, tip.BonusMinuteMax)
	}
	if err := s.requireUser(ctx, in.UserID); err != nil {
		return TipUpsertResult{}, err
	}
	if err := s.requireOpen(ctx, in.MatchdayID); err != nil {
		return TipUpsertResult{}, err
	}

	existing, found, err := s.tipRepo.GetBonusByUserMatchday(ctx, in.UserID, in.MatchdayID)
	if err != nil {
		return TipUpsertResult{}, fmt.Errorf("load bonus tip: %w", err)
	}
	if found {
		if existing.FirstGoalMinutePredicted == in.FirstGoalMinute {
			return TipUpsertResult{}, nil
		}
		existing.FirstGoalMinutePredicted = in.FirstGoalMinute
		if _, err := s.tipRepo.SaveBonus(ctx, existing); err != nil {
			return TipUpsertResult{}, fmt.Errorf("save bonus tip: %w", err)
		}
		return TipUpsertResult{Updated: true}, nil
	}

	_, err = s.tipRepo.SaveBonus(ctx, tip.BonusTip{
		UserID:                   in.UserID,
		MatchdayID:               in.MatchdayID,
		FirstGoalMinutePredicted: in.FirstGoalMinute,
	})
	if err != nil {
		return TipUpsertResult{}, fmt.Errorf("save bonus tip: %w", err)
	}
	return TipUpsertResult{Created: true}, nil
}

// UserSeasonTips bundles everything one user has predicted for one season.
type UserSeasonTips struct {
	Tips      []tip.Tip
	BonusTips []tip.BonusTip
}

// ListUserSeasonTips returns a user's tips and bonus tips across a season.
func (s *TipService) ListUserSeasonTips(ctx context.Context, userID, seasonID int64) (UserSeasonTips, error) {
	ctx, span := startSpan(ctx, "tip.ListUserSeasonTips")
	defer span.End()

	if err := s.requireUser(ctx, userID); err != nil {
		return UserSeasonTips{}, err
	}

	tips, err := s.tipRepo.ListByUserSeason(ctx, userID, seasonID)
	if err != nil {
		return UserSeasonTips{}, fmt.Errorf("list tips: %w", err)
	}
	bonusTips, err := s.tipRepo.ListBonusByUserSeason(ctx, userID, seasonID)
	if err != nil {
		return UserSeasonTips{}, fmt.Errorf("list bonus tips: %w", err)
	}
	return UserSeasonTips{Tips: tips, BonusTips: bonusTips}, nil
}

func (s *TipService) requireUser(ctx context.Context, userID int64) error {
	_, found, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return nil
}

func (s *TipService) requireOpen(ctx context.Context, matchdayID int64) error {
	md, found, err := s.matchdayRepo.GetByID(ctx, matchdayID)
	if err != nil {
		return fmt.Errorf("load matchday: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: matchday %d", ErrNotFound, matchdayID)
	}
	if !md.IsOpenForTipping(s.now()) {
		return fmt.Errorf("%w: matchday %q closed for tipping at %s", ErrInvalidInput, md.Name, md.DeadlineAt.Format(time.RFC3339))
	}
	return nil
}
