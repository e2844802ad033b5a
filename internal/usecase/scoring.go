package usecase

import (
	"context"
	"fmt"

	"github.com/tippspiel-app/tippspiel/internal/domain/match"
	"github.com/tippspiel-app/tippspiel/internal/domain/matchday"
	"github.com/tippspiel-app/tippspiel/internal/domain/tip"
	"github.com/tippspiel-app/tippspiel/internal/platform/logging"
)

// Points awarded per scored tip.
const (
	PointsExact    = 5
	PointsTendency = 2
	PointsMiss     = 0
	PointsBonus    = 3
)

type tendency int

const (
	tendencyHome tendency = iota
	tendencyDraw
	tendencyAway
)

func tendencyOf(homeGoals, awayGoals int) tendency {
	switch {
	case homeGoals > awayGoals:
		return tendencyHome
	case homeGoals < awayGoals:
		return tendencyAway
	default:
		return tendencyDraw
	}
}

// ScoreTip awards 5 for an exact score, 2 for the right tendency and 0
// otherwise. The result is the current score of the match; finished and
// in-progress results score alike.
func ScoreTip(t tip.Tip, result match.Result) int {
	if t.HomeGoalsPredicted == result.HomeGoals && t.AwayGoalsPredicted == result.AwayGoals {
		return PointsExact
	}
	if tendencyOf(t.HomeGoalsPredicted, t.AwayGoalsPredicted) == tendencyOf(result.HomeGoals, result.AwayGoals) {
		return PointsTendency
	}
	return PointsMiss
}

// ScoreBonus awards 3 when the predicted minute matches the established
// first-goal minute of the matchday, 0 otherwise. A matchday without a
// first goal scores nothing.
func ScoreBonus(b tip.BonusTip, firstGoalMinute *int) int {
	if firstGoalMinute != nil && b.FirstGoalMinutePredicted == *firstGoalMinute {
		return PointsBonus
	}
	return 0
}

// UserScoreBreakdown is a user's recomputed point totals for one season.
type UserScoreBreakdown struct {
	UserID      int64
	SeasonID    int64
	TipsPoints  int
	BonusPoints int
}

func (b UserScoreBreakdown) TotalPoints() int {
	return b.TipsPoints + b.BonusPoints
}

// ScoringService recomputes point totals from stored tips and results.
type ScoringService struct {
	matchdayRepo matchday.Repository
	matchRepo    match.Repository
	tipRepo      tip.Repository
	logger       *logging.Logger
}

func NewScoringService(
	matchdayRepo matchday.Repository,
	matchRepo match.Repository,
	tipRepo tip.Repository,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		matchdayRepo: matchdayRepo,
		matchRepo:    matchRepo,
		tipRepo:      tipRepo,
		logger:       logger,
	}
}

// ComputeUserScoreForSeason recomputes a single user's totals from
// scratch. Tips on matches without a result contribute nothing.
func (s *ScoringService) ComputeUserScoreForSeason(ctx context.Context, userID, seasonID int64) (UserScoreBreakdown, error) {
	ctx, span := startSpan(ctx, "scoring.ComputeUserScoreForSeason")
	defer span.End()

	breakdown := UserScoreBreakdown{UserID: userID, SeasonID: seasonID}

	results, err := s.matchRepo.ListResultsBySeason(ctx, seasonID)
	if err != nil {
		return breakdown, fmt.Errorf("list results: %w", err)
	}
	resultByMatch := make(map[int64]match.Result, len(results))
	for _, r := range results {
		resultByMatch[r.MatchID] = r
	}

	tips, err := s.tipRepo.ListByUserSeason(ctx, userID, seasonID)
	if err != nil {
		return breakdown, fmt.Errorf("list tips: %w", err)
	}
	for _, t := range tips {
		if result, ok := resultByMatch[t.MatchID]; ok {
			breakdown.TipsPoints += ScoreTip(t, result)
		}
	}

	matchdays, err := s.matchdayRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return breakdown, fmt.Errorf("list matchdays: %w", err)
	}
	minuteByMatchday := make(map[int64]*int, len(matchdays))
	for _, md := range matchdays {
		minuteByMatchday[md.ID] = md.FirstGoalMinute
	}

	bonusTips, err := s.tipRepo.ListBonusByUserSeason(ctx, userID, seasonID)
	if err != nil {
		return breakdown, fmt.Errorf("list bonus tips: %w", err)
	}
	for _, b := range bonusTips {
		breakdown.BonusPoints += ScoreBonus(b, minuteByMatchday[b.MatchdayID])
	}

	return breakdown, nil
}
