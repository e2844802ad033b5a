package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tippspiel-app/tippspiel/internal/domain/league"
	"github.com/tippspiel-app/tippspiel/internal/domain/match"
	"github.com/tippspiel-app/tippspiel/internal/domain/matchday"
	"github.com/tippspiel-app/tippspiel/internal/platform/logging"
)

// SeasonState says what the season is doing right now.
type SeasonState string

const (
	// SeasonStateLive means at least one match has kicked off and is not
	// finished yet.
	SeasonStateLive SeasonState = "live"
	// SeasonStateUpcoming means no match is live but one is scheduled.
	SeasonStateUpcoming SeasonState = "upcoming"
	// SeasonStateIdle means every known match is finished.
	SeasonStateIdle SeasonState = "idle"
)

// SeasonStatus is the derived current status of one season.
type SeasonStatus struct {
	State          SeasonState
	ActiveMatchday *matchday.Matchday
	NextKickoffAt  *time.Time
}

// SeasonService resolves seasons and derives their current status.
type SeasonService struct {
	leagueRepo   league.Repository
	matchdayRepo matchday.Repository
	matchRepo    match.Repository
	now          func() time.Time
	logger       *logging.Logger
}

func NewSeasonService(
	leagueRepo league.Repository,
	matchdayRepo matchday.Repository,
	matchRepo match.Repository,
	now func() time.Time,
	logger *logging.Logger,
) *SeasonService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SeasonService{
		leagueRepo:   leagueRepo,
		matchdayRepo: matchdayRepo,
		matchRepo:    matchRepo,
		now:          now,
		logger:       logger,
	}
}

// ResolveSeason maps (league shortcut, year) to the stored season.
func (s *SeasonService) ResolveSeason(ctx context.Context, leagueShortcut string, seasonYear int) (league.Season, error) {
	lg, found, err := s.leagueRepo.GetByShortcut(ctx, leagueShortcut)
	if err != nil {
		return league.Season{}, fmt.Errorf("load league: %w", err)
	}
	if !found {
		return league.Season{}, fmt.Errorf("%w: league %q", ErrNotFound, leagueShortcut)
	}
	season, found, err := s.leagueRepo.GetSeason(ctx, lg.ID, seasonYear)
	if err != nil {
		return league.Season{}, fmt.Errorf("load season: %w", err)
	}
	if !found {
		return league.Season{}, fmt.Errorf("%w: %s season %d", ErrNotFound, leagueShortcut, seasonYear)
	}
	return season, nil
}

// ListMatchdays returns the season's matchdays in schedule order.
func (s *SeasonService) ListMatchdays(ctx context.Context, seasonID int64) ([]matchday.Matchday, error) {
	ctx, span := startSpan(ctx, "season.ListMatchdays")
	defer span.End()

	matchdays, err := s.matchdayRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list matchdays: %w", err)
	}
	sort.Slice(matchdays, func(i, j int) bool { return matchdays[i].OrderID < matchdays[j].OrderID })
	return matchdays, nil
}

// Status derives the season's current state from stored matches. A kicked-off
// unfinished match makes the season live; otherwise the next scheduled
// kickoff makes it upcoming; with nothing left to play it is idle.
func (s *SeasonService) Status(ctx context.Context, seasonID int64) (SeasonStatus, error) {
	ctx, span := startSpan(ctx, "season.Status")
	defer span.End()

	matches, err := s.matchRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return SeasonStatus{}, fmt.Errorf("list matches: %w", err)
	}

	now := s.now()
	liveMatchdayIDs := make(map[int64]struct{})
	var next *match.Match
	for i, m := range matches {
		if !m.IsFinished && !m.KickoffAt.After(now) {
			liveMatchdayIDs[m.MatchdayID] = struct{}{}
			continue
		}
		if m.KickoffAt.After(now) {
			if next == nil || m.KickoffAt.Before(next.KickoffAt) {
				next = &matches[i]
			}
		}
	}

	// Several matchdays can hold live matches at once, e.g. a rescheduled
	// match played during a later round. The latest round wins.
	if len(liveMatchdayIDs) > 0 {
		md, err := s.latestMatchday(ctx, seasonID, liveMatchdayIDs)
		if err != nil {
			return SeasonStatus{}, err
		}
		return SeasonStatus{State: SeasonStateLive, ActiveMatchday: md}, nil
	}
	if next != nil {
		md, err := s.loadMatchday(ctx, next.MatchdayID)
		if err != nil {
			return SeasonStatus{}, err
		}
		kickoff := next.KickoffAt
		return SeasonStatus{State: SeasonStateUpcoming, ActiveMatchday: md, NextKickoffAt: &kickoff}, nil
	}
	return SeasonStatus{State: SeasonStateIdle}, nil
}

// latestMatchday picks the candidate with the highest ordinal.
func (s *SeasonService) latestMatchday(ctx context.Context, seasonID int64, candidateIDs map[int64]struct{}) (*matchday.Matchday, error) {
	matchdays, err := s.matchdayRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list matchdays: %w", err)
	}
	var latest *matchday.Matchday
	for i, md := range matchdays {
		if _, ok := candidateIDs[md.ID]; !ok {
			continue
		}
		if latest == nil || md.OrderID > latest.OrderID {
			latest = &matchdays[i]
		}
	}
	return latest, nil
}

func (s *SeasonService) loadMatchday(ctx context.Context, id int64) (*matchday.Matchday, error) {
	md, found, err := s.matchdayRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load matchday: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &md, nil
}
