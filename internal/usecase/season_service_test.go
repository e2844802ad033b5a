package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tippspiel-app/tippspiel/internal/domain/match"
	"github.com/tippspiel-app/tippspiel/internal/domain/matchday"
	"github.com/tippspiel-app/tippspiel/internal/infrastructure/repository/memory"
	"github.com/tippspiel-app/tippspiel/internal/platform/logging"
)

func TestSeasonService_Status(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2024, 8, 24, 16, 0, 0, 0, time.UTC)

	store := memory.NewStore()
	leagueRepo := memory.NewLeagueRepository(store)
	matchdayRepo := memory.NewMatchdayRepository(store)
	matchRepo := memory.NewMatchRepository(store)
	service := NewSeasonService(leagueRepo, matchdayRepo, matchRepo,
		func() time.Time { return now }, logging.NewNop())

	lg, err := leagueRepo.Create(ctx, leagueFixture())
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	season, err := leagueRepo.CreateSeason(ctx, seasonFixture(lg.ID))
	if err != nil {
		t.Fatalf("create season: %v", err)
	}
	md1, err := matchdayRepo.Create(ctx, matchday.Matchday{SeasonID: season.ID, OrderID: 1, Name: "1. Spieltag"})
	if err != nil {
		t.Fatalf("create matchday: %v", err)
	}
	md2, err := matchdayRepo.Create(ctx, matchday.Matchday{SeasonID: season.ID, OrderID: 2, Name: "2. Spieltag"})
	if err != nil {
		t.Fatalf("create matchday: %v", err)
	}

	// One finished match, one in play, one next week.
	mustCreateMatch(t, matchRepo, match.Match{ExternalID: 1, MatchdayID: md1.ID, KickoffAt: now.Add(-26 * time.Hour), IsFinished: true})
	live := match.Match{ExternalID: 2, MatchdayID: md1.ID, KickoffAt: now.Add(-30 * time.Minute)}
	mustCreateMatch(t, matchRepo, live)
	upcoming := match.Match{ExternalID: 3, MatchdayID: md2.ID, KickoffAt: now.Add(7 * 24 * time.Hour)}
	mustCreateMatch(t, matchRepo, upcoming)

	status, err := service.Status(ctx, season.ID)
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if status.State != SeasonStateLive {
		t.Fatalf("expected live, got %+v", status)
	}
	if status.ActiveMatchday == nil || status.ActiveMatchday.ID != md1.ID {
		t.Fatalf("unexpected active matchday: %+v", status.ActiveMatchday)
	}

	// Once the live match finishes only the future kickoff remains.
	matches, err := matchRepo.ListByExternalIDs(ctx, []int64{2})
	if err != nil || len(matches) != 1 {
		t.Fatalf("load live match: %v", err)
	}
	matches[0].IsFinished = true
	if err := matchRepo.Update(ctx, matches[0]); err != nil {
		t.Fatalf("finish match: %v", err)
	}

	status, err = service.Status(ctx, season.ID)
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if status.State != SeasonStateUpcoming {
		t.Fatalf("expected upcoming, got %+v", status)
	}
	if status.ActiveMatchday == nil || status.ActiveMatchday.ID != md2.ID {
		t.Fatalf("unexpected active matchday: %+v", status.ActiveMatchday)
	}
	if status.NextKickoffAt == nil || !status.NextKickoffAt.Equal(upcoming.KickoffAt) {
		t.Fatalf("unexpected next kickoff: %+v", status.NextKickoffAt)
	}

	// With everything played the season idles.
	matches, err = matchRepo.ListByExternalIDs(ctx, []int64{3})
	if err != nil || len(matches) != 1 {
		t.Fatalf("load upcoming match: %v", err)
	}
	matches[0].IsFinished = true
	matches[0].KickoffAt = now.Add(-time.Hour)
	if err := matchRepo.Update(ctx, matches[0]); err != nil {
		t.Fatalf("finish match: %v", err)
	}

	status, err = service.Status(ctx, season.ID)
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if status.State != SeasonStateIdle {
		t.Fatalf("expected idle, got %+v", status)
	}
}

func TestSeasonService_Status_LatestLiveMatchdayWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2024, 11, 30, 16, 0, 0, 0, time.UTC)

	store := memory.NewStore()
	leagueRepo := memory.NewLeagueRepository(store)
	matchdayRepo := memory.NewMatchdayRepository(store)
	matchRepo := memory.NewMatchRepository(store)
	service := NewSeasonService(leagueRepo, matchdayRepo, matchRepo,
		func() time.Time { return now }, logging.NewNop())

	lg, err := leagueRepo.Create(ctx, leagueFixture())
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	season, err := leagueRepo.CreateSeason(ctx, seasonFixture(lg.ID))
	if err != nil {
		t.Fatalf("create season: %v", err)
	}
	md3, err := matchdayRepo.Create(ctx, matchday.Matchday{SeasonID: season.ID, OrderID: 3, Name: "3. Spieltag"})
	if err != nil {
		t.Fatalf("create matchday: %v", err)
	}
	md12, err := matchdayRepo.Create(ctx, matchday.Matchday{SeasonID: season.ID, OrderID: 12, Name: "12. Spieltag"})
	if err != nil {
		t.Fatalf("create matchday: %v", err)
	}

	// A rescheduled round-3 match is played alongside round 12.
	mustCreateMatch(t, matchRepo, match.Match{ExternalID: 31, MatchdayID: md3.ID, KickoffAt: now.Add(-45 * time.Minute)})
	mustCreateMatch(t, matchRepo, match.Match{ExternalID: 121, MatchdayID: md12.ID, KickoffAt: now.Add(-30 * time.Minute)})

	status, err := service.Status(ctx, season.ID)
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if status.State != SeasonStateLive {
		t.Fatalf("expected live, got %+v", status)
	}
	if status.ActiveMatchday == nil || status.ActiveMatchday.ID != md12.ID {
		t.Fatalf("expected matchday order 12 active, got %+v", status.ActiveMatchday)
	}
}

func TestSeasonService_ResolveSeason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	leagueRepo := memory.NewLeagueRepository(store)
	service := NewSeasonService(leagueRepo, memory.NewMatchdayRepository(store), memory.NewMatchRepository(store), nil, logging.NewNop())

	if _, err := service.ResolveSeason(ctx, testLeague, testSeason); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown league: got %v", err)
	}

	lg, err := leagueRepo.Create(ctx, leagueFixture())
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	if _, err := service.ResolveSeason(ctx, testLeague, testSeason); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown season: got %v", err)
	}

	created, err := leagueRepo.CreateSeason(ctx, seasonFixture(lg.ID))
	if err != nil {
		t.Fatalf("create season: %v", err)
	}
	got, err := service.ResolveSeason(ctx, testLeague, testSeason)
	if err != nil {
		t.Fatalf("ResolveSeason error: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("unexpected season: got=%d want=%d", got.ID, created.ID)
	}
}

func TestSeasonService_ListMatchdays(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	leagueRepo := memory.NewLeagueRepository(store)
	matchdayRepo := memory.NewMatchdayRepository(store)
	service := NewSeasonService(leagueRepo, matchdayRepo, memory.NewMatchRepository(store), nil, logging.NewNop())

	lg, err := leagueRepo.Create(ctx, leagueFixture())
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	season, err := leagueRepo.CreateSeason(ctx, seasonFixture(lg.ID))
	if err != nil {
		t.Fatalf("create season: %v", err)
	}
	for _, order := range []int{3, 1, 2} {
		if _, err := matchdayRepo.Create(ctx, matchday.Matchday{SeasonID: season.ID, OrderID: order}); err != nil {
			t.Fatalf("create matchday %d: %v", order, err)
		}
	}

	matchdays, err := service.ListMatchdays(ctx, season.ID)
	if err != nil {
		t.Fatalf("ListMatchdays error: %v", err)
	}
	if len(matchdays) != 3 {
		t.Fatalf("expected 3 matchdays, got %d", len(matchdays))
	}
	for i, want := range []int{1, 2, 3} {
		if matchdays[i].OrderID != want {
			t.Fatalf("position %d: got order %d, want %d", i, matchdays[i].OrderID, want)
		}
	}
}

func mustCreateMatch(t *testing.T, repo match.Repository, item match.Match) {
	t.Helper()
	if _, err := repo.Create(context.Background(), item); err != nil {
		t.Fatalf("create match: %v", err)
	}
}
