package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nketchum/sidebet/internal/domain/game"
	"github.com/nketchum/sidebet/internal/domain/identity"
	"github.com/nketchum/sidebet/internal/domain/mapping"
	"github.com/nketchum/sidebet/internal/infrastructure/repository/memory"
)

type stubScoreboard struct {
	candidates   []identity.Identity
	results      []ExternalGameResult
	candidateErr error
	resultErr    error
}

func (s *stubScoreboard) FetchWeekCandidates(context.Context, int, int) ([]identity.Identity, error) {
	return s.candidates, s.candidateErr
}

func (s *stubScoreboard) FetchWeekResults(context.Context, int, int) ([]ExternalGameResult, error) {
	return s.results, s.resultErr
}

type stubOddsFeed struct {
	candidates []identity.Identity
	err        error
}

func (s *stubOddsFeed) FetchCandidates(context.Context) ([]identity.Identity, error) {
	return s.candidates, s.err
}

var testKickoff = time.Date(2025, time.September, 7, 20, 20, 0, 0, time.UTC)

func testRepairGame() game.Game {
	return game.Game{
		ID:       "g1",
		Season:   2025,
		Week:     1,
		HomeTeam: "Los Angeles Chargers",
		AwayTeam: "Kansas City Chiefs",
		Kickoff:  testKickoff,
		Status:   game.StatusScheduled,
	}
}

func TestResolveAndRepair_FirstSight(t *testing.T) {
	mappingRepo := memory.NewMappingRepository(nil)
	svc := NewRepairService(nil, mappingRepo, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, time.September, 5, 0, 0, 0, 0, time.UTC) }

	scoreCandidates := []identity.Identity{{
		ScoresID: "espn-401",
		HomeTeam: "Los Angeles Chargers",
		AwayTeam: "Kansas City Chiefs",
		Kickoff:  testKickoff,
		Season:   2025,
		Week:     1,
	}}
	oddsCandidates := []identity.Identity{{
		OddsID:   "odds-abc",
		HomeTeam: "Los Angeles Chargers",
		AwayTeam: "Kansas City Chiefs",
		Kickoff:  testKickoff,
	}}

	out, err := svc.ResolveAndRepair(context.Background(), testRepairGame(), scoreCandidates, oddsCandidates)
	if err != nil {
		t.Fatalf("resolve and repair: %v", err)
	}
	if len(out.Repairs) != 2 {
		t.Fatalf("expected both sources linked, got repairs %v issues %v", out.Repairs, out.Issues)
	}
	if out.Mapping.ScoresProviderID != "espn-401" || out.Mapping.OddsProviderID != "odds-abc" {
		t.Fatalf("unexpected linkage: %+v", out.Mapping)
	}
	if out.Mapping.LastRepairedAt == nil {
		t.Fatalf("expected repair timestamp")
	}

	stored, found, err := mappingRepo.Get(context.Background(), "g1")
	if err != nil || !found {
		t.Fatalf("mapping not persisted: found=%v err=%v", found, err)
	}
	if stored.ScoresConfidence != 100 {
		t.Fatalf("expected full confidence, got %d", stored.ScoresConfidence)
	}
}

func TestResolveAndRepair_FallbackThresholdForUnlinked(t *testing.T) {
	mappingRepo := memory.NewMappingRepository(nil)
	svc := NewRepairService(nil, mappingRepo, nil, nil, nil)

	// Teams agree but kickoff is six hours off: 65 points. That clears the
	// fallback threshold for a first link only.
	weak := []identity.Identity{{
		ScoresID: "espn-late",
		HomeTeam: "Los Angeles Chargers",
		AwayTeam: "Kansas City Chiefs",
		Kickoff:  testKickoff.Add(5 * time.Hour),
	}}

	out, err := svc.ResolveAndRepair(context.Background(), testRepairGame(), weak, nil)
	if err != nil {
		t.Fatalf("resolve and repair: %v", err)
	}
	if out.Mapping.ScoresProviderID != "espn-late" {
		t.Fatalf("expected weak first link, got %+v", out.Mapping)
	}

	// The same candidate does not displace an existing link; upgrades need
	// the full threshold and a strictly better score.
	linked := mapping.Mapping{
		InternalID:       "g2",
		ScoresProviderID: "espn-good",
		ScoresConfidence: 65,
	}
	linkedRepo := memory.NewMappingRepository([]mapping.Mapping{linked})
	svc = NewRepairService(nil, linkedRepo, nil, nil, nil)

	g := testRepairGame()
	g.ID = "g2"
	out, err = svc.ResolveAndRepair(context.Background(), g, weak, nil)
	if err != nil {
		t.Fatalf("resolve and repair: %v", err)
	}
	if len(out.Repairs) != 0 {
		t.Fatalf("expected no upgrade below threshold, got %v", out.Repairs)
	}
	if out.Mapping.ScoresProviderID != "espn-good" {
		t.Fatalf("existing link was displaced: %+v", out.Mapping)
	}
}

func TestResolveAndRepair_UpgradesWeakLink(t *testing.T) {
	existing := mapping.Mapping{
		InternalID:       "g1",
		ScoresProviderID: "espn-guess",
		ScoresConfidence: 65,
	}
	mappingRepo := memory.NewMappingRepository([]mapping.Mapping{existing})
	svc := NewRepairService(nil, mappingRepo, nil, nil, nil)

	// Full team and kickoff agreement scores 100 against the stored id.
	better := []identity.Identity{{
		ScoresID: "espn-guess",
		HomeTeam: "Los Angeles Chargers",
		AwayTeam: "Kansas City Chiefs",
		Kickoff:  testKickoff,
		Season:   2025,
		Week:     1,
	}}

	out, err := svc.ResolveAndRepair(context.Background(), testRepairGame(), better, nil)
	if err != nil {
		t.Fatalf("resolve and repair: %v", err)
	}
	if len(out.Repairs) != 1 {
		t.Fatalf("expected one repair, got %v", out.Repairs)
	}
	if out.Mapping.ScoresConfidence != 100 {
		t.Fatalf("expected confidence upgrade, got %d", out.Mapping.ScoresConfidence)
	}
}

func TestResolveAndRepair_NoCandidateIsAnIssue(t *testing.T) {
	mappingRepo := memory.NewMappingRepository(nil)
	svc := NewRepairService(nil, mappingRepo, nil, nil, nil)

	out, err := svc.ResolveAndRepair(context.Background(), testRepairGame(), nil, nil)
	if err != nil {
		t.Fatalf("resolve and repair: %v", err)
	}
	if len(out.Issues) != 2 {
		t.Fatalf("expected issues for both unlinked sources, got %v", out.Issues)
	}

	if _, err := svc.ResolveAndRepair(context.Background(), game.Game{}, nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty game id, got %v", err)
	}
}

func TestRepairAll(t *testing.T) {
	g1 := testRepairGame()
	g2 := game.Game{
		ID: "g2", Season: 2025, Week: 1,
		HomeTeam: "Buffalo Bills", AwayTeam: "Baltimore Ravens",
		Kickoff: testKickoff.Add(24 * time.Hour),
		Status:  game.StatusScheduled,
	}
	gameRepo := memory.NewGameRepository([]game.Game{g1, g2})
	mappingRepo := memory.NewMappingRepository(nil)

	scoreboard := &stubScoreboard{candidates: []identity.Identity{{
		ScoresID: "espn-401",
		HomeTeam: "Los Angeles Chargers",
		AwayTeam: "Kansas City Chiefs",
		Kickoff:  testKickoff,
		Season:   2025,
		Week:     1,
	}}}
	oddsFeed := &stubOddsFeed{err: errors.New("feed is down")}

	svc := NewRepairService(gameRepo, mappingRepo, scoreboard, oddsFeed, nil)
	summary, err := svc.RepairAll(context.Background(), 2025, 1)
	if err != nil {
		t.Fatalf("repair all: %v", err)
	}

	if summary.Games != 2 || summary.Repaired != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.Issues) != 1 {
		t.Fatalf("expected one batch issue for the odds feed, got %v", summary.Issues)
	}
	if len(summary.Items) != 2 || summary.Items[0].GameID != "g1" || summary.Items[1].GameID != "g2" {
		t.Fatalf("expected items sorted by game id, got %+v", summary.Items)
	}

	stored, found, err := mappingRepo.Get(context.Background(), "g1")
	if err != nil || !found {
		t.Fatalf("mapping not persisted: found=%v err=%v", found, err)
	}
	if stored.ScoresProviderID != "espn-401" {
		t.Fatalf("unexpected linkage: %+v", stored)
	}

	t.Run("invalid input", func(t *testing.T) {
		if _, err := svc.RepairAll(context.Background(), 2025, 0); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected invalid input, got %v", err)
		}
	})

	t.Run("empty week", func(t *testing.T) {
		out, err := svc.RepairAll(context.Background(), 2025, 9)
		if err != nil {
			t.Fatalf("repair empty week: %v", err)
		}
		if out.Games != 0 {
			t.Fatalf("expected no games, got %+v", out)
		}
	})
}
