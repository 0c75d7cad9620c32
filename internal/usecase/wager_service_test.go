package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nketchum/sidebet/internal/domain/bet"
	"github.com/nketchum/sidebet/internal/domain/game"
	"github.com/nketchum/sidebet/internal/infrastructure/repository/memory"
)

type fixedIDGen struct {
	id string
}

func (g fixedIDGen) NewID() (string, error) { return g.id, nil }

func newTestWagerService(betRepo bet.Repository, gameRepo game.Repository) *WagerService {
	svc := NewWagerService(betRepo, gameRepo, fixedIDGen{id: "bet-1"}, nil)
	svc.now = func() time.Time { return time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func openGame(id string, kickoff time.Time) game.Game {
	return game.Game{
		ID: id, Season: 2025, Week: 1,
		HomeTeam: "Los Angeles Chargers", AwayTeam: "Kansas City Chiefs",
		Kickoff: kickoff, Status: game.StatusScheduled,
	}
}

func validPlaceBetInput() PlaceBetInput {
	return PlaceBetInput{
		GameID:       "g1",
		Season:       2025,
		Week:         1,
		Type:         bet.TypeMoneyline,
		Mode:         bet.ModeGroup,
		Selection:    "Kansas City Chiefs",
		Odds:         -130,
		Participants: []string{"nick", "alex"},
	}
}

func TestPlaceBet(t *testing.T) {
	kickoff := time.Date(2025, time.September, 7, 20, 20, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		gameRepo := memory.NewGameRepository([]game.Game{openGame("g1", kickoff)})
		betRepo := memory.NewBetRepository(nil)
		svc := newTestWagerService(betRepo, gameRepo)

		placed, err := svc.PlaceBet(context.Background(), validPlaceBetInput())
		if err != nil {
			t.Fatalf("place bet: %v", err)
		}
		if placed.ID != "bet-1" || placed.Status != bet.StatusActive {
			t.Fatalf("unexpected bet: %+v", placed)
		}
		if !placed.CreatedAt.Equal(time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC)) {
			t.Fatalf("unexpected created at: %v", placed.CreatedAt)
		}

		stored, found, err := betRepo.GetByID(context.Background(), "bet-1")
		if err != nil || !found {
			t.Fatalf("bet not persisted: found=%v err=%v", found, err)
		}
		if stored.Selection != "Kansas City Chiefs" {
			t.Fatalf("unexpected stored bet: %+v", stored)
		}
	})

	t.Run("missing participants", func(t *testing.T) {
		svc := newTestWagerService(memory.NewBetRepository(nil), memory.NewGameRepository(nil))
		input := validPlaceBetInput()
		input.Participants = nil
		if _, err := svc.PlaceBet(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected invalid input, got %v", err)
		}
	})

	t.Run("spread without a line", func(t *testing.T) {
		svc := newTestWagerService(memory.NewBetRepository(nil), memory.NewGameRepository(nil))
		input := validPlaceBetInput()
		input.Type = bet.TypeSpread
		input.Selection = "Chiefs -3.5"
		if _, err := svc.PlaceBet(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected invalid input, got %v", err)
		}
	})

	t.Run("unknown game", func(t *testing.T) {
		svc := newTestWagerService(memory.NewBetRepository(nil), memory.NewGameRepository(nil))
		if _, err := svc.PlaceBet(context.Background(), validPlaceBetInput()); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("kickoff has passed", func(t *testing.T) {
		started := openGame("g1", time.Date(2025, time.September, 1, 11, 0, 0, 0, time.UTC))
		svc := newTestWagerService(memory.NewBetRepository(nil), memory.NewGameRepository([]game.Game{started}))
		if _, err := svc.PlaceBet(context.Background(), validPlaceBetInput()); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected invalid input for started game, got %v", err)
		}
	})

	t.Run("head to head requires both sides", func(t *testing.T) {
		gameRepo := memory.NewGameRepository([]game.Game{openGame("g1", kickoff)})
		svc := newTestWagerService(memory.NewBetRepository(nil), gameRepo)

		input := validPlaceBetInput()
		input.Mode = bet.ModeHeadToHead
		input.Selection = ""
		input.Line = floatp(45.5)
		input.Type = bet.TypeOverUnder
		input.SideA = &PlaceBetSide{Name: "nick", Selection: "over 45.5"}
		if _, err := svc.PlaceBet(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected invalid input without side b, got %v", err)
		}

		input.SideB = &PlaceBetSide{Name: "alex", Selection: "under 45.5"}
		if _, err := svc.PlaceBet(context.Background(), input); err != nil {
			t.Fatalf("place head-to-head bet: %v", err)
		}
	})

	t.Run("parlay checks every leg game", func(t *testing.T) {
		gameRepo := memory.NewGameRepository([]game.Game{
			openGame("g1", kickoff),
			openGame("g2", kickoff.Add(3*time.Hour)),
		})
		betRepo := memory.NewBetRepository(nil)
		svc := newTestWagerService(betRepo, gameRepo)

		input := PlaceBetInput{
			Season: 2025, Week: 1,
			Type: bet.TypeParlay, Mode: bet.ModeGroup,
			Selection:    "two-leg parlay",
			Odds:         264,
			Participants: []string{"nick"},
			Legs: []PlaceBetLeg{
				{GameID: "g1", Type: bet.TypeMoneyline, Selection: "Chiefs", Odds: -130},
				{GameID: "g2", Type: bet.TypeOverUnder, Selection: "over 45.5", Line: floatp(45.5), Odds: -110},
			},
		}
		placed, err := svc.PlaceBet(context.Background(), input)
		if err != nil {
			t.Fatalf("place parlay: %v", err)
		}
		if len(placed.Legs) != 2 || placed.Legs[0].Status != bet.StatusActive {
			t.Fatalf("unexpected legs: %+v", placed.Legs)
		}

		input.Legs[1].GameID = "g9"
		if _, err := svc.PlaceBet(context.Background(), input); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected not found for missing leg game, got %v", err)
		}
	})
}
