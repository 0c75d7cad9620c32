package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nketchum/sidebet/internal/domain/game"
	"github.com/nketchum/sidebet/internal/domain/identity"
	"github.com/nketchum/sidebet/internal/domain/schedule"
	"github.com/nketchum/sidebet/internal/infrastructure/repository/memory"
)

func TestGameSlug(t *testing.T) {
	got := GameSlug(2025, 1, "Kansas City Chiefs", "Los Angeles Chargers")
	if got != "2025-w1-kc-lac" {
		t.Fatalf("unexpected slug: %s", got)
	}

	got = GameSlug(2025, 3, "Some Expansion Team", "Philadelphia Eagles")
	if got != "2025-w3-some-expansion-team-phi" {
		t.Fatalf("unexpected fallback slug: %s", got)
	}
}

func TestImportWeek(t *testing.T) {
	calendar := schedule.NewCalendar(2025, time.Date(2025, time.September, 2, 0, 0, 0, 0, time.UTC))

	candidates := []identity.Identity{
		{
			ScoresID: "espn-401",
			HomeTeam: "Los Angeles Chargers",
			AwayTeam: "Kansas City Chiefs",
			Kickoff:  time.Date(2025, time.September, 7, 20, 20, 0, 0, time.UTC),
			Season:   2025,
			Week:     1,
		},
		{
			ScoresID: "espn-402",
			HomeTeam: "Philadelphia Eagles",
			AwayTeam: "Dallas Cowboys",
			Kickoff:  time.Date(2025, time.September, 5, 0, 20, 0, 0, time.UTC),
			Season:   2025,
			Week:     1,
		},
	}

	gameRepo := memory.NewGameRepository(nil)
	svc := NewScheduleService(gameRepo, &stubScoreboard{candidates: candidates}, calendar, nil)

	summary, err := svc.ImportWeek(context.Background(), 2025, 1)
	if err != nil {
		t.Fatalf("import week: %v", err)
	}
	if summary.Created != 2 || summary.Updated != 0 || len(summary.Issues) != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	stored, found, err := gameRepo.GetByID(context.Background(), "2025-w1-kc-lac")
	if err != nil || !found {
		t.Fatalf("imported game not stored: found=%v err=%v", found, err)
	}
	if stored.Slot != schedule.SlotSundayAfternoon {
		t.Fatalf("unexpected slot: %s", stored.Slot)
	}
	if stored.Status != game.StatusScheduled {
		t.Fatalf("unexpected status: %s", stored.Status)
	}

	thursday, _, err := gameRepo.GetByID(context.Background(), "2025-w1-dal-phi")
	if err != nil {
		t.Fatalf("load thursday game: %v", err)
	}
	if thursday.Slot != schedule.SlotThursday {
		t.Fatalf("unexpected slot: %s", thursday.Slot)
	}

	t.Run("rerun preserves live state", func(t *testing.T) {
		live := stored
		live.Status = game.StatusInProgress
		live.HomeScore = intp(10)
		live.AwayScore = intp(7)
		if err := gameRepo.Upsert(context.Background(), live); err != nil {
			t.Fatalf("seed live game: %v", err)
		}

		again, err := svc.ImportWeek(context.Background(), 2025, 1)
		if err != nil {
			t.Fatalf("import again: %v", err)
		}
		if again.Created != 0 || again.Updated != 2 {
			t.Fatalf("unexpected rerun summary: %+v", again)
		}

		reloaded, _, err := gameRepo.GetByID(context.Background(), "2025-w1-kc-lac")
		if err != nil {
			t.Fatalf("reload game: %v", err)
		}
		if reloaded.Status != game.StatusInProgress || reloaded.HomeScore == nil || *reloaded.HomeScore != 10 {
			t.Fatalf("live state was overwritten: %+v", reloaded)
		}
	})

	t.Run("final games are skipped", func(t *testing.T) {
		done := stored
		done.Status = game.StatusFinal
		done.HomeScore = intp(20)
		done.AwayScore = intp(27)
		if err := gameRepo.Upsert(context.Background(), done); err != nil {
			t.Fatalf("seed final game: %v", err)
		}

		again, err := svc.ImportWeek(context.Background(), 2025, 1)
		if err != nil {
			t.Fatalf("import again: %v", err)
		}
		if again.Skipped != 1 || again.Updated != 1 {
			t.Fatalf("unexpected summary: %+v", again)
		}
	})
}

func TestImportWeek_Issues(t *testing.T) {
	calendar := schedule.NewCalendar(2025, time.Date(2025, time.September, 2, 0, 0, 0, 0, time.UTC))

	t.Run("provider error aborts", func(t *testing.T) {
		svc := NewScheduleService(memory.NewGameRepository(nil), &stubScoreboard{candidateErr: errors.New("down")}, calendar, nil)
		if _, err := svc.ImportWeek(context.Background(), 2025, 1); err == nil {
			t.Fatalf("expected error when schedule cannot be fetched")
		}
	})

	t.Run("week mismatch is recorded", func(t *testing.T) {
		offWeek := []identity.Identity{{
			ScoresID: "espn-409",
			HomeTeam: "Chicago Bears",
			AwayTeam: "Minnesota Vikings",
			Kickoff:  time.Date(2025, time.September, 22, 0, 15, 0, 0, time.UTC),
		}}
		svc := NewScheduleService(memory.NewGameRepository(nil), &stubScoreboard{candidates: offWeek}, calendar, nil)
		summary, err := svc.ImportWeek(context.Background(), 2025, 1)
		if err != nil {
			t.Fatalf("import week: %v", err)
		}
		if summary.Created != 1 || len(summary.Issues) != 1 {
			t.Fatalf("unexpected summary: %+v", summary)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		svc := NewScheduleService(memory.NewGameRepository(nil), &stubScoreboard{}, calendar, nil)
		if _, err := svc.ImportWeek(context.Background(), 2025, 0); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected invalid input, got %v", err)
		}
	})
}
