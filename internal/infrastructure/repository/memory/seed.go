package memory

import (
	"time"

	"github.com/nketchum/sidebet/internal/domain/bet"
	"github.com/nketchum/sidebet/internal/domain/game"
	"github.com/nketchum/sidebet/internal/domain/schedule"
)

const seedSeason = 2025

// SeedGames returns a small opening-week slate for local runs without a
// database. Kickoffs are stated in UTC.
func SeedGames() []game.Game {
	return []game.Game{
		{
			ID:       "2025-w1-dal-phi",
			Season:   seedSeason,
			Week:     1,
			HomeTeam: "Philadelphia Eagles",
			AwayTeam: "Dallas Cowboys",
			Kickoff:  time.Date(2025, time.September, 5, 0, 20, 0, 0, time.UTC),
			Slot:     schedule.SlotThursday,
			Status:   game.StatusScheduled,
		},
		{
			ID:       "2025-w1-kc-lac",
			Season:   seedSeason,
			Week:     1,
			HomeTeam: "Los Angeles Chargers",
			AwayTeam: "Kansas City Chiefs",
			Kickoff:  time.Date(2025, time.September, 6, 0, 0, 0, 0, time.UTC),
			Slot:     schedule.SlotSundayEarly,
			Status:   game.StatusScheduled,
		},
		{
			ID:       "2025-w1-bal-buf",
			Season:   seedSeason,
			Week:     1,
			HomeTeam: "Buffalo Bills",
			AwayTeam: "Baltimore Ravens",
			Kickoff:  time.Date(2025, time.September, 8, 0, 20, 0, 0, time.UTC),
			Slot:     schedule.SlotSundayNight,
			Status:   game.StatusScheduled,
		},
		{
			ID:       "2025-w1-min-chi",
			Season:   seedSeason,
			Week:     1,
			HomeTeam: "Chicago Bears",
			AwayTeam: "Minnesota Vikings",
			Kickoff:  time.Date(2025, time.September, 9, 0, 15, 0, 0, time.UTC),
			Slot:     schedule.SlotMonday,
			Status:   game.StatusScheduled,
		},
	}
}

// SeedBets returns a couple of open wagers against the seed slate.
func SeedBets() []bet.Bet {
	line := 45.5
	return []bet.Bet{
		{
			ID:           "seed-bet-ml",
			GameID:       "2025-w1-kc-lac",
			Season:       seedSeason,
			Week:         1,
			Type:         bet.TypeMoneyline,
			Mode:         bet.ModeGroup,
			Selection:    "Kansas City Chiefs",
			Odds:         -130,
			Participants: []string{"nick", "sam"},
			Status:       bet.StatusActive,
			CreatedAt:    time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:           "seed-bet-total",
			GameID:       "2025-w1-bal-buf",
			Season:       seedSeason,
			Week:         1,
			Type:         bet.TypeOverUnder,
			Mode:         bet.ModeHeadToHead,
			Selection:    "over 45.5",
			Line:         &line,
			Odds:         -110,
			Participants: []string{"nick", "alex"},
			SideA:        &bet.Side{Name: "nick", Selection: "over 45.5"},
			SideB:        &bet.Side{Name: "alex", Selection: "under 45.5"},
			Status:       bet.StatusActive,
			CreatedAt:    time.Date(2025, time.September, 2, 9, 30, 0, 0, time.UTC),
		},
	}
}
