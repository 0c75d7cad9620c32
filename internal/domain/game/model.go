package game

import (
	"strings"
	"time"

	"github.com/nketchum/sidebet/internal/domain/schedule"
)

const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusFinal      = "final"
	StatusPostponed  = "postponed"
	StatusCancelled  = "cancelled"
)

// Game is the canonical internal record of one contest. Team names are kept
// exactly as the scores provider sent them; normalization happens only at
// comparison time inside the identity package.
type Game struct {
	ID          string
	Season      int
	Week        int
	HomeTeam    string
	AwayTeam    string
	Kickoff     time.Time
	Slot        schedule.Slot
	Status      string
	HomeScore   *int
	AwayScore   *int
	PlayerStats []PlayerStatLine
}

// PlayerStatLine is one player's post-game stat row as delivered by the
// scores provider.
type PlayerStatLine struct {
	PlayerName     string
	Team           string
	PassingYards   *float64
	RushingYards   *float64
	ReceivingYards *float64
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinalStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinal, "final/ot", "completed", "full_time":
		return true
	default:
		return false
	}
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusPostponed, "abandoned":
		return true
	default:
		return false
	}
}

// Resolvable reports whether the game is in the only state the settlement
// engine accepts: final with both scores present.
func (g Game) Resolvable() bool {
	return IsFinalStatus(g.Status) && g.HomeScore != nil && g.AwayScore != nil
}
