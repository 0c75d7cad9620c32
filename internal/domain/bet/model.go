package bet

import (
	"fmt"
	"time"
)

const (
	TypeMoneyline  = "moneyline"
	TypeSpread     = "spread"
	TypeOverUnder  = "over_under"
	TypePlayerProp = "player_prop"
	TypeParlay     = "parlay"
)

const (
	ModeGroup      = "group"
	ModeHeadToHead = "head_to_head"
)

const (
	StatusActive    = "active"
	StatusWon       = "won"
	StatusLost      = "lost"
	StatusUnknown   = "unknown"
	StatusCancelled = "cancelled"
)

// Leg is one constituent bet inside a parlay. Its status is filled in by
// settlement and stored for transparency even when the parlay as a whole
// is already decided.
type Leg struct {
	GameID    string
	Type      string
	Selection string
	Line      *float64
	Odds      int
	Status    string
}

// Side is one named side of a head-to-head wager.
type Side struct {
	Name      string
	Selection string
}

// Bet is one wager placed by the group. Selection stays free text as
// entered; parsing happens at settlement time.
type Bet struct {
	ID           string
	GameID       string
	Season       int
	Week         int
	Type         string
	Mode         string
	Selection    string
	PlayerName   string
	Line         *float64
	Odds         int
	Participants []string
	SideA        *Side
	SideB        *Side
	Legs         []Leg
	Status       string
	Result       string
	// Final score snapshot written at settlement; keeps resolution
	// auditable and idempotent under later edits to the game record.
	FinalHomeScore *int
	FinalAwayScore *int
	CreatedAt      time.Time
	SettledAt      *time.Time
}

func ValidType(value string) bool {
	switch value {
	case TypeMoneyline, TypeSpread, TypeOverUnder, TypePlayerProp, TypeParlay:
		return true
	default:
		return false
	}
}

func ValidMode(value string) bool {
	return value == ModeGroup || value == ModeHeadToHead
}

// Terminal reports whether a status can no longer be changed by settlement.
func Terminal(status string) bool {
	switch status {
	case StatusWon, StatusLost, StatusUnknown, StatusCancelled:
		return true
	default:
		return false
	}
}

func (b Bet) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("bet id is required")
	}
	if !ValidType(b.Type) {
		return fmt.Errorf("invalid bet type %q", b.Type)
	}
	if !ValidMode(b.Mode) {
		return fmt.Errorf("invalid betting mode %q", b.Mode)
	}
	if b.Type == TypeParlay {
		if len(b.Legs) == 0 {
			return fmt.Errorf("parlay requires at least one leg")
		}
		for i, leg := range b.Legs {
			if leg.GameID == "" {
				return fmt.Errorf("parlay leg %d missing game id", i)
			}
			if !ValidType(leg.Type) || leg.Type == TypeParlay {
				return fmt.Errorf("parlay leg %d has invalid type %q", i, leg.Type)
			}
		}
	} else if b.GameID == "" {
		return fmt.Errorf("bet game id is required")
	}
	if b.Mode == ModeHeadToHead {
		if b.SideA == nil || b.SideB == nil {
			return fmt.Errorf("head-to-head bet requires both sides")
		}
		if b.SideA.Selection == "" || b.SideB.Selection == "" {
			return fmt.Errorf("head-to-head sides require selections")
		}
	}
	return nil
}

// LegGameIDs returns every game a bet references, legs included.
func (b Bet) LegGameIDs() []string {
	if b.Type != TypeParlay {
		return []string{b.GameID}
	}
	out := make([]string, 0, len(b.Legs))
	for _, leg := range b.Legs {
		out = append(out, leg.GameID)
	}
	return out
}
