package bet

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// DecimalOdds converts American odds to the decimal multiplier applied to
// the stake. -110 -> 1.909..., +150 -> 2.5.
func DecimalOdds(american int) (decimal.Decimal, error) {
	switch {
	case american >= 100:
		return one.Add(decimal.NewFromInt(int64(american)).Div(decimal.NewFromInt(100))), nil
	case american <= -100:
		return one.Add(decimal.NewFromInt(100).Div(decimal.NewFromInt(int64(-american)))), nil
	default:
		return decimal.Zero, fmt.Errorf("american odds %d out of range", american)
	}
}

// PotentialPayout is the total returned on a winning bet (stake included).
// Parlay payouts multiply every leg's decimal odds.
func (b Bet) PotentialPayout(stake decimal.Decimal) (decimal.Decimal, error) {
	if stake.IsNegative() || stake.IsZero() {
		return decimal.Zero, fmt.Errorf("stake must be positive")
	}

	if b.Type != TypeParlay {
		odds, err := DecimalOdds(b.Odds)
		if err != nil {
			return decimal.Zero, err
		}
		return stake.Mul(odds).Round(2), nil
	}

	combined := one
	for i, leg := range b.Legs {
		odds, err := DecimalOdds(leg.Odds)
		if err != nil {
			return decimal.Zero, fmt.Errorf("leg %d: %w", i, err)
		}
		combined = combined.Mul(odds)
	}
	return stake.Mul(combined).Round(2), nil
}
