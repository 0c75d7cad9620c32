package bet

import "context"

// Repository exposes the wager reads and the single status transition the
// settlement engine's caller applies.
type Repository interface {
	ListActiveByWeek(ctx context.Context, season, week int) ([]Bet, error)
	GetByID(ctx context.Context, id string) (Bet, bool, error)
	Create(ctx context.Context, item Bet) error
	// UpdateStatus applies one terminal transition with its audit fields.
	UpdateStatus(ctx context.Context, update StatusUpdate) error
}

// StatusUpdate carries everything persisted when a bet settles.
type StatusUpdate struct {
	BetID          string
	Status         string
	Result         string
	Legs           []Leg
	FinalHomeScore *int
	FinalAwayScore *int
}
