package game

import "context"

// Repository exposes the game reads and score writes the services need.
type Repository interface {
	ListByWeek(ctx context.Context, season, week int) ([]Game, error)
	GetByID(ctx context.Context, id string) (Game, bool, error)
	Upsert(ctx context.Context, item Game) error
	// UpdateResult writes the post-game state: status, both scores and
	// the player stat sheet.
	UpdateResult(ctx context.Context, id string, status string, homeScore, awayScore *int, stats []PlayerStatLine) error
}
