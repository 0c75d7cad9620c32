package usecase

import (
	"context"
	"time"

	"github.com/nketchum/sidebet/internal/domain/game"
	"github.com/nketchum/sidebet/internal/domain/identity"
)

// ScoreboardProvider is the scores-provider surface the services consume:
// identity candidates for mapping repair and game results for score sync.
type ScoreboardProvider interface {
	FetchWeekCandidates(ctx context.Context, season, week int) ([]identity.Identity, error)
	FetchWeekResults(ctx context.Context, season, week int) ([]ExternalGameResult, error)
}

// OddsProvider exposes the odds-provider candidate list. The feed carries
// upcoming games only and knows nothing about league weeks.
type OddsProvider interface {
	FetchCandidates(ctx context.Context) ([]identity.Identity, error)
}

// ExternalGameResult is the minimal result shape read from the scores
// provider.
type ExternalGameResult struct {
	ScoresID    string
	HomeTeam    string
	AwayTeam    string
	Kickoff     time.Time
	Status      string
	HomeScore   *int
	AwayScore   *int
	PlayerStats []game.PlayerStatLine
}
