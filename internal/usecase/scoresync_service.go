package usecase

import (
	"context"
	"fmt"

	"github.com/nketchum/sidebet/internal/domain/game"
	"github.com/nketchum/sidebet/internal/domain/mapping"
	"github.com/nketchum/sidebet/internal/platform/logging"
)

// ScoreSyncService copies final results from the scores provider onto the
// canonical game records, keyed through the persisted mappings. It runs
// after mapping repair and before settlement.
type ScoreSyncService struct {
	gameRepo    game.Repository
	mappingRepo mapping.Repository
	scoreboard  ScoreboardProvider
	logger      *logging.Logger
}

func NewScoreSyncService(
	gameRepo game.Repository,
	mappingRepo mapping.Repository,
	scoreboard ScoreboardProvider,
	logger *logging.Logger,
) *ScoreSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoreSyncService{
		gameRepo:    gameRepo,
		mappingRepo: mappingRepo,
		scoreboard:  scoreboard,
		logger:      logger,
	}
}

// ScoreSyncSummary aggregates one week's sync run.
type ScoreSyncSummary struct {
	Season  int
	Week    int
	Games   int
	Updated int
	Skipped int
	Issues  []string
}

// SyncWeek pulls the week's results and updates every mapped game that the
// provider reports as final. Unmapped games and per-game write failures
// become issues, not batch errors.
func (s *ScoreSyncService) SyncWeek(ctx context.Context, season, week int) (ScoreSyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreSyncService.SyncWeek")
	defer span.End()

	if season <= 0 || week <= 0 {
		return ScoreSyncSummary{}, fmt.Errorf("%w: season and week must be positive", ErrInvalidInput)
	}

	games, err := s.gameRepo.ListByWeek(ctx, season, week)
	if err != nil {
		return ScoreSyncSummary{}, fmt.Errorf("list games season=%d week=%d: %w", season, week, err)
	}

	summary := ScoreSyncSummary{Season: season, Week: week, Games: len(games)}
	if len(games) == 0 {
		return summary, nil
	}

	results, err := s.scoreboard.FetchWeekResults(ctx, season, week)
	if err != nil {
		return ScoreSyncSummary{}, fmt.Errorf("fetch week results season=%d week=%d: %w", season, week, err)
	}
	resultsByID := make(map[string]ExternalGameResult, len(results))
	for _, result := range results {
		if result.ScoresID != "" {
			resultsByID[result.ScoresID] = result
		}
	}

	for _, g := range games {
		if game.IsFinalStatus(g.Status) && len(g.PlayerStats) > 0 {
			summary.Skipped++
			continue
		}

		m, found, err := s.mappingRepo.Get(ctx, g.ID)
		if err != nil {
			summary.Issues = append(summary.Issues, fmt.Sprintf("game %s: load mapping: %v", g.ID, err))
			continue
		}
		if !found || !m.HasScoresID() {
			summary.Issues = append(summary.Issues, fmt.Sprintf("game %s: no scores-provider mapping", g.ID))
			continue
		}

		result, ok := resultsByID[m.ScoresProviderID]
		if !ok {
			summary.Issues = append(summary.Issues, fmt.Sprintf("game %s: provider has no result for id %s", g.ID, m.ScoresProviderID))
			continue
		}
		if !game.IsFinalStatus(result.Status) {
			summary.Skipped++
			continue
		}
		if result.HomeScore == nil || result.AwayScore == nil {
			summary.Issues = append(summary.Issues, fmt.Sprintf("game %s: final result is missing a score", g.ID))
			continue
		}

		if err := s.gameRepo.UpdateResult(ctx, g.ID, game.StatusFinal, result.HomeScore, result.AwayScore, result.PlayerStats); err != nil {
			summary.Issues = append(summary.Issues, fmt.Sprintf("game %s: store result: %v", g.ID, err))
			continue
		}
		summary.Updated++
	}

	s.logger.InfoContext(ctx, "week score sync finished",
		"season", season,
		"week", week,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"issues", len(summary.Issues),
	)
	return summary, nil
}
