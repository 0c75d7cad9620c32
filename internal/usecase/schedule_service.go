package usecase

import (
	"context"
	"fmt"

	"github.com/nketchum/sidebet/internal/domain/game"
	"github.com/nketchum/sidebet/internal/domain/identity"
	"github.com/nketchum/sidebet/internal/domain/schedule"
	"github.com/nketchum/sidebet/internal/platform/logging"
)

// ScheduleService creates and refreshes the canonical game records from the
// scores provider's published schedule. Game IDs are deterministic slugs so
// reruns converge on the same rows.
type ScheduleService struct {
	gameRepo   game.Repository
	scoreboard ScoreboardProvider
	calendar   schedule.Calendar
	logger     *logging.Logger
}

func NewScheduleService(
	gameRepo game.Repository,
	scoreboard ScoreboardProvider,
	calendar schedule.Calendar,
	logger *logging.Logger,
) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleService{
		gameRepo:   gameRepo,
		scoreboard: scoreboard,
		calendar:   calendar,
		logger:     logger,
	}
}

// ScheduleImportSummary aggregates one week's import run.
type ScheduleImportSummary struct {
	Season  int
	Week    int
	Fetched int
	Created int
	Updated int
	Skipped int
	Issues  []string
}

// ImportWeek upserts the provider's week schedule into the game store. Games
// already final are left untouched so settled scores survive reruns.
func (s *ScheduleService) ImportWeek(ctx context.Context, season, week int) (ScheduleImportSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.ImportWeek")
	defer span.End()

	if season <= 0 || week <= 0 {
		return ScheduleImportSummary{}, fmt.Errorf("%w: season and week must be positive", ErrInvalidInput)
	}

	candidates, err := s.scoreboard.FetchWeekCandidates(ctx, season, week)
	if err != nil {
		return ScheduleImportSummary{}, fmt.Errorf("fetch week schedule season=%d week=%d: %w", season, week, err)
	}

	summary := ScheduleImportSummary{Season: season, Week: week, Fetched: len(candidates)}
	for _, candidate := range candidates {
		if candidate.HomeTeam == "" || candidate.AwayTeam == "" {
			summary.Issues = append(summary.Issues, fmt.Sprintf("provider event %s is missing a team", candidate.ScoresID))
			continue
		}

		id := GameSlug(season, week, candidate.AwayTeam, candidate.HomeTeam)
		slot, slotErr := schedule.Classify(candidate.Kickoff)
		if slotErr != nil {
			summary.Issues = append(summary.Issues, fmt.Sprintf("game %s: %v", id, slotErr))
		}
		if wk := s.calendar.WeekFor(candidate.Kickoff); wk != 0 && wk != week {
			summary.Issues = append(summary.Issues, fmt.Sprintf("game %s: kickoff falls in calendar week %d", id, wk))
		}

		existing, found, err := s.gameRepo.GetByID(ctx, id)
		if err != nil {
			summary.Issues = append(summary.Issues, fmt.Sprintf("game %s: load: %v", id, err))
			continue
		}
		if found && game.IsFinalStatus(existing.Status) {
			summary.Skipped++
			continue
		}

		item := game.Game{
			ID:       id,
			Season:   season,
			Week:     week,
			HomeTeam: candidate.HomeTeam,
			AwayTeam: candidate.AwayTeam,
			Kickoff:  candidate.Kickoff,
			Slot:     slot,
			Status:   game.StatusScheduled,
		}
		if found {
			item.Status = existing.Status
			item.HomeScore = existing.HomeScore
			item.AwayScore = existing.AwayScore
			item.PlayerStats = existing.PlayerStats
		}

		if err := s.gameRepo.Upsert(ctx, item); err != nil {
			summary.Issues = append(summary.Issues, fmt.Sprintf("game %s: store: %v", id, err))
			continue
		}
		if found {
			summary.Updated++
		} else {
			summary.Created++
		}
	}

	s.logger.InfoContext(ctx, "week schedule imported",
		"season", season,
		"week", week,
		"fetched", summary.Fetched,
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"issues", len(summary.Issues),
	)
	return summary, nil
}

// GameSlug builds the deterministic internal ID for one scheduled game,
// away team first.
func GameSlug(season, week int, awayTeam, homeTeam string) string {
	return fmt.Sprintf("%d-w%d-%s-%s", season, week, identity.TeamSlug(awayTeam), identity.TeamSlug(homeTeam))
}
