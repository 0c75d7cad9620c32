package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/nketchum/sidebet/internal/domain/game"
	"github.com/nketchum/sidebet/internal/domain/identity"
	"github.com/nketchum/sidebet/internal/domain/mapping"
	"github.com/nketchum/sidebet/internal/platform/logging"
)

// RepairService keeps the persisted cross-source mappings in line with what
// the external feeds currently say. The resolver does the scoring; this
// service orchestrates it against live candidate sets and owns the values
// written back.
type RepairService struct {
	gameRepo      game.Repository
	mappingRepo   mapping.Repository
	scoreboard    ScoreboardProvider
	oddsFeed      OddsProvider
	minConfidence int
	// fallbackConfidence applies when a mapping has no ID at all for a
	// source; a weaker first link beats no link, and a later run can
	// upgrade it.
	fallbackConfidence int
	maxWorkers         int
	now                func() time.Time
	logger             *logging.Logger
}

const defaultRepairWorkers = 8

func NewRepairService(
	gameRepo game.Repository,
	mappingRepo mapping.Repository,
	scoreboard ScoreboardProvider,
	oddsFeed OddsProvider,
	logger *logging.Logger,
) *RepairService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RepairService{
		gameRepo:           gameRepo,
		mappingRepo:        mappingRepo,
		scoreboard:         scoreboard,
		oddsFeed:           oddsFeed,
		minConfidence:      identity.DefaultMinConfidence,
		fallbackConfidence: identity.FallbackMinConfidence,
		maxWorkers:         defaultRepairWorkers,
		now:                time.Now,
		logger:             logger,
	}
}

// SetThresholds overrides the confidence gates. Values outside 0-100 or a
// fallback above the minimum keep the current settings.
func (s *RepairService) SetThresholds(minConfidence, fallbackConfidence int) {
	if minConfidence < 0 || minConfidence > 100 {
		return
	}
	if fallbackConfidence < 0 || fallbackConfidence > minConfidence {
		return
	}
	s.minConfidence = minConfidence
	s.fallbackConfidence = fallbackConfidence
}

// SetMaxWorkers bounds the batch worker pool.
func (s *RepairService) SetMaxWorkers(n int) {
	if n >= 1 {
		s.maxWorkers = n
	}
}

// RepairOutcome reports one game's resolve-and-repair pass.
type RepairOutcome struct {
	Mapping mapping.Mapping
	Repairs []string
	Issues  []string
}

// ResolveAndRepair matches one internal game against each source's
// candidate list and persists the mapping when a source link is created or
// upgraded. The updated mapping is stored before returning.
func (s *RepairService) ResolveAndRepair(
	ctx context.Context,
	g game.Game,
	scoreCandidates []identity.Identity,
	oddsCandidates []identity.Identity,
) (RepairOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RepairService.ResolveAndRepair")
	defer span.End()

	if g.ID == "" {
		return RepairOutcome{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	current, exists, err := s.mappingRepo.Get(ctx, g.ID)
	if err != nil {
		return RepairOutcome{}, fmt.Errorf("load mapping game=%s: %w", g.ID, err)
	}
	if !exists {
		current = mapping.Mapping{
			InternalID: g.ID,
			HomeTeam:   g.HomeTeam,
			AwayTeam:   g.AwayTeam,
			Kickoff:    g.Kickoff,
		}
	}

	target := identity.Identity{
		InternalID: g.ID,
		ScoresID:   current.ScoresProviderID,
		OddsID:     current.OddsProviderID,
		HomeTeam:   g.HomeTeam,
		AwayTeam:   g.AwayTeam,
		Kickoff:    g.Kickoff,
		Week:       g.Week,
		Season:     g.Season,
	}

	out := RepairOutcome{}
	changed := !exists

	scoresMatch, scoresOK := s.bestMatch(target, scoreCandidates, current.HasScoresID())
	if scoresOK && (!current.HasScoresID() || scoresMatch.Confidence > current.ScoresConfidence) {
		current.ScoresProviderID = scoresMatch.Identity.ScoresID
		current.ScoresConfidence = scoresMatch.Confidence
		changed = true
		out.Repairs = append(out.Repairs, fmt.Sprintf(
			"scores-provider id set to %s (confidence %d, %s)",
			scoresMatch.Identity.ScoresID, scoresMatch.Confidence, scoresMatch.Method,
		))
	}
	if !scoresOK && !current.HasScoresID() {
		out.Issues = append(out.Issues, "missing scores-provider mapping")
	}

	oddsMatch, oddsOK := s.bestMatch(target, oddsCandidates, current.HasOddsID())
	if oddsOK && (!current.HasOddsID() || oddsMatch.Confidence > current.OddsConfidence) {
		current.OddsProviderID = oddsMatch.Identity.OddsID
		current.OddsConfidence = oddsMatch.Confidence
		changed = true
		out.Repairs = append(out.Repairs, fmt.Sprintf(
			"odds-provider id set to %s (confidence %d, %s)",
			oddsMatch.Identity.OddsID, oddsMatch.Confidence, oddsMatch.Method,
		))
	}
	if !oddsOK && !current.HasOddsID() {
		out.Issues = append(out.Issues, "missing odds-provider mapping")
	}

	if changed {
		repairedAt := s.now().UTC()
		current.LastRepairedAt = &repairedAt
		if err := s.mappingRepo.Put(ctx, current); err != nil {
			return RepairOutcome{}, fmt.Errorf("store mapping game=%s: %w", g.ID, err)
		}
	}

	out.Mapping = current
	return out, nil
}

func (s *RepairService) bestMatch(target identity.Identity, candidates []identity.Identity, alreadyLinked bool) (identity.Match, bool) {
	threshold := s.minConfidence
	if !alreadyLinked {
		threshold = s.fallbackConfidence
	}
	return identity.FindBestMatch(target, candidates, threshold)
}

// RepairSummary aggregates one week's batch run.
type RepairSummary struct {
	Season    int
	Week      int
	Games     int
	Repaired  int
	Unchanged int
	Failed    int
	// Issues carries batch-level conditions such as an unreachable
	// provider; per-game issues live on the items.
	Issues []string
	Items  []GameRepair
}

type GameRepair struct {
	GameID  string
	Repairs []string
	Issues  []string
	Error   string
}

// RepairAll runs resolve-and-repair across a week's schedule. Candidate
// fetch failures and per-game errors degrade to recorded issues; nothing
// aborts the batch and nothing is retried inside one call.
func (s *RepairService) RepairAll(ctx context.Context, season, week int) (RepairSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RepairService.RepairAll")
	defer span.End()

	if season <= 0 || week <= 0 {
		return RepairSummary{}, fmt.Errorf("%w: season and week must be positive", ErrInvalidInput)
	}

	games, err := s.gameRepo.ListByWeek(ctx, season, week)
	if err != nil {
		return RepairSummary{}, fmt.Errorf("list games season=%d week=%d: %w", season, week, err)
	}

	summary := RepairSummary{Season: season, Week: week, Games: len(games)}
	if len(games) == 0 {
		return summary, nil
	}

	var fetchIssues []string
	scoreCandidates, err := s.scoreboard.FetchWeekCandidates(ctx, season, week)
	if err != nil {
		// An unreachable source degrades confidence, it does not error
		// the batch.
		fetchIssues = append(fetchIssues, fmt.Sprintf("scores provider unavailable: %v", err))
		scoreCandidates = nil
	}
	oddsCandidates, err := s.oddsFeed.FetchCandidates(ctx)
	if err != nil {
		fetchIssues = append(fetchIssues, fmt.Sprintf("odds provider unavailable: %v", err))
		oddsCandidates = nil
	}

	workerCount := s.maxWorkers
	if workerCount > len(games) {
		workerCount = len(games)
	}
	workers, err := ants.NewPool(workerCount)
	if err != nil {
		return RepairSummary{}, fmt.Errorf("create repair worker pool: %w", err)
	}
	defer workers.Release()

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		items = make([]GameRepair, 0, len(games))
	)
	for _, item := range games {
		g := item
		wg.Add(1)
		submitErr := workers.Submit(func() {
			defer wg.Done()
			repair := s.repairOne(ctx, g, scoreCandidates, oddsCandidates)
			mu.Lock()
			items = append(items, repair)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			items = append(items, GameRepair{GameID: g.ID, Error: fmt.Sprintf("submit repair task: %v", submitErr)})
			mu.Unlock()
		}
	}
	wg.Wait()

	sort.SliceStable(items, func(i, j int) bool { return items[i].GameID < items[j].GameID })
	summary.Issues = fetchIssues
	for i := range items {
		switch {
		case items[i].Error != "":
			summary.Failed++
		case len(items[i].Repairs) > 0:
			summary.Repaired++
		case len(items[i].Issues) > 0:
			summary.Failed++
		default:
			summary.Unchanged++
		}
	}
	summary.Items = items

	s.logger.InfoContext(ctx, "week mapping repair finished",
		"season", season,
		"week", week,
		"games", summary.Games,
		"repaired", summary.Repaired,
		"unchanged", summary.Unchanged,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (s *RepairService) repairOne(ctx context.Context, g game.Game, scoreCandidates, oddsCandidates []identity.Identity) GameRepair {
	out, err := s.ResolveAndRepair(ctx, g, scoreCandidates, oddsCandidates)
	if err != nil {
		return GameRepair{GameID: g.ID, Error: err.Error()}
	}
	return GameRepair{GameID: g.ID, Repairs: out.Repairs, Issues: out.Issues}
}
