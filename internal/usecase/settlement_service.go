package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/nketchum/sidebet/internal/domain/bet"
	"github.com/nketchum/sidebet/internal/domain/game"
	"github.com/nketchum/sidebet/internal/platform/logging"
)

// PushPolicy decides what happens when a spread or total lands exactly on
// the line (or a moneyline game ends tied). The legacy behavior settles a
// push as a loss; refunds map the push to a cancelled bet.
type PushPolicy string

const (
	PushLoses   PushPolicy = "loses"
	PushRefunds PushPolicy = "refunds"
)

func (p PushPolicy) status() string {
	if p == PushRefunds {
		return bet.StatusCancelled
	}
	return bet.StatusLost
}

// SettlementNotifier publishes terminal settlement events. Failures are
// reported, never allowed to abort a batch.
type SettlementNotifier interface {
	PublishSettlement(ctx context.Context, event SettlementEvent) error
}

type SettlementEvent struct {
	BetID     string
	Status    string
	Result    string
	Season    int
	Week      int
	SettledAt time.Time
}

// Outcome is the engine's verdict for one bet. Status active is the
// not-ready sentinel: a referenced game is not final yet and nothing may
// be persisted.
type Outcome struct {
	Status         string
	Result         string
	Legs           []bet.Leg
	WinningSide    string
	FinalHomeScore *int
	FinalAwayScore *int
}

func (o Outcome) Terminal() bool { return bet.Terminal(o.Status) }

func notReady(reason string) Outcome {
	return Outcome{Status: bet.StatusActive, Result: reason}
}

type SettlementService struct {
	betRepo        bet.Repository
	gameRepo       game.Repository
	notifier       SettlementNotifier
	pushPolicy     PushPolicy
	maxConcurrency int
	now            func() time.Time
	logger         *logging.Logger
}

const defaultSettleConcurrency = 8

func NewSettlementService(
	betRepo bet.Repository,
	gameRepo game.Repository,
	notifier SettlementNotifier,
	pushPolicy PushPolicy,
	logger *logging.Logger,
) *SettlementService {
	if logger == nil {
		logger = logging.Default()
	}
	if pushPolicy != PushRefunds {
		pushPolicy = PushLoses
	}
	return &SettlementService{
		betRepo:        betRepo,
		gameRepo:       gameRepo,
		notifier:       notifier,
		pushPolicy:     pushPolicy,
		maxConcurrency: defaultSettleConcurrency,
		now:            time.Now,
		logger:         logger,
	}
}

// SetMaxConcurrency bounds how many bets settle in parallel.
func (s *SettlementService) SetMaxConcurrency(n int) {
	if n >= 1 {
		s.maxConcurrency = n
	}
}

// Settle computes the verdict for one bet against already-loaded games. It
// is a pure function of its inputs: settling a resolved bet again with the
// same final game state yields the same outcome.
func (s *SettlementService) Settle(b bet.Bet, games map[string]game.Game) Outcome {
	if bet.Terminal(b.Status) {
		// Already settled; report the stored verdict unchanged.
		return Outcome{
			Status:         b.Status,
			Result:         b.Result,
			Legs:           b.Legs,
			FinalHomeScore: b.FinalHomeScore,
			FinalAwayScore: b.FinalAwayScore,
		}
	}

	switch {
	case b.Type == bet.TypeParlay:
		return s.settleParlay(b, games)
	case b.Mode == bet.ModeHeadToHead:
		return s.settleHeadToHead(b, games)
	default:
		g, ok := games[b.GameID]
		if !ok || !g.Resolvable() {
			return notReady("game not final")
		}
		status, desc := s.settleSingle(b.Type, b.Selection, b.PlayerName, b.Line, g)
		if status == bet.StatusActive {
			return notReady(desc)
		}
		return Outcome{
			Status:         status,
			Result:         desc,
			FinalHomeScore: g.HomeScore,
			FinalAwayScore: g.AwayScore,
		}
	}
}

// settleSingle applies one non-parlay rule. It returns status active only
// when required game data (player stats) has not arrived yet.
func (s *SettlementService) settleSingle(betType, selection, playerName string, line *float64, g game.Game) (string, string) {
	parsed, err := parseSelection(betType, selection)
	if err != nil {
		return bet.StatusUnknown, fmt.Sprintf("unreadable selection %q: %v", selection, err)
	}

	switch betType {
	case bet.TypeMoneyline:
		return s.settleMoneyline(parsed, g)
	case bet.TypeSpread:
		return s.settleSpread(parsed, line, g)
	case bet.TypeOverUnder:
		return s.settleOverUnder(parsed, line, g)
	case bet.TypePlayerProp:
		return s.settlePlayerProp(parsed, playerName, line, g)
	default:
		return bet.StatusUnknown, fmt.Sprintf("unsupported bet type %q", betType)
	}
}

func (s *SettlementService) settleMoneyline(parsed parsedSelection, g game.Game) (string, string) {
	home, away := *g.HomeScore, *g.AwayScore
	score := fmt.Sprintf("%s %d - %s %d", g.AwayTeam, away, g.HomeTeam, home)

	side, ok := teamSide(parsed.raw, g.HomeTeam, g.AwayTeam)
	if !ok {
		return bet.StatusUnknown, fmt.Sprintf("selection %q does not name a side of %s at %s", parsed.raw, g.AwayTeam, g.HomeTeam)
	}

	if home == away {
		return s.pushPolicy.status(), fmt.Sprintf("game ended tied, %s", score)
	}

	winner := sideHome
	if away > home {
		winner = sideAway
	}
	if side == winner {
		return bet.StatusWon, fmt.Sprintf("%s side won, %s", side, score)
	}
	return bet.StatusLost, fmt.Sprintf("%s side lost, %s", side, score)
}

func (s *SettlementService) settleSpread(parsed parsedSelection, line *float64, g game.Game) (string, string) {
	if line == nil {
		return bet.StatusUnknown, "spread bet has no line"
	}

	side, ok := teamSide(parsed.raw, g.HomeTeam, g.AwayTeam)
	if !ok {
		return bet.StatusUnknown, fmt.Sprintf("selection %q does not name a side of %s at %s", parsed.raw, g.AwayTeam, g.HomeTeam)
	}

	refScore, oppScore := float64(*g.HomeScore), float64(*g.AwayScore)
	if side == sideAway {
		refScore, oppScore = oppScore, refScore
	}

	adjusted := refScore + *line
	detail := fmt.Sprintf("%s %.0f %+.1f = %.1f against %.0f", side, refScore, *line, adjusted, oppScore)
	switch {
	case adjusted > oppScore:
		return bet.StatusWon, "covered the spread: " + detail
	case adjusted == oppScore:
		return s.pushPolicy.status(), "push against the spread: " + detail
	default:
		return bet.StatusLost, "did not cover: " + detail
	}
}

func (s *SettlementService) settleOverUnder(parsed parsedSelection, line *float64, g game.Game) (string, string) {
	if line == nil {
		return bet.StatusUnknown, "total bet has no line"
	}

	total := float64(*g.HomeScore + *g.AwayScore)
	detail := fmt.Sprintf("combined score %.0f against the %s %.1f", total, parsed.direction, *line)
	switch {
	case parsed.direction == directionOver && total > *line:
		return bet.StatusWon, detail
	case parsed.direction == directionUnder && total < *line:
		return bet.StatusWon, detail
	case total == *line:
		return s.pushPolicy.status(), "landed exactly on the total: " + detail
	default:
		return bet.StatusLost, detail
	}
}

func (s *SettlementService) settlePlayerProp(parsed parsedSelection, playerName string, line *float64, g game.Game) (string, string) {
	if line == nil {
		return bet.StatusUnknown, "player prop has no line"
	}
	if len(g.PlayerStats) == 0 {
		// Stats feed has not landed; not a verdict.
		return bet.StatusActive, "player statistics not available yet"
	}

	name := strings.TrimSpace(playerName)
	if name == "" {
		name = parsed.playerName
	}
	if name == "" {
		return bet.StatusUnknown, fmt.Sprintf("selection %q does not name a player", parsed.raw)
	}

	stat, ok := findPlayerStat(g.PlayerStats, name)
	if !ok {
		// A missing data feed must not read as a losing bet.
		return bet.StatusUnknown, fmt.Sprintf("player %q not found in the stat sheet", name)
	}

	category, value, ok := statCategory(parsed.raw, stat)
	if !ok {
		return bet.StatusUnknown, fmt.Sprintf("selection %q does not name a stat category", parsed.raw)
	}

	detail := fmt.Sprintf("%s had %.1f %s against the %s %.1f", stat.PlayerName, value, category, parsed.direction, *line)
	switch {
	case parsed.direction == directionOver && value > *line:
		return bet.StatusWon, detail
	case parsed.direction == directionUnder && value < *line:
		return bet.StatusWon, detail
	case value == *line:
		return s.pushPolicy.status(), "landed exactly on the line: " + detail
	default:
		return bet.StatusLost, detail
	}
}

func findPlayerStat(stats []game.PlayerStatLine, name string) (game.PlayerStatLine, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, stat := range stats {
		have := strings.ToLower(strings.TrimSpace(stat.PlayerName))
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return stat, true
		}
	}
	return game.PlayerStatLine{}, false
}

func statCategory(selection string, stat game.PlayerStatLine) (string, float64, bool) {
	sel := strings.ToLower(selection)
	value := func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	}
	switch {
	case strings.Contains(sel, "passing") || strings.Contains(sel, "pass"):
		return "passing yards", value(stat.PassingYards), true
	case strings.Contains(sel, "receiving") || strings.Contains(sel, "rec"):
		return "receiving yards", value(stat.ReceivingYards), true
	case strings.Contains(sel, "rushing") || strings.Contains(sel, "rush"):
		return "rushing yards", value(stat.RushingYards), true
	default:
		return "", 0, false
	}
}

func (s *SettlementService) settleParlay(b bet.Bet, games map[string]game.Game) Outcome {
	for _, gameID := range b.LegGameIDs() {
		g, ok := games[gameID]
		if !ok || !g.Resolvable() {
			return notReady(fmt.Sprintf("leg game %s not final", gameID))
		}
	}

	legs := make([]bet.Leg, len(b.Legs))
	copy(legs, b.Legs)

	won, lost := 0, 0
	details := make([]string, 0, len(legs))
	for i := range legs {
		g := games[legs[i].GameID]
		status, desc := s.settleSingle(legs[i].Type, legs[i].Selection, "", legs[i].Line, g)
		if status == bet.StatusActive {
			return notReady(desc)
		}
		legs[i].Status = status
		details = append(details, fmt.Sprintf("leg %d %s: %s", i+1, status, desc))
		switch status {
		case bet.StatusWon:
			won++
		case bet.StatusLost:
			lost++
		}
	}

	// Every leg is evaluated and stored even once the parlay is decided.
	switch {
	case lost > 0:
		return Outcome{Status: bet.StatusLost, Result: strings.Join(details, "; "), Legs: legs}
	case won == len(legs):
		return Outcome{Status: bet.StatusWon, Result: strings.Join(details, "; "), Legs: legs}
	default:
		return Outcome{Status: bet.StatusUnknown, Result: strings.Join(details, "; "), Legs: legs}
	}
}

func (s *SettlementService) settleHeadToHead(b bet.Bet, games map[string]game.Game) Outcome {
	if b.SideA == nil || b.SideB == nil {
		return Outcome{Status: bet.StatusUnknown, Result: "head-to-head bet is missing a side"}
	}

	g, ok := games[b.GameID]
	if !ok || !g.Resolvable() {
		return notReady("game not final")
	}

	statusA, descA := s.settleSingle(b.Type, b.SideA.Selection, b.PlayerName, b.Line, g)
	statusB, descB := s.settleSingle(b.Type, b.SideB.Selection, b.PlayerName, b.Line, g)
	if statusA == bet.StatusActive || statusB == bet.StatusActive {
		return notReady("side data not ready")
	}

	aWon := statusA == bet.StatusWon
	bWon := statusB == bet.StatusWon
	summary := fmt.Sprintf("%s: %s | %s: %s", b.SideA.Name, descA, b.SideB.Name, descB)

	switch {
	case aWon && !bWon:
		return Outcome{
			Status:         bet.StatusWon,
			WinningSide:    "a",
			Result:         fmt.Sprintf("%s takes it. %s", b.SideA.Name, summary),
			FinalHomeScore: g.HomeScore,
			FinalAwayScore: g.AwayScore,
		}
	case bWon && !aWon:
		return Outcome{
			Status:         bet.StatusWon,
			WinningSide:    "b",
			Result:         fmt.Sprintf("%s takes it. %s", b.SideB.Name, summary),
			FinalHomeScore: g.HomeScore,
			FinalAwayScore: g.AwayScore,
		}
	default:
		// Both or neither satisfied: needs human review, never an
		// automatic call.
		return Outcome{
			Status:         bet.StatusUnknown,
			Result:         "no clear winner between sides. " + summary,
			FinalHomeScore: g.HomeScore,
			FinalAwayScore: g.AwayScore,
		}
	}
}

// WeekSettlement aggregates one batch run.
type WeekSettlement struct {
	Season  int
	Week    int
	Settled int
	Pending int
	Failed  int
	Items   []BetSettlement
}

type BetSettlement struct {
	BetID  string
	Status string
	Result string
	Error  string
}

// SettleWeek settles every active bet of a league week. Bets are
// independent, so they run concurrently; per-bet failures are recorded and
// never abort the batch.
func (s *SettlementService) SettleWeek(ctx context.Context, season, week int) (WeekSettlement, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.SettleWeek")
	defer span.End()

	if season <= 0 || week <= 0 {
		return WeekSettlement{}, fmt.Errorf("%w: season and week must be positive", ErrInvalidInput)
	}

	bets, err := s.betRepo.ListActiveByWeek(ctx, season, week)
	if err != nil {
		return WeekSettlement{}, fmt.Errorf("list active bets season=%d week=%d: %w", season, week, err)
	}

	games, err := s.loadGames(ctx, season, week, bets)
	if err != nil {
		return WeekSettlement{}, err
	}

	runner := pool.NewWithResults[BetSettlement]().WithMaxGoroutines(s.maxConcurrency)
	for _, item := range bets {
		b := item
		runner.Go(func() BetSettlement {
			return s.settleAndPersist(ctx, b, games)
		})
	}

	out := WeekSettlement{Season: season, Week: week, Items: runner.Wait()}
	for _, item := range out.Items {
		switch {
		case item.Error != "":
			out.Failed++
		case bet.Terminal(item.Status):
			out.Settled++
		default:
			out.Pending++
		}
	}

	s.logger.InfoContext(ctx, "week settlement finished",
		"season", season,
		"week", week,
		"settled", out.Settled,
		"pending", out.Pending,
		"failed", out.Failed,
	)
	return out, nil
}

func (s *SettlementService) settleAndPersist(ctx context.Context, b bet.Bet, games map[string]game.Game) BetSettlement {
	outcome := s.Settle(b, games)
	item := BetSettlement{BetID: b.ID, Status: outcome.Status, Result: outcome.Result}
	if !outcome.Terminal() {
		return item
	}

	update := bet.StatusUpdate{
		BetID:          b.ID,
		Status:         outcome.Status,
		Result:         outcome.Result,
		Legs:           outcome.Legs,
		FinalHomeScore: outcome.FinalHomeScore,
		FinalAwayScore: outcome.FinalAwayScore,
	}
	if err := s.betRepo.UpdateStatus(ctx, update); err != nil {
		item.Error = fmt.Sprintf("persist settlement: %v", err)
		return item
	}

	if s.notifier != nil {
		event := SettlementEvent{
			BetID:     b.ID,
			Status:    outcome.Status,
			Result:    outcome.Result,
			Season:    b.Season,
			Week:      b.Week,
			SettledAt: s.now().UTC(),
		}
		if err := s.notifier.PublishSettlement(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "settlement notification failed", "bet_id", b.ID, "error", err)
		}
	}
	return item
}

// loadGames gathers every game the week's bets reference, including parlay
// legs pointing outside the week.
func (s *SettlementService) loadGames(ctx context.Context, season, week int, bets []bet.Bet) (map[string]game.Game, error) {
	weekGames, err := s.gameRepo.ListByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("list games season=%d week=%d: %w", season, week, err)
	}

	games := make(map[string]game.Game, len(weekGames))
	for _, g := range weekGames {
		games[g.ID] = g
	}

	for _, b := range bets {
		for _, gameID := range b.LegGameIDs() {
			if gameID == "" {
				continue
			}
			if _, ok := games[gameID]; ok {
				continue
			}
			g, found, err := s.gameRepo.GetByID(ctx, gameID)
			if err != nil {
				return nil, fmt.Errorf("load game %s: %w", gameID, err)
			}
			if found {
				games[g.ID] = g
			}
		}
	}
	return games, nil
}
