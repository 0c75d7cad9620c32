package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nketchum/sidebet/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	games map[string]game.Game
}

func NewGameRepository(games []game.Game) *GameRepository {
	byID := make(map[string]game.Game, len(games))
	for _, item := range games {
		byID[item.ID] = item
	}

	return &GameRepository{games: byID}
}

func (r *GameRepository) ListByWeek(_ context.Context, season, week int) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, item := range r.games {
		if item.Season == season && item.Week == week {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Kickoff.Equal(out[j].Kickoff) {
			return out[i].Kickoff.Before(out[j].Kickoff)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *GameRepository) GetByID(_ context.Context, id string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.games[id]
	return item, ok, nil
}

func (r *GameRepository) Upsert(_ context.Context, item game.Game) error {
	if item.ID == "" {
		return fmt.Errorf("game id is required")
	}

	r.mu.Lock()
	r.games[item.ID] = item
	r.mu.Unlock()
	return nil
}

func (r *GameRepository) UpdateResult(_ context.Context, id string, status string, homeScore, awayScore *int, stats []game.PlayerStatLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.games[id]
	if !ok {
		return fmt.Errorf("game %s not found", id)
	}

	item.Status = game.NormalizeStatus(status)
	item.HomeScore = homeScore
	item.AwayScore = awayScore
	item.PlayerStats = append([]game.PlayerStatLine(nil), stats...)
	r.games[id] = item
	return nil
}
