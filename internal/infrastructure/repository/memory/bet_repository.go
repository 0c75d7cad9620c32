package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nketchum/sidebet/internal/domain/bet"
)

type BetRepository struct {
	mu   sync.RWMutex
	bets map[string]bet.Bet
	now  func() time.Time
}

func NewBetRepository(bets []bet.Bet) *BetRepository {
	byID := make(map[string]bet.Bet, len(bets))
	for _, item := range bets {
		byID[item.ID] = item
	}

	return &BetRepository{bets: byID, now: time.Now}
}

func (r *BetRepository) ListActiveByWeek(_ context.Context, season, week int) ([]bet.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bet.Bet, 0)
	for _, item := range r.bets {
		if item.Season == season && item.Week == week && item.Status == bet.StatusActive {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *BetRepository) GetByID(_ context.Context, id string) (bet.Bet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.bets[id]
	return item, ok, nil
}

func (r *BetRepository) Create(_ context.Context, item bet.Bet) error {
	if item.ID == "" {
		return fmt.Errorf("bet id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bets[item.ID]; exists {
		return fmt.Errorf("bet %s already exists", item.ID)
	}
	r.bets[item.ID] = item
	return nil
}

func (r *BetRepository) UpdateStatus(_ context.Context, update bet.StatusUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.bets[update.BetID]
	if !ok {
		return fmt.Errorf("bet %s not found", update.BetID)
	}

	item.Status = update.Status
	item.Result = update.Result
	if len(update.Legs) > 0 {
		item.Legs = append([]bet.Leg(nil), update.Legs...)
	}
	item.FinalHomeScore = update.FinalHomeScore
	item.FinalAwayScore = update.FinalAwayScore
	settledAt := r.now().UTC()
	item.SettledAt = &settledAt
	r.bets[update.BetID] = item
	return nil
}
