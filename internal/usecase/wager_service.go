package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nketchum/sidebet/internal/domain/bet"
	"github.com/nketchum/sidebet/internal/domain/game"
	idgen "github.com/nketchum/sidebet/internal/platform/id"
	"github.com/nketchum/sidebet/internal/platform/logging"
)

// WagerService owns wager placement. Settlement never creates bets; this
// is the only write path into the bet store besides status transitions.
type WagerService struct {
	betRepo  bet.Repository
	gameRepo game.Repository
	idGen    idgen.Generator
	validate *validator.Validate
	now      func() time.Time
	logger   *logging.Logger
}

func NewWagerService(betRepo bet.Repository, gameRepo game.Repository, idGen idgen.Generator, logger *logging.Logger) *WagerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &WagerService{
		betRepo:  betRepo,
		gameRepo: gameRepo,
		idGen:    idGen,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		logger:   logger,
	}
}

type PlaceBetInput struct {
	GameID       string   `validate:"required_unless=Type parlay"`
	Season       int      `validate:"required,gte=2000"`
	Week         int      `validate:"required,min=1,max=18"`
	Type         string   `validate:"required,oneof=moneyline spread over_under player_prop parlay"`
	Mode         string   `validate:"required,oneof=group head_to_head"`
	Selection    string   `validate:"required_unless=Mode head_to_head"`
	PlayerName   string   `validate:"omitempty,min=2"`
	Line         *float64 `validate:"required_if=Type spread,required_if=Type over_under,required_if=Type player_prop"`
	Odds         int      `validate:"required"`
	Participants []string `validate:"required,min=1,dive,required"`
	SideA        *PlaceBetSide
	SideB        *PlaceBetSide
	Legs         []PlaceBetLeg `validate:"required_if=Type parlay,dive"`
}

type PlaceBetSide struct {
	Name      string `validate:"required"`
	Selection string `validate:"required"`
}

type PlaceBetLeg struct {
	GameID    string   `validate:"required"`
	Type      string   `validate:"required,oneof=moneyline spread over_under player_prop"`
	Selection string   `validate:"required"`
	Line      *float64 `validate:"required_if=Type spread,required_if=Type over_under,required_if=Type player_prop"`
	Odds      int      `validate:"required"`
}

// PlaceBet validates and stores a new active wager. Bets close at kickoff
// of the earliest referenced game.
func (s *WagerService) PlaceBet(ctx context.Context, input PlaceBetInput) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WagerService.PlaceBet")
	defer span.End()

	if err := s.validate.Struct(input); err != nil {
		return bet.Bet{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return bet.Bet{}, fmt.Errorf("generate bet id: %w", err)
	}

	item := bet.Bet{
		ID:           id,
		GameID:       input.GameID,
		Season:       input.Season,
		Week:         input.Week,
		Type:         input.Type,
		Mode:         input.Mode,
		Selection:    input.Selection,
		PlayerName:   input.PlayerName,
		Line:         input.Line,
		Odds:         input.Odds,
		Participants: append([]string(nil), input.Participants...),
		Status:       bet.StatusActive,
		CreatedAt:    s.now().UTC(),
	}
	if input.SideA != nil {
		item.SideA = &bet.Side{Name: input.SideA.Name, Selection: input.SideA.Selection}
	}
	if input.SideB != nil {
		item.SideB = &bet.Side{Name: input.SideB.Name, Selection: input.SideB.Selection}
	}
	for _, leg := range input.Legs {
		item.Legs = append(item.Legs, bet.Leg{
			GameID:    leg.GameID,
			Type:      leg.Type,
			Selection: leg.Selection,
			Line:      leg.Line,
			Odds:      leg.Odds,
			Status:    bet.StatusActive,
		})
	}

	if err := item.Validate(); err != nil {
		return bet.Bet{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.checkGamesOpen(ctx, item); err != nil {
		return bet.Bet{}, err
	}

	if err := s.betRepo.Create(ctx, item); err != nil {
		return bet.Bet{}, fmt.Errorf("store bet: %w", err)
	}

	s.logger.InfoContext(ctx, "bet placed",
		"bet_id", item.ID,
		"type", item.Type,
		"mode", item.Mode,
		"season", item.Season,
		"week", item.Week,
	)
	return item, nil
}

func (s *WagerService) checkGamesOpen(ctx context.Context, item bet.Bet) error {
	now := s.now().UTC()
	for _, gameID := range item.LegGameIDs() {
		g, found, err := s.gameRepo.GetByID(ctx, gameID)
		if err != nil {
			return fmt.Errorf("load game %s: %w", gameID, err)
		}
		if !found {
			return fmt.Errorf("%w: game %s", ErrNotFound, gameID)
		}
		if !g.Kickoff.IsZero() && !now.Before(g.Kickoff) {
			return fmt.Errorf("%w: game %s already kicked off", ErrInvalidInput, gameID)
		}
	}
	return nil
}
