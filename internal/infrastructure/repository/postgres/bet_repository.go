package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/nketchum/sidebet/internal/domain/bet"
	qb "github.com/nketchum/sidebet/internal/platform/querybuilder"
)

type BetRepository struct {
	db *sqlx.DB
}

func NewBetRepository(db *sqlx.DB) *BetRepository {
	return &BetRepository{db: db}
}

func (r *BetRepository) ListActiveByWeek(ctx context.Context, season, week int) ([]bet.Bet, error) {
	query, args, err := qb.Select("*").From("bets").
		Where(
			qb.Eq("season", season),
			qb.Eq("week", week),
			qb.Eq("status", bet.StatusActive),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select active bets query: %w", err)
	}

	var rows []betTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select active bets: %w", err)
	}

	out := make([]bet.Bet, 0, len(rows))
	for _, row := range rows {
		item, err := betFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *BetRepository) GetByID(ctx context.Context, id string) (bet.Bet, bool, error) {
	query, args, err := qb.Select("*").From("bets").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("build select bet query: %w", err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bet.Bet{}, false, nil
		}
		return bet.Bet{}, false, fmt.Errorf("select bet: %w", err)
	}

	item, err := betFromRow(row)
	if err != nil {
		return bet.Bet{}, false, err
	}
	return item, true, nil
}

func (r *BetRepository) Create(ctx context.Context, item bet.Bet) error {
	if item.ID == "" {
		return fmt.Errorf("bet id is required")
	}

	participantsJSON, err := sonic.Marshal(item.Participants)
	if err != nil {
		return fmt.Errorf("marshal bet participants: %w", err)
	}
	legsJSON, err := marshalLegs(item.Legs)
	if err != nil {
		return fmt.Errorf("marshal bet legs: %w", err)
	}
	sideAJSON, err := marshalSide(item.SideA)
	if err != nil {
		return fmt.Errorf("marshal bet side a: %w", err)
	}
	sideBJSON, err := marshalSide(item.SideB)
	if err != nil {
		return fmt.Errorf("marshal bet side b: %w", err)
	}

	model := betInsertModel{
		ID:           item.ID,
		GameID:       optionalString(item.GameID),
		Season:       item.Season,
		Week:         item.Week,
		BetType:      item.Type,
		Mode:         item.Mode,
		Selection:    item.Selection,
		PlayerName:   optionalString(item.PlayerName),
		Line:         item.Line,
		Odds:         item.Odds,
		Participants: participantsJSON,
		SideA:        sideAJSON,
		SideB:        sideBJSON,
		Legs:         legsJSON,
		Status:       item.Status,
		CreatedAt:    item.CreatedAt.UTC(),
	}

	query, args, err := qb.InsertModel("bets", model, "")
	if err != nil {
		return fmt.Errorf("build insert bet query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert bet: %w", err)
	}
	return nil
}

func (r *BetRepository) UpdateStatus(ctx context.Context, update bet.StatusUpdate) error {
	if update.BetID == "" {
		return fmt.Errorf("bet id is required")
	}

	legsJSON, err := marshalLegs(update.Legs)
	if err != nil {
		return fmt.Errorf("marshal bet legs: %w", err)
	}

	builder := qb.Update("bets").
		Set("status", update.Status).
		Set("result", optionalString(update.Result)).
		Set("final_home_score", intPtrToNull(update.FinalHomeScore)).
		Set("final_away_score", intPtrToNull(update.FinalAwayScore)).
		SetExpr("settled_at", "NOW()").
		SetExpr("updated_at", "NOW()")
	if len(update.Legs) > 0 {
		builder = builder.Set("legs", legsJSON)
	}

	query, args, err := builder.
		Where(
			qb.Eq("public_id", update.BetID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update bet status query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update bet status: %w", err)
	}
	return nil
}

func betFromRow(row betTableModel) (bet.Bet, error) {
	var participants []string
	if len(row.Participants) > 0 {
		if err := sonic.Unmarshal(row.Participants, &participants); err != nil {
			return bet.Bet{}, fmt.Errorf("unmarshal participants for bet %s: %w", row.ID, err)
		}
	}

	legs, err := unmarshalLegs(row.Legs)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("unmarshal legs for bet %s: %w", row.ID, err)
	}
	sideA, err := unmarshalSide(row.SideA)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("unmarshal side a for bet %s: %w", row.ID, err)
	}
	sideB, err := unmarshalSide(row.SideB)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("unmarshal side b for bet %s: %w", row.ID, err)
	}

	var line *float64
	if row.Line.Valid {
		value := row.Line.Float64
		line = &value
	}

	return bet.Bet{
		ID:             row.ID,
		GameID:         nullStringValue(row.GameID),
		Season:         row.Season,
		Week:           row.Week,
		Type:           row.BetType,
		Mode:           row.Mode,
		Selection:      row.Selection,
		PlayerName:     nullStringValue(row.PlayerName),
		Line:           line,
		Odds:           row.Odds,
		Participants:   participants,
		SideA:          sideA,
		SideB:          sideB,
		Legs:           legs,
		Status:         row.Status,
		Result:         nullStringValue(row.Result),
		FinalHomeScore: nullIntPtr(row.FinalHomeScore),
		FinalAwayScore: nullIntPtr(row.FinalAwayScore),
		CreatedAt:      row.CreatedAt,
		SettledAt:      row.SettledAt,
	}, nil
}

func marshalLegs(legs []bet.Leg) ([]byte, error) {
	if len(legs) == 0 {
		return []byte("[]"), nil
	}
	rows := make([]betLegRow, 0, len(legs))
	for _, leg := range legs {
		rows = append(rows, betLegRow{
			GameID:    leg.GameID,
			Type:      leg.Type,
			Selection: leg.Selection,
			Line:      leg.Line,
			Odds:      leg.Odds,
			Status:    leg.Status,
		})
	}
	return sonic.Marshal(rows)
}

func unmarshalLegs(raw []byte) ([]bet.Leg, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var rows []betLegRow
	if err := sonic.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}

	out := make([]bet.Leg, 0, len(rows))
	for _, row := range rows {
		out = append(out, bet.Leg{
			GameID:    row.GameID,
			Type:      row.Type,
			Selection: row.Selection,
			Line:      row.Line,
			Odds:      row.Odds,
			Status:    row.Status,
		})
	}
	return out, nil
}

func marshalSide(side *bet.Side) ([]byte, error) {
	if side == nil {
		return nil, nil
	}
	return sonic.Marshal(betSideRow{Name: side.Name, Selection: side.Selection})
}

func unmarshalSide(raw []byte) (*bet.Side, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var row betSideRow
	if err := sonic.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	return &bet.Side{Name: row.Name, Selection: row.Selection}, nil
}
