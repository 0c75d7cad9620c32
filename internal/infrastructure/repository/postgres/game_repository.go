package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/nketchum/sidebet/internal/domain/game"
	"github.com/nketchum/sidebet/internal/domain/schedule"
	qb "github.com/nketchum/sidebet/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) ListByWeek(ctx context.Context, season, week int) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("season", season),
			qb.Eq("week", week),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games by week query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games by week: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		item, err := gameFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build select game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("select game: %w", err)
	}

	item, err := gameFromRow(row)
	if err != nil {
		return game.Game{}, false, err
	}
	return item, true, nil
}

func (r *GameRepository) Upsert(ctx context.Context, item game.Game) error {
	if item.ID == "" {
		return fmt.Errorf("game id is required")
	}

	statsJSON, err := marshalPlayerStats(item.PlayerStats)
	if err != nil {
		return fmt.Errorf("marshal player stats: %w", err)
	}

	model := gameInsertModel{
		ID:          item.ID,
		Season:      item.Season,
		Week:        item.Week,
		HomeTeam:    item.HomeTeam,
		AwayTeam:    item.AwayTeam,
		KickoffAt:   item.Kickoff.UTC(),
		Slot:        string(item.Slot),
		Status:      game.NormalizeStatus(item.Status),
		HomeScore:   intPtrToNull(item.HomeScore),
		AwayScore:   intPtrToNull(item.AwayScore),
		PlayerStats: statsJSON,
	}

	query, args, err := qb.InsertModel("games", model, `ON CONFLICT (public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    season = EXCLUDED.season,
    week = EXCLUDED.week,
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    kickoff_at = EXCLUDED.kickoff_at,
    slot = EXCLUDED.slot,
    status = EXCLUDED.status,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    player_stats = EXCLUDED.player_stats,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert game query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert game: %w", err)
	}
	return nil
}

func (r *GameRepository) UpdateResult(ctx context.Context, id string, status string, homeScore, awayScore *int, stats []game.PlayerStatLine) error {
	if id == "" {
		return fmt.Errorf("game id is required")
	}

	statsJSON, err := marshalPlayerStats(stats)
	if err != nil {
		return fmt.Errorf("marshal player stats: %w", err)
	}

	query, args, err := qb.Update("games").
		Set("status", game.NormalizeStatus(status)).
		Set("home_score", intPtrToNull(homeScore)).
		Set("away_score", intPtrToNull(awayScore)).
		Set("player_stats", statsJSON).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game result query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update game result: %w", err)
	}
	return nil
}

func gameFromRow(row gameTableModel) (game.Game, error) {
	stats, err := unmarshalPlayerStats(row.PlayerStats)
	if err != nil {
		return game.Game{}, fmt.Errorf("unmarshal player stats for game %s: %w", row.ID, err)
	}

	return game.Game{
		ID:          row.ID,
		Season:      row.Season,
		Week:        row.Week,
		HomeTeam:    row.HomeTeam,
		AwayTeam:    row.AwayTeam,
		Kickoff:     row.KickoffAt,
		Slot:        slotFromString(row.Slot),
		Status:      row.Status,
		HomeScore:   nullIntPtr(row.HomeScore),
		AwayScore:   nullIntPtr(row.AwayScore),
		PlayerStats: stats,
	}, nil
}

func slotFromString(value string) schedule.Slot {
	return schedule.Slot(value)
}

func marshalPlayerStats(stats []game.PlayerStatLine) ([]byte, error) {
	rows := make([]playerStatRow, 0, len(stats))
	for _, line := range stats {
		rows = append(rows, playerStatRow{
			PlayerName:     line.PlayerName,
			Team:           line.Team,
			PassingYards:   line.PassingYards,
			RushingYards:   line.RushingYards,
			ReceivingYards: line.ReceivingYards,
		})
	}
	return sonic.Marshal(rows)
}

func unmarshalPlayerStats(raw []byte) ([]game.PlayerStatLine, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var rows []playerStatRow
	if err := sonic.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}

	out := make([]game.PlayerStatLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, game.PlayerStatLine{
			PlayerName:     row.PlayerName,
			Team:           row.Team,
			PassingYards:   row.PassingYards,
			RushingYards:   row.RushingYards,
			ReceivingYards: row.ReceivingYards,
		})
	}
	return out, nil
}
