package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nketchum/sidebet/internal/domain/mapping"
	qb "github.com/nketchum/sidebet/internal/platform/querybuilder"
)

type MappingRepository struct {
	db *sqlx.DB
}

func NewMappingRepository(db *sqlx.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

func (r *MappingRepository) Get(ctx context.Context, gameID string) (mapping.Mapping, bool, error) {
	query, args, err := qb.Select("*").From("game_mappings").
		Where(
			qb.Eq("game_public_id", gameID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return mapping.Mapping{}, false, fmt.Errorf("build select mapping query: %w", err)
	}

	var row mappingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return mapping.Mapping{}, false, nil
		}
		return mapping.Mapping{}, false, fmt.Errorf("select mapping: %w", err)
	}

	return mapping.Mapping{
		InternalID:       row.GameID,
		ScoresProviderID: nullStringValue(row.ScoresProviderID),
		OddsProviderID:   nullStringValue(row.OddsProviderID),
		HomeTeam:         row.HomeTeam,
		AwayTeam:         row.AwayTeam,
		Kickoff:          row.KickoffAt,
		ScoresConfidence: row.ScoresConfidence,
		OddsConfidence:   row.OddsConfidence,
		LastRepairedAt:   row.LastRepairedAt,
	}, true, nil
}

func (r *MappingRepository) Put(ctx context.Context, item mapping.Mapping) error {
	if item.InternalID == "" {
		return fmt.Errorf("mapping game id is required")
	}

	model := mappingInsertModel{
		GameID:           item.InternalID,
		ScoresProviderID: optionalString(item.ScoresProviderID),
		OddsProviderID:   optionalString(item.OddsProviderID),
		HomeTeam:         item.HomeTeam,
		AwayTeam:         item.AwayTeam,
		KickoffAt:        item.Kickoff.UTC(),
		ScoresConfidence: item.ScoresConfidence,
		OddsConfidence:   item.OddsConfidence,
		LastRepairedAt:   item.LastRepairedAt,
	}

	query, args, err := qb.InsertModel("game_mappings", model, `ON CONFLICT (game_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    scores_provider_id = EXCLUDED.scores_provider_id,
    odds_provider_id = EXCLUDED.odds_provider_id,
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    kickoff_at = EXCLUDED.kickoff_at,
    scores_confidence = EXCLUDED.scores_confidence,
    odds_confidence = EXCLUDED.odds_confidence,
    last_repaired_at = EXCLUDED.last_repaired_at,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert mapping query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert mapping: %w", err)
	}
	return nil
}
