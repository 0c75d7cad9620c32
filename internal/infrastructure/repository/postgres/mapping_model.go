package postgres

import (
	"database/sql"
	"time"
)

type mappingTableModel struct {
	GameID           string         `db:"game_public_id"`
	ScoresProviderID sql.NullString `db:"scores_provider_id"`
	OddsProviderID   sql.NullString `db:"odds_provider_id"`
	HomeTeam         string         `db:"home_team"`
	AwayTeam         string         `db:"away_team"`
	KickoffAt        time.Time      `db:"kickoff_at"`
	ScoresConfidence int            `db:"scores_confidence"`
	OddsConfidence   int            `db:"odds_confidence"`
	LastRepairedAt   *time.Time     `db:"last_repaired_at"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
	DeletedAt        *time.Time     `db:"deleted_at"`
}

type mappingInsertModel struct {
	GameID           string     `db:"game_public_id"`
	ScoresProviderID *string    `db:"scores_provider_id"`
	OddsProviderID   *string    `db:"odds_provider_id"`
	HomeTeam         string     `db:"home_team"`
	AwayTeam         string     `db:"away_team"`
	KickoffAt        time.Time  `db:"kickoff_at"`
	ScoresConfidence int        `db:"scores_confidence"`
	OddsConfidence   int        `db:"odds_confidence"`
	LastRepairedAt   *time.Time `db:"last_repaired_at"`
}
