package postgres

import (
	"database/sql"
	"time"
)

type gameTableModel struct {
	ID          string        `db:"public_id"`
	Season      int           `db:"season"`
	Week        int           `db:"week"`
	HomeTeam    string        `db:"home_team"`
	AwayTeam    string        `db:"away_team"`
	KickoffAt   time.Time     `db:"kickoff_at"`
	Slot        string        `db:"slot"`
	Status      string        `db:"status"`
	HomeScore   sql.NullInt64 `db:"home_score"`
	AwayScore   sql.NullInt64 `db:"away_score"`
	PlayerStats []byte        `db:"player_stats"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
	DeletedAt   *time.Time    `db:"deleted_at"`
}

type gameInsertModel struct {
	ID          string        `db:"public_id"`
	Season      int           `db:"season"`
	Week        int           `db:"week"`
	HomeTeam    string        `db:"home_team"`
	AwayTeam    string        `db:"away_team"`
	KickoffAt   time.Time     `db:"kickoff_at"`
	Slot        string        `db:"slot"`
	Status      string        `db:"status"`
	HomeScore   sql.NullInt64 `db:"home_score"`
	AwayScore   sql.NullInt64 `db:"away_score"`
	PlayerStats []byte        `db:"player_stats"`
}

type playerStatRow struct {
	PlayerName     string   `json:"player_name"`
	Team           string   `json:"team"`
	PassingYards   *float64 `json:"passing_yards,omitempty"`
	RushingYards   *float64 `json:"rushing_yards,omitempty"`
	ReceivingYards *float64 `json:"receiving_yards,omitempty"`
}
