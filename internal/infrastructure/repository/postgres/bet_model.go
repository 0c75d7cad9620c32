package postgres

import (
	"database/sql"
	"time"
)

type betTableModel struct {
	ID             string          `db:"public_id"`
	GameID         sql.NullString  `db:"game_public_id"`
	Season         int             `db:"season"`
	Week           int             `db:"week"`
	BetType        string          `db:"bet_type"`
	Mode           string          `db:"mode"`
	Selection      string          `db:"selection"`
	PlayerName     sql.NullString  `db:"player_name"`
	Line           sql.NullFloat64 `db:"line"`
	Odds           int             `db:"odds"`
	Participants   []byte          `db:"participants"`
	SideA          []byte          `db:"side_a"`
	SideB          []byte          `db:"side_b"`
	Legs           []byte          `db:"legs"`
	Status         string          `db:"status"`
	Result         sql.NullString  `db:"result"`
	FinalHomeScore sql.NullInt64   `db:"final_home_score"`
	FinalAwayScore sql.NullInt64   `db:"final_away_score"`
	CreatedAt      time.Time       `db:"created_at"`
	SettledAt      *time.Time      `db:"settled_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
	DeletedAt      *time.Time      `db:"deleted_at"`
}

type betInsertModel struct {
	ID           string    `db:"public_id"`
	GameID       *string   `db:"game_public_id"`
	Season       int       `db:"season"`
	Week         int       `db:"week"`
	BetType      string    `db:"bet_type"`
	Mode         string    `db:"mode"`
	Selection    string    `db:"selection"`
	PlayerName   *string   `db:"player_name"`
	Line         *float64  `db:"line"`
	Odds         int       `db:"odds"`
	Participants []byte    `db:"participants"`
	SideA        []byte    `db:"side_a"`
	SideB        []byte    `db:"side_b"`
	Legs         []byte    `db:"legs"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
}

type betLegRow struct {
	GameID    string   `json:"game_id"`
	Type      string   `json:"type"`
	Selection string   `json:"selection"`
	Line      *float64 `json:"line,omitempty"`
	Odds      int      `json:"odds"`
	Status    string   `json:"status"`
}

type betSideRow struct {
	Name      string `json:"name"`
	Selection string `json:"selection"`
}
