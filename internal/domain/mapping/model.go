package mapping

import "time"

// Mapping is the persisted cross-source identity linkage for one internal
// game. It is created the first time a game is seen and mutated only by the
// repair service when a better match is found; deletion is an administrative
// action outside this service.
type Mapping struct {
	InternalID       string
	ScoresProviderID string
	OddsProviderID   string
	HomeTeam         string
	AwayTeam         string
	Kickoff          time.Time
	ScoresConfidence int
	OddsConfidence   int
	LastRepairedAt   *time.Time
}

// HasScoresID reports whether the scores-provider side is linked.
func (m Mapping) HasScoresID() bool { return m.ScoresProviderID != "" }

// HasOddsID reports whether the odds-provider side is linked.
func (m Mapping) HasOddsID() bool { return m.OddsProviderID != "" }
