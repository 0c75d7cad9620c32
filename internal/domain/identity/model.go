package identity

import "time"

// Source names one of the external data providers.
type Source string

const (
	SourceScores Source = "scores"
	SourceOdds   Source = "odds"
)

// Identity is the normalized, comparison-ready view of one contest. A
// candidate emitted by an external source carries only that source's own
// ID field; an internal target may carry any already-mapped IDs.
type Identity struct {
	InternalID string
	ScoresID   string
	OddsID     string
	HomeTeam   string
	AwayTeam   string
	Kickoff    time.Time
	Week       int
	Season     int
}

// Method labels the score band a match landed in. Observability only; it
// never feeds back into scoring.
type Method string

const (
	MethodExactID     Method = "exact_id"
	MethodTeamAndTime Method = "team_and_time"
	MethodTeamAndWeek Method = "team_and_week"
	MethodFuzzyTeam   Method = "fuzzy_team"
)

// Match is the immutable result of scoring one target against a candidate
// list.
type Match struct {
	Identity   Identity
	Confidence int
	Method     Method
}

const (
	// DefaultMinConfidence gates production mapping acceptance.
	DefaultMinConfidence = 70
	// FallbackMinConfidence is used for exploratory repair passes.
	FallbackMinConfidence = 60
)
