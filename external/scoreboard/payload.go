package scoreboard

import (
	"strings"
	"time"
)

type scoreboardEnvelope struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID           string             `json:"id"`
	Date         string             `json:"date"`
	Competitions []eventCompetition `json:"competitions"`
	Status       eventStatus        `json:"status"`
}

type eventCompetition struct {
	Competitors []eventCompetitor `json:"competitors"`
}

type eventCompetitor struct {
	HomeAway string    `json:"homeAway"`
	Score    string    `json:"score"`
	Team     eventTeam `json:"team"`
}

type eventTeam struct {
	DisplayName string `json:"displayName"`
}

type eventStatus struct {
	Type eventStatusType `json:"type"`
}

type eventStatusType struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

func (e scoreboardEvent) competitors() (home, away eventCompetitor) {
	if len(e.Competitions) == 0 {
		return home, away
	}
	for _, competitor := range e.Competitions[0].Competitors {
		if strings.EqualFold(competitor.HomeAway, "home") {
			home = competitor
		} else {
			away = competitor
		}
	}
	return home, away
}

func (e scoreboardEvent) kickoff() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z"} {
		if parsed, err := time.Parse(layout, strings.TrimSpace(e.Date)); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

func (e scoreboardEvent) status() string {
	if e.Status.Type.Completed {
		return "final"
	}
	switch strings.ToUpper(strings.TrimSpace(e.Status.Type.Name)) {
	case "STATUS_SCHEDULED":
		return "scheduled"
	case "STATUS_IN_PROGRESS", "STATUS_HALFTIME", "STATUS_END_PERIOD":
		return "in_progress"
	case "STATUS_POSTPONED":
		return "postponed"
	case "STATUS_CANCELED", "STATUS_CANCELLED":
		return "cancelled"
	default:
		return strings.ToLower(strings.TrimSpace(e.Status.Type.Name))
	}
}

type summaryEnvelope struct {
	Boxscore summaryBoxscore `json:"boxscore"`
}

type summaryBoxscore struct {
	Players []boxscoreTeamPlayers `json:"players"`
}

type boxscoreTeamPlayers struct {
	Team       eventTeam          `json:"team"`
	Statistics []boxscoreCategory `json:"statistics"`
}

type boxscoreCategory struct {
	Name     string            `json:"name"`
	Keys     []string          `json:"keys"`
	Athletes []boxscoreAthlete `json:"athletes"`
}

type boxscoreAthlete struct {
	Athlete boxscorePlayer `json:"athlete"`
	Stats   []string       `json:"stats"`
}

type boxscorePlayer struct {
	DisplayName string `json:"displayName"`
}

// yardsIndex finds the yards column for the categories settlement cares
// about. Unknown categories return -1 and are skipped.
func (c boxscoreCategory) yardsIndex() int {
	var want string
	switch strings.ToLower(c.Name) {
	case "passing":
		want = "passingyards"
	case "rushing":
		want = "rushingyards"
	case "receiving":
		want = "receivingyards"
	default:
		return -1
	}

	for i, key := range c.Keys {
		if strings.EqualFold(key, want) {
			return i
		}
	}
	// Providers occasionally ship the yards column bare.
	for i, key := range c.Keys {
		if strings.EqualFold(key, "yards") || strings.EqualFold(key, "yds") {
			return i
		}
	}
	return -1
}
