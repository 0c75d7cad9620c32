package schedule

import "time"

const weekLength = 7 * 24 * time.Hour

// Calendar anchors one season's published week boundaries. WeekOneStart is
// the Tuesday before the opening Thursday game, so every game of a league
// week lands inside the same seven-day bucket regardless of flexing.
type Calendar struct {
	Season       int
	WeekOneStart time.Time
	WeekCount    int
}

func NewCalendar(season int, weekOneStart time.Time) Calendar {
	return Calendar{Season: season, WeekOneStart: weekOneStart.UTC(), WeekCount: 18}
}

// WeekFor returns the league week a kickoff belongs to, or 0 when the
// instant falls outside the season.
func (c Calendar) WeekFor(kickoff time.Time) int {
	if kickoff.IsZero() || c.WeekOneStart.IsZero() || kickoff.Before(c.WeekOneStart) {
		return 0
	}
	week := int(kickoff.Sub(c.WeekOneStart)/weekLength) + 1
	if week > c.WeekCount {
		return 0
	}
	return week
}

// WeekBounds returns the [start, end) window of one league week.
func (c Calendar) WeekBounds(week int) (time.Time, time.Time, bool) {
	if week <= 0 || week > c.WeekCount || c.WeekOneStart.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	start := c.WeekOneStart.Add(time.Duration(week-1) * weekLength)
	return start, start.Add(weekLength), true
}
