package schedule

import (
	"testing"
	"time"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func TestClassify(t *testing.T) {
	t.Parallel()

	et := mustZone(t, "America/New_York")
	pt := mustZone(t, "America/Los_Angeles")

	cases := []struct {
		name    string
		kickoff time.Time
		want    Slot
	}{
		{
			name:    "thursday night eastern",
			kickoff: time.Date(2025, time.September, 4, 20, 15, 0, 0, et),
			want:    SlotThursday,
		},
		{
			name:    "monday night eastern",
			kickoff: time.Date(2025, time.September, 8, 20, 15, 0, 0, et),
			want:    SlotMonday,
		},
		{
			name:    "sunday morning pacific",
			kickoff: time.Date(2025, time.September, 7, 10, 0, 0, 0, pt),
			want:    SlotSundayEarly,
		},
		{
			name:    "sunday afternoon pacific",
			kickoff: time.Date(2025, time.September, 7, 13, 25, 0, 0, pt),
			want:    SlotSundayAfternoon,
		},
		{
			name:    "sunday night pacific",
			kickoff: time.Date(2025, time.September, 7, 17, 20, 0, 0, pt),
			want:    SlotSundayNight,
		},
		{
			name:    "saturday falls back to early window",
			kickoff: time.Date(2025, time.December, 20, 16, 30, 0, 0, et),
			want:    SlotSundayEarly,
		},
		{
			// 10pm Sunday Pacific is 1am Monday Eastern: the Eastern
			// weekday wins, matching how the league counts game days.
			name:    "late sunday pacific crosses into eastern monday",
			kickoff: time.Date(2025, time.September, 7, 22, 30, 0, 0, pt),
			want:    SlotMonday,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Classify(tc.kickoff)
			if err != nil {
				t.Fatalf("Classify error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected slot: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestClassify_ZeroKickoff(t *testing.T) {
	t.Parallel()

	got, err := Classify(time.Time{})
	if err == nil {
		t.Fatalf("expected error for zero kickoff")
	}
	if got != SlotSundayEarly {
		t.Fatalf("zero kickoff must fall back to sunday_early, got=%s", got)
	}
}

func TestCalendar_WeekFor(t *testing.T) {
	t.Parallel()

	weekOne := time.Date(2025, time.September, 2, 0, 0, 0, 0, time.UTC)
	cal := NewCalendar(2025, weekOne)

	cases := []struct {
		name    string
		kickoff time.Time
		want    int
	}{
		{"opening thursday", time.Date(2025, time.September, 4, 20, 15, 0, 0, time.UTC), 1},
		{"week two sunday", time.Date(2025, time.September, 14, 17, 0, 0, 0, time.UTC), 2},
		{"before season", time.Date(2025, time.August, 10, 17, 0, 0, 0, time.UTC), 0},
		{"after season", weekOne.AddDate(0, 0, 7*19), 0},
		{"zero kickoff", time.Time{}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := cal.WeekFor(tc.kickoff); got != tc.want {
				t.Fatalf("unexpected week: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestCalendar_WeekBounds(t *testing.T) {
	t.Parallel()

	weekOne := time.Date(2025, time.September, 2, 0, 0, 0, 0, time.UTC)
	cal := NewCalendar(2025, weekOne)

	start, end, ok := cal.WeekBounds(2)
	if !ok {
		t.Fatalf("expected bounds for week 2")
	}
	if !start.Equal(weekOne.AddDate(0, 0, 7)) {
		t.Fatalf("unexpected start: %v", start)
	}
	if !end.Equal(weekOne.AddDate(0, 0, 14)) {
		t.Fatalf("unexpected end: %v", end)
	}

	if _, _, ok := cal.WeekBounds(0); ok {
		t.Fatalf("week 0 must not have bounds")
	}
	if _, _, ok := cal.WeekBounds(19); ok {
		t.Fatalf("week beyond season must not have bounds")
	}
}
