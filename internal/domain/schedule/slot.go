package schedule

import (
	"fmt"
	"time"
)

// Slot is the broadcast window a game is assigned to.
type Slot string

const (
	SlotThursday        Slot = "thursday"
	SlotSundayEarly     Slot = "sunday_early"
	SlotSundayAfternoon Slot = "sunday_afternoon"
	SlotSundayNight     Slot = "sunday_night"
	SlotMonday          Slot = "monday"
)

var (
	eastern = loadLocation("America/New_York", -5*3600)
	pacific = loadLocation("America/Los_Angeles", -8*3600)
)

func loadLocation(name string, fallbackOffsetSeconds int) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, fallbackOffsetSeconds)
	}
	return loc
}

// Classify maps a kickoff instant onto its broadcast window. The weekday is
// read in Eastern time; the three Sunday windows are split on the Pacific
// hour. A zero kickoff cannot be classified and falls back to sunday_early
// with a non-nil error so batch callers can keep going.
func Classify(kickoff time.Time) (Slot, error) {
	if kickoff.IsZero() {
		return SlotSundayEarly, fmt.Errorf("kickoff instant is zero")
	}

	switch kickoff.In(eastern).Weekday() {
	case time.Thursday:
		return SlotThursday, nil
	case time.Monday:
		return SlotMonday, nil
	case time.Sunday:
		hour := kickoff.In(pacific).Hour()
		switch {
		case hour < 12:
			return SlotSundayEarly, nil
		case hour < 15:
			return SlotSundayAfternoon, nil
		default:
			return SlotSundayNight, nil
		}
	default:
		// Saturday specials and flexed games share the early window.
		return SlotSundayEarly, nil
	}
}
