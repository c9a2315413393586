package panchanga

import (
	"time"

	"github.com/zapponejosh/panchanga-api/internal/ephemeris"
)

// Event is the result of a rise or set query: either the instant it
// occurred or the fact that it did not occur on that date.
type Event struct {
	jd       float64
	occurred bool
}

// Occurred returns an event that happened at UT Julian Day jd.
func Occurred(jd float64) Event {
	return Event{jd: jd, occurred: true}
}

// DidNotOccur returns an event that did not happen.
func DidNotOccur() Event {
	return Event{}
}

// Occurred reports whether the event happened.
func (e Event) Occurred() bool { return e.occurred }

// JulianDay returns the UT Julian Day of the event.
func (e Event) JulianDay() (float64, bool) {
	return e.jd, e.occurred
}

// Time returns the event instant in loc.
func (e Event) Time(loc *time.Location) (time.Time, bool) {
	if !e.occurred {
		return time.Time{}, false
	}
	return ephemeris.ToTime(e.jd).In(loc), true
}
