package panchanga

import (
	"fmt"
	"time"

	"github.com/zapponejosh/panchanga-api/internal/calendar"
	"github.com/zapponejosh/panchanga-api/internal/ephemeris"
)

// Location is the fixed observer a calendar is computed for.
type Location struct {
	Name      string  `json:"name" yaml:"name"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	UTCOffset float64 `json:"utc_offset" yaml:"utc_offset"` // hours, may be fractional
}

// Geo returns the observer position for oracle queries.
func (l Location) Geo() ephemeris.GeoPosition {
	return ephemeris.GeoPosition{Longitude: l.Longitude, Latitude: l.Latitude}
}

// Zone returns the fixed-offset location used for local times.
func (l Location) Zone() *time.Location {
	return calendar.FixedZone(l.UTCOffset)
}

// Validate checks the coordinates and offset.
func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %.5f out of range [-90, 90]", l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %.5f out of range [-180, 180]", l.Longitude)
	}
	if l.UTCOffset < -12 || l.UTCOffset > 14 {
		return fmt.Errorf("utc offset %.2f out of range [-12, 14]", l.UTCOffset)
	}
	return nil
}

// RiseSetSource resolves horizon events. *ephemeris.Session satisfies it.
type RiseSetSource interface {
	RiseTransit(jd float64, body ephemeris.Body, kind ephemeris.EventKind, geo ephemeris.GeoPosition, atm ephemeris.Atmosphere) (float64, bool, error)
}

// DayWindow holds the solar events that bound one calendar day.
type DayWindow struct {
	Date        time.Time
	Sunrise     Event
	Sunset      Event
	NextSunrise Event
}

// WindowProvider resolves rise and set events for calendar dates at a fixed
// location. Every call issues fresh oracle queries and keeps no state.
type WindowProvider struct {
	src RiseSetSource
	loc Location
}

// NewWindowProvider returns a provider for loc.
func NewWindowProvider(src RiseSetSource, loc Location) *WindowProvider {
	return &WindowProvider{src: src, loc: loc}
}

// Sunrise returns the first sunrise on date's local calendar day.
func (w *WindowProvider) Sunrise(date time.Time) (Event, error) {
	return w.event(date, ephemeris.Sun, ephemeris.Rise)
}

// Sunset returns the first sunset on date's local calendar day.
func (w *WindowProvider) Sunset(date time.Time) (Event, error) {
	return w.event(date, ephemeris.Sun, ephemeris.Set)
}

// Moonrise returns the first moonrise on date's local calendar day.
func (w *WindowProvider) Moonrise(date time.Time) (Event, error) {
	return w.event(date, ephemeris.Moon, ephemeris.Rise)
}

// Moonset returns the first moonset on date's local calendar day.
func (w *WindowProvider) Moonset(date time.Time) (Event, error) {
	return w.event(date, ephemeris.Moon, ephemeris.Set)
}

// DayWindow resolves sunrise, sunset and the following day's sunrise.
func (w *WindowProvider) DayWindow(date time.Time) (DayWindow, error) {
	date = calendar.DateIn(date, w.loc.Zone())

	sunrise, err := w.Sunrise(date)
	if err != nil {
		return DayWindow{}, err
	}
	sunset, err := w.Sunset(date)
	if err != nil {
		return DayWindow{}, err
	}
	next, err := w.Sunrise(date.AddDate(0, 0, 1))
	if err != nil {
		return DayWindow{}, err
	}

	return DayWindow{Date: date, Sunrise: sunrise, Sunset: sunset, NextSunrise: next}, nil
}

// anchor is the UT Julian Day of local midnight starting date.
func (w *WindowProvider) anchor(date time.Time) float64 {
	y, m, d := date.Date()
	return ephemeris.JulianDay(y, int(m), d, 0) - w.loc.UTCOffset/24
}

func (w *WindowProvider) event(date time.Time, body ephemeris.Body, kind ephemeris.EventKind) (Event, error) {
	jd, ok, err := w.src.RiseTransit(w.anchor(date), body, kind, w.loc.Geo(), ephemeris.StandardAtmosphere)
	if err != nil {
		return DidNotOccur(), fmt.Errorf("%s on %s: %w", kind, calendar.FormatDate(date), err)
	}
	if !ok {
		return DidNotOccur(), nil
	}
	return Occurred(jd), nil
}
