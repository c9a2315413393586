// Package ephemeris provides the Sun and Moon positions and rise/set events
// the panchanga engine is built on.
//
// Everything is expressed in Julian Days (UT) at the boundary. Engines report
// tropical longitudes; a Session applies the configured sidereal mode.
package ephemeris

import (
	"errors"
	"fmt"
	"math"
)

// Body identifies a celestial body the oracle can compute.
type Body int

const (
	Sun Body = iota
	Moon
)

// String returns the body name.
func (b Body) String() string {
	switch b {
	case Sun:
		return "sun"
	case Moon:
		return "moon"
	default:
		return fmt.Sprintf("body(%d)", int(b))
	}
}

// EventKind selects the horizon event a rise/set query looks for.
type EventKind int

const (
	Rise EventKind = iota
	Set
)

// String returns the event name.
func (k EventKind) String() string {
	if k == Rise {
		return "rise"
	}
	return "set"
}

// GeoPosition is an observer location. Longitude is east-positive.
type GeoPosition struct {
	Longitude float64 // degrees
	Latitude  float64 // degrees
	Altitude  float64 // meters above sea level
}

// Atmosphere holds the conditions used for refraction at the horizon.
type Atmosphere struct {
	Pressure    float64 // hPa
	Temperature float64 // °C
}

// StandardAtmosphere is used for every rise/set query in the calendar.
var StandardAtmosphere = Atmosphere{Pressure: 1013.25, Temperature: 23}

// Calendar years the engines serve.
const (
	FirstYear = 1800
	LastYear  = 2199
)

// Supported Julian Day range of the builtin series. It reaches two days past
// the served years: a local-midnight anchor east of Greenwich falls on the
// previous UT day, and the last date's window runs to the next sunrise.
const (
	minJD = 2378496.5 - 2 // 1799-12-30
	maxJD = 2524593.5 + 2 // 2200-01-03
)

var (
	// ErrComputation is returned when an engine cannot produce a value.
	ErrComputation = errors.New("ephemeris computation failed")

	// ErrUnknownEngine is returned for an unrecognised engine name.
	ErrUnknownEngine = errors.New("unknown ephemeris engine")
)

// Oracle is an ephemeris engine.
type Oracle interface {
	// Longitude returns the apparent tropical ecliptic longitude of body at
	// UT jd, in degrees [0, 360).
	Longitude(jd float64, body Body) (float64, error)

	// RiseSet returns the UT Julian Day of the first rise or set of body
	// within one day after jd. ok is false when the event does not occur in
	// that span.
	RiseSet(jd float64, body Body, kind EventKind, geo GeoPosition, atm Atmosphere) (float64, bool, error)
}

// checkJD validates that jd lies in the range the series support.
func checkJD(jd float64) error {
	if math.IsNaN(jd) || math.IsInf(jd, 0) {
		return fmt.Errorf("%w: julian day is not finite", ErrComputation)
	}
	if jd < minJD || jd > maxJD {
		return fmt.Errorf("%w: julian day %.1f outside supported range", ErrComputation, jd)
	}
	return nil
}

// checkGeo validates observer coordinates.
func checkGeo(geo GeoPosition) error {
	if geo.Latitude < -90 || geo.Latitude > 90 {
		return fmt.Errorf("%w: latitude %.4f out of range", ErrComputation, geo.Latitude)
	}
	if geo.Longitude < -180 || geo.Longitude > 180 {
		return fmt.Errorf("%w: longitude %.4f out of range", ErrComputation, geo.Longitude)
	}
	return nil
}
