package ephemeris

import (
	"github.com/nathan-osman/go-sunrise"
)

// SunriseEngine answers Sun rise/set queries with the NOAA algorithm from
// go-sunrise and delegates everything else to the builtin engine. go-sunrise
// uses a fixed -0.833° horizon, so the atmosphere argument only affects Moon
// events.
type SunriseEngine struct {
	fallback *Analytic
}

// NewSunriseEngine returns an engine backed by go-sunrise.
func NewSunriseEngine() *SunriseEngine {
	return &SunriseEngine{fallback: NewAnalytic()}
}

// Longitude implements Oracle.
func (s *SunriseEngine) Longitude(jd float64, body Body) (float64, error) {
	return s.fallback.Longitude(jd, body)
}

// RiseSet implements Oracle.
func (s *SunriseEngine) RiseSet(jd float64, body Body, kind EventKind, geo GeoPosition, atm Atmosphere) (float64, bool, error) {
	if body != Sun {
		return s.fallback.RiseSet(jd, body, kind, geo, atm)
	}
	if err := checkJD(jd); err != nil {
		return 0, false, err
	}
	if err := checkGeo(geo); err != nil {
		return 0, false, err
	}

	// The local solar day containing the search start, then the one after it.
	solar := ToTime(jd + geo.Longitude/360)
	for i := 0; i < 2; i++ {
		day := solar.AddDate(0, 0, i)
		rise, set := sunrise.SunriseSunset(geo.Latitude, geo.Longitude, day.Year(), day.Month(), day.Day())

		event := rise
		if kind == Set {
			event = set
		}
		if event.IsZero() {
			continue
		}

		eventJD := FromTime(event)
		if eventJD >= jd && eventJD <= jd+1 {
			return eventJD, true, nil
		}
	}

	return 0, false, nil
}
