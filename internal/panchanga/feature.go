// Package panchanga computes the Hindu luni-solar calendar for a fixed
// location: the Tithi, Nakshatra, Yoga and Karana intervals of each
// sunrise-to-sunrise day, and the fixed day-fraction periods (Kalam, Hora,
// Abhijit Muhurtam, Chogadiya) derived from sunrise and sunset.
package panchanga

import (
	"github.com/zapponejosh/panchanga-api/internal/ephemeris"
)

// LongitudeSource returns sidereal body longitudes. *ephemeris.Session
// satisfies it.
type LongitudeSource interface {
	BodyLongitude(jd float64, body ephemeris.Body) (float64, error)
}

// Feature is an angular quantity in [0, 360) as a function of UT Julian Day.
type Feature func(jd float64) (float64, error)

// MoonLongitude drives Nakshatra and the moon sign.
func MoonLongitude(src LongitudeSource) Feature {
	return func(jd float64) (float64, error) {
		lon, err := src.BodyLongitude(jd, ephemeris.Moon)
		if err != nil {
			return 0, err
		}
		return ephemeris.Normalize360(lon), nil
	}
}

// SunLongitude drives the sun sign.
func SunLongitude(src LongitudeSource) Feature {
	return func(jd float64) (float64, error) {
		lon, err := src.BodyLongitude(jd, ephemeris.Sun)
		if err != nil {
			return 0, err
		}
		return ephemeris.Normalize360(lon), nil
	}
}

// Elongation is Moon minus Sun, mod 360. It drives Tithi and Karana.
func Elongation(src LongitudeSource) Feature {
	return func(jd float64) (float64, error) {
		sun, moon, err := bothLongitudes(src, jd)
		if err != nil {
			return 0, err
		}
		return ephemeris.Normalize360(moon - sun + 360), nil
	}
}

// LuniSolarSum is Sun plus Moon, mod 360. It drives Yoga.
func LuniSolarSum(src LongitudeSource) Feature {
	return func(jd float64) (float64, error) {
		sun, moon, err := bothLongitudes(src, jd)
		if err != nil {
			return 0, err
		}
		return ephemeris.Normalize360(sun + moon), nil
	}
}

func bothLongitudes(src LongitudeSource, jd float64) (sun, moon float64, err error) {
	sun, err = src.BodyLongitude(jd, ephemeris.Sun)
	if err != nil {
		return 0, 0, err
	}
	moon, err = src.BodyLongitude(jd, ephemeris.Moon)
	if err != nil {
		return 0, 0, err
	}
	return sun, moon, nil
}
