package ephemeris

import "fmt"

// Search parameters for rise/set events: 30-minute samples across one day,
// bisected to a tenth of a second.
const (
	riseSetSteps     = 49
	riseSetTolerance = 0.1 * secondInDays
)

// Analytic is the builtin engine. It evaluates truncated Meeus series for the
// Sun and Moon and finds horizon events by bisection on altitude.
type Analytic struct{}

// NewAnalytic returns the builtin engine.
func NewAnalytic() *Analytic {
	return &Analytic{}
}

// Longitude implements Oracle.
func (a *Analytic) Longitude(jd float64, body Body) (float64, error) {
	if err := checkJD(jd); err != nil {
		return 0, err
	}

	jde := terrestrialTime(jd)
	switch body {
	case Sun:
		return sunAt(jde).lon, nil
	case Moon:
		p := moonAt(jde)
		dPsi, _ := nutation(centuriesSinceJ2000(jde))
		return Normalize360(p.lon + dPsi), nil
	default:
		return 0, fmt.Errorf("%w: unsupported body %s", ErrComputation, body)
	}
}

// RiseSet implements Oracle.
func (a *Analytic) RiseSet(jd float64, body Body, kind EventKind, geo GeoPosition, atm Atmosphere) (float64, bool, error) {
	if err := checkJD(jd); err != nil {
		return 0, false, err
	}
	if err := checkGeo(geo); err != nil {
		return 0, false, err
	}

	f, err := horizonFunc(body, geo, atm)
	if err != nil {
		return 0, false, err
	}

	event, ok := findCrossing(f, jd, jd+1, kind, riseSetSteps, riseSetTolerance)
	return event, ok, nil
}

// horizonFunc returns the altitude of body's upper limb relative to the
// refracted horizon.
func horizonFunc(body Body, geo GeoPosition, atm Atmosphere) (altitudeFunc, error) {
	refraction := horizonRefraction(atm)

	switch body {
	case Sun:
		target := -(refraction + sunSemiDiameter)
		return func(jd float64) float64 {
			return altitude(jd, sunEquatorial(terrestrialTime(jd)), geo) - target
		}, nil
	case Moon:
		return func(jd float64) float64 {
			pos, parallax := moonEquatorial(terrestrialTime(jd))
			// parallax lowers the Moon, its semi-diameter is 0.2725 of parallax
			target := 0.7275*parallax - refraction
			return altitude(jd, pos, geo) - target
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported body %s", ErrComputation, body)
	}
}
