package telemetry

import (
	"time"

	"github.com/zapponejosh/panchanga-api/internal/ephemeris"
	"github.com/zapponejosh/panchanga-api/internal/panchanga"
)

// ObserveDay records the outcome of computing one date.
func ObserveDay(location string, start time.Time, day *panchanga.Day, err error) {
	DayComputeDuration.WithLabelValues(location).Observe(time.Since(start).Seconds())
	if err != nil {
		DaysComputedTotal.WithLabelValues(location, ResultFailed).Inc()
		return
	}
	DaysComputedTotal.WithLabelValues(location, ResultOK).Inc()
	for _, c := range day.Skipped {
		SkippedComponentsTotal.WithLabelValues(location, c).Inc()
	}
}

// ObserveRange records every date of a range result.
func ObserveRange(location string, start time.Time, result *panchanga.RangeResult) {
	if result == nil {
		return
	}
	perDay := time.Since(start)
	if n := len(result.Days) + len(result.Failed); n > 0 {
		perDay /= time.Duration(n)
	}
	for _, d := range result.Days {
		DayComputeDuration.WithLabelValues(location).Observe(perDay.Seconds())
		DaysComputedTotal.WithLabelValues(location, ResultOK).Inc()
		for _, c := range d.Skipped {
			SkippedComponentsTotal.WithLabelValues(location, c).Inc()
		}
	}
	if n := len(result.Failed); n > 0 {
		DaysComputedTotal.WithLabelValues(location, ResultFailed).Add(float64(n))
	}
}

// instrumentedOracle counts every query passed to the wrapped oracle.
type instrumentedOracle struct {
	next ephemeris.Oracle
}

// InstrumentOracle wraps o so that each query is counted in OracleCallsTotal.
func InstrumentOracle(o ephemeris.Oracle) ephemeris.Oracle {
	return &instrumentedOracle{next: o}
}

func (o *instrumentedOracle) Longitude(jd float64, body ephemeris.Body) (float64, error) {
	lon, err := o.next.Longitude(jd, body)
	OracleCallsTotal.WithLabelValues("longitude", body.String(), result(true, err)).Inc()
	return lon, err
}

func (o *instrumentedOracle) RiseSet(jd float64, body ephemeris.Body, kind ephemeris.EventKind, geo ephemeris.GeoPosition, atm ephemeris.Atmosphere) (float64, bool, error) {
	t, ok, err := o.next.RiseSet(jd, body, kind, geo, atm)
	OracleCallsTotal.WithLabelValues(kind.String(), body.String(), result(ok, err)).Inc()
	return t, ok, err
}

func result(ok bool, err error) string {
	switch {
	case err != nil:
		return ResultFailed
	case !ok:
		return ResultNone
	default:
		return ResultOK
	}
}
