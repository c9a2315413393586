package ephemeris

import (
	"math"
	"time"
)

// J2000 is the Julian Day of 2000-01-01 12:00 TT.
const J2000 = 2451545.0

// unixEpochJD is the Julian Day of 1970-01-01 00:00 UTC.
const unixEpochJD = 2440587.5

// JulianDay converts a Gregorian calendar date and fractional UT hour to a
// Julian Day number.
func JulianDay(year, month, day int, hour float64) float64 {
	y, m := year, month
	if m <= 2 {
		y--
		m += 12
	}

	a := y / 100
	b := 2 - a + a/4

	return math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		float64(day) + float64(b) - 1524.5 +
		hour/24.0
}

// ReverseJulianDay converts a Julian Day number back to a Gregorian calendar
// date and fractional UT hour.
func ReverseJulianDay(jd float64) (year, month, day int, hour float64) {
	shifted := jd + 0.5
	z := math.Floor(shifted)
	f := shifted - z

	a := z
	if z >= 2299161 {
		alpha := math.Floor((z - 1867216.25) / 36524.25)
		a = z + 1 + alpha - math.Floor(alpha/4)
	}

	b := a + 1524
	c := math.Floor((b - 122.1) / 365.25)
	d := math.Floor(365.25 * c)
	e := math.Floor((b - d) / 30.6001)

	day = int(b - d - math.Floor(30.6001*e))
	if e < 14 {
		month = int(e) - 1
	} else {
		month = int(e) - 13
	}
	if month > 2 {
		year = int(c) - 4716
	} else {
		year = int(c) - 4715
	}

	return year, month, day, f * 24
}

// FromTime returns the Julian Day (UT) of t.
func FromTime(t time.Time) float64 {
	return unixEpochJD + float64(t.UnixMilli())/86400000.0
}

// ToTime converts a Julian Day (UT) to a UTC time rounded to the millisecond.
func ToTime(jd float64) time.Time {
	ms := math.Round((jd - unixEpochJD) * 86400000.0)
	return time.UnixMilli(int64(ms)).UTC()
}

// centuriesSinceJ2000 returns Julian centuries from J2000.0.
func centuriesSinceJ2000(jd float64) float64 {
	return (jd - J2000) / 36525.0
}

// DeltaT returns TT−UT in seconds for the given decimal year, using the
// Espenak–Meeus polynomial fits.
func DeltaT(year float64) float64 {
	switch {
	case year < 1900:
		u := (year - 1820) / 100
		return -20 + 32*u*u
	case year < 1920:
		t := year - 1900
		return -2.79 + 1.494119*t - 0.0598939*t*t + 0.0061966*t*t*t - 0.000197*t*t*t*t
	case year < 1941:
		t := year - 1920
		return 21.20 + 0.84493*t - 0.076100*t*t + 0.0020936*t*t*t
	case year < 1961:
		t := year - 1950
		return 29.07 + 0.407*t - t*t/233 + t*t*t/2547
	case year < 1986:
		t := year - 1975
		return 45.45 + 1.067*t - t*t/260 - t*t*t/718
	case year < 2005:
		t := year - 2000
		return 63.86 + 0.3345*t - 0.060374*t*t + 0.0017275*t*t*t +
			0.000651814*t*t*t*t + 0.00002373599*t*t*t*t*t
	case year < 2050:
		t := year - 2000
		return 62.92 + 0.32217*t + 0.005589*t*t
	case year < 2150:
		u := (year - 1820) / 100
		return -20 + 32*u*u - 0.5628*(2150-year)
	default:
		u := (year - 1820) / 100
		return -20 + 32*u*u
	}
}

// decimalYear approximates the decimal year of a Julian Day.
func decimalYear(jd float64) float64 {
	return 2000.0 + (jd-J2000)/365.25
}

// terrestrialTime converts a UT Julian Day to TT.
func terrestrialTime(jd float64) float64 {
	return jd + DeltaT(decimalYear(jd))/86400.0
}

// Normalize360 wraps an angle into [0, 360).
func Normalize360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }

func sinDeg(d float64) float64 { return math.Sin(deg2rad(d)) }
func cosDeg(d float64) float64 { return math.Cos(deg2rad(d)) }
