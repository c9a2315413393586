package ephemeris

// sunSemiDiameter is the mean apparent radius of the solar disc in degrees.
const sunSemiDiameter = 16.0 / 60

// sunPosition holds the Sun's apparent ecliptic coordinates.
type sunPosition struct {
	lon float64 // apparent longitude, degrees
	eps float64 // true obliquity, degrees
}

// sunAt returns the apparent geometric position of the Sun at TT jde, using
// the low-precision solar theory (Meeus ch. 25).
func sunAt(jde float64) sunPosition {
	t := centuriesSinceJ2000(jde)

	l0 := 280.46646 + 36000.76983*t + 0.0003032*t*t
	m := 357.52911 + 35999.05029*t - 0.0001537*t*t

	c := (1.914602-0.004817*t-0.000014*t*t)*sinDeg(m) +
		(0.019993-0.000101*t)*sinDeg(2*m) +
		0.000289*sinDeg(3*m)

	trueLon := l0 + c
	omega := 125.04 - 1934.136*t

	// aberration plus the dominant nutation term
	lon := trueLon - 0.00569 - 0.00478*sinDeg(omega)
	eps := meanObliquity(t) + 0.00256*cosDeg(omega)

	return sunPosition{lon: Normalize360(lon), eps: eps}
}

// sunEquatorial returns the Sun's apparent right ascension and declination
// at TT jde.
func sunEquatorial(jde float64) equatorial {
	s := sunAt(jde)
	return toEquatorial(s.lon, 0, s.eps)
}
