package ephemeris

import "math"

// equatorial holds right ascension and declination in degrees.
type equatorial struct {
	ra, dec float64
}

// meanObliquity returns the mean obliquity of the ecliptic (degrees) for
// Julian centuries t since J2000.
func meanObliquity(t float64) float64 {
	return 23.4392911 - 0.0130042*t - 1.64e-7*t*t + 5.04e-7*t*t*t
}

// nutation returns the nutation in longitude and obliquity in degrees using
// the four largest terms.
func nutation(t float64) (dPsi, dEps float64) {
	omega := 125.04452 - 1934.136261*t
	l := 280.4665 + 36000.7698*t
	lp := 218.3165 + 481267.8813*t

	dPsi = -17.20*sinDeg(omega) - 1.32*sinDeg(2*l) - 0.23*sinDeg(2*lp) + 0.21*sinDeg(2*omega)
	dEps = 9.20*cosDeg(omega) + 0.57*cosDeg(2*l) + 0.10*cosDeg(2*lp) - 0.09*cosDeg(2*omega)
	return dPsi / 3600, dEps / 3600
}

// toEquatorial converts ecliptic longitude/latitude to equatorial
// coordinates for obliquity eps. All angles in degrees.
func toEquatorial(lon, lat, eps float64) equatorial {
	sinLon := sinDeg(lon)
	ra := math.Atan2(sinLon*cosDeg(eps)-math.Tan(deg2rad(lat))*sinDeg(eps), cosDeg(lon))
	dec := math.Asin(sinDeg(lat)*cosDeg(eps) + cosDeg(lat)*sinDeg(eps)*sinLon)
	return equatorial{ra: Normalize360(rad2deg(ra)), dec: rad2deg(dec)}
}

// siderealTime returns Greenwich mean sidereal time in degrees at UT jd.
func siderealTime(jd float64) float64 {
	t := centuriesSinceJ2000(jd)
	theta := 280.46061837 + 360.98564736629*(jd-J2000) +
		0.000387933*t*t - t*t*t/38710000
	return Normalize360(theta)
}

// altitude returns the geocentric altitude (degrees) of a body with the given
// equatorial position, seen from geo at UT jd.
func altitude(jd float64, pos equatorial, geo GeoPosition) float64 {
	h := siderealTime(jd) + geo.Longitude - pos.ra
	sinAlt := sinDeg(geo.Latitude)*sinDeg(pos.dec) +
		cosDeg(geo.Latitude)*cosDeg(pos.dec)*cosDeg(h)
	return rad2deg(math.Asin(clamp(sinAlt, -1, 1)))
}

// horizonRefraction returns the refraction at the horizon in degrees, scaled
// for the given pressure and temperature.
func horizonRefraction(atm Atmosphere) float64 {
	// Bennett's formula at zero apparent altitude: 34.5 arcmin at 1010 hPa, 10 °C.
	const standard = 34.5 / 60
	return standard * (atm.Pressure / 1010) * (283 / (273 + atm.Temperature))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
