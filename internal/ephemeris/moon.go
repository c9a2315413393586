package ephemeris

import "math"

// lunarTerm is one periodic term of the lunar series. Multipliers apply to
// D, M, M' and F in that order.
type lunarTerm struct {
	d, m, mp, f int
	coeff       float64
}

// longitudeTerms is Meeus table 47.A (longitude, 1e-6 degrees).
var longitudeTerms = []lunarTerm{
	{0, 0, 1, 0, 6288774},
	{2, 0, -1, 0, 1274027},
	{2, 0, 0, 0, 658314},
	{0, 0, 2, 0, 213618},
	{0, 1, 0, 0, -185116},
	{0, 0, 0, 2, -114332},
	{2, 0, -2, 0, 58793},
	{2, -1, -1, 0, 57066},
	{2, 0, 1, 0, 53322},
	{2, -1, 0, 0, 45758},
	{0, 1, -1, 0, -40923},
	{1, 0, 0, 0, -34720},
	{0, 1, 1, 0, -30383},
	{2, 0, 0, -2, 15327},
	{0, 0, 1, 2, -12528},
	{0, 0, 1, -2, 10980},
	{4, 0, -1, 0, 10675},
	{0, 0, 3, 0, 10034},
	{4, 0, -2, 0, 8548},
	{2, 1, -1, 0, -7888},
	{2, 1, 0, 0, -6766},
	{1, 0, -1, 0, -5163},
	{1, 1, 0, 0, 4987},
	{2, -1, 1, 0, 4036},
	{2, 0, 2, 0, 3994},
	{4, 0, 0, 0, 3861},
	{2, 0, -3, 0, 3665},
	{0, 1, -2, 0, -2689},
	{2, 0, -1, 2, -2602},
	{2, -1, -2, 0, 2390},
	{1, 0, 1, 0, -2348},
	{2, -2, 0, 0, 2236},
	{0, 1, 2, 0, -2120},
	{0, 2, 0, 0, -2069},
	{2, -2, -1, 0, 2048},
	{2, 0, 1, -2, -1773},
	{2, 0, 0, 2, -1595},
	{4, -1, -1, 0, 1215},
	{0, 0, 2, 2, -1110},
	{3, 0, -1, 0, -892},
	{2, 1, 1, 0, -810},
	{4, -1, -2, 0, 759},
	{0, 2, -1, 0, -713},
	{2, 2, -1, 0, -700},
	{2, 1, -2, 0, 691},
	{2, -1, 0, -2, 596},
	{4, 0, 1, 0, 549},
	{0, 0, 4, 0, 537},
	{4, -1, 0, 0, 520},
	{1, 0, -2, 0, -487},
	{2, 1, 0, -2, -399},
	{0, 0, 2, -2, -381},
	{1, 1, 1, 0, 351},
	{3, 0, -2, 0, -340},
	{4, 0, -3, 0, 330},
	{2, -1, 2, 0, 327},
	{0, 2, 1, 0, -323},
	{1, 1, -1, 0, 299},
	{2, 0, 3, 0, 294},
}

// distanceTerms is the cosine column of table 47.A (distance, 1e-3 km).
var distanceTerms = []lunarTerm{
	{0, 0, 1, 0, -20905355},
	{2, 0, -1, 0, -3699111},
	{2, 0, 0, 0, -2955968},
	{0, 0, 2, 0, -569925},
	{0, 1, 0, 0, 48888},
	{0, 0, 0, 2, -3149},
	{2, 0, -2, 0, 246158},
	{2, -1, -1, 0, -152138},
	{2, 0, 1, 0, -170733},
	{2, -1, 0, 0, -204586},
	{0, 1, -1, 0, -129620},
	{1, 0, 0, 0, 108743},
	{0, 1, 1, 0, 104755},
	{2, 0, 0, -2, 10321},
	{0, 0, 1, -2, 79661},
	{4, 0, -1, 0, -34782},
	{0, 0, 3, 0, -23210},
	{4, 0, -2, 0, -21636},
	{2, 1, -1, 0, 24208},
	{2, 1, 0, 0, 30824},
	{1, 0, -1, 0, -8379},
	{1, 1, 0, 0, -16675},
	{2, -1, 1, 0, -12831},
	{2, 0, 2, 0, -10445},
	{4, 0, 0, 0, -11650},
	{2, 0, -3, 0, 14403},
	{0, 1, -2, 0, -7003},
	{2, -1, -2, 0, 10056},
	{1, 0, 1, 0, 6322},
	{2, -2, 0, 0, -9884},
	{0, 1, 2, 0, 5751},
	{2, -2, -1, 0, -4950},
	{2, 0, 1, -2, 4130},
	{4, -1, -1, 0, -3958},
	{3, 0, -1, 0, 3258},
	{2, 1, 1, 0, 2616},
	{4, -1, -2, 0, -1897},
	{0, 2, -1, 0, -2117},
	{2, 2, -1, 0, 2354},
	{4, 0, 1, 0, -1423},
	{0, 0, 4, 0, -1117},
	{4, -1, 0, 0, -1571},
	{1, 0, -2, 0, -1739},
	{0, 0, 2, -2, -4421},
	{0, 2, 1, 0, 1165},
	{2, 0, -1, -2, 8752},
}

// latitudeTerms is Meeus table 47.B (latitude, 1e-6 degrees).
var latitudeTerms = []lunarTerm{
	{0, 0, 0, 1, 5128122},
	{0, 0, 1, 1, 280602},
	{0, 0, 1, -1, 277693},
	{2, 0, 0, -1, 173237},
	{2, 0, -1, 1, 55413},
	{2, 0, -1, -1, 46271},
	{2, 0, 0, 1, 32573},
	{0, 0, 2, 1, 17198},
	{2, 0, 1, -1, 9266},
	{0, 0, 2, -1, 8822},
	{2, -1, 0, -1, 8216},
	{2, 0, -2, -1, 4324},
	{2, 0, 1, 1, 4200},
	{2, 1, 0, -1, -3359},
	{2, -1, -1, 1, 2463},
	{2, -1, 0, 1, 2211},
	{2, -1, -1, -1, 2065},
	{0, 1, -1, -1, -1870},
	{4, 0, -1, -1, 1828},
	{0, 1, 0, 1, -1794},
	{0, 0, 0, 3, -1749},
	{0, 1, -1, 1, -1565},
	{1, 0, 0, 1, -1491},
	{0, 1, 1, 1, -1475},
	{0, 1, 1, -1, -1410},
	{0, 1, 0, -1, -1344},
	{1, 0, 0, -1, -1335},
	{0, 0, 3, 1, 1107},
	{4, 0, 0, -1, 1021},
	{4, 0, -1, 1, 833},
}

// moonPosition holds the Moon's geocentric ecliptic coordinates.
type moonPosition struct {
	lon      float64 // geometric longitude, degrees, no nutation
	lat      float64 // latitude, degrees
	distance float64 // km
}

// moonAt evaluates the truncated ELP-2000/82 series (Meeus ch. 47) at TT jde.
func moonAt(jde float64) moonPosition {
	t := centuriesSinceJ2000(jde)
	t2, t3, t4 := t*t, t*t*t, t*t*t*t

	lp := 218.3164477 + 481267.88123421*t - 0.0015786*t2 + t3/538841 - t4/65194000
	d := 297.8501921 + 445267.1114034*t - 0.0018819*t2 + t3/545868 - t4/113065000
	m := 357.5291092 + 35999.0502909*t - 0.0001536*t2 + t3/24490000
	mp := 134.9633964 + 477198.8675055*t + 0.0087414*t2 + t3/69699 - t4/14712000
	f := 93.2720950 + 483202.0175233*t - 0.0036539*t2 - t3/3526000 + t4/863310000

	a1 := 119.75 + 131.849*t
	a2 := 53.09 + 479264.290*t
	a3 := 313.45 + 481266.484*t
	e := 1 - 0.002516*t - 0.0000074*t2

	arg := func(term lunarTerm) (float64, float64) {
		x := float64(term.d)*d + float64(term.m)*m + float64(term.mp)*mp + float64(term.f)*f
		scale := 1.0
		switch term.m {
		case 1, -1:
			scale = e
		case 2, -2:
			scale = e * e
		}
		return x, scale
	}

	var sl, sr, sb float64
	for _, term := range longitudeTerms {
		x, scale := arg(term)
		sl += term.coeff * scale * sinDeg(x)
	}
	for _, term := range distanceTerms {
		x, scale := arg(term)
		sr += term.coeff * scale * cosDeg(x)
	}
	for _, term := range latitudeTerms {
		x, scale := arg(term)
		sb += term.coeff * scale * sinDeg(x)
	}

	sl += 3958*sinDeg(a1) + 1962*sinDeg(lp-f) + 318*sinDeg(a2)
	sb += -2235*sinDeg(lp) + 382*sinDeg(a3) + 175*sinDeg(a1-f) +
		175*sinDeg(a1+f) + 127*sinDeg(lp-mp) - 115*sinDeg(lp+mp)

	return moonPosition{
		lon:      Normalize360(lp + sl/1e6),
		lat:      sb / 1e6,
		distance: 385000.56 + sr/1000,
	}
}

// moonParallax returns the equatorial horizontal parallax in degrees.
func moonParallax(distanceKm float64) float64 {
	return rad2deg(math.Asin(6378.14 / distanceKm))
}

// moonEquatorial returns the Moon's apparent right ascension and declination
// at TT jde along with its horizontal parallax.
func moonEquatorial(jde float64) (equatorial, float64) {
	p := moonAt(jde)
	t := centuriesSinceJ2000(jde)
	dPsi, dEps := nutation(t)
	pos := toEquatorial(p.lon+dPsi, p.lat, meanObliquity(t)+dEps)
	return pos, moonParallax(p.distance)
}
