package ephemeris

// secondInDays is one second expressed in days.
const secondInDays = 1.0 / 86400

// altitudeFunc returns the altitude above the event threshold at UT jd.
// Positive means the body is above the threshold.
type altitudeFunc func(jd float64) float64

// findCrossing searches [start, end] for the first crossing of zero in the
// direction of kind. It samples the span at the given number of steps to
// find a bracket, then bisects it to tol days.
func findCrossing(f altitudeFunc, start, end float64, kind EventKind, steps int, tol float64) (float64, bool) {
	if start >= end {
		return 0, false
	}
	if steps < 2 {
		steps = 2
	}

	interval := (end - start) / float64(steps-1)
	prevJD, prevAlt := start, f(start)

	for i := 1; i < steps; i++ {
		jd := start + float64(i)*interval
		alt := f(jd)
		if crosses(prevAlt, alt, kind) {
			return bisectCrossing(f, prevJD, jd, prevAlt, kind, tol), true
		}
		prevJD, prevAlt = jd, alt
	}

	return 0, false
}

func crosses(a1, a2 float64, kind EventKind) bool {
	if kind == Rise {
		return a1 < 0 && a2 >= 0
	}
	return a1 > 0 && a2 <= 0
}

func bisectCrossing(f altitudeFunc, a, b, altA float64, kind EventKind, tol float64) float64 {
	for b-a > tol {
		mid := a + (b-a)/2
		altM := f(mid)
		if crosses(altA, altM, kind) {
			b = mid
		} else {
			a, altA = mid, altM
		}
	}
	return a + (b-a)/2
}
