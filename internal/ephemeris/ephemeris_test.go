package ephemeris

import (
	"errors"
	"math"
	"testing"
	"time"
)

// =============================================================================
// Julian Day conversions
// =============================================================================

func TestJulianDay(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day int
		hour             float64
		want             float64
	}{
		{"J2000 epoch", 2000, 1, 1, 12, 2451545.0},
		{"Sputnik launch", 1957, 10, 4, 19.44, 2436116.31},
		{"january date", 1987, 1, 27, 0, 2446822.5},
		{"midsummer noon", 1988, 6, 19, 12, 2447332.0},
		{"before leap correction", 1600, 1, 1, 0, 2305447.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDay(tt.year, tt.month, tt.day, tt.hour)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("JulianDay(%d, %d, %d, %v) = %.6f, want %.6f",
					tt.year, tt.month, tt.day, tt.hour, got, tt.want)
			}
		})
	}
}

func TestReverseJulianDay(t *testing.T) {
	year, month, day, hour := ReverseJulianDay(2436116.31)
	if year != 1957 || month != 10 || day != 4 {
		t.Fatalf("ReverseJulianDay date = %d-%02d-%02d, want 1957-10-04", year, month, day)
	}
	if math.Abs(hour-19.44) > 1e-5 {
		t.Errorf("ReverseJulianDay hour = %v, want 19.44", hour)
	}

	year, month, day, hour = ReverseJulianDay(JulianDay(2025, 3, 1, 6.25))
	if year != 2025 || month != 3 || day != 1 || math.Abs(hour-6.25) > 1e-6 {
		t.Errorf("round trip = %d-%02d-%02d %v, want 2025-03-01 6.25", year, month, day, hour)
	}
}

func TestTimeConversion(t *testing.T) {
	ts := time.Date(2025, time.April, 14, 6, 12, 33, 250_000_000, time.UTC)

	jd := FromTime(ts)
	want := JulianDay(2025, 4, 14, 6+12.0/60+33.25/3600)
	if math.Abs(jd-want) > 1e-8 {
		t.Errorf("FromTime = %.8f, want %.8f", jd, want)
	}

	if back := ToTime(jd); !back.Equal(ts) {
		t.Errorf("ToTime(FromTime(t)) = %v, want %v", back, ts)
	}
}

func TestNormalize360(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{725, 5},
		{-30, 330},
		{-1e-15, 0},
	}
	for _, tt := range tests {
		if got := Normalize360(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Normalize360(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDeltaT(t *testing.T) {
	got := DeltaT(2025)
	if got < 69 || got > 76 {
		t.Errorf("DeltaT(2025) = %.2f, want about 74 seconds", got)
	}
}

// =============================================================================
// Positions
// =============================================================================

func TestSunAt_MeeusExample(t *testing.T) {
	// Meeus example 25.a: 1992 October 13.0 TD
	got := sunAt(2448908.5).lon
	if math.Abs(got-199.90895) > 0.001 {
		t.Errorf("sun apparent longitude = %.5f, want 199.90895", got)
	}
}

func TestMoonAt_MeeusExample(t *testing.T) {
	// Meeus example 47.a: 1992 April 12.0 TD
	p := moonAt(2448724.5)
	if math.Abs(p.lon-133.162655) > 0.01 {
		t.Errorf("moon longitude = %.6f, want 133.162655", p.lon)
	}
	if math.Abs(p.lat-(-3.229126)) > 0.01 {
		t.Errorf("moon latitude = %.6f, want -3.229126", p.lat)
	}
	if math.Abs(p.distance-368409.7) > 20 {
		t.Errorf("moon distance = %.1f km, want 368409.7", p.distance)
	}
}

func TestAyanamsa(t *testing.T) {
	if got := ModeLahiri.Ayanamsa(J2000); math.Abs(got-23.857092) > 1e-9 {
		t.Errorf("Lahiri at J2000 = %v, want 23.857092", got)
	}
	if got := ModeTropical.Ayanamsa(J2000 + 9000); got != 0 {
		t.Errorf("tropical ayanamsa = %v, want 0", got)
	}

	got := ModeLahiri.Ayanamsa(JulianDay(2025, 1, 1, 0))
	if got < 24.1 || got > 24.3 {
		t.Errorf("Lahiri in 2025 = %v, want about 24.2", got)
	}
}

func TestParseSiderealMode(t *testing.T) {
	tests := []struct {
		in      string
		want    SiderealMode
		wantErr bool
	}{
		{"lahiri", ModeLahiri, false},
		{" Fagan_Bradley ", ModeFaganBradley, false},
		{"tropical", ModeTropical, false},
		{"galactic", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSiderealMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSiderealMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownMode) {
				t.Errorf("error = %v, want ErrUnknownMode", err)
			}
			if got != tt.want {
				t.Errorf("ParseSiderealMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAnalytic_LongitudeOutOfRange(t *testing.T) {
	_, err := NewAnalytic().Longitude(JulianDay(2400, 1, 1, 0), Moon)
	if !errors.Is(err, ErrComputation) {
		t.Errorf("Longitude error = %v, want ErrComputation", err)
	}

	_, err = NewAnalytic().Longitude(math.NaN(), Sun)
	if !errors.Is(err, ErrComputation) {
		t.Errorf("Longitude(NaN) error = %v, want ErrComputation", err)
	}
}

func TestCheckJD_ServedYearEdges(t *testing.T) {
	tests := []struct {
		name    string
		jd      float64
		wantErr bool
	}{
		{"first day anchored at UTC+14", JulianDay(FirstYear, 1, 1, 0) - 14.0/24, false},
		{"last day window at UTC-12", JulianDay(LastYear+1, 1, 1, 0) + 12.0/24 + 1, false},
		{"a month before", JulianDay(FirstYear-1, 12, 1, 0), true},
		{"a month after", JulianDay(LastYear+1, 2, 1, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkJD(tt.jd)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkJD(%.2f) error = %v, wantErr %v", tt.jd, err, tt.wantErr)
			}
		})
	}
}

// =============================================================================
// Rise / set
// =============================================================================

var aligarh = GeoPosition{Longitude: 78.07464, Latitude: 27.88145}

// localMidnight returns the UT Julian Day of local midnight at offset hours.
func localMidnight(year, month, day int, offset float64) float64 {
	return JulianDay(year, month, day, 0) - offset/24
}

func clockAt(jd float64, offset float64) time.Time {
	return ToTime(jd).In(time.FixedZone("local", int(offset*3600)))
}

func TestRiseSet_Sun(t *testing.T) {
	engines := map[string]Oracle{
		EngineBuiltin: NewAnalytic(),
		EngineSunrise: NewSunriseEngine(),
	}

	for name, engine := range engines {
		t.Run(name, func(t *testing.T) {
			start := localMidnight(2025, 1, 1, 5.5)

			rise, ok, err := engine.RiseSet(start, Sun, Rise, aligarh, StandardAtmosphere)
			if err != nil || !ok {
				t.Fatalf("sunrise: ok=%v err=%v", ok, err)
			}
			local := clockAt(rise, 5.5)
			if local.Day() != 1 || local.Hour() != 7 || local.Minute() > 20 {
				t.Errorf("sunrise = %s, want about 07:09 on Jan 1", local.Format(time.RFC3339))
			}

			set, ok, err := engine.RiseSet(start, Sun, Set, aligarh, StandardAtmosphere)
			if err != nil || !ok {
				t.Fatalf("sunset: ok=%v err=%v", ok, err)
			}
			local = clockAt(set, 5.5)
			minutes := local.Hour()*60 + local.Minute()
			if minutes < 17*60+20 || minutes > 17*60+45 {
				t.Errorf("sunset = %s, want about 17:33", local.Format(time.RFC3339))
			}
		})
	}
}

func TestRiseSet_PolarNight(t *testing.T) {
	svalbard := GeoPosition{Longitude: 15.65, Latitude: 78.22}
	start := localMidnight(2025, 12, 21, 1)

	_, ok, err := NewAnalytic().RiseSet(start, Sun, Rise, svalbard, StandardAtmosphere)
	if err != nil {
		t.Fatalf("RiseSet error: %v", err)
	}
	if ok {
		t.Error("expected no sunrise during polar night")
	}
}

func TestRiseSet_MoonWithinSearchSpan(t *testing.T) {
	start := localMidnight(2025, 3, 10, 5.5)
	for _, kind := range []EventKind{Rise, Set} {
		event, ok, err := NewAnalytic().RiseSet(start, Moon, kind, aligarh, StandardAtmosphere)
		if err != nil {
			t.Fatalf("moon %s error: %v", kind, err)
		}
		if ok && (event < start || event > start+1) {
			t.Errorf("moon %s at %.5f outside [%.5f, %.5f]", kind, event, start, start+1)
		}
	}
}

func TestRiseSet_InvalidLatitude(t *testing.T) {
	_, _, err := NewAnalytic().RiseSet(J2000, Sun, Rise, GeoPosition{Latitude: 95}, StandardAtmosphere)
	if !errors.Is(err, ErrComputation) {
		t.Errorf("error = %v, want ErrComputation", err)
	}
}

func TestFindCrossing(t *testing.T) {
	start := 2460000.5
	crossing := start + 0.3137

	rising := func(jd float64) float64 { return jd - crossing }
	got, ok := findCrossing(rising, start, start+1, Rise, 49, riseSetTolerance)
	if !ok {
		t.Fatal("expected a rising crossing")
	}
	if math.Abs(got-crossing) > riseSetTolerance {
		t.Errorf("crossing = %.7f, want %.7f", got, crossing)
	}

	if _, ok := findCrossing(rising, start, start+1, Set, 49, riseSetTolerance); ok {
		t.Error("found a setting crossing in a rising function")
	}
}

// =============================================================================
// Session
// =============================================================================

type fixedOracle struct {
	lon float64
	err error
}

func (f fixedOracle) Longitude(float64, Body) (float64, error) { return f.lon, f.err }

func (f fixedOracle) RiseSet(jd float64, _ Body, _ EventKind, _ GeoPosition, _ Atmosphere) (float64, bool, error) {
	return jd + 0.25, true, f.err
}

func TestSession_BodyLongitude(t *testing.T) {
	s, err := NewSession(fixedOracle{lon: 10}, Config{Mode: ModeLahiri})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	got, err := s.BodyLongitude(J2000, Moon)
	if err != nil {
		t.Fatalf("BodyLongitude: %v", err)
	}
	if want := 360 + 10 - 23.857092; math.Abs(got-want) > 1e-9 {
		t.Errorf("BodyLongitude = %v, want %v", got, want)
	}
}

func TestSession_PropagatesOracleErrors(t *testing.T) {
	s, err := NewSession(fixedOracle{err: ErrComputation}, Config{})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.Mode() != ModeLahiri {
		t.Errorf("default mode = %q, want lahiri", s.Mode())
	}

	if _, err := s.BodyLongitude(J2000, Sun); !errors.Is(err, ErrComputation) {
		t.Errorf("BodyLongitude error = %v, want ErrComputation", err)
	}
	if _, _, err := s.RiseTransit(J2000, Sun, Rise, aligarh, StandardAtmosphere); !errors.Is(err, ErrComputation) {
		t.Errorf("RiseTransit error = %v, want ErrComputation", err)
	}
}

func TestNewSession_Validation(t *testing.T) {
	if _, err := NewSession(nil, Config{}); err == nil {
		t.Error("expected error for nil oracle")
	}
	if _, err := NewSession(NewAnalytic(), Config{Mode: "sayana"}); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("error = %v, want ErrUnknownMode", err)
	}
	if _, err := NewSession(NewAnalytic(), Config{DataPath: "/nonexistent/ephe"}); err == nil {
		t.Error("expected error for missing data path")
	}
	if _, err := NewSession(NewAnalytic(), Config{DataPath: t.TempDir()}); err != nil {
		t.Errorf("unexpected error for existing data path: %v", err)
	}
}

func TestOpen(t *testing.T) {
	for _, name := range []string{"", EngineBuiltin, EngineSunrise} {
		if _, err := Open(name); err != nil {
			t.Errorf("Open(%q) error: %v", name, err)
		}
	}
	if _, err := Open("swiss"); !errors.Is(err, ErrUnknownEngine) {
		t.Errorf("Open(swiss) error = %v, want ErrUnknownEngine", err)
	}
}
