package panchanga

import (
	"errors"
	"testing"
	"time"
)

var ist = time.FixedZone("UTC+05:30", 5*3600+1800)

func at(hour, min int) time.Time {
	return time.Date(2025, 1, 5, hour, min, 0, 0, ist) // a Sunday
}

func TestKalamRules(t *testing.T) {
	sunrise, sunset := at(6, 0), at(18, 0)

	tests := []struct {
		name      string
		rule      KalamRule
		weekday   time.Weekday
		wantStart time.Time
	}{
		{"rahu sunday", RahuKalam, time.Sunday, at(16, 30)},
		{"rahu monday", RahuKalam, time.Monday, at(7, 30)},
		{"rahu saturday", RahuKalam, time.Saturday, at(9, 0)},
		{"gulika sunday", GulikaKalam, time.Sunday, at(15, 0)},
		{"gulika saturday", GulikaKalam, time.Saturday, at(6, 0)},
		{"yamaganda sunday", Yamaganda, time.Sunday, at(12, 0)},
		{"yamaganda thursday", Yamaganda, time.Thursday, at(6, 0)},
		{"yamaganda friday", Yamaganda, time.Friday, at(15, 0)},
		{"yamaganda saturday", Yamaganda, time.Saturday, at(13, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := tt.rule.Span(sunrise, sunset, tt.weekday)
			if err != nil {
				t.Fatalf("Span: %v", err)
			}
			if !iv.Start.Equal(tt.wantStart) {
				t.Errorf("start = %s, want %s", iv.Start.Format(time.TimeOnly), tt.wantStart.Format(time.TimeOnly))
			}
			if iv.Duration() != 90*time.Minute {
				t.Errorf("duration = %s, want 1h30m", iv.Duration())
			}
			if iv.Label != tt.rule.Name {
				t.Errorf("label = %q, want %q", iv.Label, tt.rule.Name)
			}
		})
	}
}

func TestKalamSegmentsAreDistinctPerRule(t *testing.T) {
	for _, rule := range []KalamRule{RahuKalam, GulikaKalam, Yamaganda} {
		seen := make(map[int]bool)
		for _, seg := range rule.Segments {
			if seg < 1 || seg > 8 {
				t.Errorf("%s: segment %d out of range", rule.Name, seg)
			}
			if seen[seg] {
				t.Errorf("%s: segment %d used twice", rule.Name, seg)
			}
			seen[seg] = true
		}
	}
}

func TestDayHoras(t *testing.T) {
	horas, err := DayHoras(at(6, 0), at(18, 0), time.Sunday)
	if err != nil {
		t.Fatalf("DayHoras: %v", err)
	}

	want := []string{
		"Sun", "Venus", "Mercury", "Moon", "Saturn", "Jupiter",
		"Mars", "Sun", "Venus", "Mercury", "Moon", "Saturn",
	}
	if len(horas) != len(want) {
		t.Fatalf("got %d horas, want %d", len(horas), len(want))
	}
	for i, h := range horas {
		if h.Label != want[i] {
			t.Errorf("hora %d = %s, want %s", i, h.Label, want[i])
		}
		if h.Duration() != time.Hour {
			t.Errorf("hora %d lasts %s, want 1h", i, h.Duration())
		}
	}
	assertContiguous(t, horas, at(6, 0), at(18, 0))
}

func TestDayHoras_FirstHoraIsWeekdayRuler(t *testing.T) {
	rulers := map[time.Weekday]string{
		time.Sunday:    "Sun",
		time.Monday:    "Moon",
		time.Tuesday:   "Mars",
		time.Wednesday: "Mercury",
		time.Thursday:  "Jupiter",
		time.Friday:    "Venus",
		time.Saturday:  "Saturn",
	}
	for wd, ruler := range rulers {
		horas, err := DayHoras(at(6, 0), at(18, 0), wd)
		if err != nil {
			t.Fatalf("DayHoras(%s): %v", wd, err)
		}
		if horas[0].Label != ruler {
			t.Errorf("%s first hora = %s, want %s", wd, horas[0].Label, ruler)
		}
	}
}

func TestNightHoras_ContinueDaySequence(t *testing.T) {
	sunset := at(18, 0)
	next := at(6, 0).AddDate(0, 0, 1)

	day, err := DayHoras(at(6, 0), sunset, time.Sunday)
	if err != nil {
		t.Fatalf("DayHoras: %v", err)
	}
	night, err := NightHoras(sunset, next, time.Sunday)
	if err != nil {
		t.Fatalf("NightHoras: %v", err)
	}

	if night[0].Label != "Jupiter" {
		t.Errorf("first night hora = %s, want Jupiter", night[0].Label)
	}
	// the 24 horas run in strict sequence and the next day opens with Monday's ruler
	all := append(day, night...)
	for i := 1; i < len(all); i++ {
		prev := indexOf(horaSequence, all[i-1].Label)
		if got := indexOf(horaSequence, all[i].Label); got != (prev+1)%len(horaSequence) {
			t.Errorf("hora %d %s does not follow %s", i, all[i].Label, all[i-1].Label)
		}
	}
	if following := horaSequence[(indexOf(horaSequence, night[11].Label)+1)%7]; following != "Moon" {
		t.Errorf("hora after the night = %s, want Moon", following)
	}
	assertContiguous(t, night, sunset, next)
}

func TestAbhijit(t *testing.T) {
	tests := []struct {
		name    string
		sunrise time.Time
		sunset  time.Time
		wantOK  bool
	}{
		{"twelve hour day", at(6, 0), at(18, 0), true},
		{"exactly eight hours", at(8, 0), at(16, 0), false},
		{"just over eight hours", at(8, 0), at(16, 0).Add(time.Second), true},
		{"short winter day", at(9, 0), at(15, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, ok, err := Abhijit(tt.sunrise, tt.sunset)
			if err != nil {
				t.Fatalf("Abhijit: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			day := tt.sunset.Sub(tt.sunrise)
			noon := tt.sunrise.Add(day / 2)
			if got := iv.Start.Add(iv.Duration() / 2); !got.Equal(noon) {
				t.Errorf("midpoint = %s, want %s", got, noon)
			}
			if got, want := iv.Duration(), day/15; got-want > time.Microsecond || want-got > time.Microsecond {
				t.Errorf("duration = %s, want %s", got, want)
			}
		})
	}
}

func TestAbhijit_TwelveHourDay(t *testing.T) {
	iv, ok, err := Abhijit(at(6, 0), at(18, 0))
	if err != nil || !ok {
		t.Fatalf("Abhijit: ok=%v err=%v", ok, err)
	}
	if !iv.Start.Equal(at(11, 36)) || !iv.End.Equal(at(12, 24)) {
		t.Errorf("abhijit = %s..%s, want 11:36..12:24",
			iv.Start.Format(time.TimeOnly), iv.End.Format(time.TimeOnly))
	}
}

func TestChogadiya(t *testing.T) {
	sunrise, sunset := at(6, 7), at(17, 41)
	next := at(6, 8).AddDate(0, 0, 1)

	day, err := DayChogadiya(sunrise, sunset)
	if err != nil {
		t.Fatalf("DayChogadiya: %v", err)
	}
	night, err := NightChogadiya(sunset, next)
	if err != nil {
		t.Fatalf("NightChogadiya: %v", err)
	}

	if len(day) != 8 || len(night) != 8 {
		t.Fatalf("got %d day and %d night blocks, want 8 each", len(day), len(night))
	}
	assertContiguous(t, day, sunrise, sunset)
	assertContiguous(t, night, sunset, next)

	if day[0].Label != "Udveg" || night[0].Label != "Shubh" {
		t.Errorf("first blocks = %s, %s", day[0].Label, night[0].Label)
	}
}

func TestSpans_DegenerateWindow(t *testing.T) {
	rise := at(6, 0)
	checks := map[string]func() error{
		"kalam":           func() error { _, err := RahuKalam.Span(rise, rise, time.Sunday); return err },
		"day hora":        func() error { _, err := DayHoras(rise, rise.Add(-time.Hour), time.Sunday); return err },
		"night hora":      func() error { _, err := NightHoras(rise, rise, time.Sunday); return err },
		"abhijit":         func() error { _, _, err := Abhijit(rise, rise); return err },
		"day chogadiya":   func() error { _, err := DayChogadiya(rise, rise); return err },
		"night chogadiya": func() error { _, err := NightChogadiya(rise, rise); return err },
	}

	for name, check := range checks {
		if err := check(); !errors.Is(err, ErrInvalidWindow) {
			t.Errorf("%s: error = %v, want ErrInvalidWindow", name, err)
		}
	}
}

func TestDivide_LastEndsExactly(t *testing.T) {
	start := at(6, 0)
	end := start.Add(11*time.Hour + 7*time.Nanosecond)
	parts := divide(start, end, 12, func(int) string { return "x" })
	assertContiguous(t, parts, start, end)
}

// assertContiguous checks that ivs tile [start, end) without gaps.
func assertContiguous(t *testing.T, ivs []Interval, start, end time.Time) {
	t.Helper()

	if !ivs[0].Start.Equal(start) {
		t.Errorf("first interval starts %s, want %s", ivs[0].Start, start)
	}
	if last := ivs[len(ivs)-1]; !last.End.Equal(end) {
		t.Errorf("last interval ends %s, want %s", last.End, end)
	}
	for i := 1; i < len(ivs); i++ {
		if !ivs[i].Start.Equal(ivs[i-1].End) {
			t.Errorf("interval %d starts %s, previous ends %s", i, ivs[i].Start, ivs[i-1].End)
		}
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
