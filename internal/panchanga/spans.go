package panchanga

import (
	"fmt"
	"time"
)

// Interval is a labeled local-time span. Start is inclusive, End exclusive.
type Interval struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the interval length.
func (i Interval) Duration() time.Duration { return i.End.Sub(i.Start) }

// KalamRule picks one of eight equal daytime segments by weekday.
type KalamRule struct {
	Name     string
	Segments [7]int // 1-based segment, indexed by time.Weekday
}

// Kalam rules. Yamaganda uses the traditional table with Friday in the
// seventh segment and Saturday in the sixth.
var (
	RahuKalam   = KalamRule{Name: "Rahu Kalam", Segments: [7]int{8, 2, 7, 5, 6, 4, 3}}
	GulikaKalam = KalamRule{Name: "Gulika Kalam", Segments: [7]int{7, 6, 5, 4, 3, 2, 1}}
	Yamaganda   = KalamRule{Name: "Yamaganda", Segments: [7]int{5, 4, 3, 2, 1, 7, 6}}
)

// Span returns the rule's segment of the sunrise-to-sunset span.
func (r KalamRule) Span(sunrise, sunset time.Time, weekday time.Weekday) (Interval, error) {
	if err := checkSpan(sunrise, sunset); err != nil {
		return Interval{}, fmt.Errorf("%s: %w", r.Name, err)
	}
	segment := r.Segments[weekday]
	parts := divide(sunrise, sunset, 8, func(int) string { return r.Name })
	return parts[segment-1], nil
}

// horaSequence is the descending order of planetary speed the Horas cycle through.
var horaSequence = []string{"Saturn", "Jupiter", "Mars", "Sun", "Venus", "Mercury", "Moon"}

// horaStart is the position in horaSequence of each weekday's ruler.
var horaStart = [7]int{
	time.Sunday:    3, // Sun
	time.Monday:    6, // Moon
	time.Tuesday:   2, // Mars
	time.Wednesday: 5, // Mercury
	time.Thursday:  1, // Jupiter
	time.Friday:    4, // Venus
	time.Saturday:  0, // Saturn
}

// DayHoras divides sunrise to sunset into 12 Horas starting at the weekday's ruler.
func DayHoras(sunrise, sunset time.Time, weekday time.Weekday) ([]Interval, error) {
	if err := checkSpan(sunrise, sunset); err != nil {
		return nil, fmt.Errorf("day hora: %w", err)
	}
	start := horaStart[weekday]
	return divide(sunrise, sunset, 12, func(i int) string {
		return horaSequence[(start+i)%len(horaSequence)]
	}), nil
}

// NightHoras divides sunset to the next sunrise into 12 Horas continuing the
// day's sequence.
func NightHoras(sunset, nextSunrise time.Time, weekday time.Weekday) ([]Interval, error) {
	if err := checkSpan(sunset, nextSunrise); err != nil {
		return nil, fmt.Errorf("night hora: %w", err)
	}
	start := horaStart[weekday] + 12
	return divide(sunset, nextSunrise, 12, func(i int) string {
		return horaSequence[(start+i)%len(horaSequence)]
	}), nil
}

// minAbhijitDay is the day length at or below which Abhijit Muhurtam is not observed.
const minAbhijitDay = 8 * time.Hour

// Abhijit returns the fifteenth of the day centered on local noon, the
// midpoint of sunrise and sunset. ok is false for short days.
func Abhijit(sunrise, sunset time.Time) (Interval, bool, error) {
	if err := checkSpan(sunrise, sunset); err != nil {
		return Interval{}, false, fmt.Errorf("abhijit: %w", err)
	}

	day := sunset.Sub(sunrise)
	if day <= minAbhijitDay {
		return Interval{}, false, nil
	}

	noon := sunrise.Add(day / 2)
	half := day / 30
	iv := Interval{Label: "Abhijit Muhurtam", Start: noon.Add(-half), End: noon.Add(half)}
	if iv.Start.Before(sunrise) || iv.End.After(sunset) {
		return Interval{}, false, nil
	}
	return iv, true, nil
}

var (
	dayChogadiya   = []string{"Udveg", "Chara", "Laabh", "Amrit", "Kaala", "Shubh", "Rog", "Udveg"}
	nightChogadiya = []string{"Shubh", "Chara", "Kaala", "Udveg", "Amrit", "Rog", "Laabh", "Shubh"}
)

// DayChogadiya divides sunrise to sunset into eight named blocks.
func DayChogadiya(sunrise, sunset time.Time) ([]Interval, error) {
	if err := checkSpan(sunrise, sunset); err != nil {
		return nil, fmt.Errorf("day chogadiya: %w", err)
	}
	return divide(sunrise, sunset, 8, func(i int) string { return dayChogadiya[i] }), nil
}

// NightChogadiya divides sunset to nightEnd into eight named blocks.
func NightChogadiya(sunset, nightEnd time.Time) ([]Interval, error) {
	if err := checkSpan(sunset, nightEnd); err != nil {
		return nil, fmt.Errorf("night chogadiya: %w", err)
	}
	return divide(sunset, nightEnd, 8, func(i int) string { return nightChogadiya[i] }), nil
}

func checkSpan(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("%w: %s is not before %s", ErrInvalidWindow,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

// divide splits [start, end) into n equal intervals. The last interval ends
// exactly at end.
func divide(start, end time.Time, n int, label func(i int) string) []Interval {
	span := int64(end.Sub(start))
	out := make([]Interval, n)
	for i := 0; i < n; i++ {
		out[i] = Interval{
			Label: label(i),
			Start: start.Add(time.Duration(span * int64(i) / int64(n))),
			End:   start.Add(time.Duration(span * int64(i+1) / int64(n))),
		}
	}
	return out
}
