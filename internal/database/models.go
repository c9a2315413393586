package database

import (
	"time"
)

// Run is one export: a location and ephemeris configuration over a date range.
type Run struct {
	ID           string    `json:"id"` // ULID
	Location     string    `json:"location"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	UTCOffset    float64   `json:"utc_offset"`
	SiderealMode string    `json:"sidereal_mode"`
	Engine       string    `json:"engine"`
	StartDate    string    `json:"start_date"` // YYYY-MM-DD
	EndDate      string    `json:"end_date"`   // YYYY-MM-DD
	CreatedAt    time.Time `json:"created_at"`
}

// DayRow is one exported date.
type DayRow struct {
	ID       int64   `json:"id"`
	RunID    string  `json:"run_id"`
	Date     string  `json:"date"`
	Weekday  string  `json:"weekday"`
	Sunrise  *string `json:"sunrise"` // nil when the event did not occur
	Sunset   *string `json:"sunset"`
	Moonrise *string `json:"moonrise"`
	Moonset  *string `json:"moonset"`
	SunSign  string  `json:"sun_sign"`
}

// IntervalKind names the series an interval belongs to.
type IntervalKind string

const (
	KindTithi          IntervalKind = "tithi"
	KindNakshatra      IntervalKind = "nakshatra"
	KindYoga           IntervalKind = "yoga"
	KindKarana         IntervalKind = "karana"
	KindMoonSign       IntervalKind = "moon_sign"
	KindRahuKalam      IntervalKind = "rahu_kalam"
	KindGulikaKalam    IntervalKind = "gulika_kalam"
	KindYamaganda      IntervalKind = "yamaganda"
	KindAbhijit        IntervalKind = "abhijit"
	KindDayHora        IntervalKind = "day_hora"
	KindNightHora      IntervalKind = "night_hora"
	KindDayChogadiya   IntervalKind = "day_chogadiya"
	KindNightChogadiya IntervalKind = "night_chogadiya"
)

// ValidIntervalKinds returns all interval kinds in storage order.
func ValidIntervalKinds() []IntervalKind {
	return []IntervalKind{
		KindTithi,
		KindNakshatra,
		KindYoga,
		KindKarana,
		KindMoonSign,
		KindRahuKalam,
		KindGulikaKalam,
		KindYamaganda,
		KindAbhijit,
		KindDayHora,
		KindNightHora,
		KindDayChogadiya,
		KindNightChogadiya,
	}
}

// IsValid checks if the interval kind is valid.
func (k IntervalKind) IsValid() bool {
	for _, valid := range ValidIntervalKinds() {
		if k == valid {
			return true
		}
	}
	return false
}

// IntervalRow is one stored interval.
type IntervalRow struct {
	ID       int64        `json:"id"`
	DayID    int64        `json:"day_id"`
	Kind     IntervalKind `json:"kind"`
	Position int          `json:"position"`
	Label    string       `json:"label"`
	Start    time.Time    `json:"start"`
	End      time.Time    `json:"end"`
}

// FailureRow is a date an export could not compute.
type FailureRow struct {
	RunID string `json:"run_id"`
	Date  string `json:"date"`
	Error string `json:"error"`
}

// RunSummary counts what a run stored.
type RunSummary struct {
	Run       Run `json:"run"`
	Days      int `json:"days"`
	Intervals int `json:"intervals"`
	Failures  int `json:"failures"`
	Skipped   int `json:"skipped"`
}

// instantLayout stores interval instants with millisecond precision.
const instantLayout = "2006-01-02T15:04:05.000Z07:00"
