// Package calendar holds the civil-date helpers shared by the engine, the API
// and the CLI: parsing, formatting, weekday names and fixed UTC offsets.
package calendar

import (
	"fmt"
	"math"
	"time"
)

// Layouts used across the API and exports.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

// ParseDateString parses a date string in YYYY-MM-DD format
func ParseDateString(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, dateStr)
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// FormatClock formats a time as HH:mm:ss in its own location.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// DayName returns the day of week name (Sunday, Monday, etc.)
func DayName(date time.Time) string {
	days := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	return days[date.Weekday()]
}

// OffsetName renders a fractional hour offset as "UTC+05:30".
func OffsetName(offsetHours float64) string {
	sign := "+"
	if offsetHours < 0 {
		sign = "-"
	}
	minutes := int(math.Round(math.Abs(offsetHours) * 60))
	return fmt.Sprintf("UTC%s%02d:%02d", sign, minutes/60, minutes%60)
}

// FixedZone returns a location with a constant offset of offsetHours from UTC.
func FixedZone(offsetHours float64) *time.Location {
	seconds := int(math.Round(offsetHours * 3600))
	return time.FixedZone(OffsetName(offsetHours), seconds)
}

// DateIn returns midnight of date's calendar day in loc. The year, month and
// day are taken from date as given, whatever its location.
func DateIn(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// YearBounds returns January 1 and December 31 of year in UTC.
func YearBounds(year int) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// DaysInclusive returns the number of calendar days from start to end,
// counting both. It is zero when end is before start.
func DaysInclusive(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}
