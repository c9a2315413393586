package panchanga

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zapponejosh/panchanga-api/internal/calendar"
)

// Source is everything the engine needs from the ephemeris.
// *ephemeris.Session satisfies it.
type Source interface {
	LongitudeSource
	RiseSetSource
}

// Components listed in Day.Skipped when an event they depend on did not occur.
const (
	ComponentCycles         = "cycles"
	ComponentMoonSign       = "moon_sign"
	ComponentDayPeriods     = "day_periods"
	ComponentNightHoras     = "night_horas"
	ComponentNightChogadiya = "night_chogadiya"
)

// Day is the computed panchanga for one calendar date.
type Day struct {
	Date     time.Time // local midnight
	Location Location

	Sunrise     Event
	Sunset      Event
	NextSunrise Event
	Moonrise    Event
	Moonset     Event

	Tithi     []Interval
	Nakshatra []Interval
	Yoga      []Interval
	Karana    []Interval

	SunSign  string
	MoonSign []Interval

	RahuKalam   *Interval
	GulikaKalam *Interval
	Yamaganda   *Interval
	Abhijit     *Interval

	DayHoras       []Interval
	NightHoras     []Interval
	DayChogadiya   []Interval
	NightChogadiya []Interval

	Skipped []string
}

// Weekday returns the day of the week of the date.
func (d *Day) Weekday() time.Weekday { return d.Date.Weekday() }

// EventTime returns e in the day's local zone.
func (d *Day) EventTime(e Event) (time.Time, bool) {
	return e.Time(d.Date.Location())
}

// Engine assembles Day records for a fixed location.
type Engine struct {
	src     Source
	loc     Location
	zone    *time.Location
	windows *WindowProvider
	logger  *slog.Logger

	fine   Segmenter
	coarse Segmenter
}

// NewEngine returns an engine computing calendars for loc.
func NewEngine(src Source, loc Location, logger *slog.Logger) (*Engine, error) {
	if src == nil {
		return nil, errors.New("ephemeris source is required")
	}
	if err := loc.Validate(); err != nil {
		return nil, fmt.Errorf("location %q: %w", loc.Name, err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		src:     src,
		loc:     loc,
		zone:    loc.Zone(),
		windows: NewWindowProvider(src, loc),
		logger:  logger.With(slog.String("location", loc.Name)),
		fine:    FineSegmenter,
		coarse:  CoarseSegmenter,
	}, nil
}

// Location returns the engine's observer location.
func (e *Engine) Location() Location { return e.loc }

// Zone returns the engine's fixed-offset zone.
func (e *Engine) Zone() *time.Location { return e.zone }

// Windows returns the engine's window provider.
func (e *Engine) Windows() *WindowProvider { return e.windows }

// Day computes the panchanga for the calendar date of date. Components whose
// events did not occur are omitted and named in Day.Skipped. Any oracle or
// window error fails the whole date.
func (e *Engine) Day(ctx context.Context, date time.Time) (*Day, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w, err := e.windows.DayWindow(date)
	if err != nil {
		return nil, fmt.Errorf("day window: %w", err)
	}
	moonrise, err := e.windows.Moonrise(w.Date)
	if err != nil {
		return nil, fmt.Errorf("moonrise: %w", err)
	}
	moonset, err := e.windows.Moonset(w.Date)
	if err != nil {
		return nil, fmt.Errorf("moonset: %w", err)
	}

	day := &Day{
		Date:        w.Date,
		Location:    e.loc,
		Sunrise:     w.Sunrise,
		Sunset:      w.Sunset,
		NextSunrise: w.NextSunrise,
		Moonrise:    moonrise,
		Moonset:     moonset,
	}

	if err := e.cycles(ctx, day); err != nil {
		return nil, err
	}
	if err := e.dayPeriods(ctx, day); err != nil {
		return nil, err
	}

	return day, nil
}

// cycles segments sunrise to next sunrise into the four lunar cycles.
func (e *Engine) cycles(ctx context.Context, day *Day) error {
	rise, okRise := day.Sunrise.JulianDay()
	next, okNext := day.NextSunrise.JulianDay()
	if !okRise || !okNext {
		e.skip(ctx, day, ComponentCycles)
		return nil
	}

	w := Window{Start: rise, End: next}
	runs := []struct {
		dst     *[]Interval
		feature Feature
		table   *Table
		seg     Segmenter
	}{
		{&day.Tithi, Elongation(e.src), Tithis, e.fine},
		{&day.Nakshatra, MoonLongitude(e.src), Nakshatras, e.fine},
		{&day.Yoga, LuniSolarSum(e.src), Yogas, e.fine},
		{&day.Karana, Elongation(e.src), Karanas, e.coarse},
	}

	for _, run := range runs {
		spans, err := run.seg.Segment(w, run.feature, run.table)
		if err != nil {
			return fmt.Errorf("segment %s: %w", run.table.Name, err)
		}
		*run.dst = e.intervals(spans)
	}
	return nil
}

// dayPeriods computes the sun and moon signs and the fixed-fraction periods.
// The sun sign is read at sunrise, the instant the civil day begins.
func (e *Engine) dayPeriods(ctx context.Context, day *Day) error {
	sunrise, okRise := day.EventTime(day.Sunrise)
	sunset, okSet := day.EventTime(day.Sunset)
	if !okRise || !okSet {
		e.skip(ctx, day, ComponentMoonSign, ComponentDayPeriods, ComponentNightHoras, ComponentNightChogadiya)
		return nil
	}
	weekday := day.Weekday()

	riseJD, _ := day.Sunrise.JulianDay()
	setJD, _ := day.Sunset.JulianDay()

	sunLon, err := SunLongitude(e.src)(riseJD)
	if err != nil {
		return fmt.Errorf("sun sign: %w", err)
	}
	day.SunSign = Rashis.Label(Rashis.Classify(sunLon))

	if setJD > riseJD {
		spans, err := e.coarse.Segment(Window{Start: riseJD, End: setJD}, MoonLongitude(e.src), Rashis)
		if err != nil {
			return fmt.Errorf("segment moon sign: %w", err)
		}
		day.MoonSign = e.intervals(spans)
	}

	for _, k := range []struct {
		rule KalamRule
		dst  **Interval
	}{
		{RahuKalam, &day.RahuKalam},
		{GulikaKalam, &day.GulikaKalam},
		{Yamaganda, &day.Yamaganda},
	} {
		iv, err := k.rule.Span(sunrise, sunset, weekday)
		if err != nil {
			return err
		}
		*k.dst = &iv
	}

	abhijit, ok, err := Abhijit(sunrise, sunset)
	if err != nil {
		return err
	}
	if ok {
		day.Abhijit = &abhijit
	}

	if day.DayHoras, err = DayHoras(sunrise, sunset, weekday); err != nil {
		return err
	}
	if day.DayChogadiya, err = DayChogadiya(sunrise, sunset); err != nil {
		return err
	}

	nightEnd, okNext := day.EventTime(day.NextSunrise)
	if okNext {
		if day.NightHoras, err = NightHoras(sunset, nightEnd, weekday); err != nil {
			return err
		}
	} else {
		e.skip(ctx, day, ComponentNightHoras)
		// without a next sunrise the night is the rest of a 24-hour day
		nightEnd = sunset.Add(24*time.Hour - sunset.Sub(sunrise))
	}
	if day.NightChogadiya, err = NightChogadiya(sunset, nightEnd); err != nil {
		return err
	}

	return nil
}

func (e *Engine) skip(ctx context.Context, day *Day, components ...string) {
	day.Skipped = append(day.Skipped, components...)
	e.logger.WarnContext(ctx, "event did not occur, skipping components",
		slog.String("date", calendar.FormatDate(day.Date)),
		slog.Any("components", components),
	)
}

// intervals converts spans to local-time intervals.
func (e *Engine) intervals(spans []Span) []Interval {
	out := make([]Interval, len(spans))
	for i, s := range spans {
		out[i] = Interval{
			Label: s.Label,
			Start: toLocal(s.Start, e.zone),
			End:   toLocal(s.End, e.zone),
		}
	}
	return out
}

func toLocal(jd float64, loc *time.Location) time.Time {
	t, _ := Occurred(jd).Time(loc)
	return t
}
