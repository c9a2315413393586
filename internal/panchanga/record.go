package panchanga

import (
	"time"

	"github.com/zapponejosh/panchanga-api/internal/calendar"
)

// Record is the presentation form of a Day: local HH:mm:ss clock strings
// alongside full timestamps. Events that did not occur are null.
type Record struct {
	Date     string `json:"date"`
	Weekday  string `json:"weekday"`
	Location string `json:"location"`
	Zone     string `json:"zone"`

	Sunrise  *string `json:"sunrise"`
	Sunset   *string `json:"sunset"`
	Moonrise *string `json:"moonrise"`
	Moonset  *string `json:"moonset"`

	Tithi     []IntervalRecord `json:"tithi"`
	Nakshatra []IntervalRecord `json:"nakshatra"`
	Yoga      []IntervalRecord `json:"yoga"`
	Karana    []IntervalRecord `json:"karana"`

	SunSign  string           `json:"sun_sign,omitempty"`
	MoonSign []IntervalRecord `json:"moon_sign"`

	RahuKalam   *IntervalRecord `json:"rahu_kalam"`
	GulikaKalam *IntervalRecord `json:"gulika_kalam"`
	Yamaganda   *IntervalRecord `json:"yamaganda"`
	Abhijit     *IntervalRecord `json:"abhijit"`

	DayHoras       []IntervalRecord `json:"day_horas"`
	NightHoras     []IntervalRecord `json:"night_horas"`
	DayChogadiya   []IntervalRecord `json:"day_chogadiya"`
	NightChogadiya []IntervalRecord `json:"night_chogadiya"`

	Skipped []string `json:"skipped,omitempty"`
}

// IntervalRecord is an Interval with clock strings for display.
type IntervalRecord struct {
	Label     string    `json:"label"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// NewRecord renders d for presentation.
func NewRecord(d *Day) Record {
	zoneName, _ := d.Date.Zone()
	return Record{
		Date:     calendar.FormatDate(d.Date),
		Weekday:  calendar.DayName(d.Date),
		Location: d.Location.Name,
		Zone:     zoneName,

		Sunrise:  clock(d, d.Sunrise),
		Sunset:   clock(d, d.Sunset),
		Moonrise: clock(d, d.Moonrise),
		Moonset:  clock(d, d.Moonset),

		Tithi:     intervalRecords(d.Tithi),
		Nakshatra: intervalRecords(d.Nakshatra),
		Yoga:      intervalRecords(d.Yoga),
		Karana:    intervalRecords(d.Karana),

		SunSign:  d.SunSign,
		MoonSign: intervalRecords(d.MoonSign),

		RahuKalam:   intervalRecord(d.RahuKalam),
		GulikaKalam: intervalRecord(d.GulikaKalam),
		Yamaganda:   intervalRecord(d.Yamaganda),
		Abhijit:     intervalRecord(d.Abhijit),

		DayHoras:       intervalRecords(d.DayHoras),
		NightHoras:     intervalRecords(d.NightHoras),
		DayChogadiya:   intervalRecords(d.DayChogadiya),
		NightChogadiya: intervalRecords(d.NightChogadiya),

		Skipped: d.Skipped,
	}
}

// NewRecords renders each day in order.
func NewRecords(days []*Day) []Record {
	out := make([]Record, 0, len(days))
	for _, d := range days {
		out = append(out, NewRecord(d))
	}
	return out
}

func clock(d *Day, e Event) *string {
	t, ok := d.EventTime(e)
	if !ok {
		return nil
	}
	s := calendar.FormatClock(t)
	return &s
}

func intervalRecord(iv *Interval) *IntervalRecord {
	if iv == nil {
		return nil
	}
	r := toIntervalRecord(*iv)
	return &r
}

func intervalRecords(ivs []Interval) []IntervalRecord {
	out := make([]IntervalRecord, 0, len(ivs))
	for _, iv := range ivs {
		out = append(out, toIntervalRecord(iv))
	}
	return out
}

func toIntervalRecord(iv Interval) IntervalRecord {
	return IntervalRecord{
		Label:     iv.Label,
		Start:     calendar.FormatClock(iv.Start),
		End:       calendar.FormatClock(iv.End),
		StartTime: iv.Start,
		EndTime:   iv.End,
	}
}
