package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/zapponejosh/panchanga-api/internal/panchanga"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgHiBlack)
	inauspicious = color.New(color.FgRed)
	auspicious   = color.New(color.FgGreen)
	missingColor = color.New(color.FgYellow)
)

// chogadiyaColor marks the good and bad chogadiya names.
func chogadiyaColor(name string) *color.Color {
	switch name {
	case "Amrit", "Shubh", "Laabh":
		return auspicious
	case "Rog", "Kaala", "Udveg":
		return inauspicious
	default:
		return color.New(color.Reset)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeDayText renders one record for a terminal.
func writeDayText(w io.Writer, rec panchanga.Record) {
	headingColor.Fprintf(w, "%s %s  %s (%s)\n", rec.Weekday, rec.Date, rec.Location, rec.Zone)

	field := func(name, value string) {
		labelColor.Fprintf(w, "  %-12s", name)
		fmt.Fprintln(w, value)
	}
	event := func(name string, v *string) {
		if v == nil {
			labelColor.Fprintf(w, "  %-12s", name)
			missingColor.Fprintln(w, "does not occur")
			return
		}
		field(name, *v)
	}

	event("Sunrise", rec.Sunrise)
	event("Sunset", rec.Sunset)
	event("Moonrise", rec.Moonrise)
	event("Moonset", rec.Moonset)
	if rec.SunSign != "" {
		field("Sun sign", rec.SunSign)
	}

	for _, c := range []struct {
		name string
		ivs  []panchanga.IntervalRecord
	}{
		{"Tithi", rec.Tithi},
		{"Nakshatra", rec.Nakshatra},
		{"Yoga", rec.Yoga},
		{"Karana", rec.Karana},
		{"Moon sign", rec.MoonSign},
	} {
		for i, iv := range c.ivs {
			name := c.name
			if i > 0 {
				name = ""
			}
			field(name, fmt.Sprintf("%-22s %s - %s", iv.Label, iv.Start, iv.End))
		}
	}

	for _, p := range []struct {
		name string
		iv   *panchanga.IntervalRecord
		c    *color.Color
	}{
		{"Rahu Kalam", rec.RahuKalam, inauspicious},
		{"Gulika", rec.GulikaKalam, inauspicious},
		{"Yamaganda", rec.Yamaganda, inauspicious},
		{"Abhijit", rec.Abhijit, auspicious},
	} {
		if p.iv == nil {
			continue
		}
		labelColor.Fprintf(w, "  %-12s", p.name)
		p.c.Fprintf(w, "%s - %s\n", p.iv.Start, p.iv.End)
	}

	if len(rec.DayHoras) > 0 {
		field("Day horas", labels(rec.DayHoras))
	}
	if len(rec.NightHoras) > 0 {
		field("Night horas", labels(rec.NightHoras))
	}
	for _, c := range []struct {
		name string
		ivs  []panchanga.IntervalRecord
	}{
		{"Chogadiya", rec.DayChogadiya},
		{"Night", rec.NightChogadiya},
	} {
		if len(c.ivs) == 0 {
			continue
		}
		labelColor.Fprintf(w, "  %-12s", c.name)
		for i, iv := range c.ivs {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			chogadiyaColor(iv.Label).Fprintf(w, "%s@%s", iv.Label, iv.Start)
		}
		fmt.Fprintln(w)
	}

	if len(rec.Skipped) > 0 {
		labelColor.Fprintf(w, "  %-12s", "Skipped")
		missingColor.Fprintln(w, strings.Join(rec.Skipped, ", "))
	}
}

// writeYearText renders one line per date.
func writeYearText(w io.Writer, recs []panchanga.Record, failed []panchanga.Failure) {
	for _, rec := range recs {
		fmt.Fprintf(w, "%s %-9s ", rec.Date, rec.Weekday)
		fmt.Fprintf(w, "%-8s %-8s ", orDash(rec.Sunrise), orDash(rec.Sunset))
		fmt.Fprintf(w, "%-22s %-18s", first(rec.Tithi), first(rec.Nakshatra))
		if rec.RahuKalam != nil {
			inauspicious.Fprintf(w, " rahu %s-%s", rec.RahuKalam.Start, rec.RahuKalam.End)
		}
		if len(rec.Skipped) > 0 {
			missingColor.Fprintf(w, " skipped: %s", strings.Join(rec.Skipped, ","))
		}
		fmt.Fprintln(w)
	}
	for _, f := range failed {
		inauspicious.Fprintf(w, "%s FAILED %s\n", f.Date, f.Error)
	}
}

// csvHeader is the column order of writeYearCSV. Multi-interval columns hold
// "Label@HH:mm:ss" entries, one per interval, separated by ';'.
var csvHeader = []string{
	"date", "weekday", "sunrise", "sunset", "moonrise", "moonset",
	"tithi", "nakshatra", "yoga", "karana", "sun_sign", "moon_sign",
	"rahu_kalam", "gulika_kalam", "yamaganda", "abhijit", "skipped",
}

// writeYearCSV writes one row per record.
func writeYearCSV(w io.Writer, recs []panchanga.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range recs {
		row := []string{
			rec.Date, rec.Weekday,
			orEmpty(rec.Sunrise), orEmpty(rec.Sunset), orEmpty(rec.Moonrise), orEmpty(rec.Moonset),
			joinIntervals(rec.Tithi), joinIntervals(rec.Nakshatra), joinIntervals(rec.Yoga), joinIntervals(rec.Karana),
			rec.SunSign, joinIntervals(rec.MoonSign),
			span(rec.RahuKalam), span(rec.GulikaKalam), span(rec.Yamaganda), span(rec.Abhijit),
			strings.Join(rec.Skipped, ";"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func joinIntervals(ivs []panchanga.IntervalRecord) string {
	parts := make([]string, 0, len(ivs))
	for _, iv := range ivs {
		parts = append(parts, iv.Label+"@"+iv.Start)
	}
	return strings.Join(parts, ";")
}

func labels(ivs []panchanga.IntervalRecord) string {
	parts := make([]string, 0, len(ivs))
	for _, iv := range ivs {
		parts = append(parts, iv.Label)
	}
	return strings.Join(parts, " ")
}

func span(iv *panchanga.IntervalRecord) string {
	if iv == nil {
		return ""
	}
	return iv.Start + "-" + iv.End
}

func first(ivs []panchanga.IntervalRecord) string {
	if len(ivs) == 0 {
		return "-"
	}
	return ivs[0].Label
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
