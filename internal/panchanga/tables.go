package panchanga

import (
	"math"

	"github.com/zapponejosh/panchanga-api/internal/ephemeris"
)

// Table partitions [0, 360) into buckets and names each bucket.
type Table struct {
	Name     string
	labels   []string
	classify func(angle float64) int
}

// Classify returns the bucket index of angle. Out-of-range angles are
// wrapped first, and every classifier clamps to its last bucket.
func (t *Table) Classify(angle float64) int {
	return t.classify(ephemeris.Normalize360(angle))
}

// Label returns the name of bucket index, or "" for an unused index.
func (t *Table) Label(index int) string {
	if index < 0 || index >= len(t.labels) {
		return ""
	}
	return t.labels[index]
}

// Len returns the number of addressable indexes.
func (t *Table) Len() int { return len(t.labels) }

const nakshatraWidth = 360.0 / 27

// Abhijit occupies [276.25°, 280.5°) of Moon longitude and shadows the
// regular buckets there.
const (
	AbhijitIndex = 27
	abhijitStart = 276.25
	abhijitEnd   = 280.5
)

// Karana fixed cells at the ends of the lunar month.
const (
	KaranaShakuni     = 57
	KaranaChatushpada = 58
	KaranaNaga        = 59
	KaranaKimstughna  = 60
	karanaLastCyclic  = 55
)

var nakshatraNames = []string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashirsha", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni",
	"Uttara Phalguni", "Hasta", "Chitra", "Swati", "Vishakha", "Anuradha",
	"Jyeshtha", "Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana",
	"Dhanishta", "Shatabhisha", "Purva Bhadrapada", "Uttara Bhadrapada",
	"Revati", "Abhijit",
}

var tithiNames = []string{
	"Shukla Pratipada", "Shukla Dwitiya", "Shukla Tritiya", "Shukla Chaturthi",
	"Shukla Panchami", "Shukla Shashthi", "Shukla Saptami", "Shukla Ashtami",
	"Shukla Navami", "Shukla Dashami", "Shukla Ekadashi", "Shukla Dwadashi",
	"Shukla Trayodashi", "Shukla Chaturdashi", "Purnima",
	"Krishna Pratipada", "Krishna Dwitiya", "Krishna Tritiya", "Krishna Chaturthi",
	"Krishna Panchami", "Krishna Shashthi", "Krishna Saptami", "Krishna Ashtami",
	"Krishna Navami", "Krishna Dashami", "Krishna Ekadashi", "Krishna Dwadashi",
	"Krishna Trayodashi", "Krishna Chaturdashi", "Amavasya",
}

var yogaNames = []string{
	"Vishkambha", "Priti", "Ayushman", "Saubhagya", "Shobhana", "Atiganda",
	"Sukarma", "Dhriti", "Shoola", "Ganda", "Vriddhi", "Dhruva", "Vyaghata",
	"Harshana", "Vajra", "Siddhi", "Vyatipata", "Variyana", "Parigha", "Shiva",
	"Siddha", "Sadhya", "Shubha", "Shukla", "Brahma", "Indra", "Vaidhriti",
}

var karanaCycle = []string{
	"Bava", "Balava", "Kaulava", "Taitila", "Garaja", "Vanija", "Vishti",
}

var rashiNames = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// karanaNames lays out the 56 cyclic cells followed by the fixed ones.
// Index 56 is never produced.
func karanaNames() []string {
	names := make([]string, KaranaKimstughna+1)
	for i := 0; i <= karanaLastCyclic; i++ {
		names[i] = karanaCycle[i%len(karanaCycle)]
	}
	names[KaranaShakuni] = "Shakuni"
	names[KaranaChatushpada] = "Chatushpada"
	names[KaranaNaga] = "Naga"
	names[KaranaKimstughna] = "Kimstughna"
	return names
}

// Label tables for each cycle.
var (
	Nakshatras = &Table{Name: "nakshatra", labels: nakshatraNames, classify: classifyNakshatra}
	Tithis     = &Table{Name: "tithi", labels: tithiNames, classify: classifyTithi}
	Yogas      = &Table{Name: "yoga", labels: yogaNames, classify: classifyYoga}
	Karanas    = &Table{Name: "karana", labels: karanaNames(), classify: classifyKarana}
	Rashis     = &Table{Name: "rashi", labels: rashiNames, classify: classifyRashi}
)

func bucket(angle, width float64, last int) int {
	idx := int(math.Floor(angle / width))
	if idx > last {
		return last
	}
	if idx < 0 {
		return 0
	}
	return idx
}

func classifyNakshatra(angle float64) int {
	if angle >= abhijitStart && angle < abhijitEnd {
		return AbhijitIndex
	}
	return bucket(angle, nakshatraWidth, 26)
}

func classifyTithi(angle float64) int {
	return bucket(angle, 12, 29)
}

func classifyYoga(angle float64) int {
	return bucket(angle, nakshatraWidth, 26)
}

func classifyKarana(angle float64) int {
	switch {
	case angle <= 6:
		return KaranaKimstughna
	case angle > 354:
		return KaranaNaga
	case angle > 348:
		return KaranaChatushpada
	case angle > 342:
		return KaranaShakuni
	}
	return bucket(angle-6, 6, karanaLastCyclic)
}

func classifyRashi(angle float64) int {
	return bucket(angle, 30, 11)
}
