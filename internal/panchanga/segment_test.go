package panchanga

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/zapponejosh/panchanga-api/internal/ephemeris"
)

// testStart is 2025-01-01 00:00 UT.
var testStart = ephemeris.JulianDay(2025, 1, 1, 0)

const secondInDays = 1.0 / 86400

// linear returns a feature advancing rate degrees per day from origin at testStart.
func linear(origin, rate float64) Feature {
	return func(jd float64) (float64, error) {
		return ephemeris.Normalize360(origin + rate*(jd-testStart)), nil
	}
}

// assertCoverage checks that spans start and end at the window edges, with
// gaps no larger than one step and no repeated adjacent labels.
func assertCoverage(t *testing.T, spans []Span, w Window, step time.Duration) {
	t.Helper()

	if len(spans) == 0 {
		t.Fatal("no spans")
	}
	if spans[0].Start != w.Start {
		t.Errorf("first span starts at %.9f, want %.9f", spans[0].Start, w.Start)
	}
	if last := spans[len(spans)-1]; last.End != w.End {
		t.Errorf("last span ends at %.9f, want %.9f", last.End, w.End)
	}

	maxGap := step.Seconds()*secondInDays + 1e-9
	for i, s := range spans {
		if !(s.Start < s.End) {
			t.Errorf("span %d (%s) is empty: %.9f..%.9f", i, s.Label, s.Start, s.End)
		}
		if i == 0 {
			continue
		}
		gap := s.Start - spans[i-1].End
		if gap < 0 || gap > maxGap {
			t.Errorf("gap between span %d and %d = %.3f s", i-1, i, gap/secondInDays)
		}
		if s.Index == spans[i-1].Index {
			t.Errorf("spans %d and %d share label %s", i-1, i, s.Label)
		}
	}
}

func TestSegment_BisectionConvergence(t *testing.T) {
	// 11° advancing 12°/day crosses the 12° tithi boundary two hours in.
	crossing := testStart + 1.0/12
	w := Window{Start: testStart, End: testStart + 1}

	spans, err := CoarseSegmenter.Segment(w, linear(11, 12), Tithis)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2: %+v", len(spans), spans)
	}
	if spans[0].Label != "Shukla Pratipada" || spans[1].Label != "Shukla Dwitiya" {
		t.Errorf("labels = %q, %q", spans[0].Label, spans[1].Label)
	}

	if diff := math.Abs(spans[0].End-crossing) / secondInDays; diff > 1 {
		t.Errorf("boundary off by %.4f s, want within 1 s", diff)
	}
	assertCoverage(t, spans, w, CoarseSegmenter.Step)
}

func TestSegment_NakshatraThroughAbhijit(t *testing.T) {
	w := Window{Start: testStart, End: testStart + 1}

	spans, err := FineSegmenter.Segment(w, linear(270, 13.176), Nakshatras)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}

	want := []string{"Uttara Ashadha", "Abhijit", "Shravana"}
	if len(spans) != len(want) {
		t.Fatalf("got %d spans, want %d: %+v", len(spans), len(want), spans)
	}
	for i, label := range want {
		if spans[i].Label != label {
			t.Errorf("span %d = %q, want %q", i, spans[i].Label, label)
		}
	}

	entry := testStart + (abhijitStart-270)/13.176
	if diff := math.Abs(spans[1].Start-entry) / secondInDays; diff > 1 {
		t.Errorf("abhijit starts %.4f s from expected", diff)
	}
	assertCoverage(t, spans, w, FineSegmenter.Step)
}

func TestSegment_WrapAround(t *testing.T) {
	// elongation passes 360° into the next month
	w := Window{Start: testStart, End: testStart + 1}

	spans, err := CoarseSegmenter.Segment(w, linear(352, 16), Karanas)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}

	want := []string{"Chatushpada", "Naga", "Kimstughna", "Bava"}
	if len(spans) != len(want) {
		t.Fatalf("got %d spans, want %d: %+v", len(spans), len(want), spans)
	}
	for i, label := range want {
		if spans[i].Label != label {
			t.Errorf("span %d = %q, want %q", i, spans[i].Label, label)
		}
	}
	assertCoverage(t, spans, w, CoarseSegmenter.Step)
}

func TestSegment_NoChange(t *testing.T) {
	w := Window{Start: testStart, End: testStart + 0.5}

	spans, err := FineSegmenter.Segment(w, linear(100, 1), Yogas)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	assertCoverage(t, spans, w, FineSegmenter.Step)
}

func TestSegment_InvalidWindow(t *testing.T) {
	tests := []struct {
		name string
		w    Window
	}{
		{"empty", Window{Start: testStart, End: testStart}},
		{"reversed", Window{Start: testStart + 1, End: testStart}},
		{"nan", Window{Start: math.NaN(), End: testStart}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FineSegmenter.Segment(tt.w, linear(0, 12), Tithis)
			if !errors.Is(err, ErrInvalidWindow) {
				t.Errorf("error = %v, want ErrInvalidWindow", err)
			}
		})
	}
}

func TestSegment_InvalidSegmenter(t *testing.T) {
	w := Window{Start: testStart, End: testStart + 1}
	for _, s := range []Segmenter{{}, {Iterations: 30}, {Step: time.Second}} {
		if _, err := s.Segment(w, linear(0, 12), Tithis); !errors.Is(err, ErrInvalidSegmenter) {
			t.Errorf("Segmenter%+v error = %v, want ErrInvalidSegmenter", s, err)
		}
	}
}

func TestSegment_PropagatesFeatureError(t *testing.T) {
	errBoom := errors.New("ephemeris file missing")
	calls := 0
	failing := func(jd float64) (float64, error) {
		calls++
		if calls > 5 {
			return 0, errBoom
		}
		return 10, nil
	}

	w := Window{Start: testStart, End: testStart + 1}
	spans, err := FineSegmenter.Segment(w, failing, Tithis)
	if !errors.Is(err, errBoom) {
		t.Fatalf("error = %v, want %v", err, errBoom)
	}
	if spans != nil {
		t.Errorf("spans = %+v, want nil on failure", spans)
	}
}

func TestFeatures(t *testing.T) {
	src := fakeSource{sunOrigin: 350, moonOrigin: 20}

	tests := []struct {
		name    string
		feature Feature
		want    float64
	}{
		{"moon", MoonLongitude(src), 20},
		{"sun", SunLongitude(src), 350},
		{"elongation wraps", Elongation(src), 30},
		{"sum wraps", LuniSolarSum(src), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.feature(testStart)
			if err != nil {
				t.Fatalf("feature: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
