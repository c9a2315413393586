package panchanga

import (
	"errors"
	"fmt"
	"time"
)

// DefaultIterations is the number of bisection steps per boundary. Over a
// 24-hour window it resolves a boundary to well under a millisecond.
const DefaultIterations = 30

// maxSpans bounds the output of one segmentation run.
const maxSpans = 512

var (
	// ErrInvalidWindow is returned for an empty, reversed or degenerate time window.
	ErrInvalidWindow = errors.New("invalid time window")

	// ErrInvalidSegmenter is returned when a Segmenter has no iterations or step.
	ErrInvalidSegmenter = errors.New("invalid segmenter configuration")
)

// Window is a half-open span of UT Julian Days.
type Window struct {
	Start float64
	End   float64
}

// Span is one labeled piece of a segmented window, in UT Julian Days.
type Span struct {
	Index int
	Label string
	Start float64
	End   float64
}

// Segmenter splits a window into labeled spans wherever a feature moves
// into a different bucket of a table.
type Segmenter struct {
	Iterations int           // bisection steps per boundary
	Step       time.Duration // gap between a boundary and the next span's start
}

// Segmenters used by the engine. Moon-driven cycles with closely spaced
// boundaries use millisecond steps.
var (
	FineSegmenter   = Segmenter{Iterations: DefaultIterations, Step: time.Millisecond}
	CoarseSegmenter = Segmenter{Iterations: DefaultIterations, Step: time.Second}
)

// Segment walks w from its start, locating each label change by bisection,
// and returns spans covering the whole window. A failure to evaluate the
// feature aborts the run.
func (s Segmenter) Segment(w Window, f Feature, t *Table) ([]Span, error) {
	if !(w.Start < w.End) {
		return nil, fmt.Errorf("%w: start %.6f is not before end %.6f", ErrInvalidWindow, w.Start, w.End)
	}
	if s.Iterations <= 0 || s.Step <= 0 {
		return nil, fmt.Errorf("%w: iterations=%d step=%s", ErrInvalidSegmenter, s.Iterations, s.Step)
	}

	step := s.Step.Seconds() / 86400
	cursor := w.Start

	index, err := classifyAt(f, t, cursor)
	if err != nil {
		return nil, err
	}

	var spans []Span
	for cursor < w.End {
		if len(spans) == maxSpans {
			return nil, fmt.Errorf("%s: more than %d spans in window", t.Name, maxSpans)
		}

		b, err := s.boundary(f, t, cursor, w.End, index)
		if err != nil {
			return nil, err
		}
		end := b
		if w.End-b < step {
			end = w.End
		}
		spans = append(spans, Span{Index: index, Label: t.Label(index), Start: cursor, End: end})

		cursor = b + step
		if cursor >= w.End {
			break
		}
		if index, err = classifyAt(f, t, cursor); err != nil {
			return nil, err
		}
	}

	return spans, nil
}

// boundary bisects [lo, hi] for the first instant whose bucket differs from
// index. If the bucket never changes it converges on hi.
func (s Segmenter) boundary(f Feature, t *Table, lo, hi float64, index int) (float64, error) {
	for i := 0; i < s.Iterations; i++ {
		mid := (lo + hi) / 2
		got, err := classifyAt(f, t, mid)
		if err != nil {
			return 0, err
		}
		if got == index {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

func classifyAt(f Feature, t *Table, jd float64) (int, error) {
	angle, err := f(jd)
	if err != nil {
		return 0, fmt.Errorf("%s at jd %.6f: %w", t.Name, jd, err)
	}
	return t.Classify(angle), nil
}
