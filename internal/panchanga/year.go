package panchanga

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zapponejosh/panchanga-api/internal/calendar"
)

// Failure records a date whose computation was aborted.
type Failure struct {
	Date  string `json:"date"`
	Error string `json:"error"`
}

// RangeResult holds the days of a range in date order and the dates that failed.
type RangeResult struct {
	Days   []*Day
	Failed []Failure
}

// Range computes every date from start to end inclusive, one after another.
// A failed date is logged and recorded, then the loop moves on. Only
// context cancellation stops the run early.
func (e *Engine) Range(ctx context.Context, start, end time.Time) (*RangeResult, error) {
	start = calendar.DateIn(start, e.zone)
	end = calendar.DateIn(end, e.zone)
	if start.After(end) {
		return nil, errors.New("start date must be before or equal to end date")
	}

	result := &RangeResult{}
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		day, err := e.Day(ctx, current)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			e.logger.WarnContext(ctx, "failed to compute date",
				slog.String("date", calendar.FormatDate(current)),
				slog.Any("error", err),
			)
			result.Failed = append(result.Failed, Failure{
				Date:  calendar.FormatDate(current),
				Error: err.Error(),
			})
			continue
		}
		result.Days = append(result.Days, day)
	}

	return result, nil
}

// Year computes January 1 through December 31 of year.
func (e *Engine) Year(ctx context.Context, year int) (*RangeResult, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("year %d out of range", year)
	}
	start, end := calendar.YearBounds(year)
	return e.Range(ctx, start, end)
}
