package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/zapponejosh/panchanga-api/internal/panchanga"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	// Try RFC3339 format first (with timezone)
	t, err := time.Parse(time.RFC3339, ns.String)
	if err == nil {
		return &t
	}

	// Try SQLite datetime format (no timezone)
	t, err = time.Parse("2006-01-02 15:04:05", ns.String)
	if err == nil {
		return &t
	}

	return nil
}

// nullString converts a nullable column to *string.
func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// NewRunID returns a new time-ordered run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// =============================================================================
// Run Queries
// =============================================================================

// CreateRun inserts a run, assigning a new ID if run.ID is empty.
// Returns ErrDuplicate if the ID already exists.
func (db *DB) CreateRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}

	query := `
		INSERT INTO export_runs (
			id, location, latitude, longitude, utc_offset,
			sidereal_mode, engine, start_date, end_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		run.ID,
		run.Location,
		run.Latitude,
		run.Longitude,
		run.UTCOffset,
		run.SiderealMode,
		run.Engine,
		run.StartDate,
		run.EndDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

// GetRun retrieves a run by ID.
// Returns ErrNotFound if it doesn't exist.
func (db *DB) GetRun(ctx context.Context, id string) (*Run, error) {
	query := `
		SELECT
			id, location, latitude, longitude, utc_offset,
			sidereal_mode, engine, start_date, end_date, created_at
		FROM export_runs
		WHERE id = ?
	`

	run, err := scanRun(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query run: %w", err)
	}
	return run, nil
}

// ListRuns returns all runs, newest first.
func (db *DB) ListRuns(ctx context.Context) ([]Run, error) {
	query := `
		SELECT
			id, location, latitude, longitude, utc_offset,
			sidereal_mode, engine, start_date, end_date, created_at
		FROM export_runs
		ORDER BY id DESC
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// DeleteRun removes a run and everything stored under it.
// Returns ErrNotFound if it doesn't exist.
func (db *DB) DeleteRun(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM export_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var createdAt sql.NullString

	err := row.Scan(
		&run.ID,
		&run.Location,
		&run.Latitude,
		&run.Longitude,
		&run.UTCOffset,
		&run.SiderealMode,
		&run.Engine,
		&run.StartDate,
		&run.EndDate,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if t := parseTimestamp(createdAt); t != nil {
		run.CreatedAt = *t
	}
	return &run, nil
}

// =============================================================================
// Day Queries
// =============================================================================

// SaveRange stores every computed day and failed date of result under runID
// in a single transaction.
func (db *DB) SaveRange(ctx context.Context, runID string, result *panchanga.RangeResult) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		for _, day := range result.Days {
			if _, err := tx.SaveDay(ctx, runID, day); err != nil {
				return err
			}
		}
		for _, f := range result.Failed {
			if err := tx.SaveFailure(ctx, runID, f); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveDay stores one day with its intervals and skipped components.
func (db *DB) SaveDay(ctx context.Context, runID string, day *panchanga.Day) (int64, error) {
	var id int64
	err := db.WithTx(ctx, func(tx *Tx) error {
		var err error
		id, err = tx.SaveDay(ctx, runID, day)
		return err
	})
	return id, err
}

// SaveDay stores one day inside the transaction.
// Returns ErrDuplicate if the run already has this date.
func (tx *Tx) SaveDay(ctx context.Context, runID string, day *panchanga.Day) (int64, error) {
	return saveDay(ctx, tx, runID, day)
}

// SaveFailure records a date the run could not compute.
func (tx *Tx) SaveFailure(ctx context.Context, runID string, f panchanga.Failure) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO run_failures (run_id, date, error) VALUES (?, ?, ?)`,
		runID, f.Date, f.Error,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert failure %s: %w", f.Date, err)
	}
	return nil
}

func saveDay(ctx context.Context, q querier, runID string, day *panchanga.Day) (int64, error) {
	rec := panchanga.NewRecord(day)

	result, err := q.ExecContext(ctx, `
		INSERT INTO days (
			run_id, date, weekday, sunrise, sunset, moonrise, moonset, sun_sign
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		rec.Date,
		rec.Weekday,
		rec.Sunrise,
		rec.Sunset,
		rec.Moonrise,
		rec.Moonset,
		rec.SunSign,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("insert day %s: %w", rec.Date, err)
	}

	dayID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get day id: %w", err)
	}

	for kind, ivs := range dayIntervals(day) {
		for pos, iv := range ivs {
			_, err := q.ExecContext(ctx, `
				INSERT INTO intervals (day_id, kind, position, label, start_time, end_time)
				VALUES (?, ?, ?, ?, ?, ?)
			`,
				dayID,
				kind,
				pos,
				iv.Label,
				iv.Start.Format(instantLayout),
				iv.End.Format(instantLayout),
			)
			if err != nil {
				return 0, fmt.Errorf("insert %s interval %d for %s: %w", kind, pos, rec.Date, err)
			}
		}
	}

	for _, component := range day.Skipped {
		_, err := q.ExecContext(ctx,
			`INSERT OR IGNORE INTO skipped_components (day_id, component) VALUES (?, ?)`,
			dayID, component,
		)
		if err != nil {
			return 0, fmt.Errorf("insert skipped %s for %s: %w", component, rec.Date, err)
		}
	}

	return dayID, nil
}

// dayIntervals groups a day's intervals by storage kind.
func dayIntervals(day *panchanga.Day) map[IntervalKind][]panchanga.Interval {
	out := map[IntervalKind][]panchanga.Interval{
		KindTithi:          day.Tithi,
		KindNakshatra:      day.Nakshatra,
		KindYoga:           day.Yoga,
		KindKarana:         day.Karana,
		KindMoonSign:       day.MoonSign,
		KindDayHora:        day.DayHoras,
		KindNightHora:      day.NightHoras,
		KindDayChogadiya:   day.DayChogadiya,
		KindNightChogadiya: day.NightChogadiya,
	}
	for kind, iv := range map[IntervalKind]*panchanga.Interval{
		KindRahuKalam:   day.RahuKalam,
		KindGulikaKalam: day.GulikaKalam,
		KindYamaganda:   day.Yamaganda,
		KindAbhijit:     day.Abhijit,
	} {
		if iv != nil {
			out[kind] = []panchanga.Interval{*iv}
		}
	}
	return out
}

// GetDay retrieves one exported date of a run.
// Returns ErrNotFound if the run has no such date.
func (db *DB) GetDay(ctx context.Context, runID, date string) (*DayRow, error) {
	query := `
		SELECT id, run_id, date, weekday, sunrise, sunset, moonrise, moonset, sun_sign
		FROM days
		WHERE run_id = ? AND date = ?
	`

	var row DayRow
	var sunrise, sunset, moonrise, moonset sql.NullString
	err := db.QueryRowContext(ctx, query, runID, date).Scan(
		&row.ID,
		&row.RunID,
		&row.Date,
		&row.Weekday,
		&sunrise,
		&sunset,
		&moonrise,
		&moonset,
		&row.SunSign,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query day: %w", err)
	}

	row.Sunrise = nullString(sunrise)
	row.Sunset = nullString(sunset)
	row.Moonrise = nullString(moonrise)
	row.Moonset = nullString(moonset)

	return &row, nil
}

// ListIntervals returns a day's intervals of one kind in order.
func (db *DB) ListIntervals(ctx context.Context, dayID int64, kind IntervalKind) ([]IntervalRow, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid interval kind %q", kind)
	}

	query := `
		SELECT id, day_id, kind, position, label, start_time, end_time
		FROM intervals
		WHERE day_id = ? AND kind = ?
		ORDER BY position ASC
	`

	rows, err := db.QueryContext(ctx, query, dayID, kind)
	if err != nil {
		return nil, fmt.Errorf("query intervals: %w", err)
	}
	defer rows.Close()

	var out []IntervalRow
	for rows.Next() {
		var iv IntervalRow
		var start, end string
		if err := rows.Scan(&iv.ID, &iv.DayID, &iv.Kind, &iv.Position, &iv.Label, &start, &end); err != nil {
			return nil, fmt.Errorf("scan interval: %w", err)
		}
		if iv.Start, err = time.Parse(instantLayout, start); err != nil {
			return nil, fmt.Errorf("parse interval start: %w", err)
		}
		if iv.End, err = time.Parse(instantLayout, end); err != nil {
			return nil, fmt.Errorf("parse interval end: %w", err)
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intervals: %w", err)
	}

	return out, nil
}

// ListSkipped returns the components skipped for a day.
func (db *DB) ListSkipped(ctx context.Context, dayID int64) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT component FROM skipped_components WHERE day_id = ? ORDER BY component`,
		dayID,
	)
	if err != nil {
		return nil, fmt.Errorf("query skipped: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan skipped: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListFailures returns the failed dates of a run in date order.
func (db *DB) ListFailures(ctx context.Context, runID string) ([]FailureRow, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT run_id, date, error FROM run_failures WHERE run_id = ? ORDER BY date`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	var out []FailureRow
	for rows.Next() {
		var f FailureRow
		if err := rows.Scan(&f.RunID, &f.Date, &f.Error); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Summarize counts what a run stored.
// Returns ErrNotFound if the run doesn't exist.
func (db *DB) Summarize(ctx context.Context, runID string) (*RunSummary, error) {
	run, err := db.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM days WHERE run_id = ?),
			(SELECT COUNT(*) FROM intervals i JOIN days d ON d.id = i.day_id WHERE d.run_id = ?),
			(SELECT COUNT(*) FROM run_failures WHERE run_id = ?),
			(SELECT COUNT(*) FROM skipped_components s JOIN days d ON d.id = s.day_id WHERE d.run_id = ?)
	`

	summary := &RunSummary{Run: *run}
	err = db.QueryRowContext(ctx, query, runID, runID, runID, runID).Scan(
		&summary.Days,
		&summary.Intervals,
		&summary.Failures,
		&summary.Skipped,
	)
	if err != nil {
		return nil, fmt.Errorf("summarize run: %w", err)
	}

	return summary, nil
}
