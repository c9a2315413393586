package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
// Each migration should be idempotent (safe to run multiple times).
var migrationsSQL = map[int]string{
	1: migrationV1ExportSchema,
	2: migrationV2FailuresAndSkips,
}

// migrationV1ExportSchema creates the export tables.
//
// An export run is one invocation of `panchanga export`: a location, an
// ephemeris configuration and a date range. Days belong to a run; intervals
// belong to a day. Clock strings are local HH:mm:ss and are NULL when the
// event did not occur. Interval instants are RFC 3339 with milliseconds.
const migrationV1ExportSchema = `
-- Migration 001: export runs, days and intervals

CREATE TABLE IF NOT EXISTS export_runs (
    -- ULID: sortable by creation time
    id TEXT PRIMARY KEY,

    location TEXT NOT NULL,
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    utc_offset REAL NOT NULL,

    sidereal_mode TEXT NOT NULL,
    engine TEXT NOT NULL,

    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,

    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS days (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,

    date TEXT NOT NULL,
    weekday TEXT NOT NULL,

    sunrise TEXT,
    sunset TEXT,
    moonrise TEXT,
    moonset TEXT,

    sun_sign TEXT NOT NULL DEFAULT '',

    FOREIGN KEY (run_id) REFERENCES export_runs(id) ON DELETE CASCADE,
    UNIQUE (run_id, date)
);

CREATE INDEX IF NOT EXISTS idx_days_run_date
    ON days(run_id, date);

CREATE TABLE IF NOT EXISTS intervals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    day_id INTEGER NOT NULL,

    kind TEXT NOT NULL CHECK (kind IN (
        'tithi',
        'nakshatra',
        'yoga',
        'karana',
        'moon_sign',
        'rahu_kalam',
        'gulika_kalam',
        'yamaganda',
        'abhijit',
        'day_hora',
        'night_hora',
        'day_chogadiya',
        'night_chogadiya'
    )),

    -- order within the day for this kind
    position INTEGER NOT NULL,

    label TEXT NOT NULL,
    start_time TEXT NOT NULL,
    end_time TEXT NOT NULL,

    FOREIGN KEY (day_id) REFERENCES days(id) ON DELETE CASCADE,
    UNIQUE (day_id, kind, position)
);

CREATE INDEX IF NOT EXISTS idx_intervals_day_kind
    ON intervals(day_id, kind);
`

// migrationV2FailuresAndSkips records what an export could not compute:
// whole dates that failed and components skipped because an event did not
// occur.
const migrationV2FailuresAndSkips = `
-- Migration 002: failures and skipped components

CREATE TABLE IF NOT EXISTS run_failures (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    date TEXT NOT NULL,
    error TEXT NOT NULL,

    FOREIGN KEY (run_id) REFERENCES export_runs(id) ON DELETE CASCADE,
    UNIQUE (run_id, date)
);

CREATE TABLE IF NOT EXISTS skipped_components (
    day_id INTEGER NOT NULL,
    component TEXT NOT NULL,

    FOREIGN KEY (day_id) REFERENCES days(id) ON DELETE CASCADE,
    PRIMARY KEY (day_id, component)
);
`
