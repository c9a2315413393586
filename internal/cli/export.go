package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/panchanga-api/internal/calendar"
	"github.com/zapponejosh/panchanga-api/internal/database"
)

func init() {
	var year int
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Compute a year and write it to an SQLite file",
		Long: "Computes every date of the year and stores the records, their " +
			"intervals, skipped components and failed dates as one export run.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, year, dbPath)
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year to compute (default: $YEAR)")
	cmd.Flags().StringVarP(&dbPath, "db", "d", "", "SQLite file (default: $DATABASE_PATH)")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, year int, dbPath string) error {
	cfg, engine, log, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}
	year = resolveYear(cfg, year)

	result, err := computeYear(cmd, cfg, engine, log, year)
	if err != nil {
		return err
	}

	db, err := database.Open(database.DefaultConfig(dbPath), log)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if _, err := db.Migrate(ctx); err != nil {
		return err
	}

	loc := engine.Location()
	first, last := calendar.YearBounds(year)
	run := &database.Run{
		Location:     loc.Name,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		UTCOffset:    loc.UTCOffset,
		SiderealMode: cfg.SiderealMode,
		Engine:       cfg.EphemerisEngine,
		StartDate:    calendar.FormatDate(first),
		EndDate:      calendar.FormatDate(last),
	}
	if err := db.CreateRun(ctx, run); err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	if err := db.SaveRange(ctx, run.ID, result); err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}

	summary, err := db.Summarize(ctx, run.ID)
	if err != nil {
		return err
	}
	log.Info("export written",
		slog.String("run_id", run.ID),
		slog.String("path", dbPath),
		slog.Int("days", summary.Days),
		slog.Int("failures", summary.Failures),
	)
	return writeJSON(cmd.OutOrStdout(), summary)
}
