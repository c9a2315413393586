package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/panchanga-api/internal/calendar"
	"github.com/zapponejosh/panchanga-api/internal/config"
	"github.com/zapponejosh/panchanga-api/internal/panchanga"
)

func init() {
	var year int
	var format string

	cmd := &cobra.Command{
		Use:   "year",
		Short: "Compute every date of a year",
		Long: "Computes each date of the year in order. A date whose computation " +
			"fails is reported and the run continues.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runYear(cmd, year, format)
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year to compute (default: $YEAR)")
	cmd.Flags().StringVarP(&format, "format", "f", FormatText, "Output format: text, json or csv")

	RootCmd.AddCommand(cmd)
}

// yearOutput is the JSON form of a year run.
type yearOutput struct {
	Location string              `json:"location"`
	Year     int                 `json:"year"`
	Days     []panchanga.Record  `json:"days"`
	Failed   []panchanga.Failure `json:"failed"`
}

func runYear(cmd *cobra.Command, year int, format string) error {
	if err := checkFormat(format, FormatText, FormatJSON, FormatCSV); err != nil {
		return err
	}

	cfg, engine, log, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	result, err := computeYear(cmd, cfg, engine, log, year)
	if err != nil {
		return err
	}
	records := panchanga.NewRecords(result.Days)

	out := cmd.OutOrStdout()
	switch format {
	case FormatJSON:
		failed := result.Failed
		if failed == nil {
			failed = []panchanga.Failure{}
		}
		err = writeJSON(out, yearOutput{
			Location: engine.Location().Name,
			Year:     resolveYear(cfg, year),
			Days:     records,
			Failed:   failed,
		})
	case FormatCSV:
		err = writeYearCSV(out, records)
	default:
		writeYearText(out, records, result.Failed)
	}
	if err != nil {
		return err
	}

	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d dates failed", len(result.Failed), len(result.Failed)+len(result.Days))
	}
	return nil
}

func resolveYear(cfg *config.Config, year int) int {
	if year == 0 {
		return cfg.Year
	}
	return year
}

// computeYear validates the year and runs the engine over it.
func computeYear(cmd *cobra.Command, cfg *config.Config, engine *panchanga.Engine, log *slog.Logger, year int) (*panchanga.RangeResult, error) {
	year = resolveYear(cfg, year)
	if year < config.MinYear || year > config.MaxYear {
		return nil, fmt.Errorf("year must be between %d and %d, got %d", config.MinYear, config.MaxYear, year)
	}

	first, last := calendar.YearBounds(year)
	log.Info("computing year",
		slog.Int("year", year),
		slog.String("location", engine.Location().Name),
		slog.Int("days", calendar.DaysInclusive(first, last)),
	)

	result, err := engine.Year(cmd.Context(), year)
	if err != nil {
		return nil, fmt.Errorf("compute %d: %w", year, err)
	}
	log.Info("year computed",
		slog.Int("year", year),
		slog.Int("days", len(result.Days)),
		slog.Int("failed", len(result.Failed)),
	)
	return result, nil
}
