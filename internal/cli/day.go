package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/panchanga-api/internal/calendar"
	"github.com/zapponejosh/panchanga-api/internal/panchanga"
)

// now is replaced in tests.
var now = time.Now

func init() {
	var dateFlag, format string

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show the panchanga for one date",
		Example: "  panchanga day\n" +
			"  panchanga day --date 2025-01-14 --location london --format json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDay(cmd, dateFlag, format)
		},
	}
	cmd.Flags().StringVar(&dateFlag, "date", "", "Date as YYYY-MM-DD (default: today at the location)")
	cmd.Flags().StringVarP(&format, "format", "f", FormatText, "Output format: text or json")

	RootCmd.AddCommand(cmd)
}

func runDay(cmd *cobra.Command, dateFlag, format string) error {
	if err := checkFormat(format, FormatText, FormatJSON); err != nil {
		return err
	}

	_, engine, _, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	date := now().In(engine.Zone())
	if dateFlag != "" {
		parsed, err := calendar.ParseDateString(dateFlag)
		if err != nil {
			return fmt.Errorf("invalid date %q: use YYYY-MM-DD", dateFlag)
		}
		date = calendar.DateIn(parsed, engine.Zone())
	}

	day, err := engine.Day(cmd.Context(), date)
	if err != nil {
		return fmt.Errorf("compute %s: %w", calendar.FormatDate(date), err)
	}
	rec := panchanga.NewRecord(day)

	if format == FormatJSON {
		return writeJSON(cmd.OutOrStdout(), rec)
	}
	writeDayText(cmd.OutOrStdout(), rec)
	return nil
}
