// Package cli implements the panchanga command-line tool.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/panchanga-api/internal/config"
	"github.com/zapponejosh/panchanga-api/internal/ephemeris"
	"github.com/zapponejosh/panchanga-api/internal/logger"
	"github.com/zapponejosh/panchanga-api/internal/panchanga"
)

var (
	locationFlag      string
	locationsFileFlag string
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "panchanga",
	Short: "Hindu Panchanga calendar calculator",
	Long: "Computes sunrise, sunset, Tithi, Nakshatra, Yoga, Karana and the day " +
		"periods for a location, one date or a whole year at a time.",
	SilenceUsage: true,
}

// openSource builds the ephemeris session. Tests replace it.
var openSource = func(cfg *config.Config) (panchanga.Source, error) {
	oracle, err := ephemeris.Open(cfg.EphemerisEngine)
	if err != nil {
		return nil, err
	}
	mode, err := ephemeris.ParseSiderealMode(cfg.SiderealMode)
	if err != nil {
		return nil, err
	}
	return ephemeris.NewSession(oracle, ephemeris.Config{Mode: mode, DataPath: cfg.EphemerisPath})
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&locationFlag, "location", "l", "", "Location preset name (default: $LOCATION_NAME)")
	RootCmd.PersistentFlags().StringVar(&locationsFileFlag, "locations-file", "", "YAML file of location presets (default: $LOCATIONS_FILE)")
}

// setup loads configuration, applies the persistent flags and builds the
// engine for the selected location. Logs go to stderr so stdout stays clean
// for JSON and CSV.
func setup(stderr io.Writer) (*config.Config, *panchanga.Engine, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	if locationsFileFlag != "" {
		presets, err := config.LoadLocations(locationsFileFlag)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load locations: %w", err)
		}
		cfg.LocationsFile = locationsFileFlag
		cfg.Locations = append([]panchanga.Location{cfg.Location}, presets...)
		if err := cfg.Validate(); err != nil {
			return nil, nil, nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	log := logger.SetupWriter(cfg, stderr)

	loc, err := cfg.FindLocation(locationFlag)
	if err != nil {
		return nil, nil, nil, err
	}

	src, err := openSource(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open ephemeris: %w", err)
	}

	engine, err := panchanga.NewEngine(src, loc, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, engine, log, nil
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (want one of %v)", format, allowed)
}
