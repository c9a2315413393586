// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/zapponejosh/panchanga-api/internal/ephemeris"
	"github.com/zapponejosh/panchanga-api/internal/panchanga"
)

// ErrUnknownLocation is returned when a location name matches no preset.
var ErrUnknownLocation = errors.New("unknown location")

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Database
	DatabasePath string // Path to the SQLite export file

	// Authentication
	APIKey string // API key for authenticated endpoints

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Observer
	Location      panchanga.Location   // default location
	LocationsFile string               // optional YAML presets
	Locations     []panchanga.Location // default first, then presets
	Year          int                  // default target year

	// Ephemeris
	SiderealMode    string // lahiri, raman, krishnamurti, fagan_bradley, tropical
	EphemerisEngine string // builtin, sunrise
	EphemerisPath   string // optional data directory

	// Metrics
	MetricsEnabled bool
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Supported year range of the ephemeris engines.
const (
	MinYear = ephemeris.FirstYear
	MaxYear = ephemeris.LastYear
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	// This is a no-op in production where env vars are set directly
	_ = godotenv.Load()

	cfg := &Config{}

	// Server settings
	cfg.Port = getEnvInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	// Database
	cfg.DatabasePath = getEnv("DATABASE_PATH", "./data/panchanga.db")

	// Authentication
	cfg.APIKey = getEnv("API_KEY", "")

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	// Observer
	cfg.Location = panchanga.Location{
		Name:      getEnv("LOCATION_NAME", "aligarh"),
		Latitude:  getEnvFloat("LATITUDE", 27.88145),
		Longitude: getEnvFloat("LONGITUDE", 78.07464),
		UTCOffset: getEnvFloat("UTC_OFFSET", 5.5),
	}
	cfg.LocationsFile = getEnv("LOCATIONS_FILE", "")
	cfg.Year = getEnvInt("YEAR", 2025)

	// Ephemeris
	cfg.SiderealMode = getEnv("SIDEREAL_MODE", string(ephemeris.ModeLahiri))
	cfg.EphemerisEngine = getEnv("EPHEMERIS_ENGINE", ephemeris.EngineBuiltin)
	cfg.EphemerisPath = getEnv("EPHEMERIS_PATH", "")

	// Metrics
	cfg.MetricsEnabled = getEnvBool("METRICS_ENABLED", true)

	cfg.Locations = []panchanga.Location{cfg.Location}
	if cfg.LocationsFile != "" {
		presets, err := LoadLocations(cfg.LocationsFile)
		if err != nil {
			return nil, fmt.Errorf("load locations: %w", err)
		}
		cfg.Locations = append(cfg.Locations, presets...)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	// Validate port range
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	// Validate environment
	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// Valid
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	// Validate database path is set
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}

	// API key is required in production
	if c.Env == EnvProduction && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}

	// Validate log level
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	// Validate log format
	switch c.LogFormat {
	case "json", "text":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	// Validate observer
	if c.Location.Name == "" {
		errs = append(errs, errors.New("LOCATION_NAME is required"))
	}
	if err := c.Location.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("location: %w", err))
	}
	names := make(map[string]bool)
	for _, loc := range c.Locations {
		key := strings.ToLower(loc.Name)
		if names[key] {
			errs = append(errs, fmt.Errorf("location %q is defined more than once", loc.Name))
		}
		names[key] = true
	}
	if c.Year < MinYear || c.Year > MaxYear {
		errs = append(errs, fmt.Errorf("YEAR must be between %d and %d, got %d", MinYear, MaxYear, c.Year))
	}

	// Validate ephemeris
	if _, err := ephemeris.ParseSiderealMode(c.SiderealMode); err != nil {
		errs = append(errs, fmt.Errorf("SIDEREAL_MODE: %w", err))
	}
	switch c.EphemerisEngine {
	case ephemeris.EngineBuiltin, ephemeris.EngineSunrise:
		// Valid
	default:
		errs = append(errs, fmt.Errorf("EPHEMERIS_ENGINE must be one of: builtin, sunrise; got %q", c.EphemerisEngine))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// FindLocation returns the location named name, case-insensitively.
// An empty name selects the default location.
func (c *Config) FindLocation(name string) (panchanga.Location, error) {
	if name == "" {
		return c.Location, nil
	}
	for _, loc := range c.Locations {
		if strings.EqualFold(loc.Name, name) {
			return loc, nil
		}
	}
	return panchanga.Location{}, fmt.Errorf("%w: %q", ErrUnknownLocation, name)
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat reads an environment variable as a float with a default fallback.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool reads an environment variable as a boolean with a default fallback.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
