package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/panchanga-api/internal/panchanga"
)

// locationsFile is the layout of LOCATIONS_FILE:
//
//	locations:
//	  - name: varanasi
//	    latitude: 25.3176
//	    longitude: 82.9739
//	    utc_offset: 5.5
type locationsFile struct {
	Locations []panchanga.Location `yaml:"locations"`
}

// LoadLocations reads location presets from a YAML file.
func LoadLocations(path string) ([]panchanga.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLocations(data)
}

// ParseLocations decodes and validates YAML location presets.
// Names must be present and unique.
func ParseLocations(data []byte) ([]panchanga.Location, error) {
	var file locationsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse locations: %w", err)
	}

	var errs []error
	seen := make(map[string]bool)
	for i, loc := range file.Locations {
		key := strings.ToLower(loc.Name)
		switch {
		case key == "":
			errs = append(errs, fmt.Errorf("location %d: name is required", i))
		case seen[key]:
			errs = append(errs, fmt.Errorf("location %q: duplicate name", loc.Name))
		}
		seen[key] = true

		if err := loc.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("location %q: %w", loc.Name, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return file.Locations, nil
}
