package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nshahpazov/nyc-bikership-analysis/config"
)

// ============================================================================
// SCHEMA — Describes the shape of the trip and weather tables
// ============================================================================
// Built from the configured column names. The CSV loader checks headers
// against it; result tables and charts take display names from a Config.
// ============================================================================

// ErrMissingColumn is returned when a required source column is absent.
var ErrMissingColumn = errors.New("missing required column")

// Config describes the complete shape of a table.
type Config struct {
	Name       string          `json:"name"`
	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`
}

// DimensionMeta describes a text field used for grouping/filtering.
type DimensionMeta struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Optional    bool   `json:"optional,omitempty"`    // may be absent from the source
	DerivedFrom string `json:"derivedFrom,omitempty"` // source column of a computed field
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Optional    bool   `json:"optional,omitempty"`
	DerivedFrom string `json:"derivedFrom,omitempty"`
}

// DefaultDimension creates a DimensionMeta titled after its key.
func DefaultDimension(key string) DimensionMeta {
	return DimensionMeta{Key: key, DisplayName: toDisplayName(key)}
}

// DefaultMeasure creates a MeasureMeta titled after its key.
func DefaultMeasure(key string) MeasureMeta {
	return MeasureMeta{Key: key, DisplayName: toDisplayName(key)}
}

// SourceColumns returns the keys that must be read from the source file.
// Derived and optional columns are left out.
func (c Config) SourceColumns() []string {
	var keys []string
	for _, d := range c.Dimensions {
		if d.DerivedFrom == "" && !d.Optional {
			keys = append(keys, d.Key)
		}
	}
	for _, m := range c.Measures {
		if m.DerivedFrom == "" && !m.Optional {
			keys = append(keys, m.Key)
		}
	}
	return keys
}

// CheckHeaders verifies that every source column appears among headers.
// Header matching ignores surrounding whitespace and case.
func (c Config) CheckHeaders(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[normalizeHeader(h)] = true
	}

	var missing []string
	for _, key := range c.SourceColumns() {
		if !present[normalizeHeader(key)] {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: %w: %s", c.Name, ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// DisplayName returns the display name registered for key, or a title-cased
// form of key when it is unknown.
func (c Config) DisplayName(key string) string {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d.DisplayName
		}
	}
	for _, m := range c.Measures {
		if m.Key == key {
			return m.DisplayName
		}
	}
	return toDisplayName(key)
}

// ============================================================================
// TABLES
// ============================================================================

// Trips describes the trip table, source and derived columns.
func Trips(cols config.Columns) Config {
	temperature := DefaultMeasure(cols.Temperature)
	temperature.Optional = true

	return Config{
		Name: "trips",
		Dimensions: []DimensionMeta{
			DefaultDimension(cols.StartTime),
			DefaultDimension(cols.StopTime),
			DefaultDimension(cols.StartStation),
			DefaultDimension(cols.StopStation),
			DefaultDimension(cols.Gender),
			DefaultDimension(cols.UserType),
			derivedDimension(cols.DayName, cols.StartTime),
		},
		Measures: []MeasureMeta{
			DefaultMeasure(cols.TripDuration),
			DefaultMeasure(cols.BirthYear),
			temperature,
			derivedMeasure(cols.Month, cols.StartTime),
			derivedMeasure(cols.Day, cols.StartTime),
			derivedMeasure(cols.StartHour, cols.StartTime),
			derivedMeasure(cols.StartMinute, cols.StartTime),
			derivedMeasure(cols.StopHour, cols.StopTime),
			derivedMeasure(cols.StopMinute, cols.StopTime),
			derivedMeasure(cols.Age, cols.BirthYear),
			derivedMeasure(cols.DurationMinutes, cols.TripDuration),
			derivedMeasure(cols.DurationHours, cols.TripDuration),
		},
	}
}

// Weather describes the daily weather table.
func Weather(cols config.Columns) Config {
	optional := func(m MeasureMeta) MeasureMeta {
		m.Optional = true
		return m
	}

	return Config{
		Name:       "weather",
		Dimensions: []DimensionMeta{DefaultDimension(cols.WeatherDate)},
		Measures: []MeasureMeta{
			DefaultMeasure(cols.Temperature),
			optional(DefaultMeasure(cols.MaxTemperature)),
			optional(DefaultMeasure(cols.MinTemperature)),
			optional(DefaultMeasure(cols.Precipitation)),
			optional(DefaultMeasure(cols.SnowFall)),
			optional(DefaultMeasure(cols.SnowDepth)),
		},
	}
}

func derivedDimension(key, from string) DimensionMeta {
	d := DefaultDimension(key)
	d.DerivedFrom = from
	return d
}

func derivedMeasure(key, from string) MeasureMeta {
	m := DefaultMeasure(key)
	m.DerivedFrom = from
	return m
}

// ============================================================================
// HELPERS
// ============================================================================

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// toDisplayName converts "birth year" / "tripduration_minutes" → "Birth Year" / "Tripduration Minutes".
func toDisplayName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
