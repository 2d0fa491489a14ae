package helpers

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/nshahpazov/nyc-bikership-analysis/config"
	"github.com/nshahpazov/nyc-bikership-analysis/schema"
	"github.com/nshahpazov/nyc-bikership-analysis/trips"
)

// ============================================================================
// CSV HELPER — Loads trip and weather exports into typed rows
// ============================================================================
// The caller opens the file; this helper reads it into a dataframe with
// every column as text, checks the headers against the table schema and
// converts each row. Missing numbers become NaN.
// ============================================================================

// ErrInvalidValue is returned for a cell that cannot be read as its column type.
var ErrInvalidValue = errors.New("invalid value")

// WeatherDateLayouts are tried in order when parsing weather dates.
var WeatherDateLayouts = []string{"2006-01-02", "2-1-2006", "1/2/2006"}

var missingValues = []string{"", "NA", "NaN", "nan", "null"}

// frame is a loaded CSV with headers resolved case-insensitively.
type frame struct {
	df      dataframe.DataFrame
	columns map[string]string // normalized header → frame column name
}

func readFrame(r io.Reader, sch schema.Config) (*frame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read %s csv: %w", sch.Name, df.Err)
	}

	names := df.Names()
	if err := sch.CheckHeaders(names); err != nil {
		return nil, err
	}

	columns := make(map[string]string, len(names))
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if _, exists := columns[key]; !exists {
			columns[key] = n
		}
	}
	return &frame{df: df, columns: columns}, nil
}

func (f *frame) rows() int { return f.df.Nrow() }

// text returns the cells of a column, or nil when the column is absent.
func (f *frame) text(key string) []string {
	name, ok := f.columns[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return nil
	}
	return f.df.Col(name).Records()
}

// numbers parses a column as floats. An absent column reads as all NaN.
func (f *frame) numbers(key string) ([]float64, error) {
	cells := f.text(key)
	out := make([]float64, f.rows())
	for i := range out {
		if cells == nil {
			out[i] = math.NaN()
			continue
		}
		v, err := parseNumber(cells[i])
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", key, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	return v, nil
}

func isMissing(s string) bool {
	for _, m := range missingValues {
		if s == m {
			return true
		}
	}
	return false
}

// LoadTrips reads a trip export. Start and stop times stay text for the
// date normalizer. The temperature column is optional.
func LoadTrips(r io.Reader, cols config.Columns) ([]trips.RawTrip, error) {
	f, err := readFrame(r, schema.Trips(cols))
	if err != nil {
		return nil, err
	}

	starts := f.text(cols.StartTime)
	stops := f.text(cols.StopTime)
	startStations := f.text(cols.StartStation)
	stopStations := f.text(cols.StopStation)
	userTypes := f.text(cols.UserType)

	durations, err := f.numbers(cols.TripDuration)
	if err != nil {
		return nil, fmt.Errorf("load trips: %w", err)
	}
	births, err := f.numbers(cols.BirthYear)
	if err != nil {
		return nil, fmt.Errorf("load trips: %w", err)
	}
	genders, err := f.numbers(cols.Gender)
	if err != nil {
		return nil, fmt.Errorf("load trips: %w", err)
	}
	temperatures, err := f.numbers(cols.Temperature)
	if err != nil {
		return nil, fmt.Errorf("load trips: %w", err)
	}

	out := make([]trips.RawTrip, f.rows())
	for i := range out {
		// A missing gender is the export's own "unknown" code 0.
		gender := 0
		if !math.IsNaN(genders[i]) {
			if genders[i] != math.Trunc(genders[i]) {
				return nil, fmt.Errorf("load trips: column %q row %d: %w: gender code %v", cols.Gender, i+1, ErrInvalidValue, genders[i])
			}
			gender = int(genders[i])
		}
		out[i] = trips.RawTrip{
			StartTime: cleanText(starts[i]),
			StopTime:  cleanText(stops[i]),
			TripFields: trips.TripFields{
				Duration:     durations[i],
				StartStation: cleanText(startStations[i]),
				StopStation:  cleanText(stopStations[i]),
				BirthYear:    births[i],
				Gender:       gender,
				UserType:     cleanText(userTypes[i]),
				Temperature:  temperatures[i],
			},
		}
	}
	return out, nil
}

// LoadWeather reads a daily weather export. Trace precipitation ("T")
// reads as zero.
func LoadWeather(r io.Reader, cols config.Columns) ([]trips.Weather, error) {
	f, err := readFrame(r, schema.Weather(cols))
	if err != nil {
		return nil, err
	}

	dates := f.text(cols.WeatherDate)
	measures := []string{cols.Temperature, cols.MaxTemperature, cols.MinTemperature, cols.SnowFall, cols.SnowDepth}
	values := make(map[string][]float64, len(measures)+1)
	for _, key := range measures {
		v, err := f.numbers(key)
		if err != nil {
			return nil, fmt.Errorf("load weather: %w", err)
		}
		values[key] = v
	}
	precipitation, err := f.precipitation(cols.Precipitation)
	if err != nil {
		return nil, fmt.Errorf("load weather: %w", err)
	}

	out := make([]trips.Weather, f.rows())
	for i := range out {
		date, err := ParseWeatherDate(dates[i])
		if err != nil {
			return nil, fmt.Errorf("load weather: column %q row %d: %w", cols.WeatherDate, i+1, err)
		}
		out[i] = trips.Weather{
			Date:               date,
			AverageTemperature: values[cols.Temperature][i],
			MaxTemperature:     values[cols.MaxTemperature][i],
			MinTemperature:     values[cols.MinTemperature][i],
			Precipitation:      precipitation[i],
			SnowFall:           values[cols.SnowFall][i],
			SnowDepth:          values[cols.SnowDepth][i],
		}
	}
	return out, nil
}

func (f *frame) precipitation(key string) ([]float64, error) {
	cells := f.text(key)
	out := make([]float64, f.rows())
	for i := range out {
		if cells == nil {
			out[i] = math.NaN()
			continue
		}
		if strings.EqualFold(strings.TrimSpace(cells[i]), "T") {
			continue
		}
		v, err := parseNumber(cells[i])
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", key, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// ParseWeatherDate parses s with the first matching WeatherDateLayouts
// entry, in UTC.
func ParseWeatherDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range WeatherDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidValue, s)
}

func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return ""
	}
	return s
}
