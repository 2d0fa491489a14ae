package trips

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nshahpazov/nyc-bikership-analysis/config"
	"github.com/nshahpazov/nyc-bikership-analysis/engine"
	"github.com/nshahpazov/nyc-bikership-analysis/schema"
)

// ============================================================================
// VIEWS — Trip and weather slices exposed to the engine
// ============================================================================
// Keys come from config.Columns. Day, month and temperature are registered
// both as dimensions (for grouping) and measures (for ranges and bins).
// Temperature groups on its value rounded to a whole degree.
// ============================================================================

// TripView exposes trips under the configured column names.
func TripView(trips []Trip, cols config.Columns) engine.RecordView {
	return tripAdapter(cols).Bind(trips)
}

// WeatherView exposes weather rows under the configured column names.
func WeatherView(weather []Weather, cols config.Columns) engine.RecordView {
	return weatherAdapter(cols).Bind(weather)
}

func tripAdapter(cols config.Columns) *engine.DomainAdapter[Trip] {
	return engine.NewDomainAdapter[Trip]().
		Dimension(cols.StartStation, func(t Trip) string { return t.StartStation }).
		Dimension(cols.StopStation, func(t Trip) string { return t.StopStation }).
		Dimension(cols.Gender, func(t Trip) string { return t.Gender.String() }).
		Dimension(cols.UserType, func(t Trip) string { return t.UserType.String() }).
		Dimension(cols.DayName, func(t Trip) string { return t.DayName }).
		Dimension(cols.Month, func(t Trip) string { return strconv.Itoa(t.Month) }).
		Dimension(cols.Day, func(t Trip) string { return strconv.Itoa(t.Day) }).
		Dimension(cols.Temperature, func(t Trip) string { return roundedKey(t.Temperature) }).
		Measure(cols.TripDuration, func(t Trip) float64 { return t.Duration }).
		Measure(cols.BirthYear, func(t Trip) float64 {
			if !t.BirthYear.Valid {
				return math.NaN()
			}
			return float64(t.BirthYear.Int32)
		}).
		Measure(cols.Temperature, func(t Trip) float64 { return t.Temperature }).
		Measure(cols.Month, func(t Trip) float64 { return float64(t.Month) }).
		Measure(cols.Day, func(t Trip) float64 { return float64(t.Day) }).
		Measure(cols.StartHour, func(t Trip) float64 { return float64(t.StartHour) }).
		Measure(cols.StartMinute, func(t Trip) float64 { return float64(t.StartMinute) }).
		Measure(cols.StopHour, func(t Trip) float64 { return float64(t.StopHour) }).
		Measure(cols.StopMinute, func(t Trip) float64 { return float64(t.StopMinute) }).
		Measure(cols.Age, func(t Trip) float64 {
			if !t.Age.Valid {
				return math.NaN()
			}
			return float64(t.Age.Int32)
		}).
		Measure(cols.DurationMinutes, func(t Trip) float64 { return t.DurationMinutes }).
		Measure(cols.DurationHours, func(t Trip) float64 { return t.DurationHours })
}

func weatherAdapter(cols config.Columns) *engine.DomainAdapter[Weather] {
	return engine.NewDomainAdapter[Weather]().
		Dimension(cols.WeatherDate, func(w Weather) string {
			if w.Date.IsZero() {
				return ""
			}
			return w.Date.Format(config.DateLayout)
		}).
		Dimension(cols.Temperature, func(w Weather) string { return roundedKey(w.AverageTemperature) }).
		Measure(cols.Temperature, func(w Weather) float64 { return w.AverageTemperature }).
		Measure(cols.MaxTemperature, func(w Weather) float64 { return w.MaxTemperature }).
		Measure(cols.MinTemperature, func(w Weather) float64 { return w.MinTemperature }).
		Measure(cols.Precipitation, func(w Weather) float64 { return w.Precipitation }).
		Measure(cols.SnowFall, func(w Weather) float64 { return w.SnowFall }).
		Measure(cols.SnowDepth, func(w Weather) float64 { return w.SnowDepth })
}

// roundedKey renders v rounded to a whole number, or "" for NaN so the
// engine drops the row from grouping.
func roundedKey(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	r := math.Round(v)
	if r == 0 {
		r = 0 // no "-0"
	}
	return strconv.FormatFloat(r, 'f', 0, 64)
}

// requireColumns fails with schema.ErrMissingColumn when view lacks any of
// the listed dimensions or measures.
func requireColumns(view engine.RecordView, dimensions, measures []string) error {
	var missing []string
	for _, d := range dimensions {
		if !engine.HasDimension(view, d) {
			missing = append(missing, d)
		}
	}
	for _, m := range measures {
		if !engine.HasMeasure(view, m) {
			missing = append(missing, m)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", schema.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}
