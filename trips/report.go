package trips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nshahpazov/nyc-bikership-analysis/config"
	"github.com/nshahpazov/nyc-bikership-analysis/engine"
)

// ============================================================================
// REPORT — Every aggregate and chart for one trip table
// ============================================================================

// Report bundles the results of one run.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Trips       int       `json:"trips"`

	DayCounts         []DayCount          `json:"day_counts"`
	TemperatureCounts []TemperatureCount  `json:"temperature_counts"`
	DayDurations      []DayDuration       `json:"day_durations"`
	DayStats          []DayStats          `json:"day_stats"`
	StartStations     []StationShare      `json:"start_stations"`
	StopStations      []StationShare      `json:"stop_stations"`
	TemperatureBins   []TemperatureBin    `json:"temperature_bins,omitempty"`
	WeekdayAverages   []WeekdayAverage    `json:"weekday_averages"`
	TemperatureChart  *engine.ChartConfig `json:"temperature_chart,omitempty"`
	WeeklyChart       *engine.ChartConfig `json:"weekly_chart,omitempty"`
}

// BuildReport runs every aggregation and both plots over trips
// concurrently. When weather is non-empty it is attached to trips first and
// drives the temperature chart; without it the chart is skipped. The first
// failure cancels the remaining tasks.
func BuildReport(ctx context.Context, trips []Trip, weather []Weather, cfg config.Config, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "report")

	if len(weather) > 0 {
		trips = AttachWeather(trips, weather)
	}

	cols := cfg.Columns
	view := TripView(trips, cols)
	opts := PlotOptionsFrom(cfg.Plot)
	engineOpts := []engine.Option{engine.WithLogger(logger)}

	r := &Report{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Trips:       len(trips),
	}
	logger = logger.With("report_id", r.ID)
	logger.Info("building report", "trips", len(trips), "weather_days", len(weather))

	g, ctx := errgroup.WithContext(ctx)
	run := func(name string, fn func() error) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			if err := fn(); err != nil {
				logger.Debug("task failed", "task", name, "error", err)
				return err
			}
			logger.Debug("task finished", "task", name, "duration", time.Since(start))
			return nil
		})
	}

	run("count per day", func() (err error) {
		r.DayCounts, err = CountPerDay(view, cols, engineOpts...)
		return err
	})
	run("count per temperature", func() (err error) {
		r.TemperatureCounts, err = CountPerTemperature(view, cols, engineOpts...)
		return err
	})
	run("mean duration per day", func() (err error) {
		r.DayDurations, err = MeanDurationPerDay(view, cols, engineOpts...)
		return err
	})
	run("durations and counts", func() (err error) {
		r.DayStats, err = DurationsAndCounts(view, cols, engineOpts...)
		return err
	})
	run("popular start stations", func() (err error) {
		r.StartStations, err = PopularStations(view, cols, StationStart, cfg.Plot.TopStations)
		return err
	})
	run("popular stop stations", func() (err error) {
		r.StopStations, err = PopularStations(view, cols, StationStop, cfg.Plot.TopStations)
		return err
	})
	run("weekly average rides", func() (err error) {
		userType := ParseUserType(cfg.Plot.WeeklyUserType)
		r.WeeklyChart, r.WeekdayAverages, err = PlotWeeklyAverageRides(view, cols, userType, cfg.Window, opts)
		return err
	})
	switch {
	case len(weather) == 0:
		logger.Info("no weather rows, skipping temperature chart")
	case engine.CountValid(view, cols.Temperature) == 0:
		logger.Warn("no trip matched a weather date, skipping temperature chart")
	default:
		run("rides by temperature", func() error {
			chart, bins, err := PlotRidesByTemperature(view, WeatherView(weather, cols), cols.Temperature, opts)
			if errors.Is(err, engine.ErrInvalidBins) {
				logger.Warn("temperatures too narrow to bin, skipping temperature chart", "error", err)
				return nil
			}
			if err != nil {
				return err
			}
			r.TemperatureChart, r.TemperatureBins = chart, bins
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("report failed", "error", err)
		return nil, fmt.Errorf("build report: %w", err)
	}

	logger.Info("report built", "days", len(r.DayCounts), "start_stations", len(r.StartStations))
	return r, nil
}

// Tables renders every result of the report, in a fixed order.
func (r *Report) Tables() []*engine.TableData {
	tables := []*engine.TableData{
		DayCountsTable(r.DayCounts),
		TemperatureCountsTable(r.TemperatureCounts),
		DayDurationsTable(r.DayDurations),
		DayStatsTable(r.DayStats),
		StationSharesTable("Popular start stations", r.StartStations),
		StationSharesTable("Popular stop stations", r.StopStations),
		WeekdayAveragesTable(r.WeekdayAverages),
	}
	if r.TemperatureChart != nil {
		tables = append(tables, TemperatureBinsTable(r.TemperatureBins))
	}
	return tables
}

// Charts returns the report's charts; the temperature chart only when
// weather was supplied.
func (r *Report) Charts() []*engine.ChartConfig {
	var charts []*engine.ChartConfig
	if r.WeeklyChart != nil {
		charts = append(charts, r.WeeklyChart)
	}
	if r.TemperatureChart != nil {
		charts = append(charts, r.TemperatureChart)
	}
	return charts
}
