package trips

import (
	"fmt"
	"time"

	"github.com/nshahpazov/nyc-bikership-analysis/config"
	"github.com/nshahpazov/nyc-bikership-analysis/engine"
)

// ============================================================================
// PLOTS — Normalized ride distributions as bar chart configs
// ============================================================================

// PlotOptions styles the two ride charts.
type PlotOptions struct {
	Bins            int
	BarWidth        float64
	TemperatureFill string
	WeeklyFill      string
	Opacity         float64
}

// DefaultPlotOptions returns five bins, unit bar width and the stock fills.
func DefaultPlotOptions() PlotOptions {
	return PlotOptionsFrom(config.Default().Plot)
}

// PlotOptionsFrom copies chart settings out of the configuration.
func PlotOptionsFrom(p config.PlotConfig) PlotOptions {
	return PlotOptions{
		Bins:            p.Bins,
		BarWidth:        p.BarWidth,
		TemperatureFill: p.TemperatureFill,
		WeeklyFill:      p.WeeklyFill,
		Opacity:         p.Opacity,
	}
}

// PlotRidesByTemperature buckets field into opts.Bins-1 equal-width bins over
// the trip range widened by one degree each side, counts trips and weather
// observations per bin and charts their ratio. Bins without observations
// have no reference and are omitted.
func PlotRidesByTemperature(trips, weather engine.RecordView, field string, opts PlotOptions) (*engine.ChartConfig, []TemperatureBin, error) {
	if err := requireColumns(trips, nil, []string{field}); err != nil {
		return nil, nil, fmt.Errorf("rides by temperature: trips: %w", err)
	}
	if err := requireColumns(weather, nil, []string{field}); err != nil {
		return nil, nil, fmt.Errorf("rides by temperature: weather: %w", err)
	}

	edges, err := engine.LinearEdges(engine.MinMeasure(trips, field), engine.MaxMeasure(trips, field), opts.Bins)
	if err != nil {
		return nil, nil, fmt.Errorf("rides by temperature: %w", err)
	}

	rides := engine.BinCounts(trips, field, edges)
	observations := engine.BinCounts(weather, field, edges)

	bins := make([]TemperatureBin, 0, len(rides))
	points := make([]engine.ChartPoint, 0, len(rides))
	for i := range rides {
		if observations[i] == 0 {
			continue
		}
		b := TemperatureBin{
			Label:        engine.BinLabel(edges, i),
			Low:          edges[i],
			High:         edges[i+1],
			Rides:        rides[i],
			Observations: observations[i],
			Value:        float64(rides[i]) / float64(observations[i]),
		}
		bins = append(bins, b)
		points = append(points, engine.ChartPoint{Label: b.Label, Value: b.Value})
	}

	chart := engine.NewBarChart("Rides by temperature", displayName(ColTempRange), displayName(field), points, engine.ChartStyle{
		Fill:     opts.TemperatureFill,
		Opacity:  opts.Opacity,
		BarWidth: opts.BarWidth,
	})
	return chart, bins, nil
}

// PlotWeeklyAverageRides counts the rides of one user type per weekday and
// divides each count by how often that weekday occurs in
// [window.WeekStart, window.WeekEnd). Weekdays run Monday to Sunday; a
// weekday that never occurs in the window is left out.
func PlotWeeklyAverageRides(view engine.RecordView, cols config.Columns, userType UserType, window config.RideWindow, opts PlotOptions) (*engine.ChartConfig, []WeekdayAverage, error) {
	if err := requireColumns(view, []string{cols.UserType, cols.DayName}, nil); err != nil {
		return nil, nil, fmt.Errorf("weekly average rides: %w", err)
	}

	res, err := engine.Execute(engine.Query{
		Intent: "table",
		Filters: engine.Filters{Dimensions: map[string][]string{
			cols.UserType: {userType.String()},
		}},
		Aggregation: engine.AggCount,
		GroupBy:     []string{cols.DayName},
		SortBy:      "weekday",
		Title:       "Weekly average rides",
	}, view)
	if err != nil {
		return nil, nil, fmt.Errorf("weekly average rides: %w", err)
	}

	start, end := window.WeekStart.Time, window.WeekEnd.Time
	averages := make([]WeekdayAverage, 0, len(res.Groups))
	points := make([]engine.ChartPoint, 0, len(res.Groups))
	for _, g := range res.Groups {
		wd, ok := engine.ParseWeekday(g.Key)
		if !ok {
			continue
		}
		days := CountWeekdays(start, end, wd)
		if days == 0 {
			continue
		}
		avg := WeekdayAverage{
			Day:          g.Key,
			Rides:        g.Count,
			Days:         days,
			AverageCount: float64(g.Count) / float64(days),
		}
		averages = append(averages, avg)
		points = append(points, engine.ChartPoint{Label: avg.Day, Value: avg.AverageCount})
	}

	chart := engine.NewBarChart("Average rides per weekday", displayName(ColDay), displayName(ColAverageCount), points, engine.ChartStyle{
		Fill:     opts.WeeklyFill,
		Opacity:  opts.Opacity,
		BarWidth: opts.BarWidth,
	})
	return chart, averages, nil
}

// CountWeekdays returns how many calendar dates in [start, end) fall on day.
// Only the calendar date of start and end matters.
func CountWeekdays(start, end time.Time, day time.Weekday) int {
	from := civilDate(start)
	to := civilDate(end)
	if !to.After(from) {
		return 0
	}

	total := int(to.Sub(from).Hours() / 24)
	count := total / 7
	offset := (int(day) - int(from.Weekday()) + 7) % 7
	if offset < total%7 {
		count++
	}
	return count
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
