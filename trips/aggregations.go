package trips

import (
	"fmt"
	"strconv"

	"github.com/nshahpazov/nyc-bikership-analysis/config"
	"github.com/nshahpazov/nyc-bikership-analysis/engine"
)

// ============================================================================
// AGGREGATIONS — Read-only queries over a trip view
// ============================================================================
// Every function takes a view built by TripView and returns typed rows.
// Queries run through engine.Execute; opts are passed along unchanged.
// ============================================================================

// MaxTripMinutes is the longest ride kept by MeanDurationPerDay. Longer
// rides are treated as outliers.
const MaxTripMinutes = 60

// CountPerDay counts, per day of the month, the rides with a value in
// cols.CountReference. Days ascend.
func CountPerDay(view engine.RecordView, cols config.Columns, opts ...engine.Option) ([]DayCount, error) {
	if err := requireColumns(view, []string{cols.Day}, []string{cols.CountReference}); err != nil {
		return nil, fmt.Errorf("count per day: %w", err)
	}

	res, err := engine.Execute(engine.Query{
		Intent:      "table",
		Aggregation: engine.AggCountValid,
		Measure:     cols.CountReference,
		GroupBy:     []string{cols.Day},
		SortBy:      "key_asc",
		Title:       "Rides per day",
	}, view, opts...)
	if err != nil {
		return nil, fmt.Errorf("count per day: %w", err)
	}

	out := make([]DayCount, 0, len(res.Groups))
	for _, g := range res.Groups {
		day, err := strconv.Atoi(g.Key)
		if err != nil {
			return nil, fmt.Errorf("count per day: day %q: %w", g.Key, err)
		}
		out = append(out, DayCount{Day: day, RidesCount: int(g.Value)})
	}
	return out, nil
}

// CountPerTemperature counts rides per whole-degree temperature. Rides
// without a temperature are left out. Temperatures ascend.
func CountPerTemperature(view engine.RecordView, cols config.Columns, opts ...engine.Option) ([]TemperatureCount, error) {
	if err := requireColumns(view, []string{cols.Temperature}, nil); err != nil {
		return nil, fmt.Errorf("count per temperature: %w", err)
	}

	res, err := engine.Execute(engine.Query{
		Intent:      "table",
		Aggregation: engine.AggCount,
		GroupBy:     []string{cols.Temperature},
		SortBy:      "key_asc",
		Title:       "Rides per temperature",
	}, view, opts...)
	if err != nil {
		return nil, fmt.Errorf("count per temperature: %w", err)
	}

	out := make([]TemperatureCount, 0, len(res.Groups))
	for _, g := range res.Groups {
		t, err := strconv.ParseFloat(g.Key, 64)
		if err != nil {
			return nil, fmt.Errorf("count per temperature: temperature %q: %w", g.Key, err)
		}
		out = append(out, TemperatureCount{Temperature: t, RidesCount: g.Count})
	}
	return out, nil
}

// MeanDurationPerDay averages ride minutes per day over rides of at most
// MaxTripMinutes. Days ascend.
func MeanDurationPerDay(view engine.RecordView, cols config.Columns, opts ...engine.Option) ([]DayDuration, error) {
	groups, err := meanDurationGroups(view, cols, opts)
	if err != nil {
		return nil, err
	}

	out := make([]DayDuration, 0, len(groups))
	for _, g := range groups {
		day, err := strconv.Atoi(g.Key)
		if err != nil {
			return nil, fmt.Errorf("mean duration per day: day %q: %w", g.Key, err)
		}
		out = append(out, DayDuration{Day: day, AvgDurationMinutes: g.Value})
	}
	return out, nil
}

func meanDurationGroups(view engine.RecordView, cols config.Columns, opts []engine.Option) ([]engine.Group, error) {
	if err := requireColumns(view, []string{cols.Day}, []string{cols.DurationMinutes}); err != nil {
		return nil, fmt.Errorf("mean duration per day: %w", err)
	}

	res, err := engine.Execute(engine.Query{
		Intent:      "table",
		Ranges:      []engine.RangeSpec{engine.AtMost(cols.DurationMinutes, MaxTripMinutes)},
		Aggregation: engine.AggAvg,
		Measure:     cols.DurationMinutes,
		GroupBy:     []string{cols.Day},
		SortBy:      "key_asc",
		Title:       "Average duration per day",
	}, view, opts...)
	if err != nil {
		return nil, fmt.Errorf("mean duration per day: %w", err)
	}
	return res.Groups, nil
}

// DurationsAndCounts joins MeanDurationPerDay with CountPerDay on day.
// Days missing from either side are dropped.
func DurationsAndCounts(view engine.RecordView, cols config.Columns, opts ...engine.Option) ([]DayStats, error) {
	durations, err := meanDurationGroups(view, cols, opts)
	if err != nil {
		return nil, err
	}
	counts, err := engine.Execute(engine.Query{
		Intent:      "table",
		Aggregation: engine.AggCountValid,
		Measure:     cols.CountReference,
		GroupBy:     []string{cols.Day},
		SortBy:      "key_asc",
	}, view, opts...)
	if err != nil {
		return nil, fmt.Errorf("durations and counts: %w", err)
	}

	joined := engine.InnerJoin(durations, counts.Groups)
	out := make([]DayStats, 0, len(joined))
	for _, j := range joined {
		day, err := strconv.Atoi(j.Key)
		if err != nil {
			return nil, fmt.Errorf("durations and counts: day %q: %w", j.Key, err)
		}
		out = append(out, DayStats{
			Day:                day,
			AvgDurationMinutes: j.Left.Value,
			RidesCount:         int(j.Right.Value),
		})
	}
	return out, nil
}

// PopularStations returns the n most used start or stop stations with
// their share of all rides in percent. Shares are computed over every
// station, before truncation. n <= 0 returns all stations.
func PopularStations(view engine.RecordView, cols config.Columns, kind StationKind, n int) ([]StationShare, error) {
	var column string
	switch kind {
	case StationStart:
		column = cols.StartStation
	case StationStop:
		column = cols.StopStation
	default:
		return nil, fmt.Errorf("popular stations: unknown station kind %q", kind)
	}
	if err := requireColumns(view, []string{column}, nil); err != nil {
		return nil, fmt.Errorf("popular stations: %w", err)
	}

	groups := engine.ValueCounts(view, column, true)
	if n > 0 && len(groups) > n {
		groups = groups[:n]
	}

	out := make([]StationShare, len(groups))
	for i, g := range groups {
		out[i] = StationShare{StationName: g.Key, Percentage: g.Value, Type: kind}
	}
	return out, nil
}

