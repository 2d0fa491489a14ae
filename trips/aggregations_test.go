package trips

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nshahpazov/nyc-bikership-analysis/engine"
	"github.com/nshahpazov/nyc-bikership-analysis/schema"
)

// ============================================================================
// AGGREGATION TESTS
// ============================================================================
// Tests cover:
//   1. Per-day counts and means, the outlier cut at 60 minutes, the join
//   2. Per-temperature counts on whole degrees
//   3. Station shares normalized before truncation
//   4. Missing columns surface as schema.ErrMissingColumn
// ============================================================================

func threeRides(t *testing.T) []Trip {
	return prepare(t,
		rawTrip("2/1/2016 08:00:00", "2/1/2016 08:10:00", 600),
		rawTrip("2/1/2016 09:00:00", "2/1/2016 09:20:00", 1200),
		rawTrip("2/2/2016 10:00:00", "2/2/2016 10:05:00", 300),
	)
}

func TestDayAggregatesEndToEnd(t *testing.T) {
	view := TripView(threeRides(t), testCols)

	counts, err := CountPerDay(view, testCols)
	require.NoError(t, err)
	assert.Equal(t, []DayCount{{Day: 1, RidesCount: 2}, {Day: 2, RidesCount: 1}}, counts)

	means, err := MeanDurationPerDay(view, testCols)
	require.NoError(t, err)
	assert.Equal(t, []DayDuration{{Day: 1, AvgDurationMinutes: 15.0}, {Day: 2, AvgDurationMinutes: 5.0}}, means)

	joined, err := DurationsAndCounts(view, testCols)
	require.NoError(t, err)
	assert.Equal(t, []DayStats{
		{Day: 1, AvgDurationMinutes: 15.0, RidesCount: 2},
		{Day: 2, AvgDurationMinutes: 5.0, RidesCount: 1},
	}, joined)
}

func TestMeanDurationExcludesRidesOverAnHour(t *testing.T) {
	rides := prepare(t,
		rawTrip("2/1/2016 08:00:00", "2/1/2016 08:10:00", 600),
		rawTrip("2/1/2016 09:00:00", "2/1/2016 10:01:00", 3660),
		rawTrip("2/1/2016 11:00:00", "2/1/2016 12:00:00", 3600),
		rawTrip("2/3/2016 09:00:00", "2/3/2016 10:01:00", 3660),
	)
	view := TripView(rides, testCols)

	means, err := MeanDurationPerDay(view, testCols)
	require.NoError(t, err)
	require.Len(t, means, 1, "day 3 only has a 61-minute ride")
	assert.Equal(t, 1, means[0].Day)
	assert.InDelta(t, 35.0, means[0].AvgDurationMinutes, 1e-9)

	counts, err := CountPerDay(view, testCols)
	require.NoError(t, err)
	assert.Equal(t, []DayCount{{Day: 1, RidesCount: 3}, {Day: 3, RidesCount: 1}}, counts)

	joined, err := DurationsAndCounts(view, testCols)
	require.NoError(t, err)
	assert.Equal(t, []DayStats{{Day: 1, AvgDurationMinutes: 35.0, RidesCount: 3}}, joined)
}

func TestCountPerDaySumsToRowCount(t *testing.T) {
	var rows []RawTrip
	for _, start := range []string{
		"2/1/2016 08:00:00", "2/10/2016 08:00:00", "2/1/2016 18:00:00",
		"2/29/2016 08:00:00", "2/2/2016 08:00:00", "2/10/2016 23:00:00",
	} {
		rows = append(rows, rawTrip(start, start, 120))
	}
	rides := prepare(t, rows...)

	counts, err := CountPerDay(TripView(rides, testCols), testCols)
	require.NoError(t, err)

	total := 0
	var days []int
	for _, c := range counts {
		total += c.RidesCount
		days = append(days, c.Day)
	}
	assert.Equal(t, len(rides), total)
	assert.Equal(t, []int{1, 2, 10, 29}, days, "numeric day order")
}

func TestCountPerDayCountsReferenceValues(t *testing.T) {
	rows := []RawTrip{
		rawTrip("2/1/2016 08:00:00", "2/1/2016 08:10:00", 600),
		rawTrip("2/1/2016 09:00:00", "2/1/2016 09:10:00", 600),
	}
	rows[1].BirthYear = math.NaN()
	rides := prepare(t, rows...)

	cols := testCols
	cols.CountReference = cols.BirthYear
	counts, err := CountPerDay(TripView(rides, cols), cols)
	require.NoError(t, err)
	assert.Equal(t, []DayCount{{Day: 1, RidesCount: 1}}, counts)
}

func TestCountPerTemperature(t *testing.T) {
	temps := []float64{30.4, 30.2, 41, 29.6, 41.4, 18}
	rides := make([]Trip, len(temps))
	for i, v := range temps {
		rides[i] = Trip{Temperature: v}
	}

	counts, err := CountPerTemperature(TripView(rides, testCols), testCols)
	require.NoError(t, err)
	assert.Equal(t, []TemperatureCount{
		{Temperature: 18, RidesCount: 1},
		{Temperature: 30, RidesCount: 3},
		{Temperature: 41, RidesCount: 2},
	}, counts)

	total := 0
	for _, c := range counts {
		total += c.RidesCount
	}
	assert.Equal(t, len(rides), total)
}

func TestCountPerTemperatureDropsMissing(t *testing.T) {
	rides := []Trip{{Temperature: 30}, {Temperature: math.NaN()}, {Temperature: -0.2}}

	counts, err := CountPerTemperature(TripView(rides, testCols), testCols)
	require.NoError(t, err)
	assert.Equal(t, []TemperatureCount{
		{Temperature: 0, RidesCount: 1},
		{Temperature: 30, RidesCount: 1},
	}, counts)
}

func stationRides(names ...string) []Trip {
	rides := make([]Trip, len(names))
	for i, n := range names {
		rides[i] = Trip{StartStation: n, StopStation: "Stop " + n}
	}
	return rides
}

func TestPopularStations(t *testing.T) {
	view := TripView(stationRides("A", "B", "A", "D", "C", "B", "A", "D"), testCols)

	all, err := PopularStations(view, testCols, StationStart, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)

	var names []string
	var sum float64
	for _, s := range all {
		names = append(names, s.StationName)
		sum += s.Percentage
		assert.Equal(t, StationStart, s.Type)
	}
	assert.Equal(t, []string{"A", "B", "D", "C"}, names, "ties keep first appearance")
	assert.InDelta(t, 100.0, sum, 1e-9)
	assert.InDelta(t, 37.5, all[0].Percentage, 1e-9)
	assert.InDelta(t, 12.5, all[3].Percentage, 1e-9)

	top, err := PopularStations(view, testCols, StationStart, 2)
	require.NoError(t, err)
	assert.Equal(t, []StationShare{
		{StationName: "A", Percentage: 37.5, Type: StationStart},
		{StationName: "B", Percentage: 25, Type: StationStart},
	}, top, "shares are over all stations, not the top n")
}

func TestPopularStopStations(t *testing.T) {
	view := TripView(stationRides("A", "A", "B"), testCols)

	top, err := PopularStations(view, testCols, StationStop, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Stop A", top[0].StationName)
	assert.Equal(t, StationStop, top[0].Type)
	assert.InDelta(t, 200.0/3, top[0].Percentage, 1e-9)
}

func TestPopularStationsUnknownKind(t *testing.T) {
	_, err := PopularStations(TripView(nil, testCols), testCols, StationKind("middle"), 5)
	assert.Error(t, err)
}

func TestAggregationsRequireColumns(t *testing.T) {
	view := engine.NewSliceView([]engine.Record{
		{Dimensions: map[string]string{"station": "A"}, Measures: map[string]float64{"minutes": 3}},
	})

	_, err := CountPerDay(view, testCols)
	assert.True(t, errors.Is(err, schema.ErrMissingColumn))
	assert.Contains(t, err.Error(), testCols.Day)

	_, err = MeanDurationPerDay(view, testCols)
	assert.ErrorIs(t, err, schema.ErrMissingColumn)

	_, err = DurationsAndCounts(view, testCols)
	assert.ErrorIs(t, err, schema.ErrMissingColumn)

	_, err = CountPerTemperature(view, testCols)
	assert.ErrorIs(t, err, schema.ErrMissingColumn)

	_, err = PopularStations(view, testCols, StationStart, 10)
	assert.ErrorIs(t, err, schema.ErrMissingColumn)
}

func TestAggregationsOnEmptyView(t *testing.T) {
	view := TripView(nil, testCols)

	counts, err := CountPerDay(view, testCols)
	require.NoError(t, err)
	assert.Empty(t, counts)

	joined, err := DurationsAndCounts(view, testCols)
	require.NoError(t, err)
	assert.Empty(t, joined)

	stations, err := PopularStations(view, testCols, StationStart, 10)
	require.NoError(t, err)
	assert.Empty(t, stations)
}
