package trips

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nshahpazov/nyc-bikership-analysis/config"
	"github.com/nshahpazov/nyc-bikership-analysis/schema"
)

// ============================================================================
// REPORT TESTS
// ============================================================================

func reportTrips(t *testing.T) []Trip {
	rows := []RawTrip{
		rawTrip("2/1/2016 08:00:00", "2/1/2016 08:10:00", 600),
		rawTrip("2/1/2016 09:00:00", "2/1/2016 09:20:00", 1200),
		rawTrip("2/1/2016 17:00:00", "2/1/2016 17:05:00", 300),
		rawTrip("2/2/2016 07:00:00", "2/2/2016 07:30:00", 1800),
		rawTrip("2/2/2016 18:00:00", "2/2/2016 19:10:00", 4200),
	}
	rows[2].StartStation = "Broadway & E 14 St"
	return prepare(t, rows...)
}

func reportWeather() []Weather {
	return []Weather{
		{Date: time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC), AverageTemperature: 30},
		{Date: time.Date(2016, 2, 2, 0, 0, 0, 0, time.UTC), AverageTemperature: 40},
	}
}

func TestBuildReport(t *testing.T) {
	cfg := config.Default()

	r, err := BuildReport(context.Background(), reportTrips(t), reportWeather(), cfg, quietLogger())
	require.NoError(t, err)

	_, err = uuid.Parse(r.ID)
	assert.NoError(t, err)
	assert.False(t, r.GeneratedAt.IsZero())
	assert.Equal(t, 5, r.Trips)

	assert.Equal(t, []DayCount{{Day: 1, RidesCount: 3}, {Day: 2, RidesCount: 2}}, r.DayCounts)
	assert.Equal(t, []TemperatureCount{{Temperature: 30, RidesCount: 3}, {Temperature: 40, RidesCount: 2}}, r.TemperatureCounts)
	assert.Equal(t, []DayDuration{{Day: 1, AvgDurationMinutes: 35.0 / 3}, {Day: 2, AvgDurationMinutes: 30}}, r.DayDurations)
	assert.Equal(t, []DayStats{
		{Day: 1, AvgDurationMinutes: 35.0 / 3, RidesCount: 3},
		{Day: 2, AvgDurationMinutes: 30, RidesCount: 2},
	}, r.DayStats)

	require.Len(t, r.StartStations, 2)
	assert.Equal(t, "W 21 St & 6 Ave", r.StartStations[0].StationName)
	assert.InDelta(t, 80.0, r.StartStations[0].Percentage, 1e-9)
	require.Len(t, r.StopStations, 1)
	assert.InDelta(t, 100.0, r.StopStations[0].Percentage, 1e-9)

	// edges 29, 32, 35, 38, 41; the middle bins have no weather day
	assert.Equal(t, []TemperatureBin{
		{Label: "(29, 32]", Low: 29, High: 32, Rides: 3, Observations: 1, Value: 3},
		{Label: "(38, 41]", Low: 38, High: 41, Rides: 2, Observations: 1, Value: 2},
	}, r.TemperatureBins)

	assert.Equal(t, []WeekdayAverage{
		{Day: "Monday", Rides: 3, Days: 5, AverageCount: 0.6},
		{Day: "Tuesday", Rides: 2, Days: 4, AverageCount: 0.5},
	}, r.WeekdayAverages)

	assert.NotNil(t, r.TemperatureChart)
	assert.NotNil(t, r.WeeklyChart)
	assert.Len(t, r.Charts(), 2)

	tables := r.Tables()
	require.Len(t, tables, 8)
	assert.Equal(t, []string{ColDay, ColAvgDuration, ColRidesCount}, tables[3].Headers())
	assert.Equal(t, "Average duration (min)", tables[3].Columns[1].Label)
	assert.Equal(t, "Rides", tables[3].Columns[2].Label)
	assert.Equal(t, [][]string{{"1", "11.67", "3"}, {"2", "30", "2"}}, tables[3].Rows)
	assert.Equal(t, []string{ColTempRange, ColRides, ColObservations, ColRidesPerSample}, tables[7].Headers())
}

func TestBuildReportWithoutWeather(t *testing.T) {
	cfg := config.Default()
	cfg.Plot.TopStations = 1

	r, err := BuildReport(context.Background(), reportTrips(t), nil, cfg, nil)
	require.NoError(t, err)

	assert.Nil(t, r.TemperatureChart)
	assert.Empty(t, r.TemperatureBins)
	assert.Empty(t, r.TemperatureCounts)
	assert.Len(t, r.StartStations, 1)
	assert.Len(t, r.Charts(), 1)
	assert.Len(t, r.Tables(), 7)
}

func TestBuildReportSkipsTemperatureWhenNoDateMatches(t *testing.T) {
	weather := []Weather{{Date: time.Date(2016, 3, 15, 0, 0, 0, 0, time.UTC), AverageTemperature: 50}}

	r, err := BuildReport(context.Background(), reportTrips(t), weather, config.Default(), quietLogger())
	require.NoError(t, err)
	assert.Nil(t, r.TemperatureChart)
}

func TestBuildReportSkipsTemperatureWhenBinsDegenerate(t *testing.T) {
	// edges over [29, 31] round to 29 30 30 30 31
	rides := prepare(t,
		rawTrip("2/1/2016 08:00:00", "2/1/2016 08:10:00", 600),
		rawTrip("2/1/2016 09:00:00", "2/1/2016 09:20:00", 1200),
	)
	weather := []Weather{{Date: time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC), AverageTemperature: 30}}

	r, err := BuildReport(context.Background(), rides, weather, config.Default(), quietLogger())
	require.NoError(t, err)

	assert.Nil(t, r.TemperatureChart)
	assert.Empty(t, r.TemperatureBins)
	assert.Equal(t, []TemperatureCount{{Temperature: 30, RidesCount: 2}}, r.TemperatureCounts)
	assert.Equal(t, []DayCount{{Day: 1, RidesCount: 2}}, r.DayCounts)
	assert.Len(t, r.Charts(), 1)
}

func TestBuildReportErrorNamesTaskOnce(t *testing.T) {
	cfg := config.Default()
	cfg.Columns.CountReference = "bogus"

	r, err := BuildReport(context.Background(), reportTrips(t), nil, cfg, quietLogger())
	assert.Nil(t, r)
	require.ErrorIs(t, err, schema.ErrMissingColumn)
	assert.True(t, strings.HasPrefix(err.Error(), "build report: "))
	assert.Equal(t, 1, strings.Count(err.Error(), "count per day:"), err.Error())
}

func TestBuildReportCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := BuildReport(ctx, reportTrips(t), reportWeather(), config.Default(), quietLogger())
	assert.Nil(t, r)
	assert.ErrorIs(t, err, context.Canceled)
}
