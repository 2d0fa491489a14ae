package trips

import (
	"strconv"

	"github.com/nshahpazov/nyc-bikership-analysis/engine"
	"github.com/nshahpazov/nyc-bikership-analysis/schema"
)

// ============================================================================
// TABLES — Result rows rendered as engine.TableData
// ============================================================================

// results names the result columns for people. Keys stay snake_case in
// JSON and CSV; labels feed workbook headers and chart axes.
var results = schema.Config{
	Name: "results",
	Dimensions: []schema.DimensionMeta{
		{Key: ColDay, DisplayName: "Day"},
		{Key: ColStationName, DisplayName: "Station"},
		{Key: ColType, DisplayName: "Type"},
		{Key: ColTempRange, DisplayName: "Temperature range"},
	},
	Measures: []schema.MeasureMeta{
		{Key: ColRidesCount, DisplayName: "Rides"},
		{Key: ColAvgDuration, DisplayName: "Average duration (min)"},
		{Key: ColTemperature, DisplayName: "Temperature"},
		{Key: ColPercentage, DisplayName: "Share (%)"},
		{Key: ColRides, DisplayName: "Rides"},
		{Key: ColObservations, DisplayName: "Weather days"},
		{Key: ColRidesPerSample, DisplayName: "Rides per weather day"},
		{Key: ColDays, DisplayName: "Days"},
		{Key: ColAverageCount, DisplayName: "Average count"},
	},
}

// displayName returns the label of a result column or source field.
func displayName(key string) string {
	return results.DisplayName(key)
}

// newTable is engine.NewTable with display-name labels.
func newTable(title string, keys []string, rows [][]string) *engine.TableData {
	t := engine.NewTable(title, keys, rows)
	for i := range t.Columns {
		t.Columns[i].Label = displayName(t.Columns[i].Key)
	}
	return t
}

// DayCountsTable renders CountPerDay output.
func DayCountsTable(rows []DayCount) *engine.TableData {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{strconv.Itoa(r.Day), strconv.Itoa(r.RidesCount)}
	}
	return newTable("Rides per day", []string{ColDay, ColRidesCount}, out)
}

// TemperatureCountsTable renders CountPerTemperature output.
func TemperatureCountsTable(rows []TemperatureCount) *engine.TableData {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{engine.FormatValue(r.Temperature), strconv.Itoa(r.RidesCount)}
	}
	return newTable("Rides per temperature", []string{ColTemperature, ColRidesCount}, out)
}

// DayDurationsTable renders MeanDurationPerDay output.
func DayDurationsTable(rows []DayDuration) *engine.TableData {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{strconv.Itoa(r.Day), engine.FormatValue(r.AvgDurationMinutes)}
	}
	return newTable("Average duration per day", []string{ColDay, ColAvgDuration}, out)
}

// DayStatsTable renders DurationsAndCounts output.
func DayStatsTable(rows []DayStats) *engine.TableData {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{strconv.Itoa(r.Day), engine.FormatValue(r.AvgDurationMinutes), strconv.Itoa(r.RidesCount)}
	}
	return newTable("Durations and counts per day", []string{ColDay, ColAvgDuration, ColRidesCount}, out)
}

// StationSharesTable renders PopularStations output.
func StationSharesTable(title string, rows []StationShare) *engine.TableData {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.StationName, engine.FormatValue(r.Percentage), string(r.Type)}
	}
	return newTable(title, []string{ColStationName, ColPercentage, ColType}, out)
}

// TemperatureBinsTable renders the bins behind PlotRidesByTemperature.
func TemperatureBinsTable(rows []TemperatureBin) *engine.TableData {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.Label,
			strconv.Itoa(r.Rides),
			strconv.Itoa(r.Observations),
			engine.FormatValue(r.Value),
		}
	}
	return newTable("Rides by temperature", []string{ColTempRange, ColRides, ColObservations, ColRidesPerSample}, out)
}

// WeekdayAveragesTable renders the rows behind PlotWeeklyAverageRides.
func WeekdayAveragesTable(rows []WeekdayAverage) *engine.TableData {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Day, strconv.Itoa(r.Rides), strconv.Itoa(r.Days), engine.FormatValue(r.AverageCount)}
	}
	return newTable("Average rides per weekday", []string{ColDay, ColRides, ColDays, ColAverageCount}, out)
}
