package engine

import (
	"math"
	"sort"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from Query + Groups
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildChart produces a ChartConfig from a Query and aggregated groups.
func BuildChart(q Query, groups []Group) *ChartConfig {
	if len(groups) == 0 {
		return nil
	}

	chartType := q.Visualize
	if chartType == "" {
		chartType = "bar"
	}

	config := &ChartConfig{
		ChartType:  chartType,
		Title:      q.Title,
		ShowLegend: true,
		ShowGrid:   true,
	}

	if len(q.GroupBy) > 0 {
		config.XAxis = LabelForDimension(q.GroupBy[0])
	}
	config.YAxis = q.ValueLabel
	if config.YAxis == "" {
		config.YAxis = LabelForAggregation(q.Aggregation)
	}

	if len(q.GroupBy) >= 2 && hasSubGroups(groups) {
		config.Series = buildMultiSeries(groups)
		config.Colors = assignColors(len(config.Series))
		return config
	}

	config.Series = buildSingleSeries(groups, q.Title)
	if q.Style != nil {
		ApplyStyle(config, *q.Style)
	} else {
		config.Colors = assignColors(len(config.Series))
	}
	return config
}

// NewBarChart builds a single-series bar chart straight from points.
func NewBarChart(title, xAxis, yAxis string, points []ChartPoint, style ChartStyle) *ChartConfig {
	config := &ChartConfig{
		ChartType: "bar",
		Title:     title,
		XAxis:     xAxis,
		YAxis:     yAxis,
		Series:    []ChartSeries{{Name: yAxis, Data: points}},
		ShowGrid:  true,
	}
	ApplyStyle(config, style)
	return config
}

// ApplyStyle gives every series the style fill and hides the legend.
func ApplyStyle(config *ChartConfig, style ChartStyle) {
	config.Colors = []string{style.Fill}
	config.Opacity = style.Opacity
	config.BarWidth = style.BarWidth
	config.ShowLegend = false
	for i := range config.Series {
		config.Series[i].Color = style.Fill
	}
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSingleSeries(groups []Group, seriesName string) []ChartSeries {
	if seriesName == "" {
		seriesName = "Value"
	}

	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		if math.IsNaN(g.Value) {
			continue
		}
		points = append(points, ChartPoint{
			Label: g.Label,
			Value: RoundTo2(g.Value),
		})
	}

	return []ChartSeries{{
		Name: seriesName,
		Data: points,
	}}
}

func buildMultiSeries(groups []Group) []ChartSeries {
	subKeySet := make(map[string]bool)
	for _, g := range groups {
		for _, sg := range g.SubGroups {
			subKeySet[sg.Key] = true
		}
	}

	subKeys := make([]string, 0, len(subKeySet))
	for k := range subKeySet {
		subKeys = append(subKeys, k)
	}
	sort.Strings(subKeys)

	seriesMap := make(map[string][]ChartPoint)
	for _, key := range subKeys {
		seriesMap[key] = make([]ChartPoint, 0, len(groups))
	}

	for _, g := range groups {
		sgLookup := make(map[string]float64)
		for _, sg := range g.SubGroups {
			sgLookup[sg.Key] = sg.Value
		}

		for _, key := range subKeys {
			seriesMap[key] = append(seriesMap[key], ChartPoint{
				Label: g.Label,
				Value: RoundTo2(sgLookup[key]),
			})
		}
	}

	series := make([]ChartSeries, 0, len(subKeys))
	for i, key := range subKeys {
		series = append(series, ChartSeries{
			Name:  key,
			Data:  seriesMap[key],
			Color: defaultColors[i%len(defaultColors)],
		})
	}

	return series
}

func hasSubGroups(groups []Group) bool {
	for _, g := range groups {
		if len(g.SubGroups) > 0 {
			return true
		}
	}
	return false
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
