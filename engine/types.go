package engine

// ============================================================================
// ENGINE TYPES — Domain-Agnostic Table Analytics
// ============================================================================
// Record holds a row as generic dimension/measure maps; typed rows are read
// through DomainAdapter instead. Query describes one grouped computation.
// ============================================================================

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
// A missing measure reads as NaN through SliceView.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// QUERY — What the engine should compute
// ============================================================================

// Query defines one filter → group → aggregate → sort → limit pipeline.
type Query struct {
	Intent      string      `json:"intent"`                // "chart", "table"
	Filters     Filters     `json:"filters"`               // Which records to include
	Ranges      []RangeSpec `json:"ranges,omitempty"`      // Measure bounds, AND-combined
	Aggregation string      `json:"aggregation"`           // "count", "count_valid", "sum", "avg", "max", "min"
	Measure     string      `json:"measure"`               // Which measure to aggregate (empty → default)
	GroupBy     []string    `json:"groupBy"`               // Dimension keys: ["day"], ["usertype", "gender"]
	SortBy      string      `json:"sortBy"`                // see SortGroups
	Limit       int         `json:"limit"`                 // 0 = all
	Visualize   string      `json:"visualize"`             // "bar", "line", "table"
	Title       string      `json:"title"`                 // Chart/table title
	ValueLabel  string      `json:"valueLabel,omitempty"`  // Overrides the value column/axis label
	Style       *ChartStyle `json:"style,omitempty"`       // Optional bar styling
}

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	if f.Dimensions == nil {
		return true
	}
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// RangeSpec keeps records whose measure lies within [Min, Max].
// A nil bound is open. NaN never passes.
type RangeSpec struct {
	Measure string   `json:"measure"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
}

// AtMost returns a RangeSpec with only an upper bound.
func AtMost(measure string, max float64) RangeSpec {
	return RangeSpec{Measure: measure, Max: &max}
}

// ============================================================================
// RESULT — Render-ready output
// ============================================================================

// Result is the engine's render-ready output.
type Result struct {
	Type        string       `json:"type"` // "chart", "table"
	Title       string       `json:"title"`
	Groups      []Group      `json:"groups"`
	ChartConfig *ChartConfig `json:"chartConfig,omitempty"`
	TableData   *TableData   `json:"tableData,omitempty"`
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group represents a grouped/aggregated result.
// Builders convert these into ChartConfig or TableData.
type Group struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Value     float64    `json:"value"`
	Count     int        `json:"count"`
	SubGroups []Group    `json:"subGroups,omitempty"`
	View      RecordView `json:"-"` // Sub-view for records in this group (zero-copy)
}

// JoinedGroup pairs the left and right values of an inner join on Key.
type JoinedGroup struct {
	Key   string `json:"key"`
	Left  Group  `json:"left"`
	Right Group  `json:"right"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	Opacity    float64       `json:"opacity,omitempty"`
	BarWidth   float64       `json:"barWidth,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartStyle carries fixed bar styling for single-series charts.
type ChartStyle struct {
	Fill     string  `json:"fill"`
	Opacity  float64 `json:"opacity"`
	BarWidth float64 `json:"barWidth,omitempty"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// Headers returns the column keys in order.
func (t *TableData) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Key
	}
	return headers
}
