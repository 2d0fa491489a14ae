package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView for zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view).
// Rows whose group key is empty are dropped, like a null group key.
// ============================================================================

// ErrUnknownAggregation is returned for an aggregation name the engine does not implement.
var ErrUnknownAggregation = errors.New("unknown aggregation")

// Aggregation names understood by GroupAndAggregate.
const (
	AggCount      = "count"       // rows in the group
	AggCountValid = "count_valid" // rows whose measure is not NaN
	AggSum        = "sum"
	AggAvg        = "avg"
	AggMax        = "max"
	AggMin        = "min"
)

// GroupAndAggregate is the main entry point for the aggregation pipeline.
// Pipeline: group → aggregate → sort → limit.
func GroupAndAggregate(
	view RecordView,
	groupBy []string,
	measure string,
	aggregation string,
	sortBy string,
	limit int,
) ([]Group, error) {
	if !isKnownAggregation(aggregation) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAggregation, aggregation)
	}
	if view.Len() == 0 {
		return nil, nil
	}

	// 1. Group
	var groups []Group
	if len(groupBy) == 0 {
		groups = []Group{{
			Key:   "all",
			Label: "Total",
			View:  view,
		}}
	} else if len(groupBy) == 1 {
		groups = groupBySingle(view, groupBy[0])
	} else {
		groups = groupByMulti(view, groupBy)
	}

	// 2. Aggregate
	for i := range groups {
		aggregateGroup(&groups[i], measure, aggregation)
		for j := range groups[i].SubGroups {
			aggregateGroup(&groups[i].SubGroups[j], measure, aggregation)
		}
	}

	// 3. Sort
	SortGroups(groups, sortBy)

	// 4. Limit
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	return groups, nil
}

func isKnownAggregation(aggregation string) bool {
	switch aggregation {
	case AggCount, AggCountValid, AggSum, AggAvg, AggMax, AggMin:
		return true
	}
	return false
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if key == "" {
			continue
		}
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

func groupByMulti(view RecordView, dimensions []string) []Group {
	if len(dimensions) < 2 {
		return groupBySingle(view, dimensions[0])
	}

	primaryGroups := groupBySingle(view, dimensions[0])
	for i := range primaryGroups {
		primaryGroups[i].SubGroups = groupBySingle(primaryGroups[i].View, dimensions[1])
	}
	return primaryGroups
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, measure string, aggregation string) {
	group.Count = group.View.Len()
	if group.Count == 0 {
		return
	}

	switch aggregation {
	case AggCount:
		group.Value = float64(group.Count)
	case AggCountValid:
		group.Value = float64(CountValid(group.View, measure))
	case AggSum:
		group.Value = SumMeasure(group.View, measure)
	case AggAvg:
		group.Value = AvgMeasure(group.View, measure)
	case AggMax:
		group.Value = MaxMeasure(group.View, measure)
	case AggMin:
		group.Value = MinMeasure(group.View, measure)
	}
}

// CountValid counts records whose measure is not NaN.
func CountValid(view RecordView, measure string) int {
	n := 0
	for i := 0; i < view.Len(); i++ {
		if !math.IsNaN(view.Measure(i, measure)) {
			n++
		}
	}
	return n
}

// SumMeasure sums a named measure across a view, skipping NaN.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if !math.IsNaN(v) {
			total += v
		}
	}
	return total
}

// AvgMeasure computes the arithmetic mean of a named measure, skipping NaN.
// Returns NaN when no value is present.
func AvgMeasure(view RecordView, measure string) float64 {
	n := CountValid(view, measure)
	if n == 0 {
		return math.NaN()
	}
	return SumMeasure(view, measure) / float64(n)
}

// MaxMeasure returns the largest value of a named measure, or NaN when none.
func MaxMeasure(view RecordView, measure string) float64 {
	m := math.NaN()
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(m) || v > m {
			m = v
		}
	}
	return m
}

// MinMeasure returns the smallest value of a named measure, or NaN when none.
func MinMeasure(view RecordView, measure string) float64 {
	m := math.NaN()
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(m) || v < m {
			m = v
		}
	}
	return m
}

// ============================================================================
// VALUE COUNTS
// ============================================================================

// ValueCounts returns the frequency of each non-empty value of a dimension,
// most frequent first. Ties keep first-appearance order. With percent set,
// Value is the share of all non-empty values times 100; otherwise the count.
func ValueCounts(view RecordView, dimension string, percent bool) []Group {
	groups := groupBySingle(view, dimension)

	total := 0
	for i := range groups {
		groups[i].Count = groups[i].View.Len()
		total += groups[i].Count
	}

	for i := range groups {
		if percent {
			groups[i].Value = float64(groups[i].Count) / float64(total) * 100
		} else {
			groups[i].Value = float64(groups[i].Count)
		}
	}

	SortGroups(groups, "count_desc")
	return groups
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts aggregate groups by the specified sort mode.
// Every mode is stable, so equal groups keep grouping order.
//
//	value_desc, value_asc  by aggregated value
//	count_desc             by row count
//	key_asc, key_desc      numerically when both keys are numbers
//	label_asc, label_desc  case-insensitive by label
//	weekday                Monday through Sunday by weekday name
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case "value_desc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	case "value_asc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case "count_desc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	case "key_asc":
		sort.SliceStable(groups, func(i, j int) bool { return keyLess(groups[i].Key, groups[j].Key) })
	case "key_desc":
		sort.SliceStable(groups, func(i, j int) bool { return keyLess(groups[j].Key, groups[i].Key) })
	case "label_asc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Label) < strings.ToLower(groups[j].Label) })
	case "label_desc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Label) > strings.ToLower(groups[j].Label) })
	case "weekday":
		sort.SliceStable(groups, func(i, j int) bool { return WeekdayOrder(groups[i].Key) < WeekdayOrder(groups[j].Key) })
	default:
		// preserve grouping order
	}
}

func keyLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return a < b
}

// WeekdayOrder maps a weekday name ("Monday" or "Mon") to 0..6 starting on
// Monday. Unknown names sort last.
func WeekdayOrder(name string) int {
	if wd, ok := ParseWeekday(name); ok {
		return (int(wd) + 6) % 7
	}
	return 7
}

// ParseWeekday parses a full or three-letter English weekday name.
func ParseWeekday(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) < 3 {
		return time.Sunday, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, true
		}
	}
	return time.Sunday, false
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// FormatValue renders whole numbers without decimals and others with two.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LabelForDimension returns a capitalized label for a dimension.
func LabelForDimension(dimension string) string {
	if len(dimension) == 0 {
		return ""
	}
	return strings.ToUpper(dimension[:1]) + dimension[1:]
}

// LabelForAggregation returns a human-readable label for an aggregation type.
func LabelForAggregation(aggregation string) string {
	switch aggregation {
	case AggSum:
		return "Total"
	case AggCount, AggCountValid:
		return "Count"
	case AggAvg:
		return "Average"
	case AggMax:
		return "Maximum"
	case AggMin:
		return "Minimum"
	default:
		return "Value"
	}
}
