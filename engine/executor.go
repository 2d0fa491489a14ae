package engine

import (
	"fmt"
)

// ============================================================================
// EXECUTOR — Query dispatcher
// ============================================================================
// Entry point: Execute(query, view, opts...)
//
// Pipeline:
//   1. Apply dimension filters → SubView
//   2. Apply measure ranges → SubView
//   3. Group and aggregate
//   4. Dispatch to builder (chart / table)
//
// Zero data copy: the engine reads consumer data through RecordView.
// ============================================================================

// Execute runs a Query against a RecordView and returns a render-ready Result.
//
// Options:
//   - WithDefaultMeasure(key): sets the measure when Query.Measure is empty
//   - WithLogger(logger): debug output destination
func Execute(q Query, view RecordView, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)

	measure := q.Measure
	if measure == "" {
		measure = cfg.DefaultMeasure
	}
	if measure == "" && q.Aggregation != AggCount && isKnownAggregation(q.Aggregation) {
		return nil, fmt.Errorf("%w: aggregation %q needs a measure", ErrInvalidQuery, q.Aggregation)
	}

	// 1–2. Filters → SubView (zero-copy)
	filtered := ApplyFilters(view, q.Filters)
	filtered = ApplyRanges(filtered, q.Ranges)

	cfg.Logger.Debug("executing query",
		"records", view.Len(),
		"filtered", filtered.Len(),
		"aggregation", q.Aggregation,
		"measure", measure,
		"group_by", q.GroupBy,
	)

	// 3. Group and aggregate
	groups, err := GroupAndAggregate(filtered, q.GroupBy, measure, q.Aggregation, q.SortBy, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("aggregate %q: %w", q.Title, err)
	}

	// 4. Dispatch to builder
	result := &Result{
		Title:  q.Title,
		Groups: groups,
	}

	switch q.Intent {
	case "chart":
		result.Type = "chart"
		result.ChartConfig = BuildChart(q, groups)
		if result.ChartConfig == nil {
			result.Type = "table"
			result.TableData = BuildTable(q, groups)
		}
	default:
		result.Type = "table"
		result.TableData = BuildTable(q, groups)
	}

	return result, nil
}
