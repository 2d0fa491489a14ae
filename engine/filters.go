package engine

import (
	"math"
	"strings"
)

// ============================================================================
// FILTERS — Dimension and Measure Filtering via RecordView
// ============================================================================
// Single-pass filters: every constraint is checked per record in one loop.
// Both return a SubView (index list into parent), zero data copy.
// ============================================================================

// ApplyFilters returns a view of records matching all dimension filters.
// Dimensions are AND-combined; values within a dimension are OR-combined.
// Matching is case-insensitive. Empty filter = no restriction.
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if len(allowed) > 0 {
			sets[dim] = toLowerSet(allowed)
		}
	}

	if len(sets) == 0 {
		return view
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for dim, set := range sets {
			val := strings.ToLower(view.Dimension(i, dim))
			if !set[val] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// ApplyRanges returns a view of records whose measures satisfy every range.
// NaN values fail any range.
func ApplyRanges(view RecordView, ranges []RangeSpec) RecordView {
	if len(ranges) == 0 {
		return view
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for _, r := range ranges {
			if !r.contains(view.Measure(i, r.Measure)) {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

func (r RangeSpec) contains(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
