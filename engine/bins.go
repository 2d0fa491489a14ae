package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ============================================================================
// BINS — Equal-width bucketing of a numeric measure
// ============================================================================
// Edges are integers; bin i covers the right-closed interval
// (edges[i], edges[i+1]]. Values outside every bin are not counted.
// ============================================================================

// ErrInvalidBins is returned when bin edges cannot form at least one
// strictly increasing interval.
var ErrInvalidBins = errors.New("bin edges must increase monotonically")

// LinearEdges returns n evenly spaced edges spanning [low-1, high+1],
// each rounded half-to-even to an integer.
func LinearEdges(low, high float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 edges, got %d", ErrInvalidBins, n)
	}
	if math.IsNaN(low) || math.IsNaN(high) {
		return nil, fmt.Errorf("%w: no values to bin", ErrInvalidBins)
	}

	start, stop := low-1, high+1
	step := (stop - start) / float64(n-1)

	edges := make([]float64, n)
	for i := 0; i < n; i++ {
		v := start + float64(i)*step
		if i == n-1 {
			v = stop
		}
		edges[i] = math.RoundToEven(v)
	}

	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBins, edges)
		}
	}
	return edges, nil
}

// Cut returns the index of the bin holding v, or false when v falls outside
// every bin or is NaN.
func Cut(v float64, edges []float64) (int, bool) {
	if math.IsNaN(v) || len(edges) < 2 {
		return 0, false
	}
	if v <= edges[0] || v > edges[len(edges)-1] {
		return 0, false
	}
	// first edge >= v closes the bin
	idx := sort.SearchFloat64s(edges, v)
	return idx - 1, true
}

// BinCounts counts the records of a view per bin of a measure.
func BinCounts(view RecordView, measure string, edges []float64) []int {
	if len(edges) < 2 {
		return nil
	}
	counts := make([]int, len(edges)-1)
	for i := 0; i < view.Len(); i++ {
		if b, ok := Cut(view.Measure(i, measure), edges); ok {
			counts[b]++
		}
	}
	return counts
}

// BinLabel renders bin i as "(low, high]".
func BinLabel(edges []float64, i int) string {
	return fmt.Sprintf("(%s, %s]", FormatValue(edges[i]), FormatValue(edges[i+1]))
}
