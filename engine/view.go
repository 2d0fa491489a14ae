package engine

import (
	"math"
	"slices"
	"sort"
)

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns consumer data. It reads through this interface.
//
// Implementations:
//   SliceView      wraps []Record (ad-hoc rows, tests)
//   DomainView[T]  reads typed structs via accessor functions (zero-copy)
//   SubView        filtered subset (indices into parent, zero-copy)
//
// Consumers register accessors once at startup; engine reads many times.
// Views are read-only, so one view may be shared by concurrent queries.
// ============================================================================

// RecordView provides indexed access to a dataset.
// The engine calls Dimension/Measure in tight loops; keep implementations fast.
// A missing dimension reads as "" and a missing measure as NaN.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
	DimensionKeys() []string // available dimension keys
	MeasureKeys() []string   // available measure keys
}

// ============================================================================
// SLICE VIEW — wraps []Record
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
	dimKeys []string
	mesKeys []string
}

// NewSliceView creates a RecordView from a []Record slice.
func NewSliceView(records []Record) RecordView {
	v := &SliceView{records: records}
	v.cacheKeys()
	return v
}

// cacheKeys collects the union of keys over all records, sorted so that
// map iteration order never leaks into results.
func (v *SliceView) cacheKeys() {
	dims := make(map[string]struct{})
	meas := make(map[string]struct{})
	for _, r := range v.records {
		for k := range r.Dimensions {
			dims[k] = struct{}{}
		}
		for k := range r.Measures {
			meas[k] = struct{}{}
		}
	}
	v.dimKeys = sortedKeys(dims)
	v.mesKeys = sortedKeys(meas)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.records) {
		return ""
	}
	return v.records[i].Dimensions[key]
}

func (v *SliceView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.records) {
		return math.NaN()
	}
	if val, ok := v.records[i].Measures[key]; ok {
		return val
	}
	return math.NaN()
}

func (v *SliceView) DimensionKeys() []string { return v.dimKeys }
func (v *SliceView) MeasureKeys() []string   { return v.mesKeys }

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Holds indices into the parent, no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.indices) {
		return math.NaN()
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DOMAIN ADAPTER — Zero-copy typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[Trip]().
//	    Dimension("usertype", func(t Trip) string { return t.UserType.String() }).
//	    Measure("tripduration", func(t Trip) float64 { return t.Duration })
//
//	view := adapter.Bind(trips)
//	groups := engine.GroupAndAggregate(view, []string{"usertype"}, "tripduration", "avg", "", 0)
//
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	dimOrder []string
	mesOrder []string
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) float64),
	}
}

// Dimension registers a dimension accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, exists := a.dims[key]; !exists {
		a.dimOrder = append(a.dimOrder, key)
	}
	a.dims[key] = fn
	return a
}

// Measure registers a measure accessor.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) float64) *DomainAdapter[T] {
	if _, exists := a.meas[key]; !exists {
		a.mesOrder = append(a.mesOrder, key)
	}
	a.meas[key] = fn
	return a
}

// Bind creates a RecordView from a data slice. Zero-copy: holds a reference.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	return &DomainView[T]{
		data:     data,
		dims:     a.dims,
		meas:     a.meas,
		dimKeys:  a.dimOrder,
		measKeys: a.mesOrder,
	}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data     []T
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
	dimKeys  []string
	measKeys []string
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.data) {
		return ""
	}
	if fn, ok := v.dims[key]; ok {
		return fn(v.data[i])
	}
	return ""
}

func (v *DomainView[T]) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.data) {
		return math.NaN()
	}
	if fn, ok := v.meas[key]; ok {
		return fn(v.data[i])
	}
	return math.NaN()
}

func (v *DomainView[T]) DimensionKeys() []string { return v.dimKeys }
func (v *DomainView[T]) MeasureKeys() []string   { return v.measKeys }

// HasDimension reports whether the view exposes a dimension key.
func HasDimension(view RecordView, key string) bool {
	return slices.Contains(view.DimensionKeys(), key)
}

// HasMeasure reports whether the view exposes a measure key.
func HasMeasure(view RecordView, key string) bool {
	return slices.Contains(view.MeasureKeys(), key)
}
