package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearEdges(t *testing.T) {
	tests := []struct {
		name      string
		low, high float64
		n         int
		want      []float64
	}{
		{"half steps round to even", 20, 40, 5, []float64{19, 24, 30, 36, 41}},
		{"whole steps", 29, 40, 5, []float64{28, 31, 34, 38, 41}},
		{"two edges", 10, 10, 2, []float64{9, 11}},
		{"negative range", -10.4, 3.2, 3, []float64{-11, -4, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges, err := LinearEdges(tt.low, tt.high, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, edges)
		})
	}
}

func TestLinearEdgesErrors(t *testing.T) {
	_, err := LinearEdges(0, 10, 1)
	assert.ErrorIs(t, err, ErrInvalidBins)

	_, err = LinearEdges(math.NaN(), 10, 5)
	assert.ErrorIs(t, err, ErrInvalidBins)

	_, err = LinearEdges(10, 11, 10)
	assert.ErrorIs(t, err, ErrInvalidBins, "rounded edges repeat")
}

func TestCut(t *testing.T) {
	edges := []float64{19, 24, 30, 36, 41}

	tests := []struct {
		v    float64
		bin  int
		inOK bool
	}{
		{19, 0, false}, // left edge is open
		{19.5, 0, true},
		{24, 0, true}, // right edge is closed
		{24.01, 1, true},
		{41, 3, true},
		{41.5, 0, false},
		{math.NaN(), 0, false},
	}

	for _, tt := range tests {
		bin, ok := Cut(tt.v, edges)
		assert.Equal(t, tt.inOK, ok, "value %v", tt.v)
		if tt.inOK {
			assert.Equal(t, tt.bin, bin, "value %v", tt.v)
		}
	}
}

func TestBinCountsAndLabels(t *testing.T) {
	view := NewSliceView([]Record{
		rec("", "", "", 20), rec("", "", "", 25), rec("", "", "", 30),
		rec("", "", "", 30), rec("", "", "", 40), rec("", "", "", math.NaN()),
	})
	edges := []float64{19, 24, 30, 36, 41}

	assert.Equal(t, []int{1, 3, 0, 1}, BinCounts(view, "minutes", edges))
	assert.Nil(t, BinCounts(view, "minutes", edges[:1]))
	assert.Equal(t, "(24, 30]", BinLabel(edges, 1))
	assert.Equal(t, "(-1.50, 2]", BinLabel([]float64{-1.5, 2}, 0))
}
