package trips

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nshahpazov/nyc-bikership-analysis/config"
)

// --- Test Fixtures ---

var (
	testCols   = config.Default().Columns
	testWindow = config.Default().Window
)

func rawTrip(start, stop string, seconds float64) RawTrip {
	return RawTrip{
		StartTime: start,
		StopTime:  stop,
		TripFields: TripFields{
			Duration:     seconds,
			StartStation: "W 21 St & 6 Ave",
			StopStation:  "E 17 St & Broadway",
			BirthYear:    1980,
			Gender:       1,
			UserType:     "Subscriber",
			Temperature:  math.NaN(),
		},
	}
}

// prepare runs rows through date normalization and preprocessing.
func prepare(t *testing.T, rows ...RawTrip) []Trip {
	t.Helper()
	dated, err := NewDateNormalizer(testCols, testWindow).Normalize(rows)
	require.NoError(t, err)
	out, err := Preprocess(dated, testWindow)
	require.NoError(t, err)
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
