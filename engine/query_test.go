package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery([]byte("```json\n{\"intent\":\"Chart\",\"groupBy\":[\"usertype\"],\"ranges\":[{\"measure\":\"minutes\",\"max\":60}]}\n```"))
	require.NoError(t, err)

	assert.Equal(t, "chart", q.Intent)
	assert.Equal(t, AggCount, q.Aggregation)
	assert.Equal(t, "bar", q.Visualize)
	assert.Equal(t, []string{"usertype"}, q.GroupBy)
	require.Len(t, q.Ranges, 1)
	require.NotNil(t, q.Ranges[0].Max)
	assert.Equal(t, 60.0, *q.Ranges[0].Max)
	assert.Nil(t, q.Ranges[0].Min)

	res, err := Execute(q, sampleView())
	require.NoError(t, err)
	assert.Equal(t, "chart", res.Type)
}

func TestParseQueryErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"not json", "usertype by day", ErrInvalidQuery},
		{"unknown field", `{"question":"rides?"}`, ErrInvalidQuery},
		{"bad intent", `{"intent":"text"}`, ErrInvalidQuery},
		{"unknown aggregation", `{"aggregation":"median","measure":"minutes"}`, ErrUnknownAggregation},
		{"negative limit", `{"limit":-1}`, ErrInvalidQuery},
		{"three dimensions", `{"groupBy":["a","b","c"]}`, ErrInvalidQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuery([]byte(tt.in))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNormalizeQueryDefaults(t *testing.T) {
	q, err := NormalizeQuery(Query{Aggregation: "AVG", Measure: "minutes"})
	require.NoError(t, err)
	assert.Equal(t, "table", q.Intent)
	assert.Equal(t, AggAvg, q.Aggregation)
	assert.Equal(t, "table", q.Visualize)
}

func TestExecuteNeedsMeasure(t *testing.T) {
	q, err := ParseQuery([]byte(`{"aggregation":"avg","groupBy":["day"],"sortBy":"key_asc"}`))
	require.NoError(t, err)

	_, err = Execute(q, sampleView())
	assert.ErrorIs(t, err, ErrInvalidQuery)

	res, err := Execute(q, sampleView(), WithDefaultMeasure("minutes"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "10"}, groupKeys(res.Groups))
}
