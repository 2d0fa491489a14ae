package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// QUERY PARSER — Ad-hoc queries from JSON
// ============================================================================

// ErrInvalidQuery is returned for a query that Execute cannot run.
var ErrInvalidQuery = errors.New("invalid query")

// ParseQuery decodes a JSON query, tolerating a surrounding ```json fence,
// and normalizes it. Unknown fields are rejected.
func ParseQuery(data []byte) (Query, error) {
	text := strings.TrimSpace(string(data))
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var q Query
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&q); err != nil {
		return Query{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return NormalizeQuery(q)
}

// NormalizeQuery fills defaults and checks the query shape.
//
//	intent       "table" unless "chart"
//	aggregation  "count"
//	visualize    "bar" for charts, "table" otherwise
func NormalizeQuery(q Query) (Query, error) {
	q.Intent = strings.ToLower(strings.TrimSpace(q.Intent))
	switch q.Intent {
	case "":
		q.Intent = "table"
	case "table", "chart":
	default:
		return q, fmt.Errorf("%w: intent %q", ErrInvalidQuery, q.Intent)
	}

	q.Aggregation = strings.ToLower(strings.TrimSpace(q.Aggregation))
	if q.Aggregation == "" {
		q.Aggregation = AggCount
	}
	if !isKnownAggregation(q.Aggregation) {
		return q, fmt.Errorf("%w: %q", ErrUnknownAggregation, q.Aggregation)
	}

	if q.Visualize == "" {
		q.Visualize = "table"
		if q.Intent == "chart" {
			q.Visualize = "bar"
		}
	}
	if q.Limit < 0 {
		return q, fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, q.Limit)
	}
	if len(q.GroupBy) > 2 {
		return q, fmt.Errorf("%w: at most two group-by dimensions, got %d", ErrInvalidQuery, len(q.GroupBy))
	}
	return q, nil
}
