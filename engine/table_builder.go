package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from Query + Groups
// ============================================================================

// BuildTable produces an aggregated TableData: one row per group with the
// group key, aggregated value and row count.
func BuildTable(q Query, groups []Group) *TableData {
	if len(groups) == 0 {
		return &TableData{
			Title:   q.Title,
			Columns: []Column{},
			Rows:    [][]string{},
		}
	}

	groupKey := "group"
	groupLabel := "Group"
	if len(q.GroupBy) > 0 {
		groupKey = q.GroupBy[0]
		groupLabel = LabelForDimension(q.GroupBy[0])
	}
	valueLabel := q.ValueLabel
	if valueLabel == "" {
		valueLabel = LabelForAggregation(q.Aggregation)
	}

	columns := []Column{
		{Key: groupKey, Label: groupLabel, Type: "text", Align: "left"},
		{Key: "value", Label: valueLabel, Type: "number", Align: "right"},
		{Key: "count", Label: "Count", Type: "number", Align: "center"},
	}

	rows := make([][]string, 0, len(groups))
	var totalCount int

	for _, g := range groups {
		rows = append(rows, []string{
			g.Label,
			FormatValue(g.Value),
			fmt.Sprintf("%d", g.Count),
		})
		totalCount += g.Count
	}

	return &TableData{
		Title:   q.Title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: "Total",
			Values: map[string]string{
				"count": FormatInt(totalCount),
			},
		},
	}
}

// NewTable builds a TableData from column keys and pre-rendered rows.
// Every column is labelled with its key.
func NewTable(title string, keys []string, rows [][]string) *TableData {
	columns := make([]Column, len(keys))
	for i, k := range keys {
		columns[i] = Column{Key: k, Label: k, Type: "text", Align: "left"}
	}
	if rows == nil {
		rows = [][]string{}
	}
	return &TableData{Title: title, Columns: columns, Rows: rows}
}
