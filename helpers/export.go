package helpers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nshahpazov/nyc-bikership-analysis/engine"
)

// ============================================================================
// EXPORT — JSON and CSV writers for results
// ============================================================================

// WriteJSON encodes v to w, indented when pretty is set.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteTableCSV writes one table: a header row of column keys, then the rows.
func WriteTableCSV(w io.Writer, table *engine.TableData) error {
	cw := csv.NewWriter(w)
	if err := writeTable(cw, table); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteTablesCSV writes several tables to one stream. Each table is preceded
// by a "# title" line and followed by an empty line.
func WriteTablesCSV(w io.Writer, tables []*engine.TableData) error {
	cw := csv.NewWriter(w)
	for _, t := range tables {
		if t == nil {
			continue
		}
		cw.Flush()
		if _, err := fmt.Fprintf(w, "# %s\n", t.Title); err != nil {
			return fmt.Errorf("write table title: %w", err)
		}
		if err := writeTable(cw, t); err != nil {
			return err
		}
		cw.Flush()
		if _, err := io.WriteString(w, "\n"); err != nil {
			return fmt.Errorf("write table separator: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeTable(cw *csv.Writer, table *engine.TableData) error {
	if err := cw.Write(table.Headers()); err != nil {
		return fmt.Errorf("write %q header: %w", table.Title, err)
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("write %q rows: %w", table.Title, err)
	}
	return nil
}
