package helpers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nshahpazov/nyc-bikership-analysis/engine"
)

// ============================================================================
// XLSX — Workbook export with one sheet per table and native bar charts
// ============================================================================

const maxSheetName = 31

// WriteXLSX writes a workbook to w. Each table gets a sheet; each chart
// gets a sheet holding its first series and a column chart over it.
// Numeric cells are written as numbers.
func WriteXLSX(w io.Writer, tables []*engine.TableData, charts []*engine.ChartConfig) error {
	f := excelize.NewFile()
	defer f.Close()

	names := newSheetNames()
	first := true
	addSheet := func(title string) (string, error) {
		name := names.next(title)
		if first {
			first = false
			return name, f.SetSheetName(f.GetSheetName(0), name)
		}
		_, err := f.NewSheet(name)
		return name, err
	}

	for _, t := range tables {
		if t == nil {
			continue
		}
		sheet, err := addSheet(t.Title)
		if err != nil {
			return fmt.Errorf("add sheet %q: %w", t.Title, err)
		}
		if err := writeSheetTable(f, sheet, t); err != nil {
			return err
		}
	}

	for _, c := range charts {
		if c == nil || len(c.Series) == 0 {
			continue
		}
		sheet, err := addSheet("Chart " + c.Title)
		if err != nil {
			return fmt.Errorf("add sheet %q: %w", c.Title, err)
		}
		if err := writeSheetChart(f, sheet, c); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheetTable(f *excelize.File, sheet string, t *engine.TableData) error {
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Label
		if c.Label == "" {
			header[i] = c.Key
		}
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for r, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = cellValue(v)
		}
		if err := setRow(f, sheet, r+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeSheetChart(f *excelize.File, sheet string, c *engine.ChartConfig) error {
	series := c.Series[0]
	if err := setRow(f, sheet, 1, []interface{}{c.XAxis, c.YAxis}); err != nil {
		return err
	}
	for i, p := range series.Data {
		if err := setRow(f, sheet, i+2, []interface{}{p.Label, p.Value}); err != nil {
			return err
		}
	}
	if len(series.Data) == 0 {
		return nil
	}

	last := len(series.Data) + 1
	ref := quoteSheet(sheet)
	chartSeries := excelize.ChartSeries{
		Name:       fmt.Sprintf("%s!$B$1", ref),
		Categories: fmt.Sprintf("%s!$A$2:$A$%d", ref, last),
		Values:     fmt.Sprintf("%s!$B$2:$B$%d", ref, last),
	}
	if series.Color != "" {
		chartSeries.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{strings.TrimPrefix(series.Color, "#")},
		}
	}

	chart := &excelize.Chart{
		Type:   excelize.Col,
		Series: []excelize.ChartSeries{chartSeries},
		Title:  []excelize.RichTextRun{{Text: c.Title}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: c.XAxis}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: c.YAxis}}},
	}
	if err := f.AddChart(sheet, "D2", chart); err != nil {
		return fmt.Errorf("add chart %q: %w", c.Title, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func cellValue(s string) interface{} {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// sheetNames yields unique, valid worksheet names.
type sheetNames struct {
	used map[string]bool
}

func newSheetNames() *sheetNames {
	return &sheetNames{used: make(map[string]bool)}
}

func (s *sheetNames) next(title string) string {
	base := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return ' '
		}
		return r
	}, strings.TrimSpace(title))
	base = strings.Trim(base, "'")
	if base == "" {
		base = "Sheet"
	}
	base = truncate(base, maxSheetName)

	name := base
	for i := 2; s.used[strings.ToLower(name)]; i++ {
		suffix := " " + strconv.Itoa(i)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	s.used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return strings.TrimSpace(string(r))
}
