// Package export renders tabular record extracts as CSV, JSON, Excel
// or PDF documents.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// Table is an extract: an ordered column list and one map per record.
type Table struct {
	Title   string
	Columns []string
	Rows    []map[string]any
}

// Document is a rendered extract.
type Document struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Renderer turns a table into a document of one format.
type Renderer interface {
	Render(t Table) (Document, error)
}

// Renderers returns the renderer of every supported format keyed by the
// format name stored on a data export.
func Renderers() map[string]Renderer {
	return map[string]Renderer{
		"csv":   CSV{},
		"json":  JSON{},
		"excel": Excel{},
		"pdf":   PDF{},
	}
}

// CSV writes a header line followed by one line per record.
type CSV struct{}

func (CSV) Render(t Table) (Document, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return Document{}, err
	}
	for _, row := range t.Rows {
		if err := w.Write(cells(t.Columns, row)); err != nil {
			return Document{}, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Document{}, err
	}
	return Document{Data: buf.Bytes(), ContentType: "text/csv", Extension: "csv"}, nil
}

// JSON writes an array of objects restricted to the table columns.
type JSON struct{}

func (JSON) Render(t Table) (Document, error) {
	out := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for _, c := range t.Columns {
			rec[c] = row[c]
		}
		out[i] = rec
	}
	data, err := json.Marshal(out)
	if err != nil {
		return Document{}, err
	}
	return Document{Data: data, ContentType: "application/json", Extension: "json"}, nil
}

// Excel writes a single worksheet with a bold header row.
type Excel struct{}

const excelSheet = "Export"

func (Excel) Render(t Table) (Document, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(excelSheet)
	if err != nil {
		return Document{}, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return Document{}, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Document{}, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, c := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return Document{}, err
		}
		if err := f.SetCellValue(excelSheet, cell, c); err != nil {
			return Document{}, err
		}
		if err := f.SetCellStyle(excelSheet, cell, cell, bold); err != nil {
			return Document{}, err
		}
	}
	for r, row := range t.Rows {
		for i, v := range cells(t.Columns, row) {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return Document{}, err
			}
			if err := f.SetCellValue(excelSheet, cell, v); err != nil {
				return Document{}, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Document{}, fmt.Errorf("failed to write workbook: %w", err)
	}
	return Document{
		Data:        buf.Bytes(),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Extension:   "xlsx",
	}, nil
}

func cells(columns []string, row map[string]any) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = formatCell(row[c])
	}
	return out
}

// formatCell renders a decoded JSON value as cell text. Objects and
// arrays keep their JSON form.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
