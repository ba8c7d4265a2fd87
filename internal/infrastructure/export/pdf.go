package export

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var headerColor = &props.Color{Red: 0, Green: 70, Blue: 127}

// PDF lays the table out on A4 pages, one grid column per table column.
type PDF struct{}

func (PDF) Render(t Table) (Document, error) {
	if len(t.Columns) == 0 {
		return Document{}, fmt.Errorf("pdf export needs at least one column")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithMaxGridSize(len(t.Columns)).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 7}).
		WithTitle(t.Title, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(text.NewRow(10, t.Title, props.Text{Style: fontstyle.Bold, Size: 12, Color: headerColor}))
	m.AddRows(pdfRow(t.Columns, props.Text{Style: fontstyle.Bold, Size: 7, Color: headerColor}))
	m.AddRows(line.NewRow(1, props.Line{Color: headerColor, Thickness: 0.3}))
	for _, r := range t.Rows {
		m.AddRows(pdfRow(cells(t.Columns, r), props.Text{Size: 7}))
	}

	doc, err := m.Generate()
	if err != nil {
		return Document{}, fmt.Errorf("failed to generate pdf: %w", err)
	}
	return Document{Data: doc.GetBytes(), ContentType: "application/pdf", Extension: "pdf"}, nil
}

func pdfRow(values []string, style props.Text) core.Row {
	cols := make([]core.Col, len(values))
	for i, v := range values {
		cols[i] = col.New(1).Add(text.New(v, style))
	}
	return row.New(6).Add(cols...)
}
