// Package pdf genera el reporte de inventario en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación │ filas bajo mínimo    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ALMACÉN CENTRAL: Artículo | Actual | Mínimo | Estado        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SALONES: Salón | Artículo | Actual | Mínimo | Estado        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/application/inventory"
	"github.com/jhoicas/salones-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var _ inventory.ReportRenderer = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa inventory.ReportRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	title string
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(title string) *MarotoPDFGenerator {
	if title == "" {
		title = "Reporte de Inventario"
	}
	return &MarotoPDFGenerator{title: title}
}

// RenderInventory genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderInventory(_ context.Context, r *inventory.InventoryReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("ALMACÉN CENTRAL"))
	m.AddRows(centralHeaderRow())
	m.AddRows(centralRows(r.Central)...)

	m.AddRows(line.NewRow(4))
	m.AddRows(sectionRow("SALONES"))
	m.AddRows(venueHeaderRow())
	m.AddRows(venueRows(r.Venues)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(title string, r *inventory.InventoryReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("%d filas bajo mínimo", r.Alerts), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 4, Color: alertColor(r.Alerts > 0),
			}),
		),
	)
}

func sectionRow(label string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2}),
	))
}

func headerCol(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func centralHeaderRow() core.Row {
	return row.New(6).Add(
		headerCol("Artículo", 6, align.Left),
		headerCol("Actual", 2, align.Right),
		headerCol("Mínimo", 2, align.Right),
		headerCol("Estado", 2, align.Center),
	)
}

func venueHeaderRow() core.Row {
	return row.New(6).Add(
		headerCol("Salón", 3, align.Left),
		headerCol("Artículo", 3, align.Left),
		headerCol("Actual", 2, align.Right),
		headerCol("Mínimo", 2, align.Right),
		headerCol("Estado", 2, align.Center),
	)
}

func centralRows(list []*entity.CentralStock) []core.Row {
	rows := make([]core.Row, 0, len(list))
	for _, c := range list {
		rows = append(rows, row.New(6).Add(
			cell(c.ItemName, 6, align.Left),
			cell(quantity(c.Quantity), 2, align.Right),
			cell(quantity(c.MinQuantity), 2, align.Right),
			status(c.NeedsRestock()),
		))
	}
	return rows
}

func venueRows(list []*entity.VenueStock) []core.Row {
	rows := make([]core.Row, 0, len(list))
	for _, v := range list {
		rows = append(rows, row.New(6).Add(
			cell(v.VenueName, 3, align.Left),
			cell(v.ItemName, 3, align.Left),
			cell(quantity(v.Quantity), 2, align.Right),
			cell(quantity(v.MinQuantity), 2, align.Right),
			status(v.NeedsRestock()),
		))
	}
	return rows
}

func cell(s string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func status(low bool) core.Col {
	label := "OK"
	if low {
		label = "Reponer"
	}
	return col.New(2).Add(text.New(label, props.Text{
		Size: 8, Align: align.Center, Top: 1, Color: alertColor(low),
	}))
}

func alertColor(low bool) *props.Color {
	if low {
		return colorAlert
	}
	return colorGray
}

// quantity sin decimales si la cantidad es entera. Ej: "50", "12.50"
func quantity(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.StringFixed(0)
	}
	return d.StringFixed(2)
}
