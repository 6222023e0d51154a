// Package pdf genera el reporte de ventas del bar en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: nombre del bar          │  período + fecha emisión │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPIs: ventas | unidades | monto total | ticket promedio     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Producto | Unidades vendidas                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

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

	"github.com/jhoicas/bar-inventario-api/internal/application/dto"
	"github.com/jhoicas/bar-inventario-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 120, Green: 30, Blue: 45}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// SalesReportGenerator arma el PDF del resumen de ventas usando Maroto v2.
type SalesReportGenerator struct {
	barName string
	now     func() time.Time
}

// NewSalesReportGenerator construye el generador.
func NewSalesReportGenerator(barName string) *SalesReportGenerator {
	return &SalesReportGenerator{barName: barName, now: time.Now}
}

// Generate devuelve los bytes del PDF con los totales del período y el ranking de productos.
func (g *SalesReportGenerator) Generate(
	_ context.Context,
	summary *dto.SalesSummaryDTO,
	top []dto.ProductSalesDTO,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de ventas", true).
		WithAuthor(g.barName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.barName, summary, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(kpiRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(top)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Unidades acumuladas desde el registro de ventas. Productos dados de baja no aparecen en el ranking.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(barName string, s *dto.SalesSummaryDTO, now time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(barName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de ventas", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Período: "+periodLabel(s.From, s.To), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 3,
			}),
			text.New("Emitido: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func kpiRow(s *dto.SalesSummaryDTO) core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Align: align.Center, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Center, Top: 6}),
		)
	}
	return row.New(16).Add(
		kpi("VENTAS", money.FormatUnits(s.TotalSales)),
		kpi("UNIDADES", money.FormatUnits(s.UnitsSold)),
		kpi("MONTO TOTAL", money.Format(s.TotalAmount)),
		kpi("TICKET PROMEDIO", money.Format(s.AverageTicket)),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Producto", 8, align.Left),
		h("Unidades vendidas", 3, align.Right),
	)
}

func tableRows(top []dto.ProductSalesDTO) []core.Row {
	if len(top) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Sin productos activos.", props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray}),
		))}
	}
	result := make([]core.Row, 0, len(top))
	for i, p := range top {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(8).Add(text.New(p.Name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(3).Add(text.New(money.FormatUnits(p.TotalSold), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func periodLabel(from, to *time.Time) string {
	const layout = "02/01/2006"
	switch {
	case from == nil && to == nil:
		return "histórico"
	case from == nil:
		return "hasta " + to.Format(layout)
	case to == nil:
		return "desde " + from.Format(layout)
	}
	return from.Format(layout) + " – " + to.Format(layout)
}
