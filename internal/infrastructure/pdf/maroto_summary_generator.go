// Package pdf implementa la generación del reporte de inventario por sucursal.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la cadena │ Sucursal + Fecha             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: cantidad total / valor total / registros           │
//	│           bajo mínimo / en cero                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA STOCK BAJO: Ítem | Cant. | Mínimo | Unidad | Costo   │
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

	"github.com/piccolaroma/cadena-api/internal/application/dto"
	appinventory "github.com/piccolaroma/cadena-api/internal/application/inventory"
)

var _ appinventory.SummaryPDFGenerator = (*MarotoSummaryGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 178, Green: 34, Blue: 34}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoSummaryGenerator implementa inventory.SummaryPDFGenerator usando Maroto v2.
type MarotoSummaryGenerator struct {
	chainName string
}

// NewMarotoSummaryGenerator construye el generador. chainName encabeza el reporte.
func NewMarotoSummaryGenerator(chainName string) *MarotoSummaryGenerator {
	return &MarotoSummaryGenerator{chainName: chainName}
}

// GenerateSummaryPDF genera el reporte y devuelve sus bytes.
func (g *MarotoSummaryGenerator) GenerateSummaryPDF(
	_ context.Context,
	branchName string,
	summary dto.InventorySummaryResponse,
	lowStock []dto.InventoryRecordResponse,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Inventario", true).
		WithAuthor(g.chainName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(branchName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(lowStockTitleRow(len(lowStock)))
	if len(lowStock) > 0 {
		m.AddRows(tableHeaderRow())
		for _, r := range tableDetailRows(lowStock) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la cadena (izq) y sucursal + fecha (der).
func (g *MarotoSummaryGenerator) headerRow(branchName string) core.Row {
	fecha := time.Now().Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.chainName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de inventario", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(branchName, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// summaryRow: agregados del inventario en dos columnas.
func summaryRow(s dto.InventorySummaryResponse) core.Row {
	label := func(t string, top float64) core.Component {
		return text.New(t, props.Text{Style: fontstyle.Bold, Size: 9, Top: top})
	}
	value := func(t string, top float64) core.Component {
		return text.New(t, props.Text{Size: 9, Top: top, Align: align.Right, Right: 4})
	}
	return row.New(30).Add(
		col.New(4).Add(
			label("Cantidad total:", 2),
			label("Valor total:", 9),
			label("Registros:", 16),
		),
		col.New(2).Add(
			value(s.TotalQuantity.StringFixed(2), 2),
			value("$"+s.TotalValue.StringFixed(2), 9),
			value(fmt.Sprintf("%d", s.RecordCount), 16),
		),
		col.New(4).Add(
			label("Bajo mínimo:", 2),
			label("En cero:", 9),
		),
		col.New(2).Add(
			value(fmt.Sprintf("%d", s.BelowThreshold), 2),
			value(fmt.Sprintf("%d", s.ZeroStock), 9),
		),
	)
}

// lowStockTitleRow: título de la sección de stock crítico.
func lowStockTitleRow(count int) core.Row {
	title := "STOCK BAJO MÍNIMO"
	if count == 0 {
		title = "Sin registros bajo el mínimo"
	}
	return row.New(10).Add(
		col.New(12).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 3,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de stock bajo mínimo.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Ítem", 5, align.Left),
		h("Cantidad", 2, align.Right),
		h("Mínimo", 2, align.Right),
		h("Unidad", 1, align.Center),
		h("Costo Unit.", 2, align.Right),
	)
}

// tableDetailRows: una fila por registro bajo mínimo.
func tableDetailRows(records []dto.InventoryRecordResponse) []core.Row {
	result := make([]core.Row, 0, len(records))
	for _, r := range records {
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(
				r.ItemID,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				r.Quantity.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				r.MinStockLevel.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				r.Unit,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				"$"+r.CostPerUnit.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}
