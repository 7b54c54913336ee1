// Package pdf genera la vista previa en PDF de un lote de órdenes pendiente.
//
// Layout de la página A4 apaisada:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Lote N° + Flujo      │  Estado + Fecha              │
//	│  DESCRIPCIÓN + totales                                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: columnas de resumen del flujo                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: filas en staging / filas recibidas                  │
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
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/controle-estoque/internal/application/ports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// summaryColumns columnas impresas; el resto queda en la exportación xlsx.
var summaryColumns = []string{"Nro Ordem", "Tipo Devol.", "Carga", "Valor", "Data Ordem", "DATA LIMITE", "STT"}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.BatchPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

var _ ports.BatchPDFGenerator = (*MarotoPDFGenerator)(nil)

// GenerateBatchPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateBatchPDF(_ context.Context, doc ports.BatchDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(fmt.Sprintf("Lote %d", doc.RequestID), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	idx := columnIndexes(doc.Headers)
	m.AddRows(tableHeaderRow(idx))
	for _, r := range tableDetailRows(doc.Rows, idx) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: lote y flujo (izq), estado y fecha (der), descripción debajo.
func headerRow(doc ports.BatchDocument) core.Row {
	return row.New(20).Add(
		col.New(8).Add(
			text.New(fmt.Sprintf("LOTE DE ÓRDENES N° %d", doc.RequestID), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Flujo "+string(doc.Origin), props.Text{
				Size: 9, Top: 8, Color: colorGray,
			}),
			text.New(nonEmpty(doc.Description, "Sin descripción"), props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("ESTADO: "+string(doc.Status), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+doc.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla con las columnas de resumen presentes.
func tableHeaderRow(idx []int) core.Row {
	cols := make([]core.Col, 0, len(idx))
	for i := range idx {
		cols = append(cols, col.New(colWidth(len(idx))).Add(text.New(summaryColumns[i], props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(cols...)
}

// tableDetailRows: una fila por orden en staging.
func tableDetailRows(rows [][]string, idx []int) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		cols := make([]core.Col, 0, len(idx))
		for _, j := range idx {
			v := ""
			if j >= 0 && j < len(r) {
				v = r[j]
			}
			cols = append(cols, col.New(colWidth(len(idx))).Add(text.New(v, props.Text{
				Size: 8, Align: align.Center, Top: 1,
			})))
		}
		result = append(result, row.New(6).Add(cols...))
	}
	return result
}

// footerRow: conteos del lote.
func footerRow(doc ports.BatchDocument) core.Row {
	return row.New(10).Add(
		col.New(12).Add(text.New(
			fmt.Sprintf("Filas en staging: %d   |   Filas recibidas: %d", len(doc.Rows), doc.TotalRows),
			props.Text{Size: 8, Align: align.Right, Top: 3, Color: colorGray},
		)),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// columnIndexes posición de cada columna de resumen en headers; -1 si el flujo no la tiene.
func columnIndexes(headers []string) []int {
	pos := make(map[string]int, len(headers))
	for i, h := range headers {
		pos[h] = i
	}
	idx := make([]int, len(summaryColumns))
	for i, c := range summaryColumns {
		if p, ok := pos[c]; ok {
			idx[i] = p
		} else {
			idx[i] = -1
		}
	}
	return idx
}

// colWidth reparte la grilla de 12 columnas; el mínimo es 1.
func colWidth(n int) int {
	if n == 0 {
		return 12
	}
	if w := 12 / n; w > 0 {
		return w
	}
	return 1
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
