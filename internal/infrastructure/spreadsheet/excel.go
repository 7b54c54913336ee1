// Package spreadsheet lee y escribe planillas xlsx con excelize.
package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/controle-estoque/internal/application/ports"
	"github.com/jhoicas/controle-estoque/internal/domain/orders"
)

var (
	_ ports.SpreadsheetReader = (*ExcelReader)(nil)
	_ ports.ExportWriter      = (*ExcelWriter)(nil)
)

// ExcelReader lee la primera hoja; la primera fila son los encabezados.
// Las celdas se leen sin formato, así las fechas llegan como serial de Excel o como texto.
type ExcelReader struct{}

// NewExcelReader construye el lector.
func NewExcelReader() *ExcelReader { return &ExcelReader{} }

// ReadTable devuelve la tabla cruda. Filas completamente vacías se omiten.
func (r *ExcelReader) ReadTable(path string) (orders.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return orders.Table{}, fmt.Errorf("spreadsheet: abrir %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return orders.Table{}, fmt.Errorf("spreadsheet: %s no tiene hojas", path)
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return orders.Table{}, fmt.Errorf("spreadsheet: leer %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return orders.Table{}, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = orders.NormalizeHeader(h)
	}
	table := orders.Table{Columns: header}
	for _, cells := range rows[1:] {
		if blankRow(cells) {
			continue
		}
		rec := make(orders.Record, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(cells) {
				rec[h] = cells[i]
			} else {
				rec[h] = ""
			}
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ExcelWriter escribe una hoja con encabezado en negrita y panel fijo.
type ExcelWriter struct {
	sheet string
}

// NewExcelWriter sheet vacío usa "Dados".
func NewExcelWriter(sheet string) *ExcelWriter {
	if sheet == "" {
		sheet = "Dados"
	}
	return &ExcelWriter{sheet: sheet}
}

// WriteTable escribe headers y rows en dest.
func (w *ExcelWriter) WriteTable(headers []string, rows [][]any, dest string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), w.sheet); err != nil {
		return fmt.Errorf("spreadsheet: nombre de hoja: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
	})
	if err != nil {
		return fmt.Errorf("spreadsheet: estilo: %w", err)
	}

	sw, err := f.NewStreamWriter(w.sheet)
	if err != nil {
		return fmt.Errorf("spreadsheet: stream: %w", err)
	}
	if err := sw.SetPanes(&excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("spreadsheet: panel: %w", err)
	}

	head := make([]any, len(headers))
	for i, h := range headers {
		head[i] = h
	}
	if err := sw.SetRow("A1", head, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return fmt.Errorf("spreadsheet: encabezado: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("spreadsheet: fila %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("spreadsheet: flush: %w", err)
	}
	if err := f.SaveAs(dest); err != nil {
		return fmt.Errorf("spreadsheet: guardar %s: %w", dest, err)
	}
	return nil
}
