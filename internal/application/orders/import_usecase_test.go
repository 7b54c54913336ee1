package orders_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controle-estoque/internal/application/dto"
	"github.com/jhoicas/controle-estoque/internal/application/orders"
	"github.com/jhoicas/controle-estoque/internal/application/ports"
	"github.com/jhoicas/controle-estoque/internal/domain"
	"github.com/jhoicas/controle-estoque/internal/domain/entity"
	domorders "github.com/jhoicas/controle-estoque/internal/domain/orders"
	"github.com/jhoicas/controle-estoque/pkg/logger"
)

type fakeReader struct {
	table domorders.Table
	err   error
}

func (r fakeReader) ReadTable(string) (domorders.Table, error) { return r.table, r.err }

type fakeWriter struct {
	headers []string
	rows    [][]any
}

func (w *fakeWriter) WriteTable(headers []string, rows [][]any, _ string) error {
	w.headers, w.rows = headers, rows
	return nil
}

type fakePDF struct {
	doc ports.BatchDocument
}

func (p *fakePDF) GenerateBatchPDF(_ context.Context, doc ports.BatchDocument) ([]byte, error) {
	p.doc = doc
	return []byte("%PDF-fake"), nil
}

func table171() domorders.Table {
	return domorders.Table{
		Columns: []string{"Nro Ordem", "Tipo Devol.", "Valor", "Data Ordem", "Cliente"},
		Rows: []domorders.Record{
			{"Nro Ordem": "A1", "Tipo Devol.": "Devolução CORTE", "Valor": "1.234,56", "Data Ordem": "05/01/2024", "Cliente": "Mercado"},
			{"Nro Ordem": "A2", "Tipo Devol.": "Outro", "Valor": "10", "Data Ordem": "05/01/2024"},
			{"Nro Ordem": "A3", "Tipo Devol.": "Bonificação CORTE", "Valor": "abc", "Data Ordem": "31/02/2024"},
		},
	}
}

func newImport(t *testing.T, reader ports.SpreadsheetReader) (*orders.ImportUseCase, *fixture, *fakeWriter, *fakePDF) {
	t.Helper()
	f := newFixture(t)
	w := &fakeWriter{}
	p := &fakePDF{}
	pipeline := domorders.NewPipeline(domorders.Options{Now: func() time.Time { return time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC) }})
	uc := orders.NewImportUseCase(reader, w, p, pipeline, f.coord, f.orders, logger.Nop())
	return uc, f, w, p
}

func TestImport_CreaLotePendiente(t *testing.T) {
	uc, f, _, _ := newImport(t, fakeReader{table: table171()})

	res, err := uc.Import(context.Background(), dto.ImportOrdersRequest{Path: "x.xlsx", Origin: "Senha 171", Description: "semana 1"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalRows)
	assert.Equal(t, 2, res.Staged)
	assert.Equal(t, 1, res.DroppedByType)
	assert.Equal(t, 1, res.BadDates)
	assert.Equal(t, 1, res.BadValues)

	assert.Equal(t, entity.StatusPending, f.status(t, res.RequestID))
	assert.Equal(t, 2, f.stagingCount(t, entity.Flow171, res.RequestID))
}

func TestImport_PlanillaIlegibleOVacia(t *testing.T) {
	var ve *domain.ValidationError

	uc, _, _, _ := newImport(t, fakeReader{err: errors.New("zip: not a valid zip file")})
	_, err := uc.Import(context.Background(), dto.ImportOrdersRequest{Path: "x.xlsx", Origin: "171"})
	assert.ErrorAs(t, err, &ve)

	uc, _, _, _ = newImport(t, fakeReader{table: domorders.Table{Columns: []string{"Nro Ordem"}}})
	_, err = uc.Import(context.Background(), dto.ImportOrdersRequest{Path: "x.xlsx", Origin: "171"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Reason, "no tiene filas")

	_, err = uc.Import(context.Background(), dto.ImportOrdersRequest{Path: "x.xlsx", Origin: "999"})
	assert.ErrorAs(t, err, &ve)
}

func TestExportOrders_FechasComoDiaMesAnio(t *testing.T) {
	uc, f, w, _ := newImport(t, fakeReader{})
	ctx := context.Background()
	_, err := f.orders.InsertIfAbsent(ctx, entity.Flow171, []entity.OrderRow{row("A1", 10)})
	require.NoError(t, err)

	n, err := uc.ExportOrders(ctx, entity.Flow171, "out.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, entity.Flow171.Headers(), w.headers)
	require.Len(t, w.rows, 1)
	assert.Equal(t, "A1", w.rows[0][0])
	assert.Contains(t, w.rows[0], "05/01/2024")
}

func TestExportBatchPDF_UsaFilasEnStaging(t *testing.T) {
	uc, f, _, p := newImport(t, fakeReader{})
	ctx := context.Background()
	req, _, err := f.coord.Stage(ctx, entity.Flow171, "lote de prueba", []entity.OrderRow{row("A1", 12.5), row("", 1)})
	require.NoError(t, err)

	out, err := uc.ExportBatchPDF(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))
	assert.Equal(t, req.ID, p.doc.RequestID)
	assert.Equal(t, 2, p.doc.TotalRows)
	require.Len(t, p.doc.Rows, 1)
	assert.Equal(t, "A1", p.doc.Rows[0][0])
	assert.Contains(t, p.doc.Rows[0], "12.50")

	_, err = uc.ExportBatchPDF(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
