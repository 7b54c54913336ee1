package orders_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controle-estoque/internal/domain/entity"
	"github.com/jhoicas/controle-estoque/internal/domain/orders"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newPipeline() *orders.Pipeline {
	return orders.NewPipeline(orders.Options{Now: fixedNow(day(2024, time.January, 10))})
}

// ── Flujo 171 ─────────────────────────────────────────────────────────────────

func TestNormalize171_FiltraTipoDeDevolucion(t *testing.T) {
	table := orders.Table{
		Columns: []string{"Nro Ordem", "Tipo Devol.", "Valor", "Data Ordem", "Extra"},
		Rows: []orders.Record{
			{"Nro Ordem": "1000", "Tipo Devol.": "Devolução CORTE", "Valor": "1.234,56", "Data Ordem": "05/01/2024", "Extra": "x"},
			{"Nro Ordem": "1001", "Tipo Devol.": "Avaria", "Valor": "10", "Data Ordem": "05/01/2024"},
			{"Nro Ordem": "1002", "Tipo Devol.": "Bonificação CORTE", "Valor": "abc", "Data Ordem": "31/02/2024"},
		},
	}

	rows, rep, err := newPipeline().Normalize(table, entity.Flow171)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 3, rep.Input)
	assert.Equal(t, 2, rep.Output)
	assert.Equal(t, 1, rep.DroppedByType)
	assert.Equal(t, 1, rep.BadDates)
	assert.Equal(t, 1, rep.BadValues)

	first := rows[0]
	assert.Equal(t, "1000", first.OrderNumber)
	assert.InDelta(t, 1234.56, first.Value, 1e-9)
	assert.Equal(t, entity.DateOf(2024, time.January, 5), first.OrderDate)
	require.NotNil(t, first.Month)
	require.NotNil(t, first.Year)
	require.NotNil(t, first.Week)
	assert.Equal(t, 1, *first.Month)
	assert.Equal(t, 2024, *first.Year)
	assert.Equal(t, 1, *first.Week)

	bad := rows[1]
	assert.Equal(t, 0.0, bad.Value, "valor ilegible degrada a 0")
	assert.False(t, bad.OrderDate.Valid, "fecha inválida degrada a nula")
	assert.Nil(t, bad.Month)
	assert.Nil(t, bad.Year)
	assert.Nil(t, bad.Week)
}

func TestNormalize171_SinColumnaDeTipoNoFiltra(t *testing.T) {
	table := orders.Table{
		Columns: []string{"Nro Ordem", "Valor"},
		Rows: []orders.Record{
			{"Nro Ordem": "1", "Valor": "5"},
			{"Nro Ordem": "2", "Valor": "6"},
		},
	}

	rows, rep, err := newPipeline().Normalize(table, entity.Flow171)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Zero(t, rep.DroppedByType)
}

func TestNormalize171_FiltraSinColumnsDeclaradas(t *testing.T) {
	table := orders.Table{
		Rows: []orders.Record{
			{"Nro Ordem": "1", "Tipo Devol.": "Outro"},
			{"Nro Ordem": "2", "Tipo Devol.": "Devolução CORTE"},
			{"Nro Ordem": "3"},
		},
	}

	rows, rep, err := newPipeline().Normalize(table, entity.Flow171)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].OrderNumber)
	assert.Equal(t, 2, rep.DroppedByType, "fila sin tipo cuenta como tipo no permitido")
}

func TestNormalize167_RenombraSinColumnsDeclaradas(t *testing.T) {
	table := orders.Table{
		Rows: []orders.Record{
			{"Nro Ordem": "1", "Cliente": "SUL", "Cód. Cli": "F01", "Falta": "2"},
		},
	}

	rows, _, err := newPipeline().Normalize(table, entity.Flow167)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SUL", rows[0].Region)
	assert.Equal(t, "F01", rows[0].AccountingBranch)
}

func TestNormalize_LimpiaStatus(t *testing.T) {
	table := orders.Table{
		Columns: []string{"Nro Ordem", "Status", "STATUS"},
		Rows:    []orders.Record{{"Nro Ordem": "1", "Status": "OK", "STATUS": "FECHADO"}},
	}

	rows, _, err := newPipeline().Normalize(table, entity.Flow171)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Status)
}

func TestNormalize_TablaVacia(t *testing.T) {
	rows, rep, err := newPipeline().Normalize(orders.Table{Columns: []string{"Nro Ordem"}}, entity.Flow167)
	require.NoError(t, err)
	assert.Nil(t, rows)
	assert.Zero(t, rep.Output)
}

func TestNormalize_FlujoDesconocido(t *testing.T) {
	_, _, err := newPipeline().Normalize(orders.Table{}, entity.Flow("999"))
	assert.Error(t, err)
}

func TestNormalize_EncabezadosDescompuestos(t *testing.T) {
	table := orders.Table{
		Columns: []string{" Nro Ordem ", "Tipo Devol.", "Data Ordem"},
		Rows: []orders.Record{
			{" Nro Ordem ": " 77 ", "Tipo Devol.": "Devoluc\u0327a\u0303o CORTE", "Data Ordem": "45296"},
		},
	}

	rows, _, err := newPipeline().Normalize(table, entity.Flow171)
	require.NoError(t, err)
	require.Len(t, rows, 1, "el valor se normaliza a NFC antes de filtrar")
	assert.Equal(t, "77", rows[0].OrderNumber)
	assert.Equal(t, entity.DateOf(2024, time.January, 5), rows[0].OrderDate)
}

// ── Flujo 167 extendido ───────────────────────────────────────────────────────

func table167(rows ...orders.Record) orders.Table {
	return orders.Table{
		Columns: []string{"Nro Ordem", "Cliente", "Cód. Cli", "Valor", "Falta", "Data Ordem"},
		Rows:    rows,
	}
}

func TestNormalize167_RenombraYDescartaSinFalta(t *testing.T) {
	table := table167(
		orders.Record{"Nro Ordem": "1", "Cliente": "SUL", "Cód. Cli": "F01", "Valor": "10", "Falta": "2", "Data Ordem": "08/01/2024"},
		orders.Record{"Nro Ordem": "2", "Cliente": "NORTE", "Valor": "10", "Falta": "", "Data Ordem": "08/01/2024"},
		orders.Record{"Nro Ordem": "3", "Cliente": "LESTE", "Valor": "10", "Falta": "  ", "Data Ordem": "08/01/2024"},
	)

	rows, rep, err := newPipeline().Normalize(table, entity.Flow167)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rep.DroppedByShortfall)

	r := rows[0]
	assert.Equal(t, "SUL", r.Region)
	assert.Equal(t, "F01", r.AccountingBranch)
	require.NotNil(t, r.Shortfall)
	assert.InDelta(t, 2.0, *r.Shortfall, 1e-9)
	assert.Empty(t, r.Customer, "Cliente no es columna del flujo 167")
}

func TestNormalize167_PlazoYDerivados(t *testing.T) {
	table := table167(
		orders.Record{"Nro Ordem": "1", "Valor": "100", "Falta": "1", "Data Ordem": "08/01/2024"},
	)

	rows, _, err := newPipeline().Normalize(table, entity.Flow167)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, entity.DateOf(2024, time.January, 17), r.Deadline)
	require.NotNil(t, r.ClosureMonth)
	assert.Equal(t, 1, *r.ClosureMonth)
	assert.Equal(t, "Sem. 3", r.WeekLimit)
	require.NotNil(t, r.DaysRemaining)
	assert.Equal(t, 7, *r.DaysRemaining, "del 10/01 al 17/01")
}

func TestNormalize167_FechaNulaSinPlazo(t *testing.T) {
	table := table167(
		orders.Record{"Nro Ordem": "1", "Valor": "100", "Falta": "1", "Data Ordem": "31/02/2024"},
	)

	rows, _, err := newPipeline().Normalize(table, entity.Flow167)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.False(t, r.Deadline.Valid)
	assert.Nil(t, r.ClosureMonth)
	assert.Empty(t, r.WeekLimit)
	assert.Nil(t, r.DaysRemaining)
	assert.Equal(t, orders.EvidencePresent, r.Evidence)
}

func TestNormalize167_LimiteDeEvidencia(t *testing.T) {
	table := table167(
		orders.Record{"Nro Ordem": "1", "Valor": "49,99", "Falta": "1", "Data Ordem": "08/01/2024"},
		orders.Record{"Nro Ordem": "2", "Valor": "50,00", "Falta": "1", "Data Ordem": "08/01/2024"},
		orders.Record{"Nro Ordem": "3", "Valor": "", "Falta": "1", "Data Ordem": "08/01/2024"},
	)

	rows, _, err := newPipeline().Normalize(table, entity.Flow167)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, orders.EvidenceMissing, rows[0].Evidence)
	assert.Equal(t, orders.EvidencePresent, rows[1].Evidence)
	assert.Equal(t, orders.EvidenceMissing, rows[2].Evidence, "valor vacío cuenta como 0")
}

func TestNormalize167_OpcionesPersonalizadas(t *testing.T) {
	p := orders.NewPipeline(orders.Options{
		BusinessDays:      1,
		EvidenceThreshold: 10,
		Holidays:          []orders.MonthDay{{Month: time.January, Day: 9}},
		Now:               fixedNow(day(2024, time.January, 8)),
	})
	table := table167(
		orders.Record{"Nro Ordem": "1", "Valor": "20", "Falta": "1", "Data Ordem": "08/01/2024"},
	)

	rows, _, err := p.Normalize(table, entity.Flow167)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.DateOf(2024, time.January, 10), rows[0].Deadline, "el 09/01 es feriado configurado")
	assert.Equal(t, orders.EvidencePresent, rows[0].Evidence)
	assert.Equal(t, 2, *rows[0].DaysRemaining)
}

func TestBlank(t *testing.T) {
	assert.True(t, orders.Blank(entity.OrderRow{}))
	assert.True(t, orders.Blank(entity.OrderRow{OrderNumber: "  "}))
	assert.False(t, orders.Blank(entity.OrderRow{OrderNumber: "1"}))
}
