package spreadsheet_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controle-estoque/internal/infrastructure/spreadsheet"
)

func TestExcel_EscribirYLeer(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "ordens.xlsx")
	w := spreadsheet.NewExcelWriter("")

	err := w.WriteTable(
		[]string{"Nro Ordem", " Valor ", "Data Ordem"},
		[][]any{
			{"1000", 12.5, "05/01/2024"},
			{nil, nil, nil},
			{"1001", "1.234,56"},
		},
		dest,
	)
	require.NoError(t, err)

	table, err := spreadsheet.NewExcelReader().ReadTable(dest)
	require.NoError(t, err)

	assert.Equal(t, []string{"Nro Ordem", "Valor", "Data Ordem"}, table.Columns, "encabezados recortados")
	require.Len(t, table.Rows, 2, "la fila vacía se omite")
	assert.Equal(t, "1000", table.Rows[0]["Nro Ordem"])
	assert.Equal(t, "12.5", table.Rows[0]["Valor"])
	assert.Equal(t, "05/01/2024", table.Rows[0]["Data Ordem"])
	assert.Equal(t, "1.234,56", table.Rows[1]["Valor"])
	assert.Equal(t, "", table.Rows[1]["Data Ordem"], "celdas faltantes quedan vacías")
}

func TestExcelReader_ArchivoInexistente(t *testing.T) {
	_, err := spreadsheet.NewExcelReader().ReadTable(filepath.Join(t.TempDir(), "nada.xlsx"))
	assert.Error(t, err)
}
