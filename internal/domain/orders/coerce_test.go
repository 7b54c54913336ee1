package orders_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controle-estoque/internal/domain/orders"
)

// ── Valores monetarios ────────────────────────────────────────────────────────

func TestParseMoney_FormatoBrasileno(t *testing.T) {
	for _, in := range []string{"1.234,56", "1234,56", "R$ 1.234,56", " 1234,56 "} {
		v, ok := orders.ParseMoney(in)
		assert.True(t, ok, in)
		assert.InDelta(t, 1234.56, v, 1e-9, in)
	}
}

func TestParseMoney_PuntoDecimal(t *testing.T) {
	v, ok := orders.ParseMoney("12.5")
	assert.True(t, ok)
	assert.InDelta(t, 12.5, v, 1e-9)

	v, ok = orders.ParseMoney("1.234.567,89")
	assert.True(t, ok)
	assert.InDelta(t, 1234567.89, v, 1e-6)
}

func TestParseMoney_InvalidoEsCero(t *testing.T) {
	for _, in := range []string{"", "abc", "R$", "12,3,4"} {
		v, ok := orders.ParseMoney(in)
		assert.False(t, ok, in)
		assert.Equal(t, 0.0, v, in)
	}
}

func TestParseOptionalMoney(t *testing.T) {
	assert.Nil(t, orders.ParseOptionalMoney(""))
	assert.Nil(t, orders.ParseOptionalMoney("n/d"))

	v := orders.ParseOptionalMoney("3,5")
	require.NotNil(t, v)
	assert.InDelta(t, 3.5, *v, 1e-9)
}

// ── Fechas ────────────────────────────────────────────────────────────────────

func TestParseDate_DiaPrimero(t *testing.T) {
	cases := map[string]time.Time{
		"05/01/2024":          day(2024, time.January, 5),
		"5/1/2024":            day(2024, time.January, 5),
		"05/01/2024 10:30:00": day(2024, time.January, 5),
		"05-01-2024":          day(2024, time.January, 5),
		"2024-01-05":          day(2024, time.January, 5),
		"2024-01-05 00:00:00": day(2024, time.January, 5),
	}
	for in, want := range cases {
		d := orders.ParseDate(in)
		require.True(t, d.Valid, in)
		assert.Equal(t, want, d.Time, in)
	}
}

func TestParseDate_SerialDeExcel(t *testing.T) {
	d := orders.ParseDate("45296")
	require.True(t, d.Valid)
	assert.Equal(t, day(2024, time.January, 5), d.Time)

	d = orders.ParseDate("45296.75")
	require.True(t, d.Valid)
	assert.Equal(t, day(2024, time.January, 5), d.Time, "la fracción es la hora")
}

func TestParseDate_InvalidaEsNula(t *testing.T) {
	for _, in := range []string{"31/02/2024", "", "   ", "amanhã", "-3"} {
		d := orders.ParseDate(in)
		assert.False(t, d.Valid, in)
	}
}

func TestNormalizeHeader_FormasUnicode(t *testing.T) {
	decomposed := "Regia\u0303o"
	assert.Equal(t, "Região", orders.NormalizeHeader("  "+decomposed+" "))
}
