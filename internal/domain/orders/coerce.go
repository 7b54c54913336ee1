package orders

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/controle-estoque/internal/domain/entity"
)

// Formatos con día primero, luego ISO.
var dateLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006",
	"2-1-2006 15:04:05",
	"2.1.2006",
	"2/1/06",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Serial de Excel: días desde 1899-12-30 (válido a partir de marzo de 1900).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const maxExcelSerial = 2958465 // 9999-12-31

// NormalizeHeader compara encabezados sin depender de la forma Unicode ni de espacios.
func NormalizeHeader(h string) string {
	return norm.NFC.String(strings.TrimSpace(h))
}

// ParseDate interpreta s con día primero. Valores vacíos o inválidos (ej. 31/02/2024) devuelven fecha nula.
func ParseDate(s string) entity.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return entity.Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return entity.NewDate(t)
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 61 && f <= maxExcelSerial {
		days := int(math.Floor(f))
		return entity.NewDate(excelEpoch.AddDate(0, 0, days))
	}
	return entity.Date{}
}

// ParseMoney convierte texto monetario en float. Con coma decimal, los puntos son separadores de miles.
// ok es false si el valor estaba vacío o no pudo interpretarse; en ambos casos devuelve 0.
func ParseMoney(s string) (value float64, ok bool) {
	s = cleanMoney(s)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// ParseOptionalMoney como ParseMoney pero nil cuando no hay número.
func ParseOptionalMoney(s string) *float64 {
	v, ok := ParseMoney(s)
	if !ok {
		return nil
	}
	return &v
}

func cleanMoney(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\t':
			return -1
		}
		return r
	}, s)
}

func intPtr(v int) *int { return &v }
