// Package orders normaliza planillas de órdenes (flujos 167 y 171) a filas canónicas.
//
// El pipeline es permisivo: fechas o valores que no se pueden interpretar degradan a
// fecha nula y 0.0 en lugar de abortar la importación. Solo el flujo 167 descarta filas
// sin "Falta" y calcula el plazo de cierre en días hábiles.
package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/controle-estoque/internal/domain/entity"
)

// Clasificación de evidencia del flujo 167.
const (
	EvidenceMissing = "SEM EVIDENCIA"
	EvidencePresent = "COM EVIDENCIA"
)

// Record fila cruda: encabezado de planilla -> texto de la celda.
type Record map[string]string

// Table tabla cruda leída de una planilla, en orden.
type Table struct {
	Columns []string
	Rows    []Record
}

// Empty indica si no hay filas de datos.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// columnSet encabezados normalizados de Columns más las claves de todas las filas.
// Una columna presente en cualquier fila cuenta como columna de la tabla.
func (t Table) columnSet() map[string]struct{} {
	set := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		set[NormalizeHeader(c)] = struct{}{}
	}
	for _, r := range t.Rows {
		for k := range r {
			set[NormalizeHeader(k)] = struct{}{}
		}
	}
	return set
}

// Schema reglas de normalización de un flujo.
type Schema struct {
	Flow entity.Flow
	// Renames columnas de origen copiadas sobre una canónica, en orden.
	Renames [][2]string
	// AllowedReturnTypes filtra por "Tipo Devol." cuando la columna existe; vacío = sin filtro.
	AllowedReturnTypes map[string]struct{}
	// Extended activa filtro de Falta, plazo, evidencia y días a vencer.
	Extended bool
}

// SchemaFor devuelve el esquema del flujo.
func SchemaFor(flow entity.Flow) (Schema, error) {
	switch flow {
	case entity.Flow167:
		return Schema{
			Flow: entity.Flow167,
			Renames: [][2]string{
				{"Cliente", "Região"},
				{"Cód. Cli", "Filial Contábil"},
			},
			Extended: true,
		}, nil
	case entity.Flow171:
		return Schema{
			Flow: entity.Flow171,
			AllowedReturnTypes: map[string]struct{}{
				"Devolução CORTE":   {},
				"Bonificação CORTE": {},
			},
		}, nil
	default:
		return Schema{}, fmt.Errorf("orders: flujo no soportado %q", flow)
	}
}

// Options parámetros del cálculo de plazo y evidencia.
type Options struct {
	BusinessDays      int
	EvidenceThreshold float64
	Holidays          []MonthDay
	Now               func() time.Time
}

// DefaultOptions 7 días hábiles, umbral de evidencia 50 y feriados fijos.
func DefaultOptions() Options {
	return Options{
		BusinessDays:      7,
		EvidenceThreshold: 50,
		Holidays:          FixedHolidays,
		Now:               time.Now,
	}
}

// Report contadores de la normalización. Las coerciones no son errores, solo se informan.
type Report struct {
	Input              int
	Output             int
	DroppedByType      int
	DroppedByShortfall int
	BadDates           int
	BadValues          int
}

// Pipeline normalizador sin estado.
type Pipeline struct {
	opts Options
}

// NewPipeline aplica valores por defecto a opciones en cero.
func NewPipeline(opts Options) *Pipeline {
	def := DefaultOptions()
	if opts.BusinessDays <= 0 {
		opts.BusinessDays = def.BusinessDays
	}
	if opts.EvidenceThreshold == 0 {
		opts.EvidenceThreshold = def.EvidenceThreshold
	}
	if opts.Holidays == nil {
		opts.Holidays = def.Holidays
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	return &Pipeline{opts: opts}
}

// Normalize transforma la tabla cruda en filas canónicas del flujo.
// Una tabla vacía devuelve nil sin error.
func (p *Pipeline) Normalize(t Table, flow entity.Flow) ([]entity.OrderRow, Report, error) {
	schema, err := SchemaFor(flow)
	if err != nil {
		return nil, Report{}, err
	}
	rep := Report{Input: len(t.Rows)}
	if t.Empty() {
		return nil, rep, nil
	}

	present := t.columnSet()
	_, hasReturnType := present["Tipo Devol."]

	rows := make([]entity.OrderRow, 0, len(t.Rows))
	for _, raw := range t.Rows {
		rec := canonicalRecord(raw)
		for _, rn := range schema.Renames {
			if _, ok := present[rn[0]]; ok {
				rec[rn[1]] = rec[rn[0]]
			}
		}
		if len(schema.AllowedReturnTypes) > 0 && hasReturnType {
			if _, ok := schema.AllowedReturnTypes[rec["Tipo Devol."]]; !ok {
				rep.DroppedByType++
				continue
			}
		}
		if schema.Extended && rec["Falta"] == "" {
			rep.DroppedByShortfall++
			continue
		}

		row, bad := project(schema.Flow, rec)
		rep.BadDates += bad.dates
		rep.BadValues += bad.values
		rows = append(rows, row)
	}

	if schema.Extended {
		p.applyDeadlines(rows)
	}
	rep.Output = len(rows)
	return rows, rep, nil
}

// canonicalRecord normaliza encabezados y recorta valores.
func canonicalRecord(raw Record) Record {
	rec := make(Record, len(raw))
	for k, v := range raw {
		rec[NormalizeHeader(k)] = NormalizeHeader(v)
	}
	return rec
}

type coercions struct {
	dates  int
	values int
}

// project reindexa al esquema del flujo: columnas ausentes quedan vacías, las extra se ignoran.
func project(flow entity.Flow, rec Record) (entity.OrderRow, coercions) {
	var bad coercions

	orderDate := ParseDate(rec["Data Ordem"])
	if !orderDate.Valid && rec["Data Ordem"] != "" {
		bad.dates++
	}
	value, ok := ParseMoney(rec["Valor"])
	if !ok && rec["Valor"] != "" {
		bad.values++
	}

	row := entity.OrderRow{
		OrderNumber: rec["Nro Ordem"],
		ReturnType:  rec["Tipo Devol."],
		Load:        rec["Carga"],
		Value:       value,
		OrderDate:   orderDate,
	}
	if orderDate.Valid {
		_, week := orderDate.Time.ISOWeek()
		row.Month = intPtr(int(orderDate.Time.Month()))
		row.Year = intPtr(orderDate.Time.Year())
		row.Week = intPtr(week)
	}

	switch flow {
	case entity.Flow167:
		row.Treatment = rec["TRATATIVA"]
		row.Responsible = rec["Responsável"]
		row.DivergenceClosedAt = ParseDate(rec["Data Fechamento Divergência"])
		row.Checker = rec["Conferente"]
		row.Notes = rec["OBS"]
		row.Notes2 = rec["OBS - 2"]
		row.Region = rec["Região"]
		row.AccountingBranch = rec["Filial Contábil"]
		row.Shortfall = ParseOptionalMoney(rec["Falta"])
		row.RegionCode = rec["Cód. Região"]
		row.Region2 = rec["Região - 2"]
		row.Management = rec["Gerencia"]
		row.Email = rec["Email"]
	case entity.Flow171:
		row.Treatment = rec["Tratativa"]
		row.Name = rec["Nome"]
		row.TreatmentDate = ParseDate(rec["Data Tratativa"])
		row.Customer = rec["Cliente"]
		row.CustomerCode = rec["Cód. Cli"]
	}
	// Status es marcador del flujo de trabajo; nunca viene de la importación.
	row.Status = ""
	return row, bad
}

// applyDeadlines calcula DATA LIMITE y derivados. Los feriados cubren desde el menor
// año de orden hasta el mayor más uno.
func (p *Pipeline) applyDeadlines(rows []entity.OrderRow) {
	cal := p.calendarFor(rows)
	today := entity.NewDate(p.opts.Now())

	for i := range rows {
		r := &rows[i]
		if r.Value < p.opts.EvidenceThreshold {
			r.Evidence = EvidenceMissing
		} else {
			r.Evidence = EvidencePresent
		}
		if !r.OrderDate.Valid {
			r.Deadline = entity.Date{}
			r.ClosureMonth = nil
			r.WeekLimit = ""
			r.DaysRemaining = nil
			continue
		}
		deadline := entity.NewDate(cal.AddBusinessDays(r.OrderDate.Time, p.opts.BusinessDays))
		_, week := deadline.Time.ISOWeek()
		r.Deadline = deadline
		r.ClosureMonth = intPtr(int(deadline.Time.Month()))
		r.WeekLimit = fmt.Sprintf("Sem. %d", week)
		r.DaysRemaining = intPtr(daysBetween(today, deadline))
	}
}

func (p *Pipeline) calendarFor(rows []entity.OrderRow) *Calendar {
	minY, maxY := 0, 0
	for _, r := range rows {
		if !r.OrderDate.Valid {
			continue
		}
		y := r.OrderDate.Time.Year()
		if minY == 0 || y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	if minY == 0 {
		return NewCalendar(0, -1, nil)
	}
	return NewCalendar(minY, maxY+1, p.opts.Holidays)
}

func daysBetween(from, to entity.Date) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

// Blank indica si la clave natural de la fila está vacía.
func Blank(r entity.OrderRow) bool {
	return strings.TrimSpace(r.OrderNumber) == ""
}
