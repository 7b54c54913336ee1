package entity

import (
	"fmt"
	"strings"
	"time"
)

// Flow variante de procesamiento de órdenes. Cada una tiene su esquema y sus tablas.
type Flow string

const (
	Flow167 Flow = "167"
	Flow171 Flow = "171"
)

// Flows devuelve los flujos soportados.
func Flows() []Flow { return []Flow{Flow167, Flow171} }

// ParseFlow acepta el identificador del flujo, también embebido en un origen más largo ("Senha 167").
func ParseFlow(s string) (Flow, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, string(Flow167)):
		return Flow167, nil
	case strings.Contains(s, string(Flow171)):
		return Flow171, nil
	default:
		return "", fmt.Errorf("flujo desconocido %q", s)
	}
}

// Column relaciona el encabezado de la planilla con la columna persistida.
type Column struct {
	Header string
	DB     string
}

var columns167 = []Column{
	{"Nro Ordem", "nro_ordem"},
	{"STATUS", "status"},
	{"TRATATIVA", "tratativa"},
	{"Responsável", "responsavel"},
	{"Data Fechamento Divergência", "data_fechamento_div"},
	{"Conferente", "conferente"},
	{"OBS", "obs"},
	{"OBS - 2", "obs2"},
	{"Região", "regiao"},
	{"Filial Contábil", "filial_contabil"},
	{"Tipo Devol.", "tipo_devolucao"},
	{"Carga", "carga"},
	{"Valor", "valor"},
	{"Falta", "falta"},
	{"MÊS", "mes"},
	{"Semana", "semana"},
	{"Data Ordem", "data_ordem"},
	{"DATA LIMITE", "data_limite"},
	{"MÊS DE FECH", "mes_fech"},
	{"ANO", "ano"},
	{"Semana-Limit", "semana_limit"},
	{"Cód. Região", "cod_regiao"},
	{"Região - 2", "regiao2"},
	{"Gerencia", "gerencia"},
	{"STT", "stt"},
	{"Email", "email"},
	{"Dias a Vencer", "dias_vencer"},
}

var columns171 = []Column{
	{"Nro Ordem", "nro_ordem"},
	{"Status", "status"},
	{"Tratativa", "tratativa"},
	{"Nome", "nome"},
	{"Data Tratativa", "data_tratativa"},
	{"Cliente", "cliente"},
	{"Cód. Cli", "cod_cli"},
	{"Tipo Devol.", "tipo_devolucao"},
	{"Carga", "carga"},
	{"Valor", "valor"},
	{"MÊS", "mes"},
	{"ANO", "ano"},
	{"Semana", "semana"},
	{"Data Ordem", "data_ordem"},
}

// Columns esquema canónico del flujo, en orden de planilla.
func (f Flow) Columns() []Column {
	switch f {
	case Flow167:
		return columns167
	case Flow171:
		return columns171
	default:
		return nil
	}
}

// Headers encabezados canónicos del flujo.
func (f Flow) Headers() []string {
	cols := f.Columns()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}

// OrderRow fila normalizada de orden. Los campos que el flujo no declara quedan en cero.
type OrderRow struct {
	OrderNumber        string   `db:"nro_ordem"`
	Status             string   `db:"status"`
	Treatment          string   `db:"tratativa"`
	Responsible        string   `db:"responsavel"`
	DivergenceClosedAt Date     `db:"data_fechamento_div"`
	Checker            string   `db:"conferente"`
	Notes              string   `db:"obs"`
	Notes2             string   `db:"obs2"`
	Region             string   `db:"regiao"`
	AccountingBranch   string   `db:"filial_contabil"`
	Name               string   `db:"nome"`
	TreatmentDate      Date     `db:"data_tratativa"`
	Customer           string   `db:"cliente"`
	CustomerCode       string   `db:"cod_cli"`
	ReturnType         string   `db:"tipo_devolucao"`
	Load               string   `db:"carga"`
	Value              float64  `db:"valor"`
	Shortfall          *float64 `db:"falta"`
	Month              *int     `db:"mes"`
	Week               *int     `db:"semana"`
	Year               *int     `db:"ano"`
	OrderDate          Date     `db:"data_ordem"`
	Deadline           Date     `db:"data_limite"`
	ClosureMonth       *int     `db:"mes_fech"`
	WeekLimit          string   `db:"semana_limit"`
	RegionCode         string   `db:"cod_regiao"`
	Region2            string   `db:"regiao2"`
	Management         string   `db:"gerencia"`
	Evidence           string   `db:"stt"`
	Email              string   `db:"email"`
	DaysRemaining      *int     `db:"dias_vencer"`

	CreatedAt time.Time `db:"created_at"`
}

// StagedOrderRow fila en staging, ligada a un lote pendiente.
type StagedOrderRow struct {
	ID      int64 `db:"id"`
	BatchID int64 `db:"request_id"`
	OrderRow
}

// Cell devuelve el valor de la columna persistida col, con nil para vacíos anulables.
func (r *OrderRow) Cell(col string) any {
	switch col {
	case "nro_ordem":
		return r.OrderNumber
	case "status":
		return r.Status
	case "tratativa":
		return r.Treatment
	case "responsavel":
		return r.Responsible
	case "data_fechamento_div":
		return dateCell(r.DivergenceClosedAt)
	case "conferente":
		return r.Checker
	case "obs":
		return r.Notes
	case "obs2":
		return r.Notes2
	case "regiao":
		return r.Region
	case "filial_contabil":
		return r.AccountingBranch
	case "nome":
		return r.Name
	case "data_tratativa":
		return dateCell(r.TreatmentDate)
	case "cliente":
		return r.Customer
	case "cod_cli":
		return r.CustomerCode
	case "tipo_devolucao":
		return r.ReturnType
	case "carga":
		return r.Load
	case "valor":
		return r.Value
	case "falta":
		return floatCell(r.Shortfall)
	case "mes":
		return intCell(r.Month)
	case "semana":
		return intCell(r.Week)
	case "ano":
		return intCell(r.Year)
	case "data_ordem":
		return dateCell(r.OrderDate)
	case "data_limite":
		return dateCell(r.Deadline)
	case "mes_fech":
		return intCell(r.ClosureMonth)
	case "semana_limit":
		return r.WeekLimit
	case "cod_regiao":
		return r.RegionCode
	case "regiao2":
		return r.Region2
	case "gerencia":
		return r.Management
	case "stt":
		return r.Evidence
	case "email":
		return r.Email
	case "dias_vencer":
		return intCell(r.DaysRemaining)
	default:
		return nil
	}
}

func dateCell(d Date) any {
	if !d.Valid {
		return nil
	}
	return d.Time
}

func intCell(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func floatCell(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
