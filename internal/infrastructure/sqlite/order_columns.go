package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/controle-estoque/internal/domain/entity"
)

func stagingTable(flow entity.Flow) (string, error) {
	switch flow {
	case entity.Flow167, entity.Flow171:
		return fmt.Sprintf("order_%s_pending", flow), nil
	}
	return "", fmt.Errorf("flujo desconocido %q", flow)
}

func ordersTable(flow entity.Flow) (string, error) {
	switch flow {
	case entity.Flow167, entity.Flow171:
		return fmt.Sprintf("orders_%s", flow), nil
	}
	return "", fmt.Errorf("flujo desconocido %q", flow)
}

// orderColumns columnas persistidas del flujo, más created_at.
func orderColumns(flow entity.Flow) []string {
	cols := flow.Columns()
	out := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		out = append(out, c.DB)
	}
	return append(out, "created_at")
}

// orderArgs valores de row en el orden de cols. Las fechas se guardan como texto ISO.
func orderArgs(row *entity.OrderRow, cols []string, now time.Time) []any {
	args := make([]any, 0, len(cols))
	for _, c := range cols {
		switch c {
		case "created_at":
			if row.CreatedAt.IsZero() {
				args = append(args, now)
			} else {
				args = append(args, row.CreatedAt)
			}
		case "data_fechamento_div":
			args = append(args, row.DivergenceClosedAt)
		case "data_tratativa":
			args = append(args, row.TreatmentDate)
		case "data_ordem":
			args = append(args, row.OrderDate)
		case "data_limite":
			args = append(args, row.Deadline)
		default:
			args = append(args, row.Cell(c))
		}
	}
	return args
}

func questionMarks(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
