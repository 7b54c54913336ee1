package orders

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/controle-estoque/internal/application/dto"
	"github.com/jhoicas/controle-estoque/internal/application/ports"
	"github.com/jhoicas/controle-estoque/internal/domain"
	"github.com/jhoicas/controle-estoque/internal/domain/entity"
	domorders "github.com/jhoicas/controle-estoque/internal/domain/orders"
	"github.com/jhoicas/controle-estoque/internal/domain/repository"
	"github.com/jhoicas/controle-estoque/pkg/logger"
)

// ImportUseCase lectura de planillas, normalización, staging y exportaciones.
type ImportUseCase struct {
	reader      ports.SpreadsheetReader
	writer      ports.ExportWriter
	pdf         ports.BatchPDFGenerator
	pipeline    *domorders.Pipeline
	coordinator *Coordinator
	orders      repository.OrderRepository
	log         *logger.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(
	reader ports.SpreadsheetReader,
	writer ports.ExportWriter,
	pdf ports.BatchPDFGenerator,
	pipeline *domorders.Pipeline,
	coordinator *Coordinator,
	orders repository.OrderRepository,
	log *logger.Logger,
) *ImportUseCase {
	return &ImportUseCase{
		reader:      reader,
		writer:      writer,
		pdf:         pdf,
		pipeline:    pipeline,
		coordinator: coordinator,
		orders:      orders,
		log:         log.Component("import"),
	}
}

// Preview lee y normaliza la planilla sin persistir nada.
func (uc *ImportUseCase) Preview(ctx context.Context, path string, flow entity.Flow) ([]entity.OrderRow, domorders.Report, error) {
	table, err := uc.reader.ReadTable(path)
	if err != nil {
		return nil, domorders.Report{}, domain.Invalid("no se pudo leer la planilla: %v", err)
	}
	rows, rep, err := uc.pipeline.Normalize(table, flow)
	if err != nil {
		return nil, rep, err
	}
	uc.log.Debug().
		Str("flow", string(flow)).
		Int("input", rep.Input).
		Int("output", rep.Output).
		Int("dropped_by_type", rep.DroppedByType).
		Int("dropped_by_shortfall", rep.DroppedByShortfall).
		Int("bad_dates", rep.BadDates).
		Int("bad_values", rep.BadValues).
		Msg("planilla normalizada")
	return rows, rep, nil
}

// Import lee, normaliza y deja el resultado como lote pendiente de aprobación.
// Una planilla ilegible o sin filas útiles no crea lote.
func (uc *ImportUseCase) Import(ctx context.Context, in dto.ImportOrdersRequest) (*dto.ImportResponse, error) {
	if err := in.Ok(); err != nil {
		return nil, err
	}
	rows, rep, err := uc.Preview(ctx, in.Path, in.Flow)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.Invalid("la planilla no tiene filas para importar")
	}
	req, staged, err := uc.coordinator.Stage(ctx, in.Flow, in.Description, rows)
	if err != nil {
		return nil, err
	}
	return &dto.ImportResponse{
		RequestID:          req.ID,
		TotalRows:          rep.Input,
		Staged:             staged,
		DroppedByType:      rep.DroppedByType,
		DroppedByShortfall: rep.DroppedByShortfall,
		BadDates:           rep.BadDates,
		BadValues:          rep.BadValues,
	}, nil
}

// ListOrders órdenes durables del flujo.
func (uc *ImportUseCase) ListOrders(ctx context.Context, flow entity.Flow) ([]entity.OrderRow, error) {
	rows, err := uc.orders.ListByFlow(ctx, flow)
	if err != nil {
		return nil, domain.Storage("listar órdenes", err)
	}
	return rows, nil
}

// ExportRows escribe rows con los encabezados canónicos del flujo.
func (uc *ImportUseCase) ExportRows(flow entity.Flow, rows []entity.OrderRow, dest string) error {
	table := make([][]any, 0, len(rows))
	for i := range rows {
		table = append(table, ExportCells(flow, &rows[i]))
	}
	if err := uc.writer.WriteTable(flow.Headers(), table, dest); err != nil {
		return fmt.Errorf("exportar planilla: %w", err)
	}
	return nil
}

// ExportOrders exporta la tabla durable del flujo y devuelve la cantidad de filas.
func (uc *ImportUseCase) ExportOrders(ctx context.Context, flow entity.Flow, dest string) (int, error) {
	rows, err := uc.ListOrders(ctx, flow)
	if err != nil {
		return 0, err
	}
	if err := uc.ExportRows(flow, rows, dest); err != nil {
		return 0, err
	}
	uc.log.Info().Str("flow", string(flow)).Int("rows", len(rows)).Str("dest", dest).Msg("órdenes exportadas")
	return len(rows), nil
}

// ExportBatchPDF vista previa en PDF de las filas en staging de un lote.
func (uc *ImportUseCase) ExportBatchPDF(ctx context.Context, batchID int64) ([]byte, error) {
	req, staged, err := uc.coordinator.StagedRows(ctx, batchID)
	if err != nil {
		return nil, err
	}
	payload, _ := req.OrderBatch()
	doc := ports.BatchDocument{
		RequestID:   req.ID,
		Origin:      payload.Origin,
		Description: payload.Description,
		Status:      req.Status,
		CreatedAt:   req.CreatedAt,
		TotalRows:   payload.TotalRowCount,
		Headers:     payload.Origin.Headers(),
	}
	for i := range staged {
		cells := ExportCells(payload.Origin, &staged[i].OrderRow)
		line := make([]string, len(cells))
		for j, v := range cells {
			line[j] = cellText(v)
		}
		doc.Rows = append(doc.Rows, line)
	}
	return uc.pdf.GenerateBatchPDF(ctx, doc)
}

// ExportCells valores de la fila en el orden de columnas del flujo. Fechas como DD/MM/YYYY.
func ExportCells(flow entity.Flow, r *entity.OrderRow) []any {
	cols := flow.Columns()
	out := make([]any, len(cols))
	for i, c := range cols {
		v := r.Cell(c.DB)
		if t, ok := v.(time.Time); ok {
			v = t.Format("02/01/2006")
		}
		out[i] = v
	}
	return out
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
