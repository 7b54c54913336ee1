package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/controle-estoque/internal/domain/entity"
	"github.com/jhoicas/controle-estoque/internal/domain/repository"
)

var _ repository.StagingRepository = (*StagingRepo)(nil)

// StagingRepo filas order_<flujo>_pending ligadas a su solicitud (usable con db o tx).
type StagingRepo struct {
	q Querier
}

// NewStagingRepository construye el repositorio de staging sobre q.
func NewStagingRepository(q Querier) *StagingRepo {
	return &StagingRepo{q: q}
}

// Insert agrega rows al lote batchID, incluyendo claves repetidas.
func (r *StagingRepo) Insert(ctx context.Context, flow entity.Flow, batchID int64, rows []entity.OrderRow) error {
	table, err := stagingTable(flow)
	if err != nil {
		return err
	}
	cols := orderColumns(flow)
	query := fmt.Sprintf(`INSERT INTO %s (request_id, %s) VALUES (?, %s)`,
		table, strings.Join(cols, ", "), questionMarks(len(cols)))
	now := time.Now().UTC()
	for i := range rows {
		args := append([]any{batchID}, orderArgs(&rows[i], cols, now)...)
		if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

// ListByBatch filas del lote en orden de escritura.
func (r *StagingRepo) ListByBatch(ctx context.Context, flow entity.Flow, batchID int64) ([]entity.StagedOrderRow, error) {
	table, err := stagingTable(flow)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, request_id, %s FROM %s WHERE request_id = ? ORDER BY id`,
		strings.Join(orderColumns(flow), ", "), table)
	var rows []entity.StagedOrderRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, batchID); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return rows, nil
}

// CountByBatch cantidad de filas del lote.
func (r *StagingRepo) CountByBatch(ctx context.Context, flow entity.Flow, batchID int64) (int, error) {
	table, err := stagingTable(flow)
	if err != nil {
		return 0, err
	}
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE request_id = ?`, table), batchID); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// DeleteByBatch purga el lote y devuelve las filas eliminadas.
func (r *StagingRepo) DeleteByBatch(ctx context.Context, flow entity.Flow, batchID int64) (int64, error) {
	table, err := stagingTable(flow)
	if err != nil {
		return 0, err
	}
	res, err := r.q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE request_id = ?`, table), batchID)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, err)
	}
	return res.RowsAffected()
}

// BatchIDs lotes con filas remanentes en staging.
func (r *StagingRepo) BatchIDs(ctx context.Context, flow entity.Flow) ([]int64, error) {
	table, err := stagingTable(flow)
	if err != nil {
		return nil, err
	}
	var ids []int64
	if err := sqlx.SelectContext(ctx, r.q, &ids, fmt.Sprintf(`SELECT DISTINCT request_id FROM %s ORDER BY request_id`, table)); err != nil {
		return nil, fmt.Errorf("batches %s: %w", table, err)
	}
	return ids, nil
}
