package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/controle-estoque/internal/domain/entity"
	"github.com/jhoicas/controle-estoque/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo tablas durables orders_167 y orders_171.
type OrderRepo struct {
	db *sqlx.DB
}

// NewOrderRepository construye el repositorio sobre el store de órdenes.
func NewOrderRepository(db *sqlx.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// InsertIfAbsent inserta las filas en una sola transacción. Una clave ya presente
// (en la tabla o antes en el mismo lote) se ignora: gana la primera escritura.
func (r *OrderRepo) InsertIfAbsent(ctx context.Context, flow entity.Flow, rows []entity.OrderRow) (int, error) {
	table, err := ordersTable(flow)
	if err != nil {
		return 0, err
	}
	cols := orderColumns(flow)
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(nro_ordem) DO NOTHING`,
		table, strings.Join(cols, ", "), questionMarks(len(cols)))

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin %s: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("prepare %s: %w", table, err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	inserted := 0
	for i := range rows {
		res, err := stmt.ExecContext(ctx, orderArgs(&rows[i], cols, now)...)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", table, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s: %w", table, err)
	}
	return inserted, nil
}

// GetByNumber devuelve (nil, nil) si la orden no existe.
func (r *OrderRepo) GetByNumber(ctx context.Context, flow entity.Flow, orderNumber string) (*entity.OrderRow, error) {
	table, err := ordersTable(flow)
	if err != nil {
		return nil, err
	}
	var row entity.OrderRow
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE nro_ordem = ?`, strings.Join(orderColumns(flow), ", "), table)
	if err := r.db.GetContext(ctx, &row, query, orderNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return &row, nil
}

// ListByFlow órdenes del flujo en orden de inserción.
func (r *OrderRepo) ListByFlow(ctx context.Context, flow entity.Flow) ([]entity.OrderRow, error) {
	table, err := ordersTable(flow)
	if err != nil {
		return nil, err
	}
	var rows []entity.OrderRow
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY rowid`, strings.Join(orderColumns(flow), ", "), table)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return rows, nil
}

// Count cantidad de órdenes del flujo.
func (r *OrderRepo) Count(ctx context.Context, flow entity.Flow) (int, error) {
	table, err := ordersTable(flow)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.GetContext(ctx, &n, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
