package repository

import (
	"context"

	"github.com/jhoicas/controle-estoque/internal/domain/entity"
)

// StagingRepository filas normalizadas ligadas a un lote pendiente.
type StagingRepository interface {
	Insert(ctx context.Context, flow entity.Flow, batchID int64, rows []entity.OrderRow) error
	// ListByBatch devuelve las filas en el orden en que fueron escritas.
	ListByBatch(ctx context.Context, flow entity.Flow, batchID int64) ([]entity.StagedOrderRow, error)
	CountByBatch(ctx context.Context, flow entity.Flow, batchID int64) (int, error)
	DeleteByBatch(ctx context.Context, flow entity.Flow, batchID int64) (int64, error)
	// BatchIDs lotes con al menos una fila en staging.
	BatchIDs(ctx context.Context, flow entity.Flow) ([]int64, error)
}

// OrderRepository tabla durable de órdenes; la clave natural es el número de orden.
type OrderRepository interface {
	// InsertIfAbsent inserta en una transacción solo claves nuevas; las existentes no se tocan.
	InsertIfAbsent(ctx context.Context, flow entity.Flow, rows []entity.OrderRow) (inserted int, err error)
	GetByNumber(ctx context.Context, flow entity.Flow, orderNumber string) (*entity.OrderRow, error)
	ListByFlow(ctx context.Context, flow entity.Flow) ([]entity.OrderRow, error)
	Count(ctx context.Context, flow entity.Flow) (int, error)
}
