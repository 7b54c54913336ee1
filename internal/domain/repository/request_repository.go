package repository

import (
	"context"
	"time"

	"github.com/jhoicas/controle-estoque/internal/domain/entity"
)

// RequestRepository persistencia de solicitudes de un único Kind.
type RequestRepository interface {
	Kind() entity.Kind
	// Create persiste req en estado pending y completa ID y CreatedAt.
	Create(ctx context.Context, req *entity.Request) error
	GetByID(ctx context.Context, id int64) (*entity.Request, error)
	// ListByStatus ordena de la más reciente a la más antigua.
	ListByStatus(ctx context.Context, status entity.Status) ([]*entity.Request, error)
	// Transition cambia pending -> to. Devuelve false si la fila ya no estaba pending.
	Transition(ctx context.Context, id int64, to entity.Status, at time.Time) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
