package sqlite

import (
	"context"
	"fmt"

	"github.com/jhoicas/controle-estoque/internal/application/ports"
	"github.com/jhoicas/controle-estoque/internal/domain/entity"
)

var _ ports.RequestStores = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción del store que corresponde al tipo de solicitud.
type TxRunner struct {
	stores *Stores
}

// NewTxRunner construye el runner sobre los stores abiertos.
func NewTxRunner(stores *Stores) *TxRunner {
	return &TxRunner{stores: stores}
}

// Repos devuelve repositorios atados a la conexión, sin transacción.
func (r *TxRunner) Repos(kind entity.Kind) (ports.Repos, error) {
	db, err := r.stores.ForKind(kind)
	if err != nil {
		return ports.Repos{}, err
	}
	return reposFor(db, kind)
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, kind entity.Kind, fn func(ports.Repos) error) error {
	db, err := r.stores.ForKind(kind)
	if err != nil {
		return err
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	repos, err := reposFor(tx, kind)
	if err != nil {
		return err
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func reposFor(q Querier, kind entity.Kind) (ports.Repos, error) {
	requests, err := NewRequestRepository(q, kind)
	if err != nil {
		return ports.Repos{}, err
	}
	repos := ports.Repos{Requests: requests}
	switch kind {
	case entity.KindPasswordReset, entity.KindRegistration, entity.KindDocument:
		repos.Users = NewUserRepository(q)
	case entity.KindOrderBatch:
		repos.Staging = NewStagingRepository(q)
	}
	return repos, nil
}
