// Package orders coordina el ciclo de vida de los lotes de órdenes: staging, aprobación
// con inserción durable y recuperación tras una caída.
//
// El store de solicitudes y el de órdenes son archivos distintos, así que la aprobación
// confirma cada paso por separado y en este orden:
//
//  1. leer las filas en staging
//  2. marcar la solicitud como approved
//  3. insertar las órdenes nuevas en la tabla durable
//  4. purgar el staging
//
// Una caída entre 2 y 4 deja filas huérfanas en staging que Recover vuelve a aplicar.
// Nunca se pierden órdenes aprobadas.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/controle-estoque/internal/application/dto"
	"github.com/jhoicas/controle-estoque/internal/application/ports"
	"github.com/jhoicas/controle-estoque/internal/domain"
	"github.com/jhoicas/controle-estoque/internal/domain/entity"
	domorders "github.com/jhoicas/controle-estoque/internal/domain/orders"
	"github.com/jhoicas/controle-estoque/internal/domain/repository"
	"github.com/jhoicas/controle-estoque/pkg/logger"
)

// Coordinator staging y resolución de lotes de órdenes.
type Coordinator struct {
	stores ports.RequestStores
	orders repository.OrderRepository
	log    *logger.Logger
	now    func() time.Time
}

// NewCoordinator construye el coordinador.
func NewCoordinator(stores ports.RequestStores, orders repository.OrderRepository, log *logger.Logger) *Coordinator {
	return &Coordinator{stores: stores, orders: orders, log: log.Component("orders"), now: time.Now}
}

// Stage crea el lote pendiente y escribe sus filas en staging en una sola transacción.
// Filas sin número de orden se omiten; TotalRowCount cuenta las filas recibidas.
// Si ninguna fila tiene número no se crea lote y devuelve ValidationError.
// Sin descripción se usa "<N> ordens processadas aguardando confirmação.".
func (c *Coordinator) Stage(ctx context.Context, origin entity.Flow, description string, rows []entity.OrderRow) (*entity.Request, int, error) {
	if _, err := dto.ParseOrigin(string(origin)); err != nil {
		return nil, 0, err
	}
	keep := make([]entity.OrderRow, 0, len(rows))
	for _, r := range rows {
		if domorders.Blank(r) {
			continue
		}
		keep = append(keep, r)
	}
	if len(keep) == 0 {
		return nil, 0, domain.Invalid("el lote no contiene órdenes con número")
	}
	if strings.TrimSpace(description) == "" {
		description = DefaultBatchDescription(len(keep))
	}

	req := &entity.Request{
		Kind:      entity.KindOrderBatch,
		CreatedAt: c.now().UTC(),
		Payload: entity.OrderBatchPayload{
			Origin:        origin,
			Description:   description,
			TotalRowCount: len(rows),
		},
	}
	err := c.stores.Run(ctx, entity.KindOrderBatch, func(r ports.Repos) error {
		if err := r.Requests.Create(ctx, req); err != nil {
			return err
		}
		return r.Staging.Insert(ctx, origin, req.ID, keep)
	})
	if err != nil {
		return nil, 0, domain.Storage("crear lote", err)
	}
	c.log.Info().
		Int64("request_id", req.ID).
		Str("flow", string(origin)).
		Int("total", len(rows)).
		Int("staged", len(keep)).
		Msg("lote en staging")
	return req, len(keep), nil
}

// DefaultBatchDescription descripción de un lote importado sin texto del usuario.
func DefaultBatchDescription(n int) string {
	return fmt.Sprintf("%d ordens processadas aguardando confirmação.", n)
}

// Resolve aprueba o rechaza el lote batchID.
func (c *Coordinator) Resolve(ctx context.Context, batchID int64, approve bool) (*dto.ResolveResponse, error) {
	if approve {
		return c.approve(ctx, batchID)
	}
	return c.reject(ctx, batchID)
}

func (c *Coordinator) approve(ctx context.Context, batchID int64) (*dto.ResolveResponse, error) {
	repos, err := c.stores.Repos(entity.KindOrderBatch)
	if err != nil {
		return nil, err
	}
	req, payload, err := pendingBatch(ctx, repos.Requests, batchID)
	if err != nil {
		return nil, err
	}
	staged, err := repos.Staging.ListByBatch(ctx, payload.Origin, batchID)
	if err != nil {
		return nil, domain.Storage("leer staging", err)
	}

	ok, err := repos.Requests.Transition(ctx, batchID, entity.StatusApproved, c.now())
	if err != nil {
		return nil, domain.Storage("aprobar lote", err)
	}
	if !ok {
		return nil, alreadyProcessed(ctx, repos.Requests, req)
	}

	res := &dto.ResolveResponse{RequestID: batchID, Status: entity.StatusApproved, Staged: len(staged)}
	if err := c.commit(ctx, payload.Origin, batchID, staged, repos.Staging, res); err != nil {
		return nil, err
	}
	c.log.Info().
		Int64("request_id", batchID).
		Str("flow", string(payload.Origin)).
		Int("staged", res.Staged).
		Int("inserted", res.Inserted).
		Int("skipped", res.Skipped).
		Msg("lote aprobado")
	return res, nil
}

// commit pasos 3 y 4: inserción durable y luego purga del staging.
func (c *Coordinator) commit(ctx context.Context, flow entity.Flow, batchID int64, staged []entity.StagedOrderRow, staging repository.StagingRepository, res *dto.ResolveResponse) error {
	rows := Dedupe(staged)
	inserted, err := c.orders.InsertIfAbsent(ctx, flow, rows)
	if err != nil {
		return domain.Storage("insertar órdenes", err)
	}
	purged, err := staging.DeleteByBatch(ctx, flow, batchID)
	if err != nil {
		return domain.Storage("purgar staging", err)
	}
	res.Inserted = inserted
	res.Skipped = len(staged) - inserted
	res.Purged = purged
	return nil
}

func (c *Coordinator) reject(ctx context.Context, batchID int64) (*dto.ResolveResponse, error) {
	res := &dto.ResolveResponse{RequestID: batchID, Status: entity.StatusRejected}
	err := c.stores.Run(ctx, entity.KindOrderBatch, func(r ports.Repos) error {
		req, payload, err := pendingBatch(ctx, r.Requests, batchID)
		if err != nil {
			return err
		}
		ok, err := r.Requests.Transition(ctx, batchID, entity.StatusRejected, c.now())
		if err != nil {
			return err
		}
		if !ok {
			return alreadyProcessed(ctx, r.Requests, req)
		}
		purged, err := r.Staging.DeleteByBatch(ctx, payload.Origin, batchID)
		if err != nil {
			return err
		}
		res.Purged = purged
		res.Staged = int(purged)
		return nil
	})
	if err != nil {
		return nil, domain.Storage("rechazar lote", err)
	}
	c.log.Info().Int64("request_id", batchID).Int64("purged", res.Purged).Msg("lote rechazado")
	return res, nil
}

// StagedRows lote y sus filas en staging, en orden de escritura.
func (c *Coordinator) StagedRows(ctx context.Context, batchID int64) (*entity.Request, []entity.StagedOrderRow, error) {
	repos, err := c.stores.Repos(entity.KindOrderBatch)
	if err != nil {
		return nil, nil, err
	}
	req, err := repos.Requests.GetByID(ctx, batchID)
	if err != nil {
		return nil, nil, domain.Storage("buscar lote", err)
	}
	if req == nil {
		return nil, nil, &domain.NotFoundError{Resource: "lote", ID: batchID}
	}
	payload, _ := req.OrderBatch()
	rows, err := repos.Staging.ListByBatch(ctx, payload.Origin, batchID)
	if err != nil {
		return nil, nil, domain.Storage("leer staging", err)
	}
	return req, rows, nil
}

// RecoveryReport resultado de Recover.
type RecoveryReport struct {
	Reapplied int
	Purged    int
	Inserted  int
}

// Recover reaplica lotes aprobados con staging remanente y purga el remanente de lotes
// rechazados o inexistentes. Es idempotente.
func (c *Coordinator) Recover(ctx context.Context) (RecoveryReport, error) {
	var rep RecoveryReport
	repos, err := c.stores.Repos(entity.KindOrderBatch)
	if err != nil {
		return rep, err
	}
	for _, flow := range entity.Flows() {
		ids, err := repos.Staging.BatchIDs(ctx, flow)
		if err != nil {
			return rep, domain.Storage("listar staging", err)
		}
		for _, id := range ids {
			req, err := repos.Requests.GetByID(ctx, id)
			if err != nil {
				return rep, domain.Storage("buscar lote", err)
			}
			switch {
			case req != nil && req.Status == entity.StatusPending:
				continue
			case req != nil && req.Status == entity.StatusApproved:
				staged, err := repos.Staging.ListByBatch(ctx, flow, id)
				if err != nil {
					return rep, domain.Storage("leer staging", err)
				}
				res := &dto.ResolveResponse{RequestID: id}
				if err := c.commit(ctx, flow, id, staged, repos.Staging, res); err != nil {
					return rep, err
				}
				rep.Reapplied++
				rep.Inserted += res.Inserted
			default:
				if _, err := repos.Staging.DeleteByBatch(ctx, flow, id); err != nil {
					return rep, domain.Storage("purgar staging", err)
				}
				rep.Purged++
			}
			c.log.Warn().Int64("request_id", id).Str("flow", string(flow)).Msg("staging remanente recuperado")
		}
	}
	return rep, nil
}

// Dedupe quita el vínculo con el lote y conserva la primera aparición de cada número de orden.
func Dedupe(staged []entity.StagedOrderRow) []entity.OrderRow {
	seen := make(map[string]struct{}, len(staged))
	out := make([]entity.OrderRow, 0, len(staged))
	for _, s := range staged {
		if _, dup := seen[s.OrderNumber]; dup {
			continue
		}
		seen[s.OrderNumber] = struct{}{}
		out = append(out, s.OrderRow)
	}
	return out
}

func pendingBatch(ctx context.Context, requests repository.RequestRepository, id int64) (*entity.Request, entity.OrderBatchPayload, error) {
	req, err := requests.GetByID(ctx, id)
	if err != nil {
		return nil, entity.OrderBatchPayload{}, domain.Storage("buscar lote", err)
	}
	if req == nil {
		return nil, entity.OrderBatchPayload{}, &domain.NotFoundError{Resource: "lote", ID: id}
	}
	if req.Status != entity.StatusPending {
		return nil, entity.OrderBatchPayload{}, &domain.AlreadyProcessedError{Kind: string(req.Kind), ID: id, Status: string(req.Status)}
	}
	payload, ok := req.OrderBatch()
	if !ok {
		return nil, entity.OrderBatchPayload{}, fmt.Errorf("lote %d sin payload de órdenes", id)
	}
	return req, payload, nil
}

// alreadyProcessed relee el estado tras perder el compare-and-swap.
func alreadyProcessed(ctx context.Context, requests repository.RequestRepository, req *entity.Request) error {
	status := entity.Status("desconocido")
	if cur, err := requests.GetByID(ctx, req.ID); err == nil && cur != nil {
		status = cur.Status
	}
	return &domain.AlreadyProcessedError{Kind: string(req.Kind), ID: req.ID, Status: string(status)}
}
