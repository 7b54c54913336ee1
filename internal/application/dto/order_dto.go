package dto

import (
	"strings"

	"github.com/jhoicas/controle-estoque/internal/domain/entity"
)

// ImportOrdersRequest importación de planilla hacia un lote pendiente.
type ImportOrdersRequest struct {
	Path        string `validate:"required" label:"planilla"`
	Origin      string `validate:"required" label:"origen"`
	Description string `validate:"max=500" label:"descripción"`

	Flow entity.Flow `validate:"-"`
}

// Ok normaliza, valida y resuelve el flujo.
func (in *ImportOrdersRequest) Ok() error {
	in.Path = strings.TrimSpace(in.Path)
	in.Origin = strings.TrimSpace(in.Origin)
	in.Description = strings.TrimSpace(in.Description)
	if err := check(in); err != nil {
		return err
	}
	return in.resolveFlow()
}

func (in *ImportOrdersRequest) resolveFlow() error {
	flow, err := ParseOrigin(in.Origin)
	if err != nil {
		return err
	}
	in.Flow = flow
	return nil
}

// ParseOrigin traduce el origen declarado a un flujo conocido.
func ParseOrigin(origin string) (entity.Flow, error) {
	flow, err := entity.ParseFlow(origin)
	if err != nil {
		return "", invalidOrigin(origin)
	}
	return flow, nil
}

// ImportResponse resultado de una importación.
type ImportResponse struct {
	RequestID          int64 `json:"request_id"`
	TotalRows          int   `json:"total_rows"`
	Staged             int   `json:"staged"`
	DroppedByType      int   `json:"dropped_by_type"`
	DroppedByShortfall int   `json:"dropped_by_shortfall"`
	BadDates           int   `json:"bad_dates"`
	BadValues          int   `json:"bad_values"`
}

// ResolveResponse resultado de aprobar o rechazar un lote.
type ResolveResponse struct {
	RequestID int64         `json:"request_id"`
	Status    entity.Status `json:"status"`
	Staged    int           `json:"staged"`
	Inserted  int           `json:"inserted"`
	Skipped   int           `json:"skipped"`
	Purged    int64         `json:"purged"`
}
