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

var _ repository.RequestRepository = (*RequestRepo)(nil)

// requestTable describe cómo se guarda cada tipo de solicitud.
type requestTable struct {
	name    string
	columns []string
}

var requestTables = map[entity.Kind]requestTable{
	entity.KindPasswordReset: {"password_requests", []string{"user_name", "email", "new_password_hash"}},
	entity.KindRegistration:  {"registration_requests", []string{"name", "email", "password_hash"}},
	entity.KindDocument:      {"document_requests", []string{"title", "description", "file_name", "file_path"}},
	entity.KindReport:        {"report_requests", []string{"title", "description", "file_name", "file_path"}},
	entity.KindOrderBatch:    {"order_requests", []string{"origin", "description", "total_orders"}},
}

// requestRow superset de columnas de todas las tablas de solicitudes.
type requestRow struct {
	ID              int64      `db:"id"`
	Status          string     `db:"status"`
	CreatedAt       time.Time  `db:"created_at"`
	ResolvedAt      *time.Time `db:"resolved_at"`
	UserName        string     `db:"user_name"`
	Email           string     `db:"email"`
	NewPasswordHash string     `db:"new_password_hash"`
	Name            string     `db:"name"`
	PasswordHash    string     `db:"password_hash"`
	Title           string     `db:"title"`
	Description     string     `db:"description"`
	FileName        string     `db:"file_name"`
	FilePath        string     `db:"file_path"`
	Origin          string     `db:"origin"`
	TotalOrders     int        `db:"total_orders"`
}

func toRow(req *entity.Request) (requestRow, error) {
	row := requestRow{
		ID:         req.ID,
		Status:     string(req.Status),
		CreatedAt:  req.CreatedAt,
		ResolvedAt: req.ResolvedAt,
	}
	switch p := req.Payload.(type) {
	case entity.PasswordResetPayload:
		row.UserName, row.Email, row.NewPasswordHash = p.UserName, p.Email, p.NewPasswordHash
	case entity.RegistrationPayload:
		row.Name, row.Email, row.PasswordHash = p.Name, p.Email, p.PasswordHash
	case entity.FilePayload:
		row.Title, row.Description, row.FileName, row.FilePath = p.Title, p.Description, p.FileName, p.FilePath
	case entity.OrderBatchPayload:
		row.Origin, row.Description, row.TotalOrders = string(p.Origin), p.Description, p.TotalRowCount
	default:
		return row, fmt.Errorf("payload no soportado %T", req.Payload)
	}
	return row, nil
}

func (row requestRow) toEntity(kind entity.Kind) *entity.Request {
	req := &entity.Request{
		ID:         row.ID,
		Kind:       kind,
		Status:     entity.Status(row.Status),
		CreatedAt:  row.CreatedAt,
		ResolvedAt: row.ResolvedAt,
	}
	switch kind {
	case entity.KindPasswordReset:
		req.Payload = entity.PasswordResetPayload{UserName: row.UserName, Email: row.Email, NewPasswordHash: row.NewPasswordHash}
	case entity.KindRegistration:
		req.Payload = entity.RegistrationPayload{Name: row.Name, Email: row.Email, PasswordHash: row.PasswordHash}
	case entity.KindDocument, entity.KindReport:
		req.Payload = entity.FilePayload{Category: kind, Title: row.Title, Description: row.Description, FileName: row.FileName, FilePath: row.FilePath}
	case entity.KindOrderBatch:
		req.Payload = entity.OrderBatchPayload{Origin: entity.Flow(row.Origin), Description: row.Description, TotalRowCount: row.TotalOrders}
	}
	return req
}

// RequestRepo persistencia de solicitudes de un único tipo (usable con db o tx).
type RequestRepo struct {
	q     Querier
	kind  entity.Kind
	table requestTable
}

// NewRequestRepository construye el repositorio de kind sobre q.
func NewRequestRepository(q Querier, kind entity.Kind) (*RequestRepo, error) {
	t, ok := requestTables[kind]
	if !ok {
		return nil, fmt.Errorf("tipo de solicitud desconocido %q", kind)
	}
	return &RequestRepo{q: q, kind: kind, table: t}, nil
}

// Kind tipo de solicitud que gestiona el repositorio.
func (r *RequestRepo) Kind() entity.Kind { return r.kind }

func (r *RequestRepo) selectColumns() string {
	return "id, status, created_at, resolved_at, " + strings.Join(r.table.columns, ", ")
}

// Create inserta la solicitud como pending.
func (r *RequestRepo) Create(ctx context.Context, req *entity.Request) error {
	if req.Payload == nil || req.Payload.Kind() != r.kind {
		return fmt.Errorf("payload de tipo distinto a %s", r.kind)
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	req.Kind = r.kind
	req.Status = entity.StatusPending
	req.ResolvedAt = nil

	row, err := toRow(req)
	if err != nil {
		return err
	}
	cols := append([]string{"status", "created_at"}, r.table.columns...)
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, r.table.name, strings.Join(cols, ", "), placeholders(cols))
	res, err := sqlx.NamedExecContext(ctx, r.q, query, row)
	if err != nil {
		return fmt.Errorf("insert %s: %w", r.table.name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert %s id: %w", r.table.name, err)
	}
	req.ID = id
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *RequestRepo) GetByID(ctx context.Context, id int64) (*entity.Request, error) {
	var row requestRow
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, r.selectColumns(), r.table.name)
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.table.name, err)
	}
	return row.toEntity(r.kind), nil
}

// ListByStatus solicitudes en status, de la más reciente a la más antigua.
func (r *RequestRepo) ListByStatus(ctx context.Context, status entity.Status) ([]*entity.Request, error) {
	var rows []requestRow
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE status = ? ORDER BY created_at DESC, id DESC`, r.selectColumns(), r.table.name)
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, string(status)); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table.name, err)
	}
	out := make([]*entity.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity(r.kind))
	}
	return out, nil
}

// Transition compare-and-swap desde pending. false si otra resolución llegó antes.
func (r *RequestRepo) Transition(ctx context.Context, id int64, to entity.Status, at time.Time) (bool, error) {
	if !to.Terminal() {
		return false, fmt.Errorf("estado destino inválido %q", to)
	}
	query := fmt.Sprintf(`UPDATE %s SET status = ?, resolved_at = ? WHERE id = ? AND status = ?`, r.table.name)
	res, err := r.q.ExecContext(ctx, query, string(to), at.UTC(), id, string(entity.StatusPending))
	if err != nil {
		return false, fmt.Errorf("transition %s: %w", r.table.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition %s: %w", r.table.name, err)
	}
	return n == 1, nil
}

// Delete elimina la fila; false si no existía.
func (r *RequestRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table.name), id)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", r.table.name, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
