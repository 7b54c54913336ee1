// Package requests implementa el ciclo de vida común de las solicitudes
// (pending -> approved | rejected) con una tabla de despacho por tipo.
package requests

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/controle-estoque/internal/application/auth"
	"github.com/jhoicas/controle-estoque/internal/application/dto"
	"github.com/jhoicas/controle-estoque/internal/application/orders"
	"github.com/jhoicas/controle-estoque/internal/application/ports"
	"github.com/jhoicas/controle-estoque/internal/domain"
	"github.com/jhoicas/controle-estoque/internal/domain/entity"
	"github.com/jhoicas/controle-estoque/pkg/logger"
)

// Authenticator reautenticación para operaciones sensibles. No cuenta como acceso.
type Authenticator interface {
	VerifyCredentials(ctx context.Context, identifier, password string) (*entity.User, error)
}

// kindHandler efectos propios de un tipo de solicitud.
type kindHandler struct {
	// apply corre en la misma transacción que el cambio a approved; si falla, la solicitud sigue pending.
	apply func(ctx context.Context, r ports.Repos, req *entity.Request) error
	// resolve reemplaza el flujo transaccional genérico (lotes de órdenes: dos stores).
	resolve func(ctx context.Context, id int64, approve bool) error
}

// Manager casos de uso de solicitudes.
type Manager struct {
	stores      ports.RequestStores
	hasher      ports.PasswordHasher
	files       ports.FileStore
	auth        Authenticator
	coordinator *orders.Coordinator
	handlers    map[entity.Kind]kindHandler
	log         *logger.Logger
	now         func() time.Time
}

// NewManager construye el manager y su tabla de despacho.
func NewManager(
	stores ports.RequestStores,
	hasher ports.PasswordHasher,
	files ports.FileStore,
	authn Authenticator,
	coordinator *orders.Coordinator,
	log *logger.Logger,
) *Manager {
	m := &Manager{
		stores:      stores,
		hasher:      hasher,
		files:       files,
		auth:        authn,
		coordinator: coordinator,
		log:         log.Component("requests"),
		now:         time.Now,
	}
	m.handlers = map[entity.Kind]kindHandler{
		entity.KindRegistration:  {apply: m.applyRegistration},
		entity.KindPasswordReset: {apply: m.applyPasswordReset},
		entity.KindDocument:      {},
		entity.KindReport:        {},
		entity.KindOrderBatch: {resolve: func(ctx context.Context, id int64, approve bool) error {
			_, err := m.coordinator.Resolve(ctx, id, approve)
			return err
		}},
	}
	return m
}

// ── Envío ─────────────────────────────────────────────────────────────────────

// SubmitRegistration solicitud de alta de usuario.
func (m *Manager) SubmitRegistration(ctx context.Context, in dto.RegistrationRequest) (*entity.Request, error) {
	if err := in.Ok(); err != nil {
		return nil, err
	}
	repos, err := m.stores.Repos(entity.KindRegistration)
	if err != nil {
		return nil, err
	}
	if err := auth.CheckAvailable(ctx, repos.Users, in.Name, in.Email); err != nil {
		return nil, asValidation(err)
	}
	hash, err := m.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	return m.create(ctx, entity.RegistrationPayload{Name: in.Name, Email: in.Email, PasswordHash: hash})
}

// SubmitPasswordReset solicitud de cambio de contraseña; el nombre debe coincidir con el del email.
func (m *Manager) SubmitPasswordReset(ctx context.Context, in dto.PasswordResetRequest) (*entity.Request, error) {
	if err := in.Ok(); err != nil {
		return nil, err
	}
	repos, err := m.stores.Repos(entity.KindPasswordReset)
	if err != nil {
		return nil, err
	}
	user, err := repos.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, domain.Storage("buscar usuario", err)
	}
	if user == nil || !strings.EqualFold(user.Name, in.UserName) {
		return nil, domain.Invalid("usuario y email no corresponden a una cuenta")
	}
	hash, err := m.hasher.Hash(in.NewPassword)
	if err != nil {
		return nil, err
	}
	return m.create(ctx, entity.PasswordResetPayload{UserName: in.UserName, Email: in.Email, NewPasswordHash: hash})
}

// SubmitDocument adjunta un documento; el archivo se copia al directorio administrado.
func (m *Manager) SubmitDocument(ctx context.Context, in dto.DocumentRequest) (*entity.Request, error) {
	if err := in.Ok(); err != nil {
		return nil, err
	}
	return m.submitFile(ctx, entity.KindDocument, in.Title, in.Description, in.FileName, in.FilePath)
}

// SubmitReport adjunta un informe; el archivo se copia al directorio administrado.
func (m *Manager) SubmitReport(ctx context.Context, in dto.ReportRequest) (*entity.Request, error) {
	if err := in.Ok(); err != nil {
		return nil, err
	}
	return m.submitFile(ctx, entity.KindReport, in.Title, in.Description, in.FileName, in.FilePath)
}

func (m *Manager) submitFile(ctx context.Context, kind entity.Kind, title, description, name, path string) (*entity.Request, error) {
	if !m.files.Exists(path) {
		return nil, domain.Invalid("el archivo %s no existe", path)
	}
	if name == "" {
		name = filepath.Base(path)
	}
	stored, err := m.files.Save(path)
	if err != nil {
		return nil, domain.Storage("guardar archivo", err)
	}
	req, err := m.create(ctx, entity.FilePayload{
		Category:    kind,
		Title:       title,
		Description: description,
		FileName:    name,
		FilePath:    stored,
	})
	if err != nil {
		_ = m.files.Delete(stored)
		return nil, err
	}
	return req, nil
}

// SubmitOrderBatch deja filas ya normalizadas como lote pendiente.
func (m *Manager) SubmitOrderBatch(ctx context.Context, origin, description string, rows []entity.OrderRow) (*entity.Request, error) {
	flow, err := dto.ParseOrigin(origin)
	if err != nil {
		return nil, err
	}
	req, _, err := m.coordinator.Stage(ctx, flow, strings.TrimSpace(description), rows)
	return req, err
}

func (m *Manager) create(ctx context.Context, payload entity.Payload) (*entity.Request, error) {
	req := &entity.Request{Kind: payload.Kind(), CreatedAt: m.now().UTC(), Payload: payload}
	repos, err := m.stores.Repos(req.Kind)
	if err != nil {
		return nil, err
	}
	if err := repos.Requests.Create(ctx, req); err != nil {
		return nil, domain.Storage("crear solicitud", err)
	}
	m.log.Info().Str("kind", string(req.Kind)).Int64("request_id", req.ID).Msg("solicitud creada")
	return req, nil
}

// ── Resolución ────────────────────────────────────────────────────────────────

// Approve aprueba la solicitud y aplica su efecto. NotFoundError si no existe;
// AlreadyProcessedError si ya no está pendiente.
func (m *Manager) Approve(ctx context.Context, kind entity.Kind, id int64) error {
	return m.resolve(ctx, kind, id, true)
}

// Reject rechaza la solicitud. Solo los lotes de órdenes tienen efecto (purga del staging).
func (m *Manager) Reject(ctx context.Context, kind entity.Kind, id int64) error {
	return m.resolve(ctx, kind, id, false)
}

func (m *Manager) resolve(ctx context.Context, kind entity.Kind, id int64, approve bool) error {
	h, ok := m.handlers[kind]
	if !ok {
		return domain.Invalid("tipo de solicitud desconocido %q", kind)
	}
	to := entity.StatusRejected
	if approve {
		to = entity.StatusApproved
	}
	if h.resolve != nil {
		return h.resolve(ctx, id, approve)
	}

	err := m.stores.Run(ctx, kind, func(r ports.Repos) error {
		req, err := r.Requests.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return &domain.NotFoundError{Resource: "solicitud " + string(kind), ID: id}
		}
		if req.Status != entity.StatusPending {
			return &domain.AlreadyProcessedError{Kind: string(kind), ID: id, Status: string(req.Status)}
		}
		swapped, err := r.Requests.Transition(ctx, id, to, m.now())
		if err != nil {
			return err
		}
		if !swapped {
			return &domain.AlreadyProcessedError{Kind: string(kind), ID: id, Status: "resuelta"}
		}
		if approve && h.apply != nil {
			return h.apply(ctx, r, req)
		}
		return nil
	})
	if err != nil {
		return domain.Storage("resolver solicitud", err)
	}
	m.log.Info().Str("kind", string(kind)).Int64("request_id", id).Str("status", string(to)).Msg("solicitud resuelta")
	return nil
}

// applyRegistration crea el usuario. Si el email o el nombre se ocuparon desde el envío, falla.
func (m *Manager) applyRegistration(ctx context.Context, r ports.Repos, req *entity.Request) error {
	p, ok := req.Payload.(entity.RegistrationPayload)
	if !ok {
		return domain.Invalid("solicitud %d sin datos de registro", req.ID)
	}
	if err := auth.CheckAvailable(ctx, r.Users, p.Name, p.Email); err != nil {
		return asValidation(err)
	}
	user := &entity.User{
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		Role:         entity.RoleUser,
		CreatedAt:    m.now().UTC(),
	}
	if err := r.Users.Create(ctx, user); err != nil {
		return asValidation(err)
	}
	return nil
}

// applyPasswordReset reemplaza el hash si el nombre sigue correspondiendo al email.
func (m *Manager) applyPasswordReset(ctx context.Context, r ports.Repos, req *entity.Request) error {
	p, ok := req.Payload.(entity.PasswordResetPayload)
	if !ok {
		return domain.Invalid("solicitud %d sin datos de contraseña", req.ID)
	}
	user, err := r.Users.GetByEmail(ctx, p.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.Invalid("no existe un usuario con email %s", p.Email)
	}
	if !strings.EqualFold(user.Name, p.UserName) {
		return domain.Invalid("el usuario %q no corresponde al email %s", p.UserName, p.Email)
	}
	user.PasswordHash = p.NewPasswordHash
	return r.Users.Update(ctx, user)
}

// ── Consultas ─────────────────────────────────────────────────────────────────

// Get solicitud por tipo e ID.
func (m *Manager) Get(ctx context.Context, kind entity.Kind, id int64) (*entity.Request, error) {
	repos, err := m.stores.Repos(kind)
	if err != nil {
		return nil, domain.Invalid("tipo de solicitud desconocido %q", kind)
	}
	req, err := repos.Requests.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("buscar solicitud", err)
	}
	if req == nil {
		return nil, &domain.NotFoundError{Resource: "solicitud " + string(kind), ID: id}
	}
	return req, nil
}

// ListPending solicitudes pendientes del tipo, más recientes primero.
func (m *Manager) ListPending(ctx context.Context, kind entity.Kind) ([]*entity.Request, error) {
	return m.list(ctx, kind, entity.StatusPending)
}

// ListApproved solicitudes aprobadas del tipo (documentos e informes visibles), más recientes primero.
func (m *Manager) ListApproved(ctx context.Context, kind entity.Kind) ([]*entity.Request, error) {
	return m.list(ctx, kind, entity.StatusApproved)
}

func (m *Manager) list(ctx context.Context, kind entity.Kind, status entity.Status) ([]*entity.Request, error) {
	repos, err := m.stores.Repos(kind)
	if err != nil {
		return nil, domain.Invalid("tipo de solicitud desconocido %q", kind)
	}
	list, err := repos.Requests.ListByStatus(ctx, status)
	if err != nil {
		return nil, domain.Storage("listar solicitudes", err)
	}
	return list, nil
}

// ListAllPending bandeja del administrador: pendientes de todos los tipos, más recientes primero.
func (m *Manager) ListAllPending(ctx context.Context) ([]*entity.Request, error) {
	var all []*entity.Request
	for _, kind := range entity.Kinds() {
		list, err := m.ListPending(ctx, kind)
		if err != nil {
			return nil, err
		}
		all = append(all, list...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

// ── Borrado ───────────────────────────────────────────────────────────────────

// DeleteFile elimina un documento o informe y su archivo. Exige reautenticar al usuario
// que actúa, sea o no administrador.
func (m *Manager) DeleteFile(ctx context.Context, in dto.DeleteFileRequest) error {
	if err := in.Ok(); err != nil {
		return err
	}
	user, err := m.auth.VerifyCredentials(ctx, in.Identifier, in.Password)
	if err != nil {
		return err
	}
	req, err := m.Get(ctx, in.Kind, in.ID)
	if err != nil {
		return err
	}
	repos, err := m.stores.Repos(in.Kind)
	if err != nil {
		return err
	}
	deleted, err := repos.Requests.Delete(ctx, in.ID)
	if err != nil {
		return domain.Storage("eliminar solicitud", err)
	}
	if !deleted {
		return &domain.NotFoundError{Resource: "solicitud " + string(in.Kind), ID: in.ID}
	}
	if f, ok := req.File(); ok && f.FilePath != "" {
		if err := m.files.Delete(f.FilePath); err != nil {
			m.log.Warn().Err(err).Str("path", f.FilePath).Msg("no se pudo borrar el archivo")
		}
	}
	m.log.Info().Str("kind", string(in.Kind)).Int64("request_id", in.ID).Int64("user_id", user.ID).Msg("solicitud eliminada")
	return nil
}

// Summary descripción corta para listados.
func Summary(req *entity.Request) string {
	switch p := req.Payload.(type) {
	case entity.RegistrationPayload:
		return p.Name + " <" + p.Email + ">"
	case entity.PasswordResetPayload:
		return p.UserName + " <" + p.Email + ">"
	case entity.FilePayload:
		return p.Title + " (" + p.FileName + ")"
	case entity.OrderBatchPayload:
		s := "Lote " + string(p.Origin)
		if p.Description != "" {
			s += ": " + p.Description
		}
		return s
	default:
		return ""
	}
}

// ToResponse proyección para listados.
func ToResponse(req *entity.Request) dto.RequestResponse {
	return dto.RequestResponse{
		ID:         req.ID,
		Kind:       req.Kind,
		Status:     req.Status,
		Summary:    Summary(req),
		CreatedAt:  req.CreatedAt,
		ResolvedAt: req.ResolvedAt,
	}
}

// asValidation colisiones de usuario como error de negocio legible.
func asValidation(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrEmailAlreadyExists), errors.Is(err, domain.ErrNameAlreadyExists),
		errors.Is(err, domain.ErrDuplicate):
		return domain.Invalid("%s", err.Error())
	default:
		return err
	}
}
