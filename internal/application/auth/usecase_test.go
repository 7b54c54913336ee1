package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controle-estoque/internal/application/auth"
	"github.com/jhoicas/controle-estoque/internal/application/dto"
	"github.com/jhoicas/controle-estoque/internal/domain"
	"github.com/jhoicas/controle-estoque/internal/domain/entity"
	pkgjwt "github.com/jhoicas/controle-estoque/pkg/jwt"
	"github.com/jhoicas/controle-estoque/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

const testSecret = "test-secret-key-for-unit-tests"

// memUsers repositorio en memoria con búsquedas sin distinguir mayúsculas.
type memUsers struct {
	byID   map[int64]*entity.User
	nextID int64
}

func newMemUsers() *memUsers { return &memUsers{byID: map[int64]*entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	for _, e := range m.byID {
		if strings.EqualFold(e.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
		if strings.EqualFold(e.Name, u.Name) {
			return domain.ErrNameAlreadyExists
		}
	}
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) find(match func(*entity.User) bool) *entity.User {
	for _, u := range m.byID {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (m *memUsers) GetByName(_ context.Context, name string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return strings.EqualFold(u.Name, name) }), nil
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) RecordAccess(_ context.Context, id int64, success bool, at time.Time) error {
	u, ok := m.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if success {
		u.AccessCount++
		u.LastAccessAt = &at
	} else {
		u.FailedAccessCount++
	}
	return nil
}

func (m *memUsers) List(_ context.Context) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(m.byID))
	for _, u := range m.byID {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.byID, id)
	return nil
}

// plainHasher hash reversible, suficiente para verificar el flujo.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (plainHasher) Verify(p, h string) bool       { return h == "h:"+p }

func newUseCase() (*auth.AuthUseCase, *memUsers) {
	repo := newMemUsers()
	uc := auth.NewAuthUseCase(repo, plainHasher{}, auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"}, logger.Nop())
	return uc, repo
}

func mustCreate(t *testing.T, uc *auth.AuthUseCase, name, email string) *dto.UserResponse {
	t.Helper()
	u, err := uc.CreateUser(context.Background(), dto.CreateUserRequest{Name: name, Email: email, Password: "clave1234"})
	require.NoError(t, err)
	return u
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_PorEmailOPorNombre(t *testing.T) {
	uc, repo := newUseCase()
	ctx := context.Background()
	u := mustCreate(t, uc, "Ana", " ANA@X.com ")
	assert.Equal(t, "ana@x.com", u.Email, "el email se guarda en minúsculas")

	res, err := uc.Login(ctx, dto.LoginRequest{Identifier: "Ana@x.com", Password: "clave1234"})
	require.NoError(t, err)
	claims, err := pkgjwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, entity.RoleUser, claims.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Identifier: "ana", Password: "clave1234"})
	require.NoError(t, err)

	assert.Equal(t, 2, repo.byID[u.ID].AccessCount)
	assert.NotNil(t, repo.byID[u.ID].LastAccessAt)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, repo := newUseCase()
	ctx := context.Background()
	u := mustCreate(t, uc, "ana", "ana@x.com")

	_, err := uc.Login(ctx, dto.LoginRequest{Identifier: "ana", Password: "otra1234"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, 1, repo.byID[u.ID].FailedAccessCount)

	_, err = uc.Login(ctx, dto.LoginRequest{Identifier: "nadie", Password: "otra1234"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "no revela si el usuario existe")

	_, err = uc.Login(ctx, dto.LoginRequest{Identifier: " ", Password: "x"})
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestVerifyCredentials_NoRegistraAcceso(t *testing.T) {
	uc, repo := newUseCase()
	ctx := context.Background()
	u := mustCreate(t, uc, "ana", "ana@x.com")

	got, err := uc.VerifyCredentials(ctx, "ana", "clave1234")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = uc.VerifyCredentials(ctx, "ana@x.com", "otra1234")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.VerifyCredentials(ctx, "nadie", "clave1234")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.Zero(t, repo.byID[u.ID].AccessCount)
	assert.Zero(t, repo.byID[u.ID].FailedAccessCount)
	assert.Nil(t, repo.byID[u.ID].LastAccessAt)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta de usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateUser_Colisiones(t *testing.T) {
	uc, _ := newUseCase()
	mustCreate(t, uc, "ana", "ana@x.com")

	_, err := uc.CreateUser(context.Background(), dto.CreateUserRequest{Name: "otra", Email: "ANA@x.com", Password: "clave1234"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.CreateUser(context.Background(), dto.CreateUserRequest{Name: "ANA", Email: "b@x.com", Password: "clave1234"})
	assert.ErrorIs(t, err, domain.ErrNameAlreadyExists)
}

func TestCreateUser_ContrasenaDebil(t *testing.T) {
	uc, _ := newUseCase()
	for _, pwd := range []string{"corta1", "solotexto", "12345678", strings.Repeat("a1", 40)} {
		_, err := uc.CreateUser(context.Background(), dto.CreateUserRequest{Name: "ana", Email: "ana@x.com", Password: pwd})
		var ve *domain.ValidationError
		assert.ErrorAs(t, err, &ve, pwd)
	}
}

func TestBootstrapAdmin_SoloConBaseVacia(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	admin, err := uc.BootstrapAdmin(ctx, dto.CreateUserRequest{Name: "root", Email: "root@x.com", Password: "clave1234"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)

	_, err = uc.BootstrapAdmin(ctx, dto.CreateUserRequest{Name: "otro", Email: "otro@x.com", Password: "clave1234"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Administración
// ──────────────────────────────────────────────────────────────────────────────

func TestChangePassword_VerificaLaActual(t *testing.T) {
	uc, repo := newUseCase()
	ctx := context.Background()
	u := mustCreate(t, uc, "ana", "ana@x.com")

	err := uc.ChangePassword(ctx, dto.ChangePasswordRequest{UserID: u.ID, CurrentPassword: "errada", NewPassword: "nueva1234"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, uc.ChangePassword(ctx, dto.ChangePasswordRequest{UserID: u.ID, CurrentPassword: "clave1234", NewPassword: "nueva1234"}))
	assert.Equal(t, "h:nueva1234", repo.byID[u.ID].PasswordHash)
}

func TestSetRoleYAlertas(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	u := mustCreate(t, uc, "ana", "ana@x.com")

	assert.Error(t, uc.SetRole(ctx, u.ID, "jefe"))
	require.NoError(t, uc.SetRole(ctx, u.ID, "administrador"))

	require.NoError(t, uc.SetAlert(ctx, dto.AlertRequest{UserID: u.ID, Message: "revisar lote", Priority: "alta", Sender: "root"}))
	got, err := uc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, got.Role)
	assert.Equal(t, entity.AlertHigh, got.AlertPriority)

	require.NoError(t, uc.AcknowledgeAlert(ctx, u.ID))
	got, err = uc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AlertMessage)

	var nf *domain.NotFoundError
	assert.ErrorAs(t, uc.SetRole(ctx, 99, entity.RoleUser), &nf)
}

func TestDeleteUser(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	u := mustCreate(t, uc, "ana", "ana@x.com")

	require.NoError(t, uc.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, uc.DeleteUser(ctx, u.ID), domain.ErrNotFound)

	list, err := uc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
