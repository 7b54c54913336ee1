package auth

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/controle-estoque/internal/application/dto"
	"github.com/jhoicas/controle-estoque/internal/application/ports"
	"github.com/jhoicas/controle-estoque/internal/domain"
	"github.com/jhoicas/controle-estoque/internal/domain/entity"
	"github.com/jhoicas/controle-estoque/internal/domain/repository"
	"github.com/jhoicas/controle-estoque/pkg/jwt"
	"github.com/jhoicas/controle-estoque/pkg/logger"
)

// JWTConfig configuración para generación de tokens de sesión.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación y administración de usuarios.
type AuthUseCase struct {
	userRepo repository.UserRepository
	hasher   ports.PasswordHasher
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, hasher ports.PasswordHasher, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, hasher: hasher, jwtCfg: jwtCfg, log: log.Component("auth"), now: time.Now}
}

// Authenticate verifica identificador (email o nombre) y password, y registra el intento.
// Cualquier falla devuelve ErrUnauthorized, sin revelar si el usuario existe.
func (uc *AuthUseCase) Authenticate(ctx context.Context, identifier, password string) (*entity.User, error) {
	user, err := uc.findByIdentifier(ctx, identifier)
	if err != nil {
		return nil, domain.Storage("buscar usuario", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	ok := uc.hasher.Verify(password, user.PasswordHash)
	if err := uc.userRepo.RecordAccess(ctx, user.ID, ok, uc.now().UTC()); err != nil {
		return nil, domain.Storage("registrar acceso", err)
	}
	if !ok {
		uc.log.Warn().Int64("user_id", user.ID).Msg("contraseña incorrecta")
		return nil, domain.ErrUnauthorized
	}
	return uc.userRepo.GetByID(ctx, user.ID)
}

// VerifyCredentials comprueba identificador y password sin registrar acceso.
// Se usa para reautenticar antes de operaciones sensibles.
func (uc *AuthUseCase) VerifyCredentials(ctx context.Context, identifier, password string) (*entity.User, error) {
	user, err := uc.findByIdentifier(ctx, identifier)
	if err != nil {
		return nil, domain.Storage("buscar usuario", err)
	}
	if user == nil || !uc.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

func (uc *AuthUseCase) findByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, nil
	}
	if strings.Contains(identifier, "@") {
		return uc.userRepo.GetByEmail(ctx, dto.NormalizeEmail(identifier))
	}
	return uc.userRepo.GetByName(ctx, identifier)
}

// Login autentica, genera el token de sesión y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := in.Ok(); err != nil {
		return nil, err
	}
	user, err := uc.Authenticate(ctx, in.Identifier, in.Password)
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Name, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("sesión iniciada")
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// CreateUser alta directa: hashea password y persiste. Devuelve ErrEmailAlreadyExists o
// ErrNameAlreadyExists si hay colisión.
func (uc *AuthUseCase) CreateUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := in.Ok(); err != nil {
		return nil, err
	}
	if err := CheckAvailable(ctx, uc.userRepo, in.Name, in.Email); err != nil {
		return nil, err
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	user := &entity.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    uc.now().UTC(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, domain.Storage("crear usuario", err)
	}
	uc.log.Info().Int64("user_id", user.ID).Str("role", role).Msg("usuario creado")
	return ToUserResponse(user), nil
}

// BootstrapAdmin crea el primer administrador. Solo funciona con la base de usuarios vacía.
func (uc *AuthUseCase) BootstrapAdmin(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, domain.Storage("listar usuarios", err)
	}
	if len(users) > 0 {
		return nil, domain.ErrForbidden
	}
	in.Role = entity.RoleAdmin
	return uc.CreateUser(ctx, in)
}

// CheckAvailable falla si ya existe un usuario con ese email o nombre.
func CheckAvailable(ctx context.Context, users repository.UserRepository, name, email string) error {
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return domain.Storage("buscar usuario", err)
	}
	if existing != nil {
		return domain.ErrEmailAlreadyExists
	}
	existing, err = users.GetByName(ctx, name)
	if err != nil {
		return domain.Storage("buscar usuario", err)
	}
	if existing != nil {
		return domain.ErrNameAlreadyExists
	}
	return nil
}

// ChangePassword cambia la contraseña verificando la actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, in dto.ChangePasswordRequest) error {
	if err := in.Ok(); err != nil {
		return err
	}
	user, err := uc.mustGet(ctx, in.UserID)
	if err != nil {
		return err
	}
	if !uc.hasher.Verify(in.CurrentPassword, user.PasswordHash) {
		return domain.ErrUnauthorized
	}
	hash, err := uc.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return domain.Storage("actualizar usuario", uc.userRepo.Update(ctx, user))
}

// SetRole cambia el rol del usuario.
func (uc *AuthUseCase) SetRole(ctx context.Context, userID int64, role string) error {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role != entity.RoleUser && role != entity.RoleAdmin {
		return domain.Invalid("rol %q inválido", role)
	}
	user, err := uc.mustGet(ctx, userID)
	if err != nil {
		return err
	}
	user.Role = role
	return domain.Storage("actualizar usuario", uc.userRepo.Update(ctx, user))
}

// SetAlert deja un aviso al usuario; reemplaza el anterior.
func (uc *AuthUseCase) SetAlert(ctx context.Context, in dto.AlertRequest) error {
	if err := in.Ok(); err != nil {
		return err
	}
	user, err := uc.mustGet(ctx, in.UserID)
	if err != nil {
		return err
	}
	now := uc.now().UTC()
	user.AlertMessage = in.Message
	user.AlertPriority = in.Priority
	user.AlertSender = in.Sender
	user.AlertCreatedAt = &now
	return domain.Storage("actualizar usuario", uc.userRepo.Update(ctx, user))
}

// AcknowledgeAlert limpia el aviso del usuario.
func (uc *AuthUseCase) AcknowledgeAlert(ctx context.Context, userID int64) error {
	user, err := uc.mustGet(ctx, userID)
	if err != nil {
		return err
	}
	user.AlertMessage, user.AlertPriority, user.AlertSender = "", "", ""
	user.AlertCreatedAt = nil
	return domain.Storage("actualizar usuario", uc.userRepo.Update(ctx, user))
}

// DeleteUser elimina el usuario.
func (uc *AuthUseCase) DeleteUser(ctx context.Context, userID int64) error {
	if _, err := uc.mustGet(ctx, userID); err != nil {
		return err
	}
	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		return domain.Storage("eliminar usuario", err)
	}
	uc.log.Info().Int64("user_id", userID).Msg("usuario eliminado")
	return nil
}

// ListUsers usuarios ordenados por nombre.
func (uc *AuthUseCase) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, domain.Storage("listar usuarios", err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

// GetUser usuario por ID.
func (uc *AuthUseCase) GetUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := uc.mustGet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

func (uc *AuthUseCase) mustGet(ctx context.Context, id int64) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("buscar usuario", err)
	}
	if user == nil {
		return nil, &domain.NotFoundError{Resource: "usuario", ID: id}
	}
	return user, nil
}

// ToUserResponse proyección sin credenciales.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Role:              u.Role,
		AccessCount:       u.AccessCount,
		FailedAccessCount: u.FailedAccessCount,
		LastAccessAt:      u.LastAccessAt,
		AlertMessage:      u.AlertMessage,
		AlertPriority:     u.AlertPriority,
		AlertSender:       u.AlertSender,
		CreatedAt:         u.CreatedAt,
	}
}
