package dto

import (
	"strings"
	"time"
)

// CreateUserRequest alta directa por un administrador (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Name     string `validate:"required,max=100" label:"nombre"`
	Email    string `validate:"required,email,max=254" label:"email"`
	Password string `validate:"required,strongpwd" label:"contraseña"`
	Role     string `validate:"omitempty,oneof=USUARIO ADMINISTRADOR" label:"rol"`
}

// Ok normaliza y valida la entrada.
func (in *CreateUserRequest) Ok() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))
	return check(in)
}

// LoginRequest identificador (email o nombre) + password.
type LoginRequest struct {
	Identifier string `validate:"required" label:"usuario"`
	Password   string `validate:"required" label:"contraseña"`
}

// Ok normaliza y valida la entrada.
func (in *LoginRequest) Ok() error {
	in.Identifier = strings.TrimSpace(in.Identifier)
	return check(in)
}

// ChangePasswordRequest cambio de contraseña del propio usuario.
type ChangePasswordRequest struct {
	UserID          int64  `validate:"gt=0" label:"usuario"`
	CurrentPassword string `validate:"required" label:"contraseña actual"`
	NewPassword     string `validate:"required,strongpwd" label:"nueva contraseña"`
}

// Ok valida la entrada.
func (in *ChangePasswordRequest) Ok() error { return check(in) }

// AlertRequest aviso dirigido a un usuario.
type AlertRequest struct {
	UserID   int64  `validate:"gt=0" label:"usuario"`
	Message  string `validate:"required,max=500" label:"mensaje"`
	Priority string `validate:"required,oneof=BAIXA MEDIA ALTA" label:"prioridad"`
	Sender   string `validate:"required" label:"remitente"`
}

// Ok normaliza y valida la entrada.
func (in *AlertRequest) Ok() error {
	in.Message = strings.TrimSpace(in.Message)
	in.Priority = strings.ToUpper(strings.TrimSpace(in.Priority))
	in.Sender = strings.TrimSpace(in.Sender)
	return check(in)
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Role              string     `json:"role"`
	AccessCount       int        `json:"access_count"`
	FailedAccessCount int        `json:"failed_access_count"`
	LastAccessAt      *time.Time `json:"last_access_at,omitempty"`
	AlertMessage      string     `json:"alert_message,omitempty"`
	AlertPriority     string     `json:"alert_priority,omitempty"`
	AlertSender       string     `json:"alert_sender,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// LoginResponse salida con token de sesión.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
