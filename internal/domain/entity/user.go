package entity

import "time"

// Roles válidos para User.
const (
	RoleUser  = "USUARIO"
	RoleAdmin = "ADMINISTRADOR"
)

// Prioridades del aviso de usuario.
const (
	AlertLow    = "BAIXA"
	AlertMedium = "MEDIA"
	AlertHigh   = "ALTA"
)

// User representa un operador de la consola.
type User struct {
	ID                int64      `db:"id"`
	Name              string     `db:"name"`
	Email             string     `db:"email"`         // siempre en minúsculas
	PasswordHash      string     `db:"password_hash"` // bcrypt hash
	Role              string     `db:"role"`          // USUARIO, ADMINISTRADOR
	AccessCount       int        `db:"access_count"`
	FailedAccessCount int        `db:"failed_access_count"`
	LastAccessAt      *time.Time `db:"last_access_at"`
	AlertMessage      string     `db:"alert_message"`
	AlertPriority     string     `db:"alert_priority"`
	AlertSender       string     `db:"alert_sender"`
	AlertCreatedAt    *time.Time `db:"alert_created_at"`
	CreatedAt         time.Time  `db:"created_at"`
}

// IsAdmin indica si el usuario puede resolver solicitudes.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// HasAlert indica si hay un aviso sin confirmar.
func (u *User) HasAlert() bool { return u != nil && u.AlertMessage != "" }
