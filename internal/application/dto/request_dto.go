package dto

import (
	"strings"
	"time"

	"github.com/jhoicas/controle-estoque/internal/domain/entity"
)

// Largo mínimo de la descripción según el tipo de adjunto.
const (
	MinDocumentDescription = 10
	MinReportDescription   = 8
)

// RegistrationRequest solicitud de alta de usuario.
type RegistrationRequest struct {
	Name     string `validate:"required,max=100" label:"nombre"`
	Email    string `validate:"required,email,max=254" label:"email"`
	Password string `validate:"required,strongpwd" label:"contraseña"`
}

// Ok normaliza y valida la entrada.
func (in *RegistrationRequest) Ok() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	return check(in)
}

// PasswordResetRequest solicitud de cambio de contraseña.
type PasswordResetRequest struct {
	UserName    string `validate:"required" label:"nombre de usuario"`
	Email       string `validate:"required,email" label:"email"`
	NewPassword string `validate:"required,strongpwd" label:"nueva contraseña"`
}

// Ok normaliza y valida la entrada.
func (in *PasswordResetRequest) Ok() error {
	in.UserName = strings.TrimSpace(in.UserName)
	in.Email = NormalizeEmail(in.Email)
	return check(in)
}

// DocumentRequest adjunto de documento (POP).
type DocumentRequest struct {
	Title       string `validate:"required,max=200" label:"título"`
	Description string `validate:"required,min=10" label:"descripción"`
	FileName    string `label:"nombre de archivo"`
	FilePath    string `validate:"required" label:"archivo"`
}

// Ok normaliza y valida la entrada.
func (in *DocumentRequest) Ok() error {
	trimFile(&in.Title, &in.Description, &in.FileName, &in.FilePath)
	return check(in)
}

// ReportRequest adjunto de informe.
type ReportRequest struct {
	Title       string `validate:"required,max=200" label:"título"`
	Description string `validate:"required,min=8" label:"descripción"`
	FileName    string `label:"nombre de archivo"`
	FilePath    string `validate:"required" label:"archivo"`
}

// Ok normaliza y valida la entrada.
func (in *ReportRequest) Ok() error {
	trimFile(&in.Title, &in.Description, &in.FileName, &in.FilePath)
	return check(in)
}

func trimFile(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// DeleteFileRequest borrado de un documento o informe con reautenticación.
type DeleteFileRequest struct {
	Kind       entity.Kind `validate:"required,oneof=document report" label:"tipo"`
	ID         int64       `validate:"gt=0" label:"solicitud"`
	Identifier string      `validate:"required" label:"usuario"`
	Password   string      `validate:"required" label:"contraseña"`
}

// Ok normaliza y valida la entrada.
func (in *DeleteFileRequest) Ok() error {
	in.Identifier = strings.TrimSpace(in.Identifier)
	return check(in)
}

// RequestResponse vista de una solicitud para listados.
type RequestResponse struct {
	ID         int64         `json:"id"`
	Kind       entity.Kind   `json:"kind"`
	Status     entity.Status `json:"status"`
	Summary    string        `json:"summary"`
	CreatedAt  time.Time     `json:"created_at"`
	ResolvedAt *time.Time    `json:"resolved_at,omitempty"`
}
