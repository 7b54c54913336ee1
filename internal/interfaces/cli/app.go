// Package cli expone los casos de uso como comandos cobra; reemplaza a la interfaz gráfica.
package cli

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/jhoicas/controle-estoque/internal/application/auth"
	"github.com/jhoicas/controle-estoque/internal/application/orders"
	"github.com/jhoicas/controle-estoque/internal/application/requests"
	"github.com/jhoicas/controle-estoque/internal/domain"
)

// App dependencias de los comandos.
type App struct {
	Auth          *auth.AuthUseCase
	Requests      *requests.Manager
	Coordinator   *orders.Coordinator
	Import        *orders.ImportUseCase
	SessionSecret string
	Out           io.Writer
}

func (a *App) out() io.Writer {
	if a.Out == nil {
		return os.Stdout
	}
	return a.Out
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.out())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ErrorResponse cuerpo de error impreso por la consola.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToErrorResponse traduce errores de dominio a un código estable y un mensaje legible.
func ToErrorResponse(err error) ErrorResponse {
	var (
		ve *domain.ValidationError
		nf *domain.NotFoundError
		ap *domain.AlreadyProcessedError
	)
	switch {
	case errors.As(err, &ve):
		return ErrorResponse{Code: "VALIDATION", Message: ve.Reason}
	case errors.As(err, &nf):
		return ErrorResponse{Code: "NOT_FOUND", Message: nf.Error()}
	case errors.As(err, &ap):
		return ErrorResponse{Code: "ALREADY_PROCESSED", Message: ap.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return ErrorResponse{Code: "FORBIDDEN", Message: "requiere rol ADMINISTRADOR"}
	case errors.Is(err, domain.ErrEmailAlreadyExists), errors.Is(err, domain.ErrNameAlreadyExists),
		errors.Is(err, domain.ErrDuplicate):
		return ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrUserNotFound):
		return ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrStorage):
		return ErrorResponse{Code: "STORAGE", Message: err.Error()}
	default:
		return ErrorResponse{Code: "INTERNAL", Message: err.Error()}
	}
}

// ExitCode 2 para errores del usuario, 1 para fallas internas.
func ExitCode(err error) int {
	switch ToErrorResponse(err).Code {
	case "INTERNAL", "STORAGE":
		return 1
	default:
		return 2
	}
}
