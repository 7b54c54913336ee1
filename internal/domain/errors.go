package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrNameAlreadyExists  = errors.New("el nombre de usuario ya está registrado")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrValidation         = errors.New("validación fallida")
	ErrAlreadyProcessed   = errors.New("solicitud ya procesada")
	ErrStorage            = errors.New("falla de almacenamiento")
)

// ValidationError regla de negocio incumplida en una solicitud. Reason es apto para mostrar al usuario.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid construye un ValidationError con el motivo formateado.
func Invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError el recurso referenciado no existe.
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AlreadyProcessedError la solicitud ya no está pendiente.
type AlreadyProcessedError struct {
	Kind   string
	ID     int64
	Status string
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("solicitud %s %d ya fue procesada (%s)", e.Kind, e.ID, e.Status)
}

func (e *AlreadyProcessedError) Unwrap() error { return ErrAlreadyProcessed }

// StorageError error de persistencia. No se reintenta.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// Storage envuelve err como StorageError salvo que ya sea un error de dominio tipado.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		nf *NotFoundError
		ap *AlreadyProcessedError
		se *StorageError
	)
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &ap) || errors.As(err, &se) {
		return err
	}
	for _, sentinel := range []error{ErrNotFound, ErrUserNotFound, ErrEmailAlreadyExists, ErrNameAlreadyExists, ErrDuplicate, ErrUnauthorized, ErrForbidden, ErrAlreadyProcessed} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return &StorageError{Op: op, Err: err}
}
