// Package ports define los puertos de salida de la capa de aplicación.
// Los adaptadores (sqlite, excelize, maroto, bcrypt, disco local) implementan estas interfaces;
// la aplicación solo conoce el contrato.
package ports

import (
	"context"
	"time"

	"github.com/jhoicas/controle-estoque/internal/domain/entity"
	"github.com/jhoicas/controle-estoque/internal/domain/orders"
	"github.com/jhoicas/controle-estoque/internal/domain/repository"
)

// PasswordHasher hash opaco de credenciales.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// FileStore directorio administrado para adjuntos de documentos e informes.
type FileStore interface {
	// Save copia source al directorio administrado con un nombre único y devuelve la ruta guardada.
	Save(source string) (string, error)
	Exists(path string) bool
	Delete(path string) error
}

// SpreadsheetReader lee la primera hoja de una planilla como tabla cruda.
type SpreadsheetReader interface {
	ReadTable(path string) (orders.Table, error)
}

// ExportWriter escribe una tabla en memoria como planilla.
type ExportWriter interface {
	WriteTable(headers []string, rows [][]any, dest string) error
}

// BatchDocument datos del PDF de vista previa de un lote.
type BatchDocument struct {
	RequestID   int64
	Origin      entity.Flow
	Description string
	Status      entity.Status
	CreatedAt   time.Time
	TotalRows   int
	Headers     []string
	Rows        [][]string
}

// BatchPDFGenerator genera el PDF de un lote de órdenes.
type BatchPDFGenerator interface {
	GenerateBatchPDF(ctx context.Context, doc BatchDocument) ([]byte, error)
}

// Repos repositorios ligados a un mismo store (y a la misma tx dentro de Run).
// Users solo está presente en el store de autenticación; Staging solo en el de lotes.
type Repos struct {
	Requests repository.RequestRepository
	Users    repository.UserRepository
	Staging  repository.StagingRepository
}

// RequestStores acceso a los repositorios del store que aloja cada tipo de solicitud.
type RequestStores interface {
	// Repos repositorios sobre la conexión; cada escritura confirma al instante.
	Repos(kind entity.Kind) (Repos, error)
	// Run ejecuta fn en una transacción del store de kind: Commit si fn no falla, Rollback si falla.
	Run(ctx context.Context, kind entity.Kind, fn func(Repos) error) error
}
