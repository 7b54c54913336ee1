// Package sqlite implementa los puertos de persistencia sobre archivos SQLite (modernc, sin cgo).
//
// La aplicación usa cuatro archivos independientes; ninguna operación abre una
// transacción que abarque más de uno.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/jhoicas/controle-estoque/internal/domain/entity"
	"github.com/jhoicas/controle-estoque/pkg/config"
	"github.com/jhoicas/controle-estoque/pkg/logger"
)

//go:embed migrations
var migrationsFS embed.FS

// Nombres de store; coinciden con los directorios de migraciones.
const (
	StoreAuth          = "auth"
	StoreReports       = "reports"
	StoreOrderRequests = "order_requests"
	StoreOrders        = "orders"
)

// Open abre (y crea si no existe) un archivo SQLite.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de datos: %w", err)
	}
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Add("_pragma", "foreign_keys(1)")
	q.Set("_time_format", "sqlite")
	dsn := "file:" + path + "?" + q.Encode()

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite %s: %w", path, err)
	}
	db := sqlx.NewDb(sqlDB, "sqlite3") // placeholders '?'
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return db, nil
}

// Migrate aplica las migraciones embebidas del store sobre db.
func Migrate(ctx context.Context, db *sqlx.DB, store string) (int, error) {
	fsys, err := fs.Sub(migrationsFS, "migrations/"+store)
	if err != nil {
		return 0, fmt.Errorf("migraciones %s: %w", store, err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db.DB, fsys)
	if err != nil {
		return 0, fmt.Errorf("goose provider %s: %w", store, err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrar %s: %w", store, err)
	}
	return len(results), nil
}

// Stores conexiones a los cuatro archivos de la aplicación. Se abren al inicio del
// proceso y se cierran al final; no hay estado global.
type Stores struct {
	Auth          *sqlx.DB
	Reports       *sqlx.DB
	OrderRequests *sqlx.DB
	Orders        *sqlx.DB
}

// OpenStores abre y migra todos los stores configurados.
func OpenStores(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (*Stores, error) {
	s := &Stores{}
	targets := []struct {
		name string
		path string
		dst  **sqlx.DB
	}{
		{StoreAuth, cfg.Resolve(cfg.AuthDBPath), &s.Auth},
		{StoreReports, cfg.Resolve(cfg.ReportDBPath), &s.Reports},
		{StoreOrderRequests, cfg.Resolve(cfg.OrderRequestPath), &s.OrderRequests},
		{StoreOrders, cfg.Resolve(cfg.OrderDataPath), &s.Orders},
	}
	for _, t := range targets {
		db, err := Open(ctx, t.path)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		*t.dst = db
		n, err := Migrate(ctx, db, t.name)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		log.Debug().Str("store", t.name).Str("path", t.path).Int("migrations", n).Msg("store listo")
	}
	return s, nil
}

// ForKind store que aloja las solicitudes de kind.
func (s *Stores) ForKind(kind entity.Kind) (*sqlx.DB, error) {
	switch kind {
	case entity.KindPasswordReset, entity.KindRegistration, entity.KindDocument:
		return s.Auth, nil
	case entity.KindReport:
		return s.Reports, nil
	case entity.KindOrderBatch:
		return s.OrderRequests, nil
	default:
		return nil, fmt.Errorf("tipo de solicitud desconocido %q", kind)
	}
}

// Close cierra todas las conexiones abiertas.
func (s *Stores) Close() error {
	var errs []error
	for _, db := range []*sqlx.DB{s.Auth, s.Reports, s.OrderRequests, s.Orders} {
		if db != nil {
			errs = append(errs, db.Close())
		}
	}
	return errors.Join(errs...)
}
