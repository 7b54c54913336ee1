package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controle-estoque/internal/infrastructure/sqlite"
	"github.com/jhoicas/controle-estoque/pkg/config"
	"github.com/jhoicas/controle-estoque/pkg/logger"
)

// openStores abre los cuatro stores en un directorio temporal.
func openStores(t *testing.T) *sqlite.Stores {
	t.Helper()
	cfg := config.StorageConfig{
		DataDir:          t.TempDir(),
		AuthDBPath:       "app.db",
		ReportDBPath:     "reports.db",
		OrderRequestPath: "order_requests.db",
		OrderDataPath:    "orders.db",
	}
	stores, err := sqlite.OpenStores(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = stores.Close() })
	return stores
}
