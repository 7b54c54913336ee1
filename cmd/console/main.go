package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/controle-estoque/internal/application/auth"
	"github.com/jhoicas/controle-estoque/internal/application/orders"
	"github.com/jhoicas/controle-estoque/internal/application/requests"
	domorders "github.com/jhoicas/controle-estoque/internal/domain/orders"
	"github.com/jhoicas/controle-estoque/internal/infrastructure/files"
	infrapdf "github.com/jhoicas/controle-estoque/internal/infrastructure/pdf"
	"github.com/jhoicas/controle-estoque/internal/infrastructure/security"
	"github.com/jhoicas/controle-estoque/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/controle-estoque/internal/infrastructure/sqlite"
	"github.com/jhoicas/controle-estoque/internal/interfaces/cli"
	"github.com/jhoicas/controle-estoque/pkg/config"
	"github.com/jhoicas/controle-estoque/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	// stdout queda para la salida JSON de los comandos.
	var logOut io.Writer = os.Stderr
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			panic("abrir log: " + err.Error())
		}
		defer f.Close()
		logOut = f
	}
	log := logger.New(logger.Config{
		Env:    cfg.App.Env,
		Level:  cfg.Log.Level,
		Output: logOut,
	})
	log.Debug().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("data_dir", cfg.Storage.DataDir).
		Msg("iniciando consola")

	if cfg.Session.Secret == "" {
		if cfg.App.Env == "production" {
			log.Error().Msg("SESSION_SECRET es obligatorio en production")
			return 1
		}
		log.Warn().Msg("SESSION_SECRET vacío; usando secreto de desarrollo")
		cfg.Session.Secret = "dev-" + cfg.App.Name
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := sqlite.OpenStores(ctx, cfg.Storage, log)
	if err != nil {
		log.Error().Err(err).Msg("abrir almacenamiento")
		return 1
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar almacenamiento")
		}
	}()

	fileStore, err := files.NewLocalStore(cfg.Storage.Resolve(cfg.Storage.FilesDir))
	if err != nil {
		log.Error().Err(err).Msg("directorio de archivos")
		return 1
	}

	txRunner := sqlite.NewTxRunner(stores)
	userRepo := sqlite.NewUserRepository(stores.Auth)
	orderRepo := sqlite.NewOrderRepository(stores.Orders)
	hasher := security.NewBcryptHasher(cfg.Session.BcryptCost)

	authUC := auth.NewAuthUseCase(userRepo, hasher, auth.JWTConfig{
		Secret:     cfg.Session.Secret,
		ExpMinutes: cfg.Session.Expiration,
		Issuer:     cfg.Session.Issuer,
	}, log)

	coordinator := orders.NewCoordinator(txRunner, orderRepo, log)
	if rep, err := coordinator.Recover(ctx); err != nil {
		log.Error().Err(err).Msg("recuperar staging")
		return 1
	} else if rep.Reapplied+rep.Purged > 0 {
		log.Warn().Int("reapplied", rep.Reapplied).Int("purged", rep.Purged).Msg("staging recuperado al iniciar")
	}

	pipeline := domorders.NewPipeline(domorders.Options{
		BusinessDays:      cfg.Orders.DeadlineBusinessDays,
		EvidenceThreshold: cfg.Orders.EvidenceThreshold,
	})
	importUC := orders.NewImportUseCase(
		spreadsheet.NewExcelReader(),
		spreadsheet.NewExcelWriter(""),
		infrapdf.NewMarotoPDFGenerator(),
		pipeline,
		coordinator,
		orderRepo,
		log,
	)
	manager := requests.NewManager(txRunner, hasher, fileStore, authUC, coordinator, log)

	app := &cli.App{
		Auth:          authUC,
		Requests:      manager,
		Coordinator:   coordinator,
		Import:        importUC,
		SessionSecret: cfg.Session.Secret,
	}
	if err := cli.NewRootCmd(app).ExecuteContext(ctx); err != nil {
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(cli.ToErrorResponse(err))
		return cli.ExitCode(err)
	}
	return 0
}
