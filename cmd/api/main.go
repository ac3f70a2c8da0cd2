package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/article"
	"github.com/jhoicas/stock-ledger/internal/application/audit"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/sqlstore"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/keylock"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	clock := func() time.Time { return time.Now().UTC() }

	ctx := context.Background()
	store, err := sqlstore.Open(ctx, cfg.Store, sqlstore.WithClock(clock))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer store.Close()

	repos := store.Repositories()
	txRunner := sqlstore.NewTxRunner(store)
	locks := keylock.New()
	collector := metrics.New(true)

	auditLog := audit.NewLogger(repos.Audit)
	alertEvaluator := alert.NewEvaluator(txRunner, repos.Alerts, locks, auditLog, collector, clock)
	stockLedger := ledger.NewLedger(
		txRunner, repos.Articles, repos.Movements, locks,
		alertEvaluator, auditLog, collector, log, clock,
	)
	registry := article.NewRegistry(txRunner, repos.Articles, locks, auditLog, log)
	workflow := inventory.NewWorkflow(
		txRunner, repos.Inventories, stockLedger, locks,
		auditLog, collector, log, clock,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	deps := httpRouter.RouterDeps{
		Articles:    registry,
		Ledger:      stockLedger,
		Inventory:   workflow,
		Alerts:      alertEvaluator,
		Audit:       auditLog,
		Log:         log,
		DefaultUser: cfg.App.DefaultUser,
		ServiceName: cfg.App.Name,
		Ping:        store.Ping,
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = collector
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
