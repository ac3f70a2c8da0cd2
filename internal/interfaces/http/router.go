package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/article"
	"github.com/jhoicas/stock-ledger/internal/application/audit"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Articles    *article.Registry
	Ledger      *ledger.Ledger
	Inventory   *inventory.Workflow
	Alerts      *alert.Evaluator
	Audit       *audit.Logger
	Metrics     *metrics.Collector // nil = sin /metrics
	Log         *logger.Logger
	DefaultUser string
	ServiceName string
	Ping        func(ctx context.Context) error // health check del almacén; opcional
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Log.Named("http")))

	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			if err := deps.Ping(c.Context()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "service": deps.ServiceName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api", CurrentUser(deps.DefaultUser))

	// Articles + ledger. Rutas estáticas antes de /:id
	articles := api.Group("/articles")
	articleHandler := NewArticleHandler(deps.Articles, deps.Ledger)
	articles.Post("/", articleHandler.Create)
	articles.Get("/", articleHandler.List)
	articles.Get("/replenishment", articleHandler.Replenishment)
	articles.Get("/barcode/:code", articleHandler.FindByBarcode)
	articles.Get("/:id", articleHandler.GetByID)
	articles.Put("/:id", articleHandler.Update)
	articles.Delete("/:id", articleHandler.Delete)
	articles.Post("/:id/movements", articleHandler.ApplyMovement)
	articles.Get("/:id/movements", articleHandler.History)

	// Inventories
	inventories := api.Group("/inventories")
	inventoryHandler := NewInventoryHandler(deps.Inventory)
	inventories.Post("/", inventoryHandler.Start)
	inventories.Get("/", inventoryHandler.List)
	inventories.Get("/:id", inventoryHandler.GetByID)
	inventories.Put("/:id/lines/:articleId", inventoryHandler.RecordCount)
	inventories.Post("/:id/validate", inventoryHandler.Validate)
	inventories.Get("/:id/progress", inventoryHandler.Progress)
	inventories.Get("/:id/export", inventoryHandler.Export)

	// Alerts + audit
	alertHandler := NewAlertHandler(deps.Alerts, deps.Audit)
	alerts := api.Group("/alerts")
	alerts.Get("/", alertHandler.List)
	alerts.Post("/:id/resolve", alertHandler.Resolve)
	api.Get("/audit", alertHandler.Audit)
}
