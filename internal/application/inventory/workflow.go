// Package inventory orquesta las sesiones de conteo físico y su conciliación con el ledger.
package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/audit"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
	"github.com/jhoicas/stock-ledger/pkg/keylock"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/metrics"
)

// AdjustmentNote motivo de los ajustes generados al validar un inventario.
const AdjustmentNote = "inventory adjustment"

// Workflow casos de uso de inventario: IN_PROGRESS -> COMPLETED (terminal).
type Workflow struct {
	txRunner    repository.TxRunner
	inventories repository.InventoryRepository
	ledger      *ledger.Ledger
	locks       *keylock.Locker
	audit       *audit.Logger
	metrics     *metrics.Collector
	log         *logger.Logger
	now         func() time.Time
}

// NewWorkflow construye el flujo de inventario. inventories se usa para lecturas fuera de tx.
func NewWorkflow(
	txRunner repository.TxRunner,
	inventories repository.InventoryRepository,
	l *ledger.Ledger,
	locks *keylock.Locker,
	auditLog *audit.Logger,
	m *metrics.Collector,
	log *logger.Logger,
	now func() time.Time,
) *Workflow {
	return &Workflow{
		txRunner:    txRunner,
		inventories: inventories,
		ledger:      l,
		locks:       locks,
		audit:       auditLog,
		metrics:     m,
		log:         log.Named("inventory"),
		now:         now,
	}
}

// Start abre una sesión con una línea PENDING por artículo (todos, o solo los de zone),
// congelando el stock teórico. Las líneas quedan ordenadas por referencia.
func (w *Workflow) Start(ctx context.Context, zone, user string) (*entity.Inventory, error) {
	if user == "" {
		return nil, domain.Validationf("usuario requerido")
	}
	var inv *entity.Inventory
	err := w.txRunner.Run(ctx, func(repos repository.Repositories) error {
		articles, err := repos.Articles.List(ctx, repository.ArticleFilter{Location: zone})
		if err != nil {
			return err
		}
		sort.SliceStable(articles, func(i, j int) bool {
			return articles[i].Reference < articles[j].Reference
		})
		inv = &entity.Inventory{
			Date:   w.now(),
			Zone:   zone,
			Status: entity.InventoryStatusInProgress,
			User:   user,
			Lines:  make([]entity.InventoryLine, 0, len(articles)),
		}
		for _, a := range articles {
			inv.Lines = append(inv.Lines, entity.InventoryLine{
				ArticleID:        a.ID,
				Reference:        a.Reference,
				Designation:      a.Designation,
				TheoreticalStock: a.CurrentStock,
				Status:           entity.LineStatusPending,
			})
		}
		if err := repos.Inventories.Create(ctx, inv); err != nil {
			return err
		}
		return w.audit.Record(ctx, repos, user, entity.InventoryStarted{
			InventoryID: inv.ID,
			Zone:        zone,
			Lines:       len(inv.Lines),
		})
	})
	if err != nil {
		return nil, err
	}
	w.metrics.InventoriesStarted.Inc()
	w.log.Info().Str("inventory_id", inv.ID).Str("zone", zone).Int("lines", len(inv.Lines)).Msg("inventario iniciado")
	return inv, nil
}

// RecordCount registra el conteo de una línea y su variación. Un nuevo conteo sobrescribe el anterior.
func (w *Workflow) RecordCount(ctx context.Context, inventoryID, articleID string, counted int64, user string) (*entity.InventoryLine, error) {
	if counted < 0 {
		return nil, domain.Validationf("el conteo no puede ser negativo")
	}
	unlock := w.locks.Lock(inventoryID)
	defer unlock()

	var line entity.InventoryLine
	err := w.txRunner.Run(ctx, func(repos repository.Repositories) error {
		inv, err := getOpen(ctx, repos.Inventories, inventoryID)
		if err != nil {
			return err
		}
		l := inv.Line(articleID)
		if l == nil {
			return domain.NotFoundf("el artículo %s no está en el inventario %s", articleID, inventoryID)
		}
		variance := stock.Variance(counted, l.TheoreticalStock)
		l.CountedStock = &counted
		l.Variance = &variance
		l.Status = entity.LineStatusDone
		if err := repos.Inventories.Update(ctx, inv); err != nil {
			return err
		}
		line = *l
		return w.audit.Record(ctx, repos, user, entity.CountRecorded{
			InventoryID:  inventoryID,
			ArticleID:    articleID,
			CountedStock: counted,
			Variance:     variance,
		})
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// Validate cierra la sesión: ajusta en el ledger cada línea con variación distinta de cero
// y marca el inventario COMPLETED, todo en una transacción. Con alguna línea PENDING
// devuelve ErrIncompleteInventory sin tocar nada.
func (w *Workflow) Validate(ctx context.Context, inventoryID, user string) (*entity.Inventory, error) {
	snapshot, err := w.Get(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(snapshot.Lines)+1)
	keys = append(keys, inventoryID)
	for _, l := range snapshot.Lines {
		keys = append(keys, l.ArticleID)
	}
	unlock := w.locks.Lock(keys...)
	defer unlock()

	start := time.Now()
	var (
		inv      *entity.Inventory
		adjusted int
	)
	err = w.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		inv, err = getOpen(ctx, repos.Inventories, inventoryID)
		if err != nil {
			return err
		}
		if n := inv.PendingLines(); n > 0 {
			return fmt.Errorf("%w: %d líneas pendientes", domain.ErrIncompleteInventory, n)
		}

		adjusted = 0
		invID := inv.ID
		for _, l := range inv.Lines {
			if l.Variance == nil || *l.Variance == 0 {
				continue
			}
			a, err := repos.Articles.GetForUpdate(ctx, l.ArticleID)
			if err != nil {
				return err
			}
			if a == nil {
				return domain.NotFoundf("artículo %s (%s)", l.ArticleID, l.Reference)
			}
			if a.CurrentStock == *l.CountedStock {
				continue
			}
			if _, err := w.ledger.ApplyInTx(ctx, repos, ledger.MovementInput{
				ArticleID:   l.ArticleID,
				Type:        entity.MovementTypeAdjustment,
				Quantity:    *l.CountedStock,
				Note:        AdjustmentNote,
				User:        user,
				InventoryID: &invID,
			}); err != nil {
				return err
			}
			adjusted++
		}

		validatedAt := w.now()
		inv.Status = entity.InventoryStatusCompleted
		inv.ValidatedAt = &validatedAt
		if err := repos.Inventories.Update(ctx, inv); err != nil {
			return err
		}
		return w.audit.Record(ctx, repos, user, entity.InventoryValidated{
			InventoryID:   inv.ID,
			AdjustedLines: adjusted,
			ValidatedAt:   validatedAt,
		})
	})
	w.metrics.UnitOfWorkDuration.WithLabelValues("validate_inventory").Observe(time.Since(start).Seconds())
	if err != nil {
		w.log.Warn().Err(err).Str("inventory_id", inventoryID).Msg("validación rechazada")
		return nil, err
	}
	w.metrics.InventoriesValidated.Inc()
	w.metrics.MovementsApplied.WithLabelValues(entity.MovementTypeAdjustment).Add(float64(adjusted))
	w.log.Info().Str("inventory_id", inventoryID).Int("adjusted", adjusted).Msg("inventario validado")
	return inv, nil
}

// Progress calcula el avance del conteo. Un inventario sin líneas devuelve ErrNotFound.
func (w *Workflow) Progress(ctx context.Context, inventoryID string) (stock.Progress, error) {
	inv, err := w.Get(ctx, inventoryID)
	if err != nil {
		return stock.Progress{}, err
	}
	return stock.ComputeProgress(inv.Lines)
}

// Get obtiene una sesión con sus líneas; ErrNotFound si no existe.
func (w *Workflow) Get(ctx context.Context, inventoryID string) (*entity.Inventory, error) {
	inv, err := w.inventories.GetByID(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFoundf("inventario %s", inventoryID)
	}
	return inv, nil
}

// List devuelve las sesiones según estado y zona.
func (w *Workflow) List(ctx context.Context, filter repository.InventoryFilter) ([]*entity.Inventory, error) {
	return w.inventories.List(ctx, filter)
}

func getOpen(ctx context.Context, repo repository.InventoryRepository, id string) (*entity.Inventory, error) {
	inv, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFoundf("inventario %s", id)
	}
	if inv.IsCompleted() {
		return nil, domain.ErrInventoryClosed
	}
	return inv, nil
}
