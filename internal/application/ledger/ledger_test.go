package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/audit"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/sqlstore"
	"github.com/jhoicas/stock-ledger/pkg/keylock"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/metrics"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

// tickingClock avanza un minuto en cada lectura.
type tickingClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Minute)
	return c.cur
}

// failingAuditRunner ejecuta la transacción real pero con un rastro de auditoría que falla.
type failingAuditRunner struct {
	inner repository.TxRunner
}

type failingAudit struct{ repository.AuditRepository }

var errAuditDown = errors.New("auditoría no disponible")

func (failingAudit) Create(context.Context, *entity.AuditEntry) error { return errAuditDown }

func (r failingAuditRunner) Run(ctx context.Context, fn func(repository.Repositories) error) error {
	return r.inner.Run(ctx, func(repos repository.Repositories) error {
		repos.Audit = failingAudit{repos.Audit}
		return fn(repos)
	})
}

type fixture struct {
	store   *sqlstore.Store
	ledger  *ledger.Ledger
	metrics *metrics.Collector
}

func newFixture(t *testing.T, wrap func(repository.TxRunner) repository.TxRunner) *fixture {
	t.Helper()
	clock := &tickingClock{cur: t0}
	store, err := sqlstore.OpenMemory(context.Background(), sqlstore.WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	var runner repository.TxRunner = sqlstore.NewTxRunner(store)
	if wrap != nil {
		runner = wrap(runner)
	}
	repos := store.Repositories()
	locks := keylock.New()
	m := metrics.New(false)
	auditLog := audit.NewLogger(repos.Audit)
	eval := alert.NewEvaluator(runner, repos.Alerts, locks, auditLog, m, clock.Now)
	l := ledger.NewLedger(runner, repos.Articles, repos.Movements, locks, eval, auditLog, m, logger.Nop(), clock.Now)
	return &fixture{store: store, ledger: l, metrics: m}
}

func (f *fixture) article(t *testing.T, ref string, current, min, max int64) *entity.Article {
	t.Helper()
	a := &entity.Article{
		Reference: ref, Designation: "Art " + ref, Family: "F", Location: "A1",
		Status: entity.ArticleStatusActive, CurrentStock: current, MinStock: min, MaxStock: max,
		PurchasePrice: decimal.RequireFromString("2.50"),
	}
	require.NoError(t, f.store.Repositories().Articles.Create(context.Background(), a))
	return a
}

func (f *fixture) stockOf(t *testing.T, id string) int64 {
	t.Helper()
	a, err := f.store.Repositories().Articles.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a.CurrentStock
}

func TestApplyMovement_SalidaConAlertaYStockInsuficiente(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.article(t, "A", 10, 5, 0)

	mov, err := f.ledger.ApplyMovement(ctx, a.ID, entity.MovementTypeExit, 7, "venta", "ana")
	require.NoError(t, err)
	assert.Equal(t, int64(10), mov.StockBefore)
	assert.Equal(t, int64(3), mov.StockAfter)
	assert.Equal(t, int64(7), mov.Quantity)
	assert.Equal(t, "ana", mov.User)
	assert.Equal(t, int64(3), f.stockOf(t, a.ID))

	alerts, err := f.store.Repositories().Alerts.List(ctx, repository.AlertFilter{ArticleID: a.ID, Status: entity.AlertStatusActive})
	require.NoError(t, err)
	assert.Len(t, alerts, 1, "3 <= 5 levanta alerta")

	_, err = f.ledger.ApplyMovement(ctx, a.ID, entity.MovementTypeExit, 5, "venta", "ana")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), f.stockOf(t, a.ID), "el stock no cambia")

	movs, err := f.store.Repositories().Movements.ListByArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.MovementsApplied.WithLabelValues(entity.MovementTypeExit)))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.MovementsRejected.WithLabelValues("insufficient_stock")))
}

func TestApplyMovement_EntradaYAjuste(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.article(t, "B", 0, 2, 0)

	_, err := f.ledger.ApplyMovement(ctx, a.ID, entity.MovementTypeEntry, 12, "recepción", "ana")
	require.NoError(t, err)

	adj, err := f.ledger.ApplyMovement(ctx, a.ID, entity.MovementTypeAdjustment, 9, "recuento", "ana")
	require.NoError(t, err)
	assert.Equal(t, int64(12), adj.StockBefore)
	assert.Equal(t, int64(9), adj.StockAfter)
	assert.Equal(t, int64(3), adj.Quantity, "el ajuste guarda la variación absoluta")

	_, err = f.ledger.ApplyMovement(ctx, a.ID, entity.MovementTypeAdjustment, 9, "sin cambio", "ana")
	assert.ErrorIs(t, err, domain.ErrValidation)

	trail, err := f.store.Repositories().Audit.List(ctx, repository.AuditFilter{Module: entity.AuditModuleStock})
	require.NoError(t, err)
	assert.Len(t, trail, 2)
}

func TestApplyMovement_EntradasInvalidas(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.article(t, "C", 5, 0, 0)

	_, err := f.ledger.ApplyMovement(ctx, "no-existe", entity.MovementTypeEntry, 1, "", "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.ledger.ApplyMovement(ctx, a.ID, entity.MovementTypeEntry, 0, "", "ana")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.ledger.ApplyMovement(ctx, a.ID, "TRANSFER", 1, "", "ana")
	assert.ErrorIs(t, err, domain.ErrValidation)
	// el tipo se valida antes de buscar el artículo
	_, err = f.ledger.ApplyMovement(ctx, "no-existe", "TRANSFER", 1, "", "ana")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	_, err = f.ledger.ApplyMovement(ctx, a.ID, entity.MovementTypeEntry, 1, "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, int64(5), f.stockOf(t, a.ID))
}

func TestApplyMovement_FalloDeAuditoria_SinEfectoParcial(t *testing.T) {
	f := newFixture(t, func(inner repository.TxRunner) repository.TxRunner {
		return failingAuditRunner{inner: inner}
	})
	ctx := context.Background()
	a := f.article(t, "D", 10, 0, 0)

	_, err := f.ledger.ApplyMovement(ctx, a.ID, entity.MovementTypeExit, 4, "", "ana")
	assert.ErrorIs(t, err, errAuditDown)

	assert.Equal(t, int64(10), f.stockOf(t, a.ID))
	movs, err := f.store.Repositories().Movements.ListByArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestApplyMovement_ConcurrenteNuncaNegativo(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.article(t, "E", 10, 0, 0)

	var wg sync.WaitGroup
	var mu sync.Mutex
	okCount := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.ledger.ApplyMovement(ctx, a.ID, entity.MovementTypeExit, 3, "", "ana"); err == nil {
				mu.Lock()
				okCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, okCount, "solo caben tres salidas de 3 sobre 10")
	assert.Equal(t, int64(1), f.stockOf(t, a.ID))
}

func TestStockHistory_RangoInclusivoYOrden(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.article(t, "F", 0, 0, 0)

	var dates []time.Time
	for i := 0; i < 4; i++ {
		m, err := f.ledger.ApplyMovement(ctx, a.ID, entity.MovementTypeEntry, int64(i+1), "", "ana")
		require.NoError(t, err)
		dates = append(dates, m.Date)
	}

	all, err := f.ledger.StockHistory(ctx, a.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, dates[3], all[0].Date, "más reciente primero")
	assert.Equal(t, dates[0], all[3].Date)

	ranged, err := f.ledger.StockHistory(ctx, a.ID, &dates[1], &dates[2])
	require.NoError(t, err)
	require.Len(t, ranged, 2, "ambos extremos incluidos")
	assert.Equal(t, int64(3), ranged[0].Quantity)
	assert.Equal(t, int64(2), ranged[1].Quantity)

	_, err = f.ledger.StockHistory(ctx, a.ID, &dates[2], &dates[1])
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.ledger.StockHistory(ctx, "no-existe", nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplenishmentList_OrdenPorDeficit(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.article(t, "OK", 20, 5, 30)
	f.article(t, "LOW-1", 4, 5, 20)
	f.article(t, "LOW-2", 0, 8, 0)

	list, err := f.ledger.ReplenishmentList(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "LOW-2", list[0].Reference)
	assert.Equal(t, int64(8), list[0].SuggestedOrderQty, "sin máximo se repone hasta el mínimo")
	assert.True(t, list[0].EstimatedOrderCost.Equal(decimal.RequireFromString("20")))
	assert.Equal(t, 1, list[0].Priority)

	assert.Equal(t, "LOW-1", list[1].Reference)
	assert.Equal(t, int64(16), list[1].SuggestedOrderQty)
	assert.Equal(t, 2, list[1].Priority)
}
