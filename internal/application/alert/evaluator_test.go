package alert_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/audit"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/sqlstore"
	"github.com/jhoicas/stock-ledger/pkg/keylock"
	"github.com/jhoicas/stock-ledger/pkg/metrics"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store   *sqlstore.Store
	eval    *alert.Evaluator
	metrics *metrics.Collector
	article *entity.Article
}

func setup(t *testing.T, stock, min int64) *fixture {
	t.Helper()
	ctx := context.Background()
	clock := func() time.Time { return fixedNow }
	store, err := sqlstore.OpenMemory(ctx, sqlstore.WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	repos := store.Repositories()
	a := &entity.Article{
		Reference: "R1", Designation: "Uno", Family: "F", Location: "A1",
		Status: entity.ArticleStatusActive, CurrentStock: stock, MinStock: min,
	}
	require.NoError(t, repos.Articles.Create(ctx, a))

	m := metrics.New(false)
	eval := alert.NewEvaluator(
		sqlstore.NewTxRunner(store), repos.Alerts, keylock.New(),
		audit.NewLogger(repos.Audit), m, clock,
	)
	return &fixture{store: store, eval: eval, metrics: m, article: a}
}

func activeAlerts(t *testing.T, f *fixture) []*entity.Alert {
	t.Helper()
	list, err := f.eval.List(context.Background(), repository.AlertFilter{
		ArticleID: f.article.ID, Status: entity.AlertStatusActive,
	})
	require.NoError(t, err)
	return list
}

func TestEvaluate_StockEnMinimo_CreaAlerta(t *testing.T) {
	f := setup(t, 5, 5)
	got, err := f.eval.Evaluate(context.Background(), f.store.Repositories(), f.article)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.AlertTypeLowStock, got.Type)
	assert.Contains(t, got.Message, "R1")
	assert.Len(t, activeAlerts(t, f), 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.AlertsRaised))
}

func TestEvaluate_IncumplimientoRepetido_NoDuplica(t *testing.T) {
	f := setup(t, 3, 5)
	ctx := context.Background()
	first, err := f.eval.Evaluate(ctx, f.store.Repositories(), f.article)
	require.NoError(t, err)

	f.article.CurrentStock = 1
	second, err := f.eval.Evaluate(ctx, f.store.Repositories(), f.article)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "se refresca la alerta activa")
	list := activeAlerts(t, f)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Message, ": 1 ")
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.AlertsRaised))
}

func TestEvaluate_StockRecuperado_ResuelveActiva(t *testing.T) {
	f := setup(t, 2, 5)
	ctx := context.Background()
	_, err := f.eval.Evaluate(ctx, f.store.Repositories(), f.article)
	require.NoError(t, err)

	f.article.CurrentStock = 9
	got, err := f.eval.Evaluate(ctx, f.store.Repositories(), f.article)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, activeAlerts(t, f))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.AlertsResolved))
}

func TestEvaluate_SobreMinimo_SinAlerta(t *testing.T) {
	f := setup(t, 10, 5)
	got, err := f.eval.Evaluate(context.Background(), f.store.Repositories(), f.article)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, activeAlerts(t, f))
}

func TestResolve_AuditaYRechazaSegundaVez(t *testing.T) {
	f := setup(t, 0, 5)
	ctx := context.Background()
	raised, err := f.eval.Evaluate(ctx, f.store.Repositories(), f.article)
	require.NoError(t, err)

	resolved, err := f.eval.Resolve(ctx, raised.ID, "ana")
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusResolved, resolved.Status)

	trail, err := f.store.Repositories().Audit.List(ctx, repository.AuditFilter{Module: entity.AuditModuleAlert})
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, "ana", trail[0].User)

	_, err = f.eval.Resolve(ctx, raised.ID, "ana")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.eval.Resolve(ctx, "no-existe", "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
