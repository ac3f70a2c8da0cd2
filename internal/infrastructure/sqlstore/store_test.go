package sqlstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/sqlstore"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	s, err := sqlstore.OpenMemory(context.Background(), sqlstore.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newArticle(ref, location string) *entity.Article {
	return &entity.Article{
		Reference:     ref,
		Designation:   "Artículo " + ref,
		Family:        "FAM",
		Location:      location,
		Status:        entity.ArticleStatusActive,
		MinStock:      2,
		MaxStock:      10,
		PurchasePrice: decimal.RequireFromString("12.50"),
	}
}

func TestArticleRepo_CreateGetList(t *testing.T) {
	ctx := context.Background()
	repos := openStore(t).Repositories()

	a := newArticle("REF-1", "A1")
	require.NoError(t, repos.Articles.Create(ctx, a))
	require.NoError(t, repos.Articles.Create(ctx, newArticle("REF-2", "B1")))
	require.NoError(t, repos.Articles.Create(ctx, newArticle("REF-3", "A1")))
	assert.NotEmpty(t, a.ID, "el almacén asigna el id")
	assert.Equal(t, fixedNow, a.CreatedAt)

	got, err := repos.Articles.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "REF-1", got.Reference)
	assert.True(t, got.PurchasePrice.Equal(decimal.RequireFromString("12.5")))
	assert.Nil(t, got.Barcode)
	assert.Equal(t, fixedNow, got.CreatedAt)

	list, err := repos.Articles.List(ctx, repository.ArticleFilter{Location: "A1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "REF-1", list[0].Reference, "orden de inserción")
	assert.Equal(t, "REF-3", list[1].Reference)

	missing, err := repos.Articles.GetByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestArticleRepo_ReferenciaDuplicada_Conflict(t *testing.T) {
	ctx := context.Background()
	repos := openStore(t).Repositories()

	require.NoError(t, repos.Articles.Create(ctx, newArticle("DUP", "A1")))
	err := repos.Articles.Create(ctx, newArticle("DUP", "A2"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict), "duplicado debe mapearse a ErrConflict: %v", err)

	list, err := repos.Articles.List(ctx, repository.ArticleFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestArticleRepo_BarcodeUnicoPeroOpcional(t *testing.T) {
	ctx := context.Background()
	repos := openStore(t).Repositories()

	require.NoError(t, repos.Articles.Create(ctx, newArticle("SIN-1", "A1")))
	require.NoError(t, repos.Articles.Create(ctx, newArticle("SIN-2", "A1")), "varios artículos sin código de barras")

	code := "7701234567890"
	withCode := newArticle("CON-1", "A1")
	withCode.Barcode = &code
	require.NoError(t, repos.Articles.Create(ctx, withCode))

	dup := newArticle("CON-2", "A1")
	dup.Barcode = &code
	assert.ErrorIs(t, repos.Articles.Create(ctx, dup), domain.ErrConflict)

	found, err := repos.Articles.List(ctx, repository.ArticleFilter{Barcode: code})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "CON-1", found[0].Reference)
}

func TestArticleRepo_UpdateInexistente_NotFound(t *testing.T) {
	ctx := context.Background()
	repos := openStore(t).Repositories()

	a := newArticle("X", "A1")
	a.ID = "fantasma"
	assert.ErrorIs(t, repos.Articles.Update(ctx, a), domain.ErrNotFound)
	assert.ErrorIs(t, repos.Articles.UpdateStock(ctx, "fantasma", 3), domain.ErrNotFound)
	assert.ErrorIs(t, repos.Articles.Delete(ctx, "fantasma"), domain.ErrNotFound)
}

func TestTxRunner_RollbackDeshaceTodo(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	repos := s.Repositories()
	a := newArticle("TX-1", "A1")
	require.NoError(t, repos.Articles.Create(ctx, a))

	boom := errors.New("fallo a mitad")
	err := sqlstore.NewTxRunner(s).Run(ctx, func(tx repository.Repositories) error {
		if err := tx.Articles.UpdateStock(ctx, a.ID, 7); err != nil {
			return err
		}
		if err := tx.Movements.Create(ctx, &entity.Movement{
			ArticleID: a.ID, Type: entity.MovementTypeEntry, Quantity: 7, StockAfter: 7, User: "ana",
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom, "el error del callback se devuelve tal cual")

	got, err := repos.Articles.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.CurrentStock)
	movs, err := repos.Movements.ListByArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestTxRunner_Commit(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	a := newArticle("TX-2", "A1")
	require.NoError(t, s.Repositories().Articles.Create(ctx, a))

	err := sqlstore.NewTxRunner(s).Run(ctx, func(tx repository.Repositories) error {
		return tx.Articles.UpdateStock(ctx, a.ID, 4)
	})
	require.NoError(t, err)

	got, err := s.Repositories().Articles.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.CurrentStock)
}

func TestMovementRepo_ListYCount(t *testing.T) {
	ctx := context.Background()
	repos := openStore(t).Repositories()
	a := newArticle("MOV-1", "A1")
	require.NoError(t, repos.Articles.Create(ctx, a))

	invID := "inv-1"
	for i, m := range []*entity.Movement{
		{ArticleID: a.ID, Type: entity.MovementTypeEntry, Quantity: 5, StockBefore: 0, StockAfter: 5, User: "ana"},
		{ArticleID: a.ID, Type: entity.MovementTypeAdjustment, Quantity: 1, StockBefore: 5, StockAfter: 4, User: "ana", InventoryID: &invID},
	} {
		m.Date = fixedNow.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repos.Movements.Create(ctx, m))
	}

	list, err := repos.Movements.ListByArticle(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, fixedNow.Add(time.Hour), list[1].Date)
	assert.Nil(t, list[0].InventoryID)

	byInv, err := repos.Movements.ListByInventory(ctx, invID)
	require.NoError(t, err)
	require.Len(t, byInv, 1)
	require.NotNil(t, byInv[0].InventoryID)
	assert.Equal(t, invID, *byInv[0].InventoryID)

	n, err := repos.Movements.CountByArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	one, err := repos.Movements.GetByID(ctx, list[1].ID)
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, int64(4), one.StockAfter)
	assert.Equal(t, "ana", one.User)
	missing, err := repos.Movements.GetByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInventoryRepo_CountOpenByArticle(t *testing.T) {
	ctx := context.Background()
	repos := openStore(t).Repositories()

	open := &entity.Inventory{Status: entity.InventoryStatusInProgress, User: "ana", Lines: []entity.InventoryLine{
		{ArticleID: "a1", Reference: "R1", Status: entity.LineStatusPending},
	}}
	done := &entity.Inventory{Status: entity.InventoryStatusCompleted, User: "ana", Lines: []entity.InventoryLine{
		{ArticleID: "a1", Reference: "R1", Status: entity.LineStatusPending},
		{ArticleID: "a2", Reference: "R2", Status: entity.LineStatusPending},
	}}
	require.NoError(t, repos.Inventories.Create(ctx, open))
	require.NoError(t, repos.Inventories.Create(ctx, done))

	n, err := repos.Inventories.CountOpenByArticle(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = repos.Inventories.CountOpenByArticle(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestInventoryRepo_LineasEmbebidas(t *testing.T) {
	ctx := context.Background()
	repos := openStore(t).Repositories()

	inv := &entity.Inventory{
		Zone:   "A1",
		Status: entity.InventoryStatusInProgress,
		User:   "ana",
		Lines: []entity.InventoryLine{
			{ArticleID: "a1", Reference: "R1", Designation: "Uno", TheoreticalStock: 20, Status: entity.LineStatusPending},
			{ArticleID: "a2", Reference: "R2", Designation: "Dos", TheoreticalStock: 3, Status: entity.LineStatusPending},
		},
	}
	require.NoError(t, repos.Inventories.Create(ctx, inv))
	assert.Equal(t, 1, inv.Lines[1].Position)

	counted, variance := int64(18), int64(-2)
	inv.Lines[0].CountedStock = &counted
	inv.Lines[0].Variance = &variance
	inv.Lines[0].Status = entity.LineStatusDone
	require.NoError(t, repos.Inventories.Update(ctx, inv))

	got, err := repos.Inventories.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "R1", got.Lines[0].Reference)
	require.NotNil(t, got.Lines[0].CountedStock)
	assert.Equal(t, int64(18), *got.Lines[0].CountedStock)
	assert.Equal(t, int64(-2), *got.Lines[0].Variance)
	assert.Nil(t, got.Lines[1].CountedStock)
	assert.Equal(t, 1, got.PendingLines())
	assert.Nil(t, got.ValidatedAt)

	list, err := repos.Inventories.List(ctx, repository.InventoryFilter{Status: entity.InventoryStatusInProgress})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Lines, 2)

	ghost := &entity.Inventory{ID: "fantasma", Status: entity.InventoryStatusCompleted}
	assert.ErrorIs(t, repos.Inventories.Update(ctx, ghost), domain.ErrNotFound)
}

func TestAlertRepo_FiltroPorEstado(t *testing.T) {
	ctx := context.Background()
	repos := openStore(t).Repositories()

	active := &entity.Alert{Type: entity.AlertTypeLowStock, ArticleID: "a1", Message: "bajo", Status: entity.AlertStatusActive}
	require.NoError(t, repos.Alerts.Create(ctx, active))
	require.NoError(t, repos.Alerts.Create(ctx, &entity.Alert{
		Type: entity.AlertTypeLowStock, ArticleID: "a2", Message: "bajo", Status: entity.AlertStatusResolved,
	}))

	list, err := repos.Alerts.List(ctx, repository.AlertFilter{Status: entity.AlertStatusActive})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ArticleID)

	active.Status = entity.AlertStatusResolved
	require.NoError(t, repos.Alerts.Update(ctx, active))
	got, err := repos.Alerts.GetByID(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusResolved, got.Status)
}

func TestAuditRepo_DetallesTipados(t *testing.T) {
	ctx := context.Background()
	repos := openStore(t).Repositories()

	require.NoError(t, repos.Audit.Create(ctx, &entity.AuditEntry{
		User:    "ana",
		Details: entity.ArticleCreated{ArticleID: "a1", Reference: "R1", Designation: "Uno", Location: "A1"},
	}))
	require.NoError(t, repos.Audit.Create(ctx, &entity.AuditEntry{
		User:    "luis",
		Details: entity.MovementApplied{MovementID: "m1", ArticleID: "a1", Type: entity.MovementTypeEntry, Quantity: 3, StockAfter: 3},
	}))

	all, err := repos.Audit.List(ctx, repository.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, entity.AuditModuleArticle, all[0].Module)
	assert.Equal(t, "create", all[0].Action)
	created, ok := all[0].Details.(entity.ArticleCreated)
	require.True(t, ok, "la variante se reconstruye al leer")
	assert.Equal(t, "R1", created.Reference)

	byUser, err := repos.Audit.List(ctx, repository.AuditFilter{User: "luis"})
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	moved, ok := byUser[0].Details.(entity.MovementApplied)
	require.True(t, ok)
	assert.Equal(t, int64(3), moved.Quantity)

	assert.ErrorIs(t, repos.Audit.Create(ctx, &entity.AuditEntry{User: "ana"}), domain.ErrValidation)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := sqlstore.Open(context.Background(), config.StoreConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestOpen_ArchivoPersisteEntreAperturas(t *testing.T) {
	ctx := context.Background()
	cfg := config.StoreConfig{Driver: config.DriverSQLite, Path: t.TempDir() + "/stock.db"}

	s, err := sqlstore.Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, s.Repositories().Articles.Create(ctx, newArticle("PERSIST", "A1")))
	require.NoError(t, s.Close())

	s, err = sqlstore.Open(ctx, cfg)
	require.NoError(t, err)
	defer s.Close()
	list, err := s.Repositories().Articles.List(ctx, repository.ArticleFilter{Reference: "PERSIST"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
