package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/audit"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/sqlstore"
)

func TestLogger_RecordYList(t *testing.T) {
	ctx := context.Background()
	store, err := sqlstore.OpenMemory(ctx)
	require.NoError(t, err)
	defer store.Close()

	l := audit.NewLogger(store.Repositories().Audit)
	repos := store.Repositories()
	require.NoError(t, l.Record(ctx, repos, "ana", entity.InventoryStarted{InventoryID: "inv-1", Lines: 3}))
	require.NoError(t, l.Record(ctx, repos, "ana", entity.AlertResolved{AlertID: "al-1", ArticleID: "a1"}))

	list, err := l.List(ctx, repository.AuditFilter{Module: entity.AuditModuleInventory})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "start", list[0].Action)
	assert.Equal(t, "ana", list[0].User)
	assert.Equal(t, entity.InventoryStarted{InventoryID: "inv-1", Lines: 3}, list[0].Details)
}

func TestLogger_SinUsuario_Validation(t *testing.T) {
	ctx := context.Background()
	store, err := sqlstore.OpenMemory(ctx)
	require.NoError(t, err)
	defer store.Close()

	l := audit.NewLogger(store.Repositories().Audit)
	err = l.Record(ctx, store.Repositories(), "", entity.AlertResolved{AlertID: "al-1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
