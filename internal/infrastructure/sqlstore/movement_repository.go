package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, article_id, type, quantity, stock_before, stock_after, note, date, user_name, inventory_id`

// MovementRepo implementación del ledger de movimientos (solo inserción).
type MovementRepo struct {
	q   Querier
	now func() time.Time
}

// NewMovementRepository construye el adaptador. Pasar conexión o tx (Querier).
func NewMovementRepository(q Querier, now func() time.Time) *MovementRepo {
	return &MovementRepo{q: q, now: now}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Date.IsZero() {
		m.Date = r.now()
	}
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.ExecContext(ctx, query,
		m.ID, m.ArticleID, m.Type, m.Quantity, m.StockBefore, m.StockAfter,
		m.Note, m.Date, m.User, m.InventoryID,
	)
	if err != nil {
		return storageErr("create movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	var m entity.Movement
	err := sqlxGet(ctx, r.q, &m, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get movement", err)
	}
	m.Date = utc(m.Date)
	return &m, nil
}

// ListByArticle lista los movimientos de un artículo en orden de inserción.
func (r *MovementRepo) ListByArticle(ctx context.Context, articleID string) ([]*entity.Movement, error) {
	return r.list(ctx, "article_id", articleID)
}

// ListByInventory lista los ajustes generados por un inventario.
func (r *MovementRepo) ListByInventory(ctx context.Context, inventoryID string) ([]*entity.Movement, error) {
	return r.list(ctx, "inventory_id", inventoryID)
}

func (r *MovementRepo) list(ctx context.Context, column, value string) ([]*entity.Movement, error) {
	var list []*entity.Movement
	query := `SELECT ` + movementColumns + ` FROM movements WHERE ` + column + ` = $1 ORDER BY seq`
	if err := sqlxSelect(ctx, r.q, &list, query, value); err != nil {
		return nil, storageErr("list movements", err)
	}
	for _, m := range list {
		m.Date = utc(m.Date)
	}
	return list, nil
}

// CountByArticle cuenta los movimientos de un artículo.
func (r *MovementRepo) CountByArticle(ctx context.Context, articleID string) (int, error) {
	var n int
	if err := sqlxGet(ctx, r.q, &n, `SELECT COUNT(*) FROM movements WHERE article_id = $1`, articleID); err != nil {
		return 0, storageErr("count movements", err)
	}
	return n, nil
}
