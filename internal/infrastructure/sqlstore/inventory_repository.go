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

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const (
	inventoryColumns = `id, date, zone, status, user_name, validated_at, created_at, updated_at`
	lineColumns      = `inventory_id, position, article_id, reference, designation,
		theoretical_stock, counted_stock, variance, status`
)

// InventoryRepo persiste sesiones de inventario con sus líneas embebidas.
// Create y Update escriben varias filas: llamar dentro de TxRunner.Run para atomicidad.
type InventoryRepo struct {
	q   Querier
	now func() time.Time
}

// NewInventoryRepository construye el adaptador. Pasar conexión o tx (Querier).
func NewInventoryRepository(q Querier, now func() time.Time) *InventoryRepo {
	return &InventoryRepo{q: q, now: now}
}

// Create guarda la cabecera y las líneas (Position = índice en Lines).
func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	now := r.now()
	if inv.Date.IsZero() {
		inv.Date = now
	}
	inv.CreatedAt = now
	inv.UpdatedAt = now
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO inventories (`+inventoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		inv.ID, inv.Date, inv.Zone, inv.Status, inv.User, inv.ValidatedAt, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return storageErr("insert inventory", err)
	}
	for i := range inv.Lines {
		l := &inv.Lines[i]
		l.InventoryID = inv.ID
		l.Position = i
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO inventory_lines (`+lineColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			l.InventoryID, l.Position, l.ArticleID, l.Reference, l.Designation,
			l.TheoreticalStock, l.CountedStock, l.Variance, l.Status,
		)
		if err != nil {
			return storageErr("insert inventory line", err)
		}
	}
	return nil
}

// GetByID devuelve la sesión con sus líneas ordenadas; nil si no existe.
func (r *InventoryRepo) GetByID(ctx context.Context, id string) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := sqlxGet(ctx, r.q, &inv, `SELECT `+inventoryColumns+` FROM inventories WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get inventory", err)
	}
	if err := r.loadLines(ctx, &inv); err != nil {
		return nil, err
	}
	normalizeInventory(&inv)
	return &inv, nil
}

// List devuelve las sesiones que cumplen el filtro, en orden de creación.
func (r *InventoryRepo) List(ctx context.Context, f repository.InventoryFilter) ([]*entity.Inventory, error) {
	var w where
	w.eq("status", f.Status)
	w.eq("zone", f.Zone)

	var list []*entity.Inventory
	query := `SELECT ` + inventoryColumns + ` FROM inventories` + w.String() + ` ORDER BY seq`
	if err := sqlxSelect(ctx, r.q, &list, query, w.args...); err != nil {
		return nil, storageErr("list inventories", err)
	}
	for _, inv := range list {
		if err := r.loadLines(ctx, inv); err != nil {
			return nil, err
		}
		normalizeInventory(inv)
	}
	return list, nil
}

// Update guarda la cabecera y todas las líneas. ErrNotFound si la sesión no existe.
func (r *InventoryRepo) Update(ctx context.Context, inv *entity.Inventory) error {
	inv.UpdatedAt = r.now()
	res, err := r.q.ExecContext(ctx, `
		UPDATE inventories SET zone = $2, status = $3, user_name = $4, validated_at = $5, updated_at = $6
		WHERE id = $1`,
		inv.ID, inv.Zone, inv.Status, inv.User, inv.ValidatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return storageErr("update inventory", err)
	}
	if err := requireAffected(res, "inventory", inv.ID); err != nil {
		return err
	}
	for _, l := range inv.Lines {
		_, err := r.q.ExecContext(ctx, `
			UPDATE inventory_lines SET counted_stock = $3, variance = $4, status = $5
			WHERE inventory_id = $1 AND position = $2`,
			inv.ID, l.Position, l.CountedStock, l.Variance, l.Status,
		)
		if err != nil {
			return storageErr("update inventory line", err)
		}
	}
	return nil
}

func (r *InventoryRepo) loadLines(ctx context.Context, inv *entity.Inventory) error {
	var lines []entity.InventoryLine
	query := `SELECT ` + lineColumns + ` FROM inventory_lines WHERE inventory_id = $1 ORDER BY position`
	if err := sqlxSelect(ctx, r.q, &lines, query, inv.ID); err != nil {
		return storageErr("list inventory lines", err)
	}
	inv.Lines = lines
	return nil
}

func normalizeInventory(inv *entity.Inventory) {
	inv.Date = utc(inv.Date)
	inv.CreatedAt = utc(inv.CreatedAt)
	inv.UpdatedAt = utc(inv.UpdatedAt)
	inv.ValidatedAt = utcPtr(inv.ValidatedAt)
}

// CountOpenByArticle cuenta las sesiones abiertas que incluyen el artículo.
func (r *InventoryRepo) CountOpenByArticle(ctx context.Context, articleID string) (int, error) {
	var n int
	err := sqlxGet(ctx, r.q, &n, `
		SELECT COUNT(DISTINCT l.inventory_id)
		FROM inventory_lines l
		JOIN inventories i ON i.id = l.inventory_id
		WHERE l.article_id = $1 AND i.status = $2`,
		articleID, entity.InventoryStatusInProgress,
	)
	if err != nil {
		return 0, storageErr("count open inventories", err)
	}
	return n, nil
}
