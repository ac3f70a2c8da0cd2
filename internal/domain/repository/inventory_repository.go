package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// InventoryFilter filtro de sesiones de inventario.
type InventoryFilter struct {
	Status string
	Zone   string
}

// InventoryRepository puerto de persistencia de sesiones de inventario y sus líneas.
type InventoryRepository interface {
	// Create guarda la cabecera y todas las líneas.
	Create(ctx context.Context, inv *entity.Inventory) error
	// GetByID devuelve la sesión con sus líneas ordenadas, o nil.
	GetByID(ctx context.Context, id string) (*entity.Inventory, error)
	List(ctx context.Context, filter InventoryFilter) ([]*entity.Inventory, error)
	// Update guarda la cabecera y todas las líneas de la sesión.
	Update(ctx context.Context, inv *entity.Inventory) error
	// CountOpenByArticle cuenta las sesiones IN_PROGRESS con una línea del artículo.
	CountOpenByArticle(ctx context.Context, articleID string) (int, error)
}
