package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementRepository puerto del ledger de movimientos. Solo inserción: sin Update ni Delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	ListByArticle(ctx context.Context, articleID string) ([]*entity.Movement, error)
	ListByInventory(ctx context.Context, inventoryID string) ([]*entity.Movement, error)
	CountByArticle(ctx context.Context, articleID string) (int, error)
}
