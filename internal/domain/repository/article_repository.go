package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ArticleFilter filtro por igualdad sobre campos indexados. Campos vacíos no filtran.
type ArticleFilter struct {
	Reference string
	Barcode   string
	Location  string
	Family    string
	Supplier  string
	Status    string
}

// ArticleRepository define el puerto de persistencia para Article (DIP).
type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	// GetForUpdate lee el artículo bloqueando la fila cuando el motor lo soporta.
	GetForUpdate(ctx context.Context, id string) (*entity.Article, error)
	List(ctx context.Context, filter ArticleFilter) ([]*entity.Article, error)
	Update(ctx context.Context, article *entity.Article) error
	// UpdateStock solo cambia el stock actual (usado por el ledger).
	UpdateStock(ctx context.Context, id string, stock int64) error
	Delete(ctx context.Context, id string) error
}
