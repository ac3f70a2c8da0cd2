package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AlertFilter filtro de alertas.
type AlertFilter struct {
	ArticleID string
	Type      string
	Status    string
}

// AlertRepository puerto de persistencia de alertas.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	List(ctx context.Context, filter AlertFilter) ([]*entity.Alert, error)
	Update(ctx context.Context, alert *entity.Alert) error
}
