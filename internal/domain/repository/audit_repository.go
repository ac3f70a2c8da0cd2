package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AuditFilter filtro del rastro de auditoría.
type AuditFilter struct {
	Module string
	Action string
	User   string
}

// AuditRepository puerto del rastro de auditoría. Solo inserción.
type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]*entity.AuditEntry, error)
}
