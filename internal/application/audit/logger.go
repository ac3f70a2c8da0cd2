// Package audit registra el rastro inmutable de operaciones que modifican el estado.
package audit

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Logger escribe y consulta entradas de auditoría.
type Logger struct {
	repo repository.AuditRepository
}

// NewLogger construye el logger de auditoría. repo se usa solo para lecturas fuera de tx.
func NewLogger(repo repository.AuditRepository) *Logger {
	return &Logger{repo: repo}
}

// Record añade una entrada usando los repositorios de la unidad de trabajo del llamador,
// de modo que la entrada se confirma o se descarta junto con el cambio auditado.
func (l *Logger) Record(ctx context.Context, repos repository.Repositories, user string, details entity.AuditDetails) error {
	if user == "" {
		return domain.Validationf("usuario requerido para auditoría")
	}
	return repos.Audit.Create(ctx, &entity.AuditEntry{
		Module:  details.Module(),
		Action:  details.Action(),
		Details: details,
		User:    user,
	})
}

// List devuelve el rastro filtrado por módulo, acción o usuario.
func (l *Logger) List(ctx context.Context, filter repository.AuditFilter) ([]*entity.AuditEntry, error) {
	return l.repo.List(ctx, filter)
}
