package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo persiste el rastro de auditoría (solo inserción). Details se guarda como
// kind + JSON y se reconstruye en la variante concreta al leer.
type AuditRepo struct {
	q   Querier
	now func() time.Time
}

// NewAuditRepository construye el adaptador. Pasar conexión o tx (Querier).
func NewAuditRepository(q Querier, now func() time.Time) *AuditRepo {
	return &AuditRepo{q: q, now: now}
}

type auditRow struct {
	ID      string    `db:"id"`
	Module  string    `db:"module"`
	Action  string    `db:"action"`
	Kind    string    `db:"kind"`
	Details string    `db:"details"`
	Date    time.Time `db:"date"`
	User    string    `db:"user_name"`
}

// Create persiste una entrada.
func (r *AuditRepo) Create(ctx context.Context, e *entity.AuditEntry) error {
	if e.Details == nil {
		return domain.Validationf("auditoría sin detalle")
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Date.IsZero() {
		e.Date = r.now()
	}
	e.Module = e.Details.Module()
	e.Action = e.Details.Action()
	raw, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("%w: marshal audit details: %w", domain.ErrStorage, err)
	}
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO audit (id, module, action, kind, details, date, user_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Module, e.Action, e.Details.Kind(), string(raw), e.Date, e.User,
	)
	if err != nil {
		return storageErr("insert audit", err)
	}
	return nil
}

// List devuelve el rastro filtrado, en orden cronológico de inserción.
func (r *AuditRepo) List(ctx context.Context, f repository.AuditFilter) ([]*entity.AuditEntry, error) {
	var w where
	w.eq("module", f.Module)
	w.eq("action", f.Action)
	w.eq("user_name", f.User)

	var rows []auditRow
	query := `SELECT id, module, action, kind, details, date, user_name FROM audit` + w.String() + ` ORDER BY seq`
	if err := sqlxSelect(ctx, r.q, &rows, query, w.args...); err != nil {
		return nil, storageErr("list audit", err)
	}
	list := make([]*entity.AuditEntry, 0, len(rows))
	for _, row := range rows {
		details, err := entity.DecodeAuditDetails(row.Kind, []byte(row.Details))
		if err != nil {
			return nil, fmt.Errorf("%w: audit %s: %w", domain.ErrStorage, row.ID, err)
		}
		list = append(list, &entity.AuditEntry{
			ID:      row.ID,
			Module:  row.Module,
			Action:  row.Action,
			Details: details,
			Date:    utc(row.Date),
			User:    row.User,
		})
	}
	return list, nil
}
