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

var _ repository.AlertRepository = (*AlertRepo)(nil)

const alertColumns = `id, type, article_id, message, status, date`

// AlertRepo implementación de AlertRepository.
type AlertRepo struct {
	q   Querier
	now func() time.Time
}

// NewAlertRepository construye el adaptador. Pasar conexión o tx (Querier).
func NewAlertRepository(q Querier, now func() time.Time) *AlertRepo {
	return &AlertRepo{q: q, now: now}
}

// Create persiste una alerta.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Date.IsZero() {
		a.Date = r.now()
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO alerts (`+alertColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.Type, a.ArticleID, a.Message, a.Status, a.Date,
	)
	if err != nil {
		return storageErr("insert alert", err)
	}
	return nil
}

// GetByID obtiene una alerta; nil si no existe.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	var a entity.Alert
	err := sqlxGet(ctx, r.q, &a, `SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get alert", err)
	}
	a.Date = utc(a.Date)
	return &a, nil
}

// List devuelve las alertas que cumplen el filtro, en orden de creación.
func (r *AlertRepo) List(ctx context.Context, f repository.AlertFilter) ([]*entity.Alert, error) {
	var w where
	w.eq("article_id", f.ArticleID)
	w.eq("type", f.Type)
	w.eq("status", f.Status)

	var list []*entity.Alert
	query := `SELECT ` + alertColumns + ` FROM alerts` + w.String() + ` ORDER BY seq`
	if err := sqlxSelect(ctx, r.q, &list, query, w.args...); err != nil {
		return nil, storageErr("list alerts", err)
	}
	for _, a := range list {
		a.Date = utc(a.Date)
	}
	return list, nil
}

// Update guarda mensaje, estado y fecha. ErrNotFound si no existe.
func (r *AlertRepo) Update(ctx context.Context, a *entity.Alert) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE alerts SET message = $2, status = $3, date = $4 WHERE id = $1`,
		a.ID, a.Message, a.Status, a.Date,
	)
	if err != nil {
		return storageErr("update alert", err)
	}
	return requireAffected(res, "alert", a.ID)
}
