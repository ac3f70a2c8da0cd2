// Package alert evalúa el stock mínimo de los artículos y gestiona las alertas resultantes.
package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/audit"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/keylock"
	"github.com/jhoicas/stock-ledger/pkg/metrics"
)

// Evaluator mantiene como máximo una alerta ACTIVE por (artículo, tipo).
type Evaluator struct {
	txRunner repository.TxRunner
	repo     repository.AlertRepository
	locks    *keylock.Locker
	audit    *audit.Logger
	metrics  *metrics.Collector
	now      func() time.Time
}

// NewEvaluator construye el evaluador. locks debe ser el mismo Locker del ledger:
// la resolución manual se serializa con los movimientos del artículo.
func NewEvaluator(
	txRunner repository.TxRunner,
	repo repository.AlertRepository,
	locks *keylock.Locker,
	auditLog *audit.Logger,
	m *metrics.Collector,
	now func() time.Time,
) *Evaluator {
	return &Evaluator{
		txRunner: txRunner,
		repo:     repo,
		locks:    locks,
		audit:    auditLog,
		metrics:  m,
		now:      now,
	}
}

// Evaluate revisa el artículo dentro de la unidad de trabajo del llamador.
// Con stock <= mínimo crea la alerta o refresca la activa; por encima del mínimo
// resuelve las activas. Devuelve la alerta creada o refrescada, nil si no hay incumplimiento.
func (e *Evaluator) Evaluate(ctx context.Context, repos repository.Repositories, article *entity.Article) (*entity.Alert, error) {
	active, err := repos.Alerts.List(ctx, repository.AlertFilter{
		ArticleID: article.ID,
		Type:      entity.AlertTypeLowStock,
		Status:    entity.AlertStatusActive,
	})
	if err != nil {
		return nil, err
	}
	now := e.now()

	if !article.IsLowStock() {
		for _, a := range active {
			a.Status = entity.AlertStatusResolved
			a.Date = now
			if err := repos.Alerts.Update(ctx, a); err != nil {
				return nil, err
			}
			e.metrics.AlertsResolved.Inc()
		}
		return nil, nil
	}

	msg := lowStockMessage(article)
	if len(active) > 0 {
		current := active[0]
		current.Message = msg
		current.Date = now
		if err := repos.Alerts.Update(ctx, current); err != nil {
			return nil, err
		}
		return current, nil
	}

	created := &entity.Alert{
		Type:      entity.AlertTypeLowStock,
		ArticleID: article.ID,
		Message:   msg,
		Status:    entity.AlertStatusActive,
		Date:      now,
	}
	if err := repos.Alerts.Create(ctx, created); err != nil {
		return nil, err
	}
	e.metrics.AlertsRaised.Inc()
	return created, nil
}

// List devuelve las alertas según el filtro.
func (e *Evaluator) List(ctx context.Context, filter repository.AlertFilter) ([]*entity.Alert, error) {
	return e.repo.List(ctx, filter)
}

// Resolve marca una alerta activa como resuelta (acuse manual) y lo audita.
func (e *Evaluator) Resolve(ctx context.Context, id, user string) (*entity.Alert, error) {
	found, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, domain.NotFoundf("alerta %s", id)
	}

	unlock := e.locks.Lock(found.ArticleID)
	defer unlock()

	var resolved *entity.Alert
	err = e.txRunner.Run(ctx, func(repos repository.Repositories) error {
		a, err := repos.Alerts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.NotFoundf("alerta %s", id)
		}
		if a.Status == entity.AlertStatusResolved {
			return domain.Conflictf("la alerta %s ya está resuelta", id)
		}
		a.Status = entity.AlertStatusResolved
		a.Date = e.now()
		if err := repos.Alerts.Update(ctx, a); err != nil {
			return err
		}
		if err := e.audit.Record(ctx, repos, user, entity.AlertResolved{AlertID: a.ID, ArticleID: a.ArticleID}); err != nil {
			return err
		}
		resolved = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.metrics.AlertsResolved.Inc()
	return resolved, nil
}

func lowStockMessage(a *entity.Article) string {
	return fmt.Sprintf("Stock bajo para %s: %d (mínimo %d)", a.Reference, a.CurrentStock, a.MinStock)
}
