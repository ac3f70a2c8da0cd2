// Package ledger aplica movimientos de stock y mantiene su historial.
package ledger

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/audit"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
	"github.com/jhoicas/stock-ledger/pkg/keylock"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/metrics"
)

// Ledger registra movimientos ENTRY, EXIT y ADJUSTMENT. Cada movimiento actualiza el stock,
// añade el registro al ledger, audita y evalúa alertas en una sola transacción,
// con el artículo bloqueado entre la lectura y la escritura.
type Ledger struct {
	txRunner  repository.TxRunner
	articles  repository.ArticleRepository
	movements repository.MovementRepository
	locks     *keylock.Locker
	alerts    *alert.Evaluator
	audit     *audit.Logger
	metrics   *metrics.Collector
	log       *logger.Logger
	now       func() time.Time
}

// NewLedger construye el ledger. articles y movements se usan solo para lecturas fuera de tx.
func NewLedger(
	txRunner repository.TxRunner,
	articles repository.ArticleRepository,
	movements repository.MovementRepository,
	locks *keylock.Locker,
	alerts *alert.Evaluator,
	auditLog *audit.Logger,
	m *metrics.Collector,
	log *logger.Logger,
	now func() time.Time,
) *Ledger {
	return &Ledger{
		txRunner:  txRunner,
		articles:  articles,
		movements: movements,
		locks:     locks,
		alerts:    alerts,
		audit:     auditLog,
		metrics:   m,
		log:       log.Named("ledger"),
		now:       now,
	}
}

// MovementInput entrada de un movimiento. En ADJUSTMENT, Quantity es el stock objetivo.
type MovementInput struct {
	ArticleID   string
	Type        string
	Quantity    int64
	Note        string
	User        string
	InventoryID *string
}

// ApplyMovement bloquea el artículo, aplica el movimiento en una transacción y devuelve
// el registro persistido. Si algo falla no queda ningún efecto parcial.
func (l *Ledger) ApplyMovement(ctx context.Context, articleID, movementType string, quantity int64, note, user string) (*entity.Movement, error) {
	in := MovementInput{
		ArticleID: articleID,
		Type:      movementType,
		Quantity:  quantity,
		Note:      note,
		User:      user,
	}

	unlock := l.locks.Lock(articleID)
	defer unlock()

	start := time.Now()
	var mov *entity.Movement
	err := l.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		mov, err = l.ApplyInTx(ctx, repos, in)
		return err
	})
	l.metrics.UnitOfWorkDuration.WithLabelValues("apply_movement").Observe(time.Since(start).Seconds())
	if err != nil {
		l.metrics.MovementsRejected.WithLabelValues(rejectReason(err)).Inc()
		l.log.Warn().Err(err).
			Str("article_id", articleID).
			Str("type", movementType).
			Int64("quantity", quantity).
			Msg("movimiento rechazado")
		return nil, err
	}
	l.metrics.MovementsApplied.WithLabelValues(mov.Type).Inc()
	l.log.Debug().
		Str("movement_id", mov.ID).
		Str("article_id", articleID).
		Str("type", mov.Type).
		Int64("stock_before", mov.StockBefore).
		Int64("stock_after", mov.StockAfter).
		Msg("movimiento aplicado")
	return mov, nil
}

// ApplyInTx aplica un movimiento con los repositorios de la transacción del llamador.
// El llamador debe tener bloqueado el artículo y es responsable del Commit.
func (l *Ledger) ApplyInTx(ctx context.Context, repos repository.Repositories, in MovementInput) (*entity.Movement, error) {
	if in.User == "" {
		return nil, domain.Validationf("usuario requerido")
	}
	if !entity.IsValidMovementType(in.Type) {
		return nil, domain.Validationf("tipo de movimiento desconocido: %q", in.Type)
	}
	a, err := repos.Articles.GetForUpdate(ctx, in.ArticleID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.NotFoundf("artículo %s", in.ArticleID)
	}

	after, recorded, err := stock.Apply(a.CurrentStock, in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}
	if in.Type == entity.MovementTypeAdjustment && recorded == 0 {
		return nil, domain.Validationf("el ajuste no cambia el stock (%d)", a.CurrentStock)
	}

	if err := repos.Articles.UpdateStock(ctx, a.ID, after); err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		ArticleID:   a.ID,
		Type:        in.Type,
		Quantity:    recorded,
		StockBefore: a.CurrentStock,
		StockAfter:  after,
		Note:        in.Note,
		Date:        l.now(),
		User:        in.User,
		InventoryID: in.InventoryID,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}

	details := entity.MovementApplied{
		MovementID:  mov.ID,
		ArticleID:   a.ID,
		Reference:   a.Reference,
		Type:        mov.Type,
		Quantity:    mov.Quantity,
		StockBefore: mov.StockBefore,
		StockAfter:  mov.StockAfter,
	}
	if in.InventoryID != nil {
		details.InventoryID = *in.InventoryID
	}
	if err := l.audit.Record(ctx, repos, in.User, details); err != nil {
		return nil, err
	}

	a.CurrentStock = after
	if _, err := l.alerts.Evaluate(ctx, repos, a); err != nil {
		return nil, err
	}
	return mov, nil
}

// StockHistory devuelve los movimientos del artículo dentro del rango [from, to] (extremos
// opcionales e inclusivos), del más reciente al más antiguo.
func (l *Ledger) StockHistory(ctx context.Context, articleID string, from, to *time.Time) ([]*entity.Movement, error) {
	a, err := l.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.NotFoundf("artículo %s", articleID)
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.Validationf("rango de fechas invertido")
	}

	all, err := l.movements.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Movement, 0, len(all))
	// Recorrido inverso: a igual fecha, el último insertado va primero.
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && m.Date.After(*to) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrStorage):
		return "storage"
	}
	return "other"
}
