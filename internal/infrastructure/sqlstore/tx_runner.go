package sqlstore

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Ensure TxRunner implements repository.TxRunner.
var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción del almacén.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner con el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// El error de fn se devuelve sin envolver para que el llamador conserve su clasificación.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", domain.ErrStorage, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(r.store.repositoriesFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit transaction: %w", domain.ErrStorage, err)
	}
	return nil
}
