package repository

import "context"

// Repositories agrupa los puertos atados a una misma conexión o transacción.
type Repositories struct {
	Articles    ArticleRepository
	Movements   MovementRepository
	Inventories InventoryRepository
	Alerts      AlertRepository
	Audit       AuditRepository
}

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a ella.
// Commit si fn devuelve nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
