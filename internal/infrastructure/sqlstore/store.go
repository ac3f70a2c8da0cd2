package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

// Querier abstrae *sqlx.DB y *sqlx.Tx: los repositorios sirven con o sin transacción.
type Querier interface {
	sqlx.ExtContext
}

// Store es el almacén embebido: una base SQL con las colecciones articles, movements,
// inventories (+ inventory_lines), alerts y audit.
type Store struct {
	db      *sqlx.DB
	dialect dialect
	now     func() time.Time
}

// Option configura el Store.
type Option func(*Store)

// WithClock reemplaza el reloj usado para sellar fechas de creación y modificación.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open abre el almacén según la configuración y aplica las migraciones.
func Open(ctx context.Context, cfg config.StoreConfig, opts ...Option) (*Store, error) {
	var (
		db  *sqlx.DB
		d   dialect
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite, "":
		db, err = openSQLite(ctx, cfg.Path)
		d = sqliteDialect
	case config.DriverPostgres:
		db, err = openPostgres(ctx, cfg.DatabaseURL)
		d = postgresDialect
	default:
		return nil, fmt.Errorf("driver desconocido: %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, dialect: d, now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(s)
	}
	if err := migrate(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migraciones: %w", err)
	}
	return s, nil
}

// OpenMemory abre un almacén SQLite en memoria (tests y sesiones efímeras).
func OpenMemory(ctx context.Context, opts ...Option) (*Store, error) {
	return Open(ctx, config.StoreConfig{Driver: config.DriverSQLite, Path: ":memory:"}, opts...)
}

// Close cierra la conexión.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping comprueba la conexión (health check).
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Repositories devuelve los repositorios sobre la conexión, fuera de transacción.
func (s *Store) Repositories() repository.Repositories {
	return s.repositoriesFor(s.db)
}

func (s *Store) repositoriesFor(q Querier) repository.Repositories {
	return repository.Repositories{
		Articles:    NewArticleRepository(q, s.dialect, s.now),
		Movements:   NewMovementRepository(q, s.now),
		Inventories: NewInventoryRepository(q, s.now),
		Alerts:      NewAlertRepository(q, s.now),
		Audit:       NewAuditRepository(q, s.now),
	}
}
