package sqlstore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único
// (23505 en PostgreSQL, SQLITE_CONSTRAINT_UNIQUE en SQLite).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// storageErr clasifica un error del motor: duplicados como ErrConflict, el resto como ErrStorage.
func storageErr(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s: clave única duplicada", domain.ErrConflict, op)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}

// where construye filtros de igualdad con marcadores $n.
type where struct {
	clauses []string
	args    []any
}

func (w *where) eq(column, value string) {
	if value == "" {
		return
	}
	w.args = append(w.args, value)
	w.clauses = append(w.clauses, fmt.Sprintf("%s = $%d", column, len(w.args)))
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
