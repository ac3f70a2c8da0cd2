package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// openSQLite abre la base SQLite embebida (driver puro Go). Una sola conexión abierta:
// SQLite admite un escritor a la vez y así la base ":memory:" persiste durante toda la vida del Store.
func openSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	return db, nil
}

func sqliteDSN(path string) string {
	pragmas := []string{"_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)"}
	if path == ":memory:" {
		return "file::memory:?" + strings.Join(pragmas, "&")
	}
	pragmas = append(pragmas, "_pragma=journal_mode(WAL)", "_pragma=synchronous(NORMAL)")
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	prefix := ""
	if !strings.HasPrefix(path, "file:") {
		prefix = "file:"
	}
	return prefix + path + sep + strings.Join(pragmas, "&")
}
