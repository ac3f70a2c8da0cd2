package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema crea las colecciones y sus índices de búsqueda por igualdad. Idempotente.
func schema(d dialect) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS articles (
			seq %s,
			id TEXT NOT NULL UNIQUE,
			reference TEXT NOT NULL,
			designation TEXT NOT NULL,
			barcode TEXT,
			family TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			supplier TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			current_stock BIGINT NOT NULL DEFAULT 0 CHECK (current_stock >= 0),
			min_stock BIGINT NOT NULL DEFAULT 0,
			max_stock BIGINT NOT NULL DEFAULT 0,
			purchase_price %s NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, d.serialPK, d.numeric),
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_articles_reference ON articles (reference)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_articles_barcode ON articles (barcode)`,
		`CREATE INDEX IF NOT EXISTS ix_articles_location ON articles (location)`,
		`CREATE INDEX IF NOT EXISTS ix_articles_family ON articles (family)`,
		`CREATE INDEX IF NOT EXISTS ix_articles_supplier ON articles (supplier)`,
		`CREATE INDEX IF NOT EXISTS ix_articles_status ON articles (status)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS movements (
			seq %s,
			id TEXT NOT NULL UNIQUE,
			article_id TEXT NOT NULL REFERENCES articles (id),
			type TEXT NOT NULL,
			quantity BIGINT NOT NULL CHECK (quantity >= 0),
			stock_before BIGINT NOT NULL,
			stock_after BIGINT NOT NULL CHECK (stock_after >= 0),
			note TEXT NOT NULL DEFAULT '',
			date TIMESTAMP NOT NULL,
			user_name TEXT NOT NULL,
			inventory_id TEXT
		)`, d.serialPK),
		`CREATE INDEX IF NOT EXISTS ix_movements_article ON movements (article_id)`,
		`CREATE INDEX IF NOT EXISTS ix_movements_date ON movements (date)`,
		`CREATE INDEX IF NOT EXISTS ix_movements_inventory ON movements (inventory_id)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS inventories (
			seq %s,
			id TEXT NOT NULL UNIQUE,
			date TIMESTAMP NOT NULL,
			zone TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			user_name TEXT NOT NULL,
			validated_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, d.serialPK),
		`CREATE INDEX IF NOT EXISTS ix_inventories_status ON inventories (status)`,
		`CREATE INDEX IF NOT EXISTS ix_inventories_zone ON inventories (zone)`,
		`CREATE TABLE IF NOT EXISTS inventory_lines (
			inventory_id TEXT NOT NULL REFERENCES inventories (id),
			position INTEGER NOT NULL,
			article_id TEXT NOT NULL,
			reference TEXT NOT NULL,
			designation TEXT NOT NULL,
			theoretical_stock BIGINT NOT NULL,
			counted_stock BIGINT,
			variance BIGINT,
			status TEXT NOT NULL,
			PRIMARY KEY (inventory_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS ix_inventory_lines_article ON inventory_lines (article_id)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS alerts (
			seq %s,
			id TEXT NOT NULL UNIQUE,
			type TEXT NOT NULL,
			article_id TEXT NOT NULL,
			message TEXT NOT NULL,
			status TEXT NOT NULL,
			date TIMESTAMP NOT NULL
		)`, d.serialPK),
		`CREATE INDEX IF NOT EXISTS ix_alerts_article ON alerts (article_id)`,
		`CREATE INDEX IF NOT EXISTS ix_alerts_status ON alerts (status)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS audit (
			seq %s,
			id TEXT NOT NULL UNIQUE,
			module TEXT NOT NULL,
			action TEXT NOT NULL,
			kind TEXT NOT NULL,
			details TEXT NOT NULL,
			date TIMESTAMP NOT NULL,
			user_name TEXT NOT NULL
		)`, d.serialPK),
		`CREATE INDEX IF NOT EXISTS ix_audit_module ON audit (module)`,
		`CREATE INDEX IF NOT EXISTS ix_audit_action ON audit (action)`,
		`CREATE INDEX IF NOT EXISTS ix_audit_date ON audit (date)`,
		`CREATE INDEX IF NOT EXISTS ix_audit_user ON audit (user_name)`,
	}
}

// migrate aplica el esquema dentro de una transacción.
func migrate(ctx context.Context, db *sqlx.DB, d dialect) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range schema(d) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", firstLine(stmt), err)
		}
	}
	return tx.Commit()
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' || r == '(' {
			return s[:i]
		}
	}
	return s
}
