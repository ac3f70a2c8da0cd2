package sqlstore

// dialect recoge las pocas diferencias de DDL/SQL entre SQLite y PostgreSQL.
// Ambos aceptan marcadores $n, así que las consultas son comunes.
type dialect struct {
	name      string
	serialPK  string // columna seq: orden de inserción
	numeric   string // tipo para importes
	forUpdate string // sufijo de bloqueo de fila
}

var (
	sqliteDialect = dialect{
		name:      "sqlite",
		serialPK:  "INTEGER PRIMARY KEY AUTOINCREMENT",
		numeric:   "TEXT",
		forUpdate: "",
	}
	postgresDialect = dialect{
		name:      "postgres",
		serialPK:  "BIGSERIAL PRIMARY KEY",
		numeric:   "NUMERIC(14,4)",
		forUpdate: " FOR UPDATE",
	}
)
