package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeEntry      = "ENTRY"      // entrada
	MovementTypeExit       = "EXIT"       // salida
	MovementTypeAdjustment = "ADJUSTMENT" // ajuste a una cantidad objetivo
)

// Movement es un registro inmutable del ledger: nunca se actualiza ni se borra.
type Movement struct {
	ID          string    `db:"id"`
	ArticleID   string    `db:"article_id"`
	Type        string    `db:"type"`
	Quantity    int64     `db:"quantity"` // siempre positivo; en ajustes es la variación absoluta
	StockBefore int64     `db:"stock_before"`
	StockAfter  int64     `db:"stock_after"`
	Note        string    `db:"note"`
	Date        time.Time `db:"date"`
	User        string    `db:"user_name"`
	InventoryID *string   `db:"inventory_id"` // presente en ajustes de inventario
}

// IsValidMovementType indica si t es un tipo conocido.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeAdjustment:
		return true
	}
	return false
}
