package entity

import "time"

// Estados de una sesión de inventario.
const (
	InventoryStatusInProgress = "IN_PROGRESS"
	InventoryStatusCompleted  = "COMPLETED" // terminal
)

// Estados de una línea de inventario.
const (
	LineStatusPending = "PENDING"
	LineStatusDone    = "DONE"
)

// Inventory representa una sesión de conteo físico.
type Inventory struct {
	ID          string          `db:"id"`
	Date        time.Time       `db:"date"`
	Zone        string          `db:"zone"` // vacío = todos los artículos
	Status      string          `db:"status"`
	User        string          `db:"user_name"`
	ValidatedAt *time.Time      `db:"validated_at"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	Lines       []InventoryLine `db:"-"`
}

// InventoryLine es una línea del conteo con la foto del artículo al iniciar la sesión.
type InventoryLine struct {
	InventoryID      string `db:"inventory_id"`
	Position         int    `db:"position"`
	ArticleID        string `db:"article_id"`
	Reference        string `db:"reference"`
	Designation      string `db:"designation"`
	TheoreticalStock int64  `db:"theoretical_stock"` // congelado al iniciar
	CountedStock     *int64 `db:"counted_stock"`     // nil hasta contar
	Variance         *int64 `db:"variance"`          // counted - theoretical
	Status           string `db:"status"`
}

// IsCompleted indica si la sesión ya fue validada.
func (i *Inventory) IsCompleted() bool {
	return i.Status == InventoryStatusCompleted
}

// Line devuelve la línea del artículo o nil.
func (i *Inventory) Line(articleID string) *InventoryLine {
	for k := range i.Lines {
		if i.Lines[k].ArticleID == articleID {
			return &i.Lines[k]
		}
	}
	return nil
}

// PendingLines cuenta las líneas sin contar.
func (i *Inventory) PendingLines() int {
	n := 0
	for _, l := range i.Lines {
		if l.Status == LineStatusPending {
			n++
		}
	}
	return n
}
