package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un artículo.
const (
	ArticleStatusActive   = "ACTIVE"
	ArticleStatusInactive = "INACTIVE"
)

// Article representa un artículo de stock (maestro). CurrentStock solo lo modifica el ledger.
type Article struct {
	ID            string          `db:"id"`
	Reference     string          `db:"reference"` // única
	Designation   string          `db:"designation"`
	Barcode       *string         `db:"barcode"` // única si está presente
	Family        string          `db:"family"`
	Location      string          `db:"location"`
	Supplier      string          `db:"supplier"`
	Status        string          `db:"status"`
	CurrentStock  int64           `db:"current_stock"` // nunca negativo
	MinStock      int64           `db:"min_stock"`
	MaxStock      int64           `db:"max_stock"` // 0 = sin máximo
	PurchasePrice decimal.Decimal `db:"purchase_price"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// BarcodeValue devuelve el código de barras o "" si no tiene.
func (a *Article) BarcodeValue() string {
	if a.Barcode == nil {
		return ""
	}
	return *a.Barcode
}

// IsLowStock indica si el stock está en o por debajo del mínimo.
func (a *Article) IsLowStock() bool {
	return a.CurrentStock <= a.MinStock
}
