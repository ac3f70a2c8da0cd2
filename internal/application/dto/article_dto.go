package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// CreateArticleRequest entrada para crear un artículo. El stock inicia en 0.
type CreateArticleRequest struct {
	Reference     string          `json:"reference"`
	Designation   string          `json:"designation"`
	Barcode       *string         `json:"barcode,omitempty"`
	Family        string          `json:"family"`
	Location      string          `json:"location"`
	Supplier      string          `json:"supplier"`
	MinStock      int64           `json:"min_stock"`
	MaxStock      int64           `json:"max_stock"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// UpdateArticleRequest entrada para modificar datos maestros (nunca el stock).
// Los campos nil no se modifican.
type UpdateArticleRequest struct {
	Reference     *string          `json:"reference"`
	Designation   *string          `json:"designation"`
	Barcode       *string          `json:"barcode"` // "" elimina el código
	Family        *string          `json:"family"`
	Location      *string          `json:"location"`
	Supplier      *string          `json:"supplier"`
	Status        *string          `json:"status"`
	MinStock      *int64           `json:"min_stock"`
	MaxStock      *int64           `json:"max_stock"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
}

// ArticleResponse salida de un artículo.
type ArticleResponse struct {
	ID            string          `json:"id"`
	Reference     string          `json:"reference"`
	Designation   string          `json:"designation"`
	Barcode       *string         `json:"barcode,omitempty"`
	Family        string          `json:"family"`
	Location      string          `json:"location"`
	Supplier      string          `json:"supplier"`
	Status        string          `json:"status"`
	CurrentStock  int64           `json:"current_stock"`
	MinStock      int64           `json:"min_stock"`
	MaxStock      int64           `json:"max_stock"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	LowStock      bool            `json:"low_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewArticleResponse mapea la entidad a la salida HTTP.
func NewArticleResponse(a *entity.Article) ArticleResponse {
	return ArticleResponse{
		ID:            a.ID,
		Reference:     a.Reference,
		Designation:   a.Designation,
		Barcode:       a.Barcode,
		Family:        a.Family,
		Location:      a.Location,
		Supplier:      a.Supplier,
		Status:        a.Status,
		CurrentStock:  a.CurrentStock,
		MinStock:      a.MinStock,
		MaxStock:      a.MaxStock,
		PurchasePrice: a.PurchasePrice,
		LowStock:      a.IsLowStock(),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// NewArticleList mapea un listado de artículos.
func NewArticleList(list []*entity.Article) ListResponse[ArticleResponse] {
	return NewList(mapAll(list, NewArticleResponse))
}
