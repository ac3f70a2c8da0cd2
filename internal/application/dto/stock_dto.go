package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ApplyMovementRequest body para POST /api/articles/:id/movements.
// En ADJUSTMENT, quantity es el stock objetivo.
type ApplyMovementRequest struct {
	Type     string `json:"type"`
	Quantity int64  `json:"quantity"`
	Note     string `json:"note"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID          string    `json:"id"`
	ArticleID   string    `json:"article_id"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	StockBefore int64     `json:"stock_before"`
	StockAfter  int64     `json:"stock_after"`
	Note        string    `json:"note"`
	Date        time.Time `json:"date"`
	User        string    `json:"user"`
	InventoryID *string   `json:"inventory_id,omitempty"`
}

// NewMovementResponse mapea la entidad a la salida HTTP.
func NewMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		ArticleID:   m.ArticleID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Note:        m.Note,
		Date:        m.Date,
		User:        m.User,
		InventoryID: m.InventoryID,
	}
}

// NewMovementList mapea un historial de movimientos.
func NewMovementList(list []*entity.Movement) ListResponse[MovementResponse] {
	return NewList(mapAll(list, NewMovementResponse))
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un artículo en o bajo su mínimo.
type ReplenishmentSuggestionDTO struct {
	ArticleID          string          `json:"article_id"`
	Reference          string          `json:"reference"`
	Designation        string          `json:"designation"`
	Location           string          `json:"location"`
	Supplier           string          `json:"supplier"`
	CurrentStock       int64           `json:"current_stock"`
	MinStock           int64           `json:"min_stock"`
	MaxStock           int64           `json:"max_stock"`
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`  // MaxStock - CurrentStock (o MinStock si no hay máximo)
	UnitCost           decimal.Decimal `json:"unit_cost"`            // precio de compra
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}
