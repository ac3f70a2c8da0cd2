package dto

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
)

// StartInventoryRequest body para POST /api/inventories. Zone vacía = todos los artículos.
type StartInventoryRequest struct {
	Zone string `json:"zone"`
}

// RecordCountRequest body para PUT /api/inventories/:id/lines/:articleId.
type RecordCountRequest struct {
	CountedStock *int64 `json:"counted_stock"`
}

// InventoryLineResponse línea de conteo.
type InventoryLineResponse struct {
	ArticleID        string `json:"article_id"`
	Reference        string `json:"reference"`
	Designation      string `json:"designation"`
	TheoreticalStock int64  `json:"theoretical_stock"`
	CountedStock     *int64 `json:"counted_stock"`
	Variance         *int64 `json:"variance"`
	Status           string `json:"status"`
}

// InventoryResponse sesión de inventario con sus líneas.
type InventoryResponse struct {
	ID          string                  `json:"id"`
	Date        time.Time               `json:"date"`
	Zone        string                  `json:"zone,omitempty"`
	Status      string                  `json:"status"`
	User        string                  `json:"user"`
	ValidatedAt *time.Time              `json:"validated_at,omitempty"`
	Lines       []InventoryLineResponse `json:"lines"`
}

// NewInventoryResponse mapea la sesión a la salida HTTP.
func NewInventoryResponse(inv *entity.Inventory) InventoryResponse {
	lines := make([]InventoryLineResponse, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lines = append(lines, InventoryLineResponse{
			ArticleID:        l.ArticleID,
			Reference:        l.Reference,
			Designation:      l.Designation,
			TheoreticalStock: l.TheoreticalStock,
			CountedStock:     l.CountedStock,
			Variance:         l.Variance,
			Status:           l.Status,
		})
	}
	return InventoryResponse{
		ID:          inv.ID,
		Date:        inv.Date,
		Zone:        inv.Zone,
		Status:      inv.Status,
		User:        inv.User,
		ValidatedAt: inv.ValidatedAt,
		Lines:       lines,
	}
}

// NewInventoryList mapea un listado de sesiones.
func NewInventoryList(list []*entity.Inventory) ListResponse[InventoryResponse] {
	return NewList(mapAll(list, NewInventoryResponse))
}

// ProgressResponse avance del conteo.
type ProgressResponse struct {
	Total        int `json:"total"`
	Done         int `json:"done"`
	Remaining    int `json:"remaining"`
	VariantCount int `json:"variant_count"`
	PercentDone  int `json:"percent_done"`
}

// NewProgressResponse mapea el avance calculado.
func NewProgressResponse(p stock.Progress) ProgressResponse {
	return ProgressResponse(p)
}
