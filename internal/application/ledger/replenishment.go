package ledger

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ReplenishmentList devuelve los artículos activos en o bajo su mínimo con la cantidad
// sugerida de pedido. location vacía considera todas las ubicaciones.
func (l *Ledger) ReplenishmentList(ctx context.Context, location string) ([]dto.ReplenishmentSuggestionDTO, error) {
	articles, err := l.articles.List(ctx, repository.ArticleFilter{
		Location: location,
		Status:   entity.ArticleStatusActive,
	})
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, a := range articles {
		if !a.IsLowStock() {
			continue
		}
		// Sin máximo configurado se repone hasta el mínimo
		target := a.MaxStock
		if target <= 0 {
			target = a.MinStock
		}
		qty := target - a.CurrentStock
		if qty < 0 {
			qty = 0
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ArticleID:          a.ID,
			Reference:          a.Reference,
			Designation:        a.Designation,
			Location:           a.Location,
			Supplier:           a.Supplier,
			CurrentStock:       a.CurrentStock,
			MinStock:           a.MinStock,
			MaxStock:           a.MaxStock,
			SuggestedOrderQty:  qty,
			UnitCost:           a.PurchasePrice,
			EstimatedOrderCost: decimal.NewFromInt(qty).Mul(a.PurchasePrice),
		})
	}

	// Mayor déficit bajo el mínimo primero; desempate por referencia
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		defA := a.MinStock - a.CurrentStock
		defB := b.MinStock - b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		return a.Reference < b.Reference
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
