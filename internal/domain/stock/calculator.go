package stock

import (
	"math"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Apply calcula el stock resultante de un movimiento (servicio de dominio).
// ENTRY suma, EXIT resta y falla si el resultado sería negativo, ADJUSTMENT fija el stock
// en quantity. recorded es la cantidad a guardar en el movimiento: en ajustes la variación absoluta.
func Apply(before int64, movementType string, quantity int64) (after, recorded int64, err error) {
	switch movementType {
	case entity.MovementTypeEntry:
		if quantity <= 0 {
			return before, 0, domain.Validationf("la cantidad debe ser positiva")
		}
		return before + quantity, quantity, nil
	case entity.MovementTypeExit:
		if quantity <= 0 {
			return before, 0, domain.Validationf("la cantidad debe ser positiva")
		}
		if before-quantity < 0 {
			return before, 0, domain.ErrInsufficientStock
		}
		return before - quantity, quantity, nil
	case entity.MovementTypeAdjustment:
		if quantity < 0 {
			return before, 0, domain.Validationf("el stock objetivo no puede ser negativo")
		}
		diff := quantity - before
		if diff < 0 {
			diff = -diff
		}
		return quantity, diff, nil
	}
	return before, 0, domain.Validationf("tipo de movimiento desconocido: %q", movementType)
}

// Variance devuelve conteo real menos stock teórico.
func Variance(counted, theoretical int64) int64 {
	return counted - theoretical
}

// Progress resume el avance de un inventario.
type Progress struct {
	Total        int
	Done         int
	Remaining    int
	VariantCount int
	PercentDone  int
}

// ComputeProgress calcula el avance a partir de las líneas. Un inventario sin líneas
// devuelve ErrNotFound: no hay base para un porcentaje.
func ComputeProgress(lines []entity.InventoryLine) (Progress, error) {
	total := len(lines)
	if total == 0 {
		return Progress{}, domain.NotFoundf("inventario sin líneas")
	}
	p := Progress{Total: total}
	for _, l := range lines {
		if l.Status != entity.LineStatusDone {
			continue
		}
		p.Done++
		if l.Variance != nil && *l.Variance != 0 {
			p.VariantCount++
		}
	}
	p.Remaining = total - p.Done
	p.PercentDone = int(math.Round(float64(p.Done) / float64(total) * 100))
	return p, nil
}
