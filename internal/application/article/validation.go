package article

import (
	"strings"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func validate(a *entity.Article) error {
	switch {
	case a.Reference == "":
		return domain.Validationf("reference requerida")
	case a.Designation == "":
		return domain.Validationf("designation requerida")
	case a.Family == "":
		return domain.Validationf("family requerida")
	case a.Location == "":
		return domain.Validationf("location requerida")
	case a.MinStock < 0 || a.MaxStock < 0:
		return domain.Validationf("los umbrales de stock no pueden ser negativos")
	case a.MaxStock > 0 && a.MaxStock < a.MinStock:
		return domain.Validationf("max_stock (%d) menor que min_stock (%d)", a.MaxStock, a.MinStock)
	case a.PurchasePrice.IsNegative():
		return domain.Validationf("purchase_price no puede ser negativo")
	}
	if a.Status != entity.ArticleStatusActive && a.Status != entity.ArticleStatusInactive {
		return domain.Validationf("estado desconocido: %q", a.Status)
	}
	return nil
}

// applyPatch copia los campos presentes y devuelve los nombres de los que cambiaron.
func applyPatch(a *entity.Article, in dto.UpdateArticleRequest) []string {
	var changed []string
	setString := func(name string, dst *string, v *string) {
		if v != nil && *v != *dst {
			*dst = *v
			changed = append(changed, name)
		}
	}
	setInt := func(name string, dst *int64, v *int64) {
		if v != nil && *v != *dst {
			*dst = *v
			changed = append(changed, name)
		}
	}
	setString("reference", &a.Reference, trimmed(in.Reference))
	setString("designation", &a.Designation, trimmed(in.Designation))
	setString("family", &a.Family, trimmed(in.Family))
	setString("location", &a.Location, trimmed(in.Location))
	setString("supplier", &a.Supplier, trimmed(in.Supplier))
	setString("status", &a.Status, in.Status)
	setInt("min_stock", &a.MinStock, in.MinStock)
	setInt("max_stock", &a.MaxStock, in.MaxStock)
	if in.PurchasePrice != nil && !in.PurchasePrice.Equal(a.PurchasePrice) {
		a.PurchasePrice = *in.PurchasePrice
		changed = append(changed, "purchase_price")
	}
	if in.Barcode != nil {
		next := normalizeBarcode(in.Barcode)
		if (next == nil && a.Barcode != nil) || (next != nil && (a.Barcode == nil || *a.Barcode != *next)) {
			a.Barcode = next
			changed = append(changed, "barcode")
		}
	}
	return changed
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}
