package inventory

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// FormatCSV único formato de exportación soportado.
const FormatCSV = "csv"

var csvHeader = []string{"Reference", "Designation", "TheoreticalStock", "CountedStock", "Variance"}

// ExportCSV serializa las líneas del inventario. Los valores aún sin contar quedan vacíos.
func (w *Workflow) ExportCSV(ctx context.Context, inventoryID, format string) ([]byte, error) {
	if !strings.EqualFold(strings.TrimSpace(format), FormatCSV) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
	inv, err := w.Get(ctx, inventoryID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, l := range inv.Lines {
		row := []string{
			l.Reference,
			l.Designation,
			strconv.FormatInt(l.TheoreticalStock, 10),
			optionalInt(l.CountedStock),
			optionalInt(l.Variance),
		}
		if err := cw.Write(row); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func optionalInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
