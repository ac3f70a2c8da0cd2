package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/metrics"
)

func TestCollector_Contadores(t *testing.T) {
	c := metrics.New(false)

	c.MovementsApplied.WithLabelValues("EXIT").Inc()
	c.MovementsApplied.WithLabelValues("EXIT").Inc()
	c.AlertsRaised.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.MovementsApplied.WithLabelValues("EXIT")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.MovementsApplied.WithLabelValues("ENTRY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.AlertsRaised))
}

func TestCollector_InstanciasIndependientes(t *testing.T) {
	a := metrics.New(false)
	b := metrics.New(false)
	a.InventoriesValidated.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.InventoriesValidated))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.InventoriesValidated))
}

func TestCollector_Handler(t *testing.T) {
	c := metrics.New(false)
	c.InventoriesStarted.Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "stock_inventories_started_total 1")
}
