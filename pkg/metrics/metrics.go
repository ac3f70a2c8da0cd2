// Package metrics expone los contadores Prometheus del ledger y del inventario.
//
// Cada Collector usa su propio registro para que varias instancias (tests, varios
// almacenes en el mismo proceso) no choquen en el registro global.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stock"

// Collector agrupa las métricas de negocio.
type Collector struct {
	registry *prometheus.Registry

	MovementsApplied     *prometheus.CounterVec
	MovementsRejected    *prometheus.CounterVec
	AlertsRaised         prometheus.Counter
	AlertsResolved       prometheus.Counter
	InventoriesStarted   prometheus.Counter
	InventoriesValidated prometheus.Counter
	UnitOfWorkDuration   *prometheus.HistogramVec
}

// New crea y registra las métricas. withRuntime añade los colectores de Go y del proceso.
func New(withRuntime bool) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		MovementsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_applied_total",
			Help:      "Movimientos confirmados en el ledger por tipo.",
		}, []string{"type"}),
		MovementsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_rejected_total",
			Help:      "Movimientos rechazados por motivo.",
		}, []string{"reason"}),
		AlertsRaised: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_raised_total",
			Help:      "Alertas de stock mínimo creadas.",
		}),
		AlertsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_resolved_total",
			Help:      "Alertas resueltas (automática o manualmente).",
		}),
		InventoriesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventories_started_total",
			Help:      "Sesiones de inventario iniciadas.",
		}),
		InventoriesValidated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventories_validated_total",
			Help:      "Sesiones de inventario validadas.",
		}),
		UnitOfWorkDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "unit_of_work_duration_seconds",
			Help:      "Duración de las unidades de trabajo por operación.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	c.registry.MustRegister(
		c.MovementsApplied,
		c.MovementsRejected,
		c.AlertsRaised,
		c.AlertsResolved,
		c.InventoriesStarted,
		c.InventoriesValidated,
		c.UnitOfWorkDuration,
	)
	if withRuntime {
		c.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return c
}

// Registry devuelve el registro propio del colector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler devuelve el handler HTTP de exposición (/metrics).
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
