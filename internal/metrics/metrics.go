// Package metrics exposes import and catalog-sync counters on a private
// Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service's collectors. It implements core.Recorder and
// serves them through Handler.
type Registry struct {
	reg            *prometheus.Registry
	ImportUnits    *prometheus.CounterVec
	ImportQuantity *prometheus.CounterVec
	ImportDuration *prometheus.HistogramVec
	CatalogItems   *prometheus.CounterVec
}

// NewRegistry creates the collectors on a private registry.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tcgstock_import_units_total",
		Help: "Pasted lines and spreadsheet rows processed, by outcome.",
	}, []string{"source", "outcome"})
	quantity := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tcgstock_import_quantity_total",
		Help: "Card copies imported.",
	}, []string{"source"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tcgstock_import_duration_seconds",
		Help:    "Time spent parsing and storing one import.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	catalog := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tcgstock_catalog_items_total",
		Help: "Catalog items seen during sync, by result.",
	}, []string{"result"})

	r.MustRegister(units, quantity, duration, catalog)
	return &Registry{
		reg:            r,
		ImportUnits:    units,
		ImportQuantity: quantity,
		ImportDuration: duration,
		CatalogItems:   catalog,
	}
}

// ImportFinished implements core.Recorder.
func (r *Registry) ImportFinished(source string, imported, skipped, quantity int, elapsed time.Duration) {
	r.ImportUnits.WithLabelValues(source, "imported").Add(float64(imported))
	r.ImportUnits.WithLabelValues(source, "skipped").Add(float64(skipped))
	r.ImportQuantity.WithLabelValues(source).Add(float64(quantity))
	r.ImportDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// CatalogSynced implements core.Recorder.
func (r *Registry) CatalogSynced(staged, existing, failed int) {
	r.CatalogItems.WithLabelValues("staged").Add(float64(staged))
	r.CatalogItems.WithLabelValues("existing").Add(float64(existing))
	r.CatalogItems.WithLabelValues("failed").Add(float64(failed))
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
