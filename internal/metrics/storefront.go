package metrics

import "github.com/prometheus/client_golang/prometheus"

// Storefront metrics are registered explicitly from main (no init())
// so tests importing this package do not collide on the default
// registry.
var (
	// CatalogRequestsTotal counts outbound catalog provider requests by outcome.
	CatalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "catalog_requests_total",
			Help:      "Total number of catalog provider requests",
		},
		[]string{"status"},
	)

	// CatalogRequestDuration tracks catalog provider latency.
	CatalogRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "catalog_request_duration_seconds",
			Help:      "Catalog provider request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// CartMutationsTotal counts committed cart ledger mutations by operation.
	CartMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "cart_mutations_total",
			Help:      "Total number of cart ledger mutations",
		},
		[]string{"op"},
	)
)

// RegisterStorefrontMetrics registers the storefront metric set.
func RegisterStorefrontMetrics() {
	prometheus.MustRegister(
		CatalogRequestsTotal,
		CatalogRequestDuration,
		CartMutationsTotal,
	)
}
