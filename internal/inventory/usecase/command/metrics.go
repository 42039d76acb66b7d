package command

import "github.com/prometheus/client_golang/prometheus"

var (
	deductionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_service_deductions_total",
			Help: "Stock deductions by outcome",
		},
		[]string{"outcome"},
	)

	transferItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_service_transfer_items_total",
			Help: "Transferred items by policy and final state",
		},
		[]string{"policy", "state"},
	)

	rateImportRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_service_rate_import_rows_total",
			Help: "Conversion rate import rows by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(deductionsTotal)
	prometheus.MustRegister(transferItemsTotal)
	prometheus.MustRegister(rateImportRowsTotal)
}
