// Package metrics exposes the Prometheus collectors for the wallet service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LedgerOpsTotal counts ledger mutations by kind and outcome.
	LedgerOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lazorwallet_ledger_ops_total",
			Help: "Total number of ledger mutations by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// PortfolioValueUSD tracks the current simulated portfolio value.
	PortfolioValueUSD = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lazorwallet_portfolio_value_usd",
			Help: "Current portfolio value in USD across all holdings.",
		},
	)

	// PriceLookupsTotal counts upstream token price lookups by result.
	PriceLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lazorwallet_price_lookups_total",
			Help: "Token price lookups by result (hit, miss, error).",
		},
		[]string{"result"},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call once from main.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		LedgerOpsTotal,
		PortfolioValueUSD,
		PriceLookupsTotal,
	)
}
