package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moaqeb_http_requests_total",
		Help: "Total HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moaqeb_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	SettlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moaqeb_settlements_total",
		Help: "Settled payable batches by kind (agent or client_refund)",
	}, []string{"kind"})

	SettlementAmount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moaqeb_settlement_amount_total",
		Help: "Total money settled by kind",
	}, []string{"kind"})

	LimitBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moaqeb_limit_blocks_total",
		Help: "Create operations blocked by tier ceilings, by tier and feature",
	}, []string{"tier", "feature"})
)
