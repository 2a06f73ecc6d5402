package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransitionsSubmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_transitions_submitted_total",
		Help: "Total number of status transitions submitted to the backend.",
	},
		[]string{"role", "result"},
	)

	TransitionsDeniedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_transitions_denied_total",
		Help: "Total number of transitions rejected by the advisory table before reaching the backend.",
	})

	AvailabilityChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_availability_checks_total",
		Help: "Total number of availability checks, labelled by the source tier that resolved them.",
	},
		[]string{"source"},
	)

	PointsEntriesTaggedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_points_entries_tagged_total",
		Help: "Total number of points ledger entries categorized, by tag.",
	},
		[]string{"tag"},
	)

	AvailabilityCacheEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gateway_availability_cache_entries",
		Help: "Current number of entries in the availability caches, by tier.",
	},
		[]string{"tier"},
	)

	OrderSnapshotCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gateway_order_snapshot_cache_items",
		Help: "Current number of order snapshots held in the in-memory cache.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)
)
