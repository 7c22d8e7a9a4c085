// Package metrics provides Prometheus metrics for the catalog core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EntitiesCreatedTotal tracks created entities by entity kind
	EntitiesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "entities",
			Name:      "created_total",
			Help:      "Total number of created entities by kind",
		},
		[]string{"entity"},
	)

	// AssetNumbersIssuedTotal tracks auto-numbers handed out
	AssetNumbersIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "entities",
			Name:      "asset_numbers_issued_total",
			Help:      "Total number of asset numbers issued by auto-numbering",
		},
	)

	// ValidationFailuresTotal tracks rejected writes by entity kind
	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "validation",
			Name:      "failures_total",
			Help:      "Total number of writes rejected by field validation",
		},
		[]string{"entity"},
	)

	// TenantIsolationViolationsTotal tracks lookups that resolved to another organization's row
	TenantIsolationViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "tenant",
			Name:      "isolation_violations_total",
			Help:      "Total number of cross-organization lookups surfaced as not found",
		},
		[]string{"entity"},
	)

	// RelationshipsLinkedTotal tracks created edges by relation kind
	RelationshipsLinkedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "relationships",
			Name:      "linked_total",
			Help:      "Total number of relationship edges created",
		},
		[]string{"relation_type"},
	)

	// StaleEdgesTotal tracks edges whose peer no longer resolves
	StaleEdgesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "relationships",
			Name:      "stale_edges_total",
			Help:      "Total number of stale edges observed on read",
		},
	)

	// CatalogCacheLookupsTotal tracks equipment catalog cache results
	CatalogCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "equipment_cache",
			Name:      "lookups_total",
			Help:      "Total number of equipment catalog cache lookups by result",
		},
		[]string{"result"},
	)
)
