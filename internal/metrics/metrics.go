package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Total number of orders recorded in the local ledger",
	})

	RemoteMirrorFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_remote_order_mirror_failures_total",
		Help: "Orders whose remote placement failed and fell back to a local id",
	})

	OrderStatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_status_updates_total",
		Help: "Order status updates by resulting status",
	}, []string{"status"})

	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart mutations by operation",
	}, []string{"op"})

	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_auth_attempts_total",
		Help: "Register and login attempts by operation and outcome",
	}, []string{"op", "outcome"})

	StorageFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_storage_failures_total",
		Help: "Swallowed persistence failures by operation",
	}, []string{"op"})

	RemoteCatalogErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_remote_catalog_errors_total",
		Help: "Remote catalog call failures by operation",
	}, []string{"op"})
)
