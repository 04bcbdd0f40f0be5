package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	MessagesPersistedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_persisted_total",
			Help: "Total number of persisted message mutations by kind",
		},
		[]string{"kind"},
	)

	BroadcastDeliveriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_deliveries_total",
			Help: "Total number of events delivered to room subscribers",
		},
	)

	BroadcastDropsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_drops_total",
			Help: "Total number of events dropped due to slow consumers",
		},
	)

	WebSocketConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Current number of active WebSocket connections",
		},
	)
)
