package room

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricJoins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "melo_room_joins_total",
		Help: "Total accepted room joins",
	})

	metricJoinsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "melo_room_joins_rejected_total",
		Help: "Total rejected room joins",
	}, []string{"reason"})

	metricMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "melo_room_messages_total",
		Help: "Total accepted vent messages",
	})

	metricMessagesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "melo_room_messages_rejected_total",
		Help: "Total rejected vent messages",
	}, []string{"reason"})

	metricReactions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "melo_room_reactions_total",
		Help: "Total message reactions added",
	})

	metricLiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "melo_room_live_connections",
		Help: "Currently open live-feed websocket connections",
	})
)
