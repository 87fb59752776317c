package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wagw_messages_total",
			Help: "Message send attempts by provider and outcome",
		},
		[]string{"provider", "status"}, // desktop-agent|cloud-session|legacy , queued|sent|failed
	)

	BroadcastsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wagw_broadcasts_total",
			Help: "Completed broadcast jobs by outcome",
		},
		[]string{"outcome"}, // clean|partial
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		MessagesTotal,
		BroadcastsTotal,
	)
}
