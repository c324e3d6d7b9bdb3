package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WeatherFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snowbot_weather_fetches_total",
			Help: "Total Open-Meteo fetch attempts",
		},
		[]string{"outcome"},
	)

	WeatherFetchLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snowbot_weather_fetch_latency_seconds",
			Help:    "Open-Meteo fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	AlertTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snowbot_alert_ticks_total",
			Help: "Total alert loop ticks",
		},
		[]string{"outcome"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snowbot_notifications_total",
			Help: "Total alert notifications dispatched",
		},
		[]string{"outcome"},
	)

	SubscriptionsPrunedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snowbot_subscriptions_pruned_total",
			Help: "Subscriptions removed because their target was unreachable",
		},
	)
)
