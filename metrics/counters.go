package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_deliveries_total",
		Help: "The total number of webhook delivery outcomes",
	}, []string{"event_type", "status"})

	RetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_retries_total",
		Help: "The total number of webhook delivery retries",
	}, []string{"event_type"})

	DeliveryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webhook_delivery_duration_seconds",
		Help:    "Time taken to deliver a webhook including retries",
		Buckets: prometheus.DefBuckets,
	}, []string{"event_type"})
)
