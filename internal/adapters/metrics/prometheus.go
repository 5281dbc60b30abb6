package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomgate_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roomgate_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	CredentialsIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomgate_credentials_issued_total",
		Help: "Room credentials requested, by result",
	}, []string{"result"})

	RoomEnsureTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomgate_room_ensure_total",
		Help: "Room creation attempts, by result",
	}, []string{"result"})

	DispatchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomgate_dispatch_requests_total",
		Help: "Dispatch requests, by outcome (reserved, skipped)",
	}, []string{"outcome"})

	DispatchAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomgate_dispatch_attempts_total",
		Help: "Agent dispatch calls to the provider, by result",
	}, []string{"result"})

	DispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roomgate_dispatch_duration_seconds",
		Help:    "Agent dispatch call duration",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	DispatchRecordsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomgate_dispatch_records_expired_total",
		Help: "Confirmed dispatch records removed after the retention window",
	})

	DispatchRecordsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roomgate_dispatch_records",
		Help: "Dispatch records currently held",
	})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomgate_webhook_events_total",
		Help: "LiveKit webhook events received, by event type",
	}, []string{"event"})
)
