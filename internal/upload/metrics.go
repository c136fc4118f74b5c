package upload

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for itemsTotal
const (
	outcomeStored   = "stored"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

var (
	itemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filedrop_upload_items_total",
			Help: "Upload items by outcome (stored, rejected, failed)",
		},
		[]string{"outcome"},
	)

	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "filedrop_upload_batch_duration_seconds",
		Help:    "Time from batch submission to join",
		Buckets: prometheus.DefBuckets,
	})

	inFlightGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "filedrop_upload_inflight",
		Help: "Items currently being transferred",
	})
)
