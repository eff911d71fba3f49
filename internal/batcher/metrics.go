package batcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	batchesProduced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "imagebatch_batches_total",
		Help: "Total number of batches produced",
	})

	imagesPreprocessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "imagebatch_images_total",
		Help: "Total number of images preprocessed into batch tensors",
	})

	preprocessFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "imagebatch_preprocess_failures_total",
		Help: "Total number of batches aborted by a preprocessing failure",
	})

	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "imagebatch_batch_duration_seconds",
		Help:    "Wall time to preprocess and assemble one batch",
		Buckets: prometheus.DefBuckets,
	})
)
