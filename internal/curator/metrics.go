package curator

import "github.com/prometheus/client_golang/prometheus"

var (
	imagesIndexedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "curator",
		Subsystem: "catalog",
		Name:      "images_indexed_total",
		Help:      "Total images added to the catalog",
	})

	imagesDescribedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "curator",
		Subsystem: "catalog",
		Name:      "images_described_total",
		Help:      "Total images described by the model",
	})

	scansTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "curator",
		Subsystem: "catalog",
		Name:      "scans_total",
		Help:      "Total completed scan runs",
	})

	scanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "curator",
		Subsystem: "catalog",
		Name:      "scan_duration_seconds",
		Help:      "Duration of scan runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})

	describeFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "curator",
		Subsystem: "catalog",
		Name:      "describe_failures_total",
		Help:      "Images whose describe attempt failed and will be retried",
	})

	searchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "curator",
		Subsystem: "catalog",
		Name:      "searches_total",
		Help:      "Total semantic search queries",
	})
)

func init() {
	prometheus.MustRegister(imagesIndexedTotal, imagesDescribedTotal, scansTotal,
		scanDuration, describeFailures, searchesTotal)
}
