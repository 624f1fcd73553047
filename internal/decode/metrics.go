package decode

import "github.com/prometheus/client_golang/prometheus"

var (
	decodesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scancam",
			Subsystem: "decode",
			Name:      "attempts_total",
			Help:      "Decode attempts by outcome.",
		},
		[]string{"result"},
	)
	decodeSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "scancam",
			Subsystem: "decode",
			Name:      "duration_seconds",
			Help:      "Time spent per decode attempt.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)
)

func init() {
	prometheus.MustRegister(decodesTotal, decodeSeconds)
}
