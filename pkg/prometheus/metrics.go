package prometheus

import (
	"github.com/go-kit/kit/metrics"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

// MakeMetrics returns a request counter and a latency histogram, both
// labelled by method.
func MakeMetrics(namespace, subsystem string) (metrics.Counter, metrics.Histogram) {
	counter := kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_count",
		Help:      "Number of requests received.",
	}, []string{"method"})
	latency := kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_latency_microseconds",
		Help:      "Total duration of requests in microseconds.",
	}, []string{"method"})

	return counter, latency
}

// MakeTaskMetrics returns a counter of completed sampling partitions and a
// histogram of their run time in seconds.
func MakeTaskMetrics(namespace string) (metrics.Counter, metrics.Histogram) {
	completed := kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_completed",
		Help:      "Number of sampling partitions completed.",
	}, []string{})
	duration := kitprometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Run time of one sampling partition.",
		Buckets:   stdprometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{})

	return completed, duration
}
