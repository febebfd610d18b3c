package middleware

import (
	"context"
	"time"

	"github.com/absmach/fastflow/estimator"
	"github.com/absmach/fastflow/pkg/stats"
	"github.com/absmach/fastflow/pkg/wordcount"
	"github.com/go-kit/kit/metrics"
)

var _ estimator.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     estimator.Service
}

func Metrics(counter metrics.Counter, latency metrics.Histogram, svc estimator.Service) estimator.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) observe(method string, begin time.Time) {
	mm.counter.With("method", method).Add(1)
	mm.latency.With("method", method).Observe(time.Since(begin).Seconds())
}

func (mm *metricsMiddleware) Estimate(ctx context.Context, totalSamples int64) (estimator.EstimateRecord, error) {
	defer mm.observe("estimate", time.Now())

	return mm.svc.Estimate(ctx, totalSamples)
}

func (mm *metricsMiddleware) EstimateParallel(ctx context.Context, totalSamples int64, workerCount int, baseSeed int64) (estimator.EstimateRecord, error) {
	defer mm.observe("estimate-parallel", time.Now())

	return mm.svc.EstimateParallel(ctx, totalSamples, workerCount, baseSeed)
}

func (mm *metricsMiddleware) GetEstimate(ctx context.Context, id string) (estimator.EstimateRecord, error) {
	defer mm.observe("get-estimate", time.Now())

	return mm.svc.GetEstimate(ctx, id)
}

func (mm *metricsMiddleware) ListEstimates(ctx context.Context, offset, limit uint64) (estimator.EstimatePage, error) {
	defer mm.observe("list-estimates", time.Now())

	return mm.svc.ListEstimates(ctx, offset, limit)
}

func (mm *metricsMiddleware) DeleteEstimate(ctx context.Context, id string) error {
	defer mm.observe("delete-estimate", time.Now())

	return mm.svc.DeleteEstimate(ctx, id)
}

func (mm *metricsMiddleware) Stats(ctx context.Context) (map[string]stats.Summary, error) {
	defer mm.observe("stats", time.Now())

	return mm.svc.Stats(ctx)
}

func (mm *metricsMiddleware) ExportEstimate(ctx context.Context, id string) (string, error) {
	defer mm.observe("export-estimate", time.Now())

	return mm.svc.ExportEstimate(ctx, id)
}

func (mm *metricsMiddleware) ImportEstimate(ctx context.Context, key string) (estimator.EstimateRecord, error) {
	defer mm.observe("import-estimate", time.Now())

	return mm.svc.ImportEstimate(ctx, key)
}

func (mm *metricsMiddleware) SubmitJob(ctx context.Context, job estimator.Job) (estimator.JobAck, error) {
	defer mm.observe("submit-job", time.Now())

	return mm.svc.SubmitJob(ctx, job)
}

func (mm *metricsMiddleware) WordCount(ctx context.Context, text string) (wordcount.Result, error) {
	defer mm.observe("word-count", time.Now())

	return mm.svc.WordCount(ctx, text)
}

func (mm *metricsMiddleware) Health(ctx context.Context) (estimator.HealthInfo, error) {
	defer mm.observe("health", time.Now())

	return mm.svc.Health(ctx)
}
