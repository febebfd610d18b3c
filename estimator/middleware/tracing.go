package middleware

import (
	"context"

	"github.com/absmach/fastflow/estimator"
	"github.com/absmach/fastflow/pkg/stats"
	"github.com/absmach/fastflow/pkg/wordcount"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ estimator.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    estimator.Service
}

func Tracing(tracer trace.Tracer, svc estimator.Service) estimator.Service {
	return &tracing{tracer, svc}
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (tm *tracing) Estimate(ctx context.Context, totalSamples int64) (rec estimator.EstimateRecord, err error) {
	ctx, span := tm.tracer.Start(ctx, "estimate", trace.WithAttributes(
		attribute.Int64("total_samples", totalSamples),
	))
	defer func() {
		span.SetAttributes(attribute.String("id", rec.ID))
		end(span, err)
	}()

	return tm.svc.Estimate(ctx, totalSamples)
}

func (tm *tracing) EstimateParallel(ctx context.Context, totalSamples int64, workerCount int, baseSeed int64) (rec estimator.EstimateRecord, err error) {
	ctx, span := tm.tracer.Start(ctx, "estimate-parallel", trace.WithAttributes(
		attribute.Int64("total_samples", totalSamples),
		attribute.Int("worker_count", workerCount),
		attribute.Int64("base_seed", baseSeed),
	))
	defer func() {
		span.SetAttributes(
			attribute.String("id", rec.ID),
			attribute.Float64("compute_sec", rec.ElapsedCompute.Seconds()),
		)
		end(span, err)
	}()

	return tm.svc.EstimateParallel(ctx, totalSamples, workerCount, baseSeed)
}

func (tm *tracing) GetEstimate(ctx context.Context, id string) (rec estimator.EstimateRecord, err error) {
	ctx, span := tm.tracer.Start(ctx, "get-estimate", trace.WithAttributes(
		attribute.String("id", id),
	))
	defer func() { end(span, err) }()

	return tm.svc.GetEstimate(ctx, id)
}

func (tm *tracing) ListEstimates(ctx context.Context, offset, limit uint64) (page estimator.EstimatePage, err error) {
	ctx, span := tm.tracer.Start(ctx, "list-estimates", trace.WithAttributes(
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer func() { end(span, err) }()

	return tm.svc.ListEstimates(ctx, offset, limit)
}

func (tm *tracing) DeleteEstimate(ctx context.Context, id string) (err error) {
	ctx, span := tm.tracer.Start(ctx, "delete-estimate", trace.WithAttributes(
		attribute.String("id", id),
	))
	defer func() { end(span, err) }()

	return tm.svc.DeleteEstimate(ctx, id)
}

func (tm *tracing) Stats(ctx context.Context) (snap map[string]stats.Summary, err error) {
	ctx, span := tm.tracer.Start(ctx, "stats")
	defer func() { end(span, err) }()

	return tm.svc.Stats(ctx)
}

func (tm *tracing) ExportEstimate(ctx context.Context, id string) (key string, err error) {
	ctx, span := tm.tracer.Start(ctx, "export-estimate", trace.WithAttributes(
		attribute.String("id", id),
	))
	defer func() { end(span, err) }()

	return tm.svc.ExportEstimate(ctx, id)
}

func (tm *tracing) ImportEstimate(ctx context.Context, key string) (rec estimator.EstimateRecord, err error) {
	ctx, span := tm.tracer.Start(ctx, "import-estimate", trace.WithAttributes(
		attribute.String("key", key),
	))
	defer func() { end(span, err) }()

	return tm.svc.ImportEstimate(ctx, key)
}

func (tm *tracing) SubmitJob(ctx context.Context, job estimator.Job) (ack estimator.JobAck, err error) {
	ctx, span := tm.tracer.Start(ctx, "submit-job", trace.WithAttributes(
		attribute.String("id", job.ID),
	))
	defer func() { end(span, err) }()

	return tm.svc.SubmitJob(ctx, job)
}

func (tm *tracing) WordCount(ctx context.Context, text string) (res wordcount.Result, err error) {
	ctx, span := tm.tracer.Start(ctx, "word-count", trace.WithAttributes(
		attribute.Int("text_size", len(text)),
	))
	defer func() { end(span, err) }()

	return tm.svc.WordCount(ctx, text)
}

func (tm *tracing) Health(ctx context.Context) (info estimator.HealthInfo, err error) {
	ctx, span := tm.tracer.Start(ctx, "health")
	defer func() { end(span, err) }()

	return tm.svc.Health(ctx)
}
