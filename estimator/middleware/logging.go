package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/fastflow/estimator"
	"github.com/absmach/fastflow/pkg/stats"
	"github.com/absmach/fastflow/pkg/wordcount"
)

var _ estimator.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    estimator.Service
}

func Logging(logger *slog.Logger, svc estimator.Service) estimator.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) Estimate(ctx context.Context, totalSamples int64) (rec estimator.EstimateRecord, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int64("total_samples", totalSamples),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Estimate failed", args...)

			return
		}
		args = append(args,
			slog.Group("estimate",
				slog.String("id", rec.ID),
				slog.Float64("pi_estimate", rec.Estimate),
				slog.Float64("abs_error", rec.AbsError),
			),
		)
		lm.logger.Info("Estimate completed successfully", args...)
	}(time.Now())

	return lm.svc.Estimate(ctx, totalSamples)
}

func (lm *loggingMiddleware) EstimateParallel(ctx context.Context, totalSamples int64, workerCount int, baseSeed int64) (rec estimator.EstimateRecord, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int64("total_samples", totalSamples),
			slog.Int("worker_count", workerCount),
			slog.Int64("base_seed", baseSeed),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Parallel estimate failed", args...)

			return
		}
		args = append(args,
			slog.Group("estimate",
				slog.String("id", rec.ID),
				slog.Float64("pi_estimate", rec.Estimate),
				slog.Float64("abs_error", rec.AbsError),
				slog.String("compute", rec.ElapsedCompute.String()),
			),
		)
		lm.logger.Info("Parallel estimate completed successfully", args...)
	}(time.Now())

	return lm.svc.EstimateParallel(ctx, totalSamples, workerCount, baseSeed)
}

func (lm *loggingMiddleware) GetEstimate(ctx context.Context, id string) (rec estimator.EstimateRecord, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("estimate",
				slog.String("id", id),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get estimate failed", args...)

			return
		}
		lm.logger.Info("Get estimate completed successfully", args...)
	}(time.Now())

	return lm.svc.GetEstimate(ctx, id)
}

func (lm *loggingMiddleware) ListEstimates(ctx context.Context, offset, limit uint64) (page estimator.EstimatePage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Uint64("offset", offset),
			slog.Uint64("limit", limit),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List estimates failed", args...)

			return
		}
		lm.logger.Info("List estimates completed successfully", args...)
	}(time.Now())

	return lm.svc.ListEstimates(ctx, offset, limit)
}

func (lm *loggingMiddleware) DeleteEstimate(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("estimate",
				slog.String("id", id),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Delete estimate failed", args...)

			return
		}
		lm.logger.Info("Delete estimate completed successfully", args...)
	}(time.Now())

	return lm.svc.DeleteEstimate(ctx, id)
}

func (lm *loggingMiddleware) Stats(ctx context.Context) (snap map[string]stats.Summary, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get stats failed", args...)

			return
		}
		lm.logger.Info("Get stats completed successfully", args...)
	}(time.Now())

	return lm.svc.Stats(ctx)
}

func (lm *loggingMiddleware) ExportEstimate(ctx context.Context, id string) (key string, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("estimate",
				slog.String("id", id),
				slog.String("key", key),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Export estimate failed", args...)

			return
		}
		lm.logger.Info("Export estimate completed successfully", args...)
	}(time.Now())

	return lm.svc.ExportEstimate(ctx, id)
}

func (lm *loggingMiddleware) ImportEstimate(ctx context.Context, key string) (rec estimator.EstimateRecord, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("key", key),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Import estimate failed", args...)

			return
		}
		lm.logger.Info("Import estimate completed successfully", args...)
	}(time.Now())

	return lm.svc.ImportEstimate(ctx, key)
}

func (lm *loggingMiddleware) SubmitJob(ctx context.Context, job estimator.Job) (ack estimator.JobAck, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("job",
				slog.String("id", job.ID),
				slog.Int("payload_size", len(job.Payload)),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Submit job failed", args...)

			return
		}
		lm.logger.Info("Submit job completed successfully", args...)
	}(time.Now())

	return lm.svc.SubmitJob(ctx, job)
}

func (lm *loggingMiddleware) WordCount(ctx context.Context, text string) (res wordcount.Result, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("text_size", len(text)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Word count failed", args...)

			return
		}
		args = append(args, slog.Int("unique", res.Unique))
		lm.logger.Info("Word count completed successfully", args...)
	}(time.Now())

	return lm.svc.WordCount(ctx, text)
}

func (lm *loggingMiddleware) Health(ctx context.Context) (info estimator.HealthInfo, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Health check failed", args...)

			return
		}
		lm.logger.Debug("Health check completed successfully", args...)
	}(time.Now())

	return lm.svc.Health(ctx)
}
