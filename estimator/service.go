package estimator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/0x6flab/namegenerator"
	"github.com/absmach/fastflow/pkg/aggregator"
	"github.com/absmach/fastflow/pkg/blob"
	"github.com/absmach/fastflow/pkg/errors"
	"github.com/absmach/fastflow/pkg/executor"
	"github.com/absmach/fastflow/pkg/partition"
	"github.com/absmach/fastflow/pkg/sampler"
	"github.com/absmach/fastflow/pkg/stats"
	"github.com/absmach/fastflow/pkg/storage"
	"github.com/absmach/fastflow/pkg/wordcount"
	"github.com/google/uuid"
)

type nameGenerator interface {
	Generate(opts ...namegenerator.Options) string
}

var _ nameGenerator = (namegenerator.NameGenerator)(nil)

type service struct {
	single    executor.Executor
	parallel  executor.Executor
	sampler   sampler.Sampler
	history   storage.Storage
	latency   *stats.Latency
	publisher Publisher
	exporter  blob.Store
	names     nameGenerator
	clock     Clock
	startedAt time.Time
	logger    *slog.Logger
}

type Option func(*service)

// WithPublisher announces every completed record.
func WithPublisher(p Publisher) Option {
	return func(s *service) {
		s.publisher = p
	}
}

func WithExporter(e blob.Store) Option {
	return func(s *service) {
		s.exporter = e
	}
}

// WithClock replaces time.Now. startedAt is the instant uptime is measured
// from.
func WithClock(c Clock, startedAt time.Time) Option {
	return func(s *service) {
		s.clock = c
		s.startedAt = startedAt
	}
}

// NewService wires the estimator. single runs the one-partition path on the
// caller's goroutine and parallel runs the fan-out path.
func NewService(single, parallel executor.Executor, s sampler.Sampler, history storage.Storage, latency *stats.Latency, logger *slog.Logger, opts ...Option) Service {
	svc := &service{
		single:    single,
		parallel:  parallel,
		sampler:   s,
		history:   history,
		latency:   latency,
		names:     namegenerator.NewGenerator(),
		clock:     time.Now,
		startedAt: time.Now(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

func (svc *service) Estimate(ctx context.Context, totalSamples int64) (EstimateRecord, error) {
	start := svc.clock()
	if totalSamples < 1 {
		return EstimateRecord{}, fmt.Errorf("%w: total samples must be at least 1, got %d", errors.ErrInvalidInput, totalSamples)
	}

	parts, err := partition.Split(uint64(totalSamples), 1, SingleSeed)
	if err != nil {
		return EstimateRecord{}, err
	}
	partials, err := svc.single.Execute(ctx, parts, svc.sampler)
	if err != nil {
		return EstimateRecord{}, err
	}
	res, err := aggregator.Aggregate(parts, partials)
	if err != nil {
		return EstimateRecord{}, err
	}

	rec := EstimateRecord{
		ID:           uuid.NewString(),
		Name:         svc.names.Generate(),
		Method:       Single,
		TotalSamples: uint64(totalSamples),
		Seed:         SingleSeed,
		Hits:         res.Hits,
		Estimate:     res.Estimate,
		AbsError:     res.AbsError,
		CreatedAt:    start,
	}
	rec.ElapsedTotal = svc.clock().Sub(start)

	return svc.save(ctx, rec)
}

func (svc *service) EstimateParallel(ctx context.Context, totalSamples int64, workerCount int, baseSeed int64) (EstimateRecord, error) {
	start := svc.clock()
	if totalSamples < 1 {
		return EstimateRecord{}, fmt.Errorf("%w: total samples must be at least 1, got %d", errors.ErrInvalidInput, totalSamples)
	}
	if workerCount < 1 || workerCount > executor.MaxWorkers {
		return EstimateRecord{}, fmt.Errorf("%w: worker count must be in [1, %d], got %d", errors.ErrInvalidInput, executor.MaxWorkers, workerCount)
	}

	parts, err := partition.Split(uint64(totalSamples), workerCount, baseSeed)
	if err != nil {
		return EstimateRecord{}, err
	}

	computeStart := svc.clock()
	partials, err := svc.parallel.Execute(ctx, parts, svc.sampler)
	if err != nil {
		return EstimateRecord{}, err
	}
	compute := svc.clock().Sub(computeStart)

	res, err := aggregator.Aggregate(parts, partials)
	if err != nil {
		return EstimateRecord{}, err
	}

	rec := EstimateRecord{
		ID:               uuid.NewString(),
		Name:             svc.names.Generate(),
		Method:           Parallel,
		TotalSamples:     uint64(totalSamples),
		WorkerCount:      workerCount,
		Seed:             baseSeed,
		Hits:             res.Hits,
		Estimate:         res.Estimate,
		AbsError:         res.AbsError,
		ElapsedCompute:   compute,
		PerWorkerSamples: res.PerWorkerSamples,
		CreatedAt:        start,
	}
	rec.ElapsedTotal = svc.clock().Sub(start)

	return svc.save(ctx, rec)
}

// save records a finished estimate in the history, the latency sketches and
// on the results topic. Only the history write can fail the call; the other
// sinks are best effort.
func (svc *service) save(ctx context.Context, rec EstimateRecord) (EstimateRecord, error) {
	if err := svc.history.Create(ctx, rec.ID, rec); err != nil {
		return EstimateRecord{}, err
	}

	series := "single"
	if rec.Method == Parallel {
		series = "parallel"
		if err := svc.latency.Observe(series+"_compute", rec.ElapsedCompute); err != nil {
			svc.logger.Warn("failed to record compute latency", slog.Any("error", err))
		}
	}
	if err := svc.latency.Observe(series+"_total", rec.ElapsedTotal); err != nil {
		svc.logger.Warn("failed to record total latency", slog.Any("error", err))
	}

	if svc.publisher != nil {
		svc.publish(ctx, rec)
	}

	return rec.clone(), nil
}

func (svc *service) publish(ctx context.Context, rec EstimateRecord) {
	payload, err := json.Marshal(rec)
	if err == nil {
		err = svc.publisher.Publish(ctx, string(rec.Method), rec.ID, payload)
	}
	if err != nil {
		svc.logger.Warn("failed to publish estimate",
			slog.String("id", rec.ID),
			slog.Any("error", err),
		)
	}
}

func (svc *service) GetEstimate(ctx context.Context, id string) (EstimateRecord, error) {
	data, err := svc.history.Get(ctx, id)
	if err != nil {
		return EstimateRecord{}, err
	}
	rec, ok := data.(EstimateRecord)
	if !ok {
		return EstimateRecord{}, errors.ErrInvalidData
	}

	return rec.clone(), nil
}

func (svc *service) ListEstimates(ctx context.Context, offset, limit uint64) (EstimatePage, error) {
	data, total, err := svc.history.List(ctx, offset, limit)
	if err != nil {
		return EstimatePage{}, err
	}

	recs := make([]EstimateRecord, len(data))
	for i := range data {
		rec, ok := data[i].(EstimateRecord)
		if !ok {
			return EstimatePage{}, errors.ErrInvalidData
		}
		recs[i] = rec.clone()
	}

	return EstimatePage{
		Offset:    offset,
		Limit:     limit,
		Total:     total,
		Estimates: recs,
	}, nil
}

func (svc *service) DeleteEstimate(ctx context.Context, id string) error {
	return svc.history.Delete(ctx, id)
}

func (svc *service) Stats(_ context.Context) (map[string]stats.Summary, error) {
	return svc.latency.Snapshot(), nil
}

func (svc *service) ExportEstimate(ctx context.Context, id string) (string, error) {
	if svc.exporter == nil {
		return "", fmt.Errorf("%w: blob exporter", errors.ErrNotConfigured)
	}

	rec, err := svc.GetEstimate(ctx, id)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}

	key := rec.ID + ".json"
	if err := svc.exporter.Upload(ctx, key, data); err != nil {
		return "", err
	}

	return key, nil
}

func (svc *service) ImportEstimate(ctx context.Context, key string) (EstimateRecord, error) {
	if svc.exporter == nil {
		return EstimateRecord{}, fmt.Errorf("%w: blob exporter", errors.ErrNotConfigured)
	}

	data, err := svc.exporter.Download(ctx, key)
	if err != nil {
		return EstimateRecord{}, err
	}

	var rec EstimateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return EstimateRecord{}, fmt.Errorf("%w: %w", errors.ErrInvalidData, err)
	}

	return rec, nil
}

func (svc *service) SubmitJob(_ context.Context, job Job) (JobAck, error) {
	return JobAck{
		Accepted: true,
		Message:  fmt.Sprintf("Job %s queued", job.ID),
	}, nil
}

func (svc *service) WordCount(_ context.Context, text string) (wordcount.Result, error) {
	return wordcount.Count(text, wordcount.DefTop), nil
}

func (svc *service) Health(_ context.Context) (HealthInfo, error) {
	return HealthInfo{
		Status:        "ok",
		UptimeSeconds: int64(svc.clock().Sub(svc.startedAt).Seconds()),
	}, nil
}
