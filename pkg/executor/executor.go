// Package executor fans sampling partitions out to goroutines and collects
// their hit counts.
package executor

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/absmach/fastflow/pkg/errors"
	"github.com/absmach/fastflow/pkg/partition"
	"github.com/absmach/fastflow/pkg/sampler"
	"golang.org/x/sync/errgroup"
)

// MaxWorkers is the process-wide upper bound on partitions per request.
const MaxWorkers = 128

type PartialResult struct {
	PartitionIndex int    `json:"partition_index"`
	Hits           uint64 `json:"hits"`
}

// Observer is told about every completed partition. It is called from worker
// goroutines and must be safe for concurrent use.
type Observer func(res PartialResult, elapsed time.Duration)

type Executor interface {
	// Execute runs one sampler call per non-empty partition and returns the
	// partial results in completion order. Empty partitions report zero hits
	// without sampling. Any failing partition fails the whole call with
	// ErrWorkerFailure.
	Execute(ctx context.Context, parts []partition.Partition, s sampler.Sampler) ([]PartialResult, error)
}

type Option func(*options)

type options struct {
	observer Observer
}

func WithObserver(o Observer) Option {
	return func(opts *options) {
		opts.observer = o
	}
}

func apply(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		o.observer = func(PartialResult, time.Duration) {}
	}

	return o
}

type pool struct {
	limit int
	options
}

// NewPool returns an executor that runs partitions on separate goroutines,
// at most limit at a time. A non-positive limit means runtime.NumCPU.
func NewPool(limit int, opts ...Option) Executor {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	if limit > MaxWorkers {
		limit = MaxWorkers
	}

	return &pool{
		limit:   limit,
		options: apply(opts),
	}
}

func (p *pool) Execute(ctx context.Context, parts []partition.Partition, s sampler.Sampler) ([]PartialResult, error) {
	if len(parts) == 0 {
		return nil, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(len(parts), p.limit))

	results := make(chan PartialResult, len(parts))
	for _, part := range parts {
		// Partitions already running are never interrupted; only those not
		// yet dispatched are skipped once the call has failed.
		if err := gctx.Err(); err != nil {
			break
		}
		if part.SampleCount == 0 {
			results <- PartialResult{PartitionIndex: part.Index}

			continue
		}
		g.Go(func() error {
			res, err := run(part, s, p.observer)
			if err != nil {
				return err
			}
			results <- res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrWorkerFailure, err)
	}
	close(results)

	partials := make([]PartialResult, 0, len(parts))
	for res := range results {
		partials = append(partials, res)
	}

	return partials, nil
}

type sequential struct {
	options
}

// NewSequential returns an executor that runs every partition in index order
// on the calling goroutine.
func NewSequential(opts ...Option) Executor {
	return &sequential{options: apply(opts)}
}

func (e *sequential) Execute(ctx context.Context, parts []partition.Partition, s sampler.Sampler) ([]PartialResult, error) {
	partials := make([]PartialResult, 0, len(parts))
	for _, part := range parts {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrWorkerFailure, err)
		}
		if part.SampleCount == 0 {
			partials = append(partials, PartialResult{PartitionIndex: part.Index})

			continue
		}
		res, err := run(part, s, e.observer)
		if err != nil {
			return nil, err
		}
		partials = append(partials, res)
	}

	return partials, nil
}

func run(part partition.Partition, s sampler.Sampler, observe Observer) (res PartialResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: partition %d panicked: %v", errors.ErrWorkerFailure, part.Index, r)
		}
	}()

	start := time.Now()
	hits, err := s.Sample(part.SampleCount, part.Seed)
	if err != nil {
		return PartialResult{}, fmt.Errorf("%w: partition %d: %w", errors.ErrWorkerFailure, part.Index, err)
	}
	res = PartialResult{
		PartitionIndex: part.Index,
		Hits:           hits,
	}
	observe(res, time.Since(start))

	return res, nil
}
