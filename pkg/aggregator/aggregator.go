package aggregator

import (
	"fmt"
	"math"

	"github.com/absmach/fastflow/pkg/errors"
	"github.com/absmach/fastflow/pkg/executor"
	"github.com/absmach/fastflow/pkg/partition"
)

type Result struct {
	Hits     uint64
	Estimate float64
	AbsError float64
	// PerWorkerSamples lists partition sizes in index order, independent of
	// the order partials completed in.
	PerWorkerSamples []uint64
}

// Aggregate reduces the partial results of one request. Every partition
// must be represented exactly once with a hit count within its size.
func Aggregate(parts []partition.Partition, partials []executor.PartialResult) (Result, error) {
	if len(partials) != len(parts) {
		return Result{}, fmt.Errorf("%w: got %d partial results for %d partitions", errors.ErrWorkerFailure, len(partials), len(parts))
	}

	var total uint64
	for _, p := range parts {
		total += p.SampleCount
	}
	if total == 0 {
		return Result{}, fmt.Errorf("%w: no samples to aggregate", errors.ErrInvalidInput)
	}

	seen := make([]bool, len(parts))
	for _, pr := range partials {
		if pr.PartitionIndex < 0 || pr.PartitionIndex >= len(parts) {
			return Result{}, fmt.Errorf("%w: unknown partition %d", errors.ErrWorkerFailure, pr.PartitionIndex)
		}
		if seen[pr.PartitionIndex] {
			return Result{}, fmt.Errorf("%w: duplicate result for partition %d", errors.ErrWorkerFailure, pr.PartitionIndex)
		}
		if pr.Hits > parts[pr.PartitionIndex].SampleCount {
			return Result{}, fmt.Errorf("%w: partition %d reported %d hits for %d samples", errors.ErrWorkerFailure, pr.PartitionIndex, pr.Hits, parts[pr.PartitionIndex].SampleCount)
		}
		seen[pr.PartitionIndex] = true
	}

	hits := SumHits(partials)
	estimate := Estimate(hits, total)

	return Result{
		Hits:             hits,
		Estimate:         estimate,
		AbsError:         math.Abs(math.Pi - estimate),
		PerWorkerSamples: partition.Sizes(parts),
	}, nil
}

func SumHits(partials []executor.PartialResult) uint64 {
	var hits uint64
	for _, pr := range partials {
		hits += pr.Hits
	}

	return hits
}

func Estimate(hits, total uint64) float64 {
	return 4.0 * float64(hits) / float64(total)
}
