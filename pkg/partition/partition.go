package partition

import (
	"fmt"

	"github.com/absmach/fastflow/pkg/errors"
)

type Partition struct {
	Index       int    `json:"index"`
	SampleCount uint64 `json:"sample_count"`
	Seed        int64  `json:"seed"`
}

// Split divides total samples into workers shares that differ by at most
// one. The first total%workers partitions carry the extra sample and
// partition i is seeded with baseSeed+i. With more workers than samples the
// trailing partitions are empty.
func Split(total uint64, workers int, baseSeed int64) ([]Partition, error) {
	if total < 1 {
		return nil, fmt.Errorf("%w: total samples must be positive", errors.ErrInvalidInput)
	}
	if workers < 1 {
		return nil, fmt.Errorf("%w: worker count must be positive", errors.ErrInvalidInput)
	}

	base := total / uint64(workers)
	rem := total % uint64(workers)

	parts := make([]Partition, workers)
	for i := range parts {
		size := base
		if uint64(i) < rem {
			size++
		}
		parts[i] = Partition{
			Index:       i,
			SampleCount: size,
			Seed:        baseSeed + int64(i),
		}
	}

	return parts, nil
}

// Sizes returns the sample counts in index order.
func Sizes(parts []Partition) []uint64 {
	sizes := make([]uint64, len(parts))
	for i, p := range parts {
		sizes[i] = p.SampleCount
	}

	return sizes
}
