package partition_test

import (
	"slices"
	"testing"

	"github.com/absmach/fastflow/pkg/errors"
	"github.com/absmach/fastflow/pkg/partition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		total    uint64
		workers  int
		baseSeed int64
		sizes    []uint64
		seeds    []int64
		err      error
	}{
		{
			name:     "even split",
			total:    400_000,
			workers:  4,
			baseSeed: 1234,
			sizes:    []uint64{100_000, 100_000, 100_000, 100_000},
			seeds:    []int64{1234, 1235, 1236, 1237},
		},
		{
			name:     "remainder goes to the front",
			total:    10,
			workers:  3,
			baseSeed: 0,
			sizes:    []uint64{4, 3, 3},
			seeds:    []int64{0, 1, 2},
		},
		{
			name:     "single worker",
			total:    7,
			workers:  1,
			baseSeed: 42,
			sizes:    []uint64{7},
			seeds:    []int64{42},
		},
		{
			name:     "one sample each",
			total:    3,
			workers:  3,
			baseSeed: -1,
			sizes:    []uint64{1, 1, 1},
			seeds:    []int64{-1, 0, 1},
		},
		{
			name:    "zero samples",
			total:   0,
			workers: 4,
			err:     errors.ErrInvalidInput,
		},
		{
			name:    "zero workers",
			total:   100,
			workers: 0,
			err:     errors.ErrInvalidInput,
		},
		{
			name:    "negative workers",
			total:   100,
			workers: -2,
			err:     errors.ErrInvalidInput,
		},
		{
			name:     "more workers than samples",
			total:    3,
			workers:  4,
			baseSeed: 1234,
			sizes:    []uint64{1, 1, 1, 0},
			seeds:    []int64{1234, 1235, 1236, 1237},
		},
		{
			name:     "one sample many workers",
			total:    1,
			workers:  128,
			baseSeed: 0,
			sizes:    append([]uint64{1}, make([]uint64, 127)...),
			seeds: func() []int64 {
				seeds := make([]int64, 128)
				for i := range seeds {
					seeds[i] = int64(i)
				}

				return seeds
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			parts, err := partition.Split(tt.total, tt.workers, tt.baseSeed)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				assert.Nil(t, parts)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.sizes, partition.Sizes(parts))

			seeds := make([]int64, len(parts))
			for i, p := range parts {
				assert.Equal(t, i, p.Index)
				seeds[i] = p.Seed
			}
			assert.Equal(t, tt.seeds, seeds)
		})
	}
}

func TestSplitInvariants(t *testing.T) {
	t.Parallel()

	for total := uint64(1); total <= 300; total += 7 {
		for workers := 1; workers <= 128; workers++ {
			parts, err := partition.Split(total, workers, 1000)
			require.NoError(t, err)
			require.Len(t, parts, workers)

			sizes := partition.Sizes(parts)
			var sum uint64
			for i, s := range sizes {
				if uint64(workers) <= total {
					assert.Positive(t, s)
				}
				if i > 0 {
					assert.LessOrEqual(t, s, sizes[i-1], "sizes must not increase")
				}
				sum += s
			}
			assert.Equal(t, total, sum, "total=%d workers=%d", total, workers)
			assert.LessOrEqual(t, slices.Max(sizes)-slices.Min(sizes), uint64(1), "total=%d workers=%d", total, workers)

			seen := make(map[int64]bool, len(parts))
			for _, p := range parts {
				assert.False(t, seen[p.Seed], "duplicate seed %d", p.Seed)
				seen[p.Seed] = true
			}
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	t.Parallel()

	a, err := partition.Split(1_000_003, 17, 99)
	require.NoError(t, err)
	b, err := partition.Split(1_000_003, 17, 99)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
