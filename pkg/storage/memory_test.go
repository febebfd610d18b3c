package storage_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/absmach/fastflow/pkg/errors"
	"github.com/absmach/fastflow/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := storage.NewInMemoryStorage(0)

	require.NoError(t, s.Create(ctx, "a", 1))
	require.ErrorIs(t, s.Create(ctx, "a", 2), errors.ErrEntityExists)
	require.ErrorIs(t, s.Create(ctx, "", 2), errors.ErrEmptyKey)

	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, errors.ErrNotFound)
	_, err = s.Get(ctx, "")
	require.ErrorIs(t, err, errors.ErrEmptyKey)
}

func TestList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := storage.NewInMemoryStorage(0)
	for i := range 5 {
		require.NoError(t, s.Create(ctx, fmt.Sprintf("k%d", i), i))
	}

	tests := []struct {
		name   string
		offset uint64
		limit  uint64
		want   []any
	}{
		{name: "first page", offset: 0, limit: 2, want: []any{0, 1}},
		{name: "middle page", offset: 2, limit: 2, want: []any{2, 3}},
		{name: "short last page", offset: 4, limit: 2, want: []any{4}},
		{name: "past the end", offset: 9, limit: 2, want: []any{}},
		{name: "everything", offset: 0, limit: 100, want: []any{0, 1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, total, err := s.List(ctx, tt.offset, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, uint64(5), total)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := storage.NewInMemoryStorage(3)
	for i := range 5 {
		require.NoError(t, s.Create(ctx, fmt.Sprintf("k%d", i), i))
	}

	got, total, err := s.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	assert.Equal(t, []any{2, 3, 4}, got)

	_, err = s.Get(ctx, "k0")
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := storage.NewInMemoryStorage(0)
	require.NoError(t, s.Create(ctx, "a", 1))
	require.NoError(t, s.Create(ctx, "b", 2))

	require.NoError(t, s.Delete(ctx, "a"))
	require.ErrorIs(t, s.Delete(ctx, "a"), errors.ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, ""), errors.ErrEmptyKey)

	got, total, err := s.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	assert.Equal(t, []any{2}, got)
}
