package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/absmach/fastflow/pkg/errors"
)

type inMemoryStorage struct {
	sync.Mutex

	capacity int
	keys     []string
	data     map[string]any
}

// NewInMemoryStorage returns a storage that keeps at most capacity entries,
// evicting the oldest one when full. A non-positive capacity means no bound.
func NewInMemoryStorage(capacity int) Storage {
	return &inMemoryStorage{
		capacity: capacity,
		data:     make(map[string]any),
	}
}

func (s *inMemoryStorage) Create(_ context.Context, key string, value any) error {
	if key == "" {
		return errors.ErrEmptyKey
	}

	s.Lock()
	defer s.Unlock()

	if _, ok := s.data[key]; ok {
		return errors.ErrEntityExists
	}

	if s.capacity > 0 && len(s.keys) >= s.capacity {
		oldest := s.keys[0]
		s.keys = s.keys[1:]
		delete(s.data, oldest)
	}

	s.keys = append(s.keys, key)
	s.data[key] = value

	return nil
}

func (s *inMemoryStorage) Get(_ context.Context, key string) (any, error) {
	if key == "" {
		return nil, errors.ErrEmptyKey
	}

	s.Lock()
	defer s.Unlock()

	if val, ok := s.data[key]; ok {
		return val, nil
	}

	return nil, errors.ErrNotFound
}

func (s *inMemoryStorage) List(_ context.Context, offset, limit uint64) (result []any, total uint64, err error) {
	s.Lock()
	defer s.Unlock()

	total = uint64(len(s.keys))
	if offset >= total {
		return []any{}, total, nil
	}

	end := min(offset+limit, total)

	result = make([]any, end-offset)
	for i := offset; i < end; i++ {
		result[i-offset] = s.data[s.keys[i]]
	}

	return result, total, nil
}

func (s *inMemoryStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.ErrEmptyKey
	}

	s.Lock()
	defer s.Unlock()

	if _, ok := s.data[key]; !ok {
		return errors.ErrNotFound
	}

	delete(s.data, key)
	s.keys = slices.DeleteFunc(s.keys, func(k string) bool {
		return k == key
	})

	return nil
}
