package mocks

import (
	"context"
	"testing"

	"github.com/absmach/fastflow/estimator"
	"github.com/stretchr/testify/mock"
)

var _ estimator.Publisher = (*Publisher)(nil)

type Publisher struct {
	mock.Mock
}

// NewPublisher creates a mock and asserts its expectations when the test ends.
func NewPublisher(t *testing.T) *Publisher {
	m := &Publisher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *Publisher) Publish(ctx context.Context, method, id string, payload []byte) error {
	args := m.Called(ctx, method, id, payload)

	return args.Error(0)
}
