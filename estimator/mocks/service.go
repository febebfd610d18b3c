package mocks

import (
	"context"
	"testing"

	"github.com/absmach/fastflow/estimator"
	"github.com/absmach/fastflow/pkg/stats"
	"github.com/absmach/fastflow/pkg/wordcount"
	"github.com/stretchr/testify/mock"
)

var _ estimator.Service = (*Service)(nil)

type Service struct {
	mock.Mock
}

// NewService creates a mock and asserts its expectations when the test ends.
func NewService(t *testing.T) *Service {
	m := &Service{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *Service) Estimate(ctx context.Context, totalSamples int64) (estimator.EstimateRecord, error) {
	args := m.Called(ctx, totalSamples)

	return args.Get(0).(estimator.EstimateRecord), args.Error(1)
}

func (m *Service) EstimateParallel(ctx context.Context, totalSamples int64, workerCount int, baseSeed int64) (estimator.EstimateRecord, error) {
	args := m.Called(ctx, totalSamples, workerCount, baseSeed)

	return args.Get(0).(estimator.EstimateRecord), args.Error(1)
}

func (m *Service) GetEstimate(ctx context.Context, id string) (estimator.EstimateRecord, error) {
	args := m.Called(ctx, id)

	return args.Get(0).(estimator.EstimateRecord), args.Error(1)
}

func (m *Service) ListEstimates(ctx context.Context, offset, limit uint64) (estimator.EstimatePage, error) {
	args := m.Called(ctx, offset, limit)

	return args.Get(0).(estimator.EstimatePage), args.Error(1)
}

func (m *Service) DeleteEstimate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *Service) Stats(ctx context.Context) (map[string]stats.Summary, error) {
	args := m.Called(ctx)

	return args.Get(0).(map[string]stats.Summary), args.Error(1)
}

func (m *Service) ExportEstimate(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)

	return args.String(0), args.Error(1)
}

func (m *Service) ImportEstimate(ctx context.Context, key string) (estimator.EstimateRecord, error) {
	args := m.Called(ctx, key)

	return args.Get(0).(estimator.EstimateRecord), args.Error(1)
}

func (m *Service) SubmitJob(ctx context.Context, job estimator.Job) (estimator.JobAck, error) {
	args := m.Called(ctx, job)

	return args.Get(0).(estimator.JobAck), args.Error(1)
}

func (m *Service) WordCount(ctx context.Context, text string) (wordcount.Result, error) {
	args := m.Called(ctx, text)

	return args.Get(0).(wordcount.Result), args.Error(1)
}

func (m *Service) Health(ctx context.Context) (estimator.HealthInfo, error) {
	args := m.Called(ctx)

	return args.Get(0).(estimator.HealthInfo), args.Error(1)
}
