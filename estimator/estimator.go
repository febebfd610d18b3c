package estimator

import (
	"context"

	"github.com/absmach/fastflow/pkg/stats"
	"github.com/absmach/fastflow/pkg/wordcount"
)

const (
	// SingleSeed seeds every single-shot estimate so repeated calls agree.
	SingleSeed int64 = 42
	// DefBaseSeed is the base seed the HTTP layer uses when none is given.
	DefBaseSeed int64 = 1234
)

// Publisher announces a completed estimate, encoded as JSON, under its
// method and ID.
type Publisher interface {
	Publish(ctx context.Context, method, id string, payload []byte) error
}

type Service interface {
	// Estimate runs the single partition estimator synchronously with
	// SingleSeed.
	Estimate(ctx context.Context, totalSamples int64) (EstimateRecord, error)
	// EstimateParallel splits totalSamples across workerCount partitions
	// seeded from baseSeed and samples them concurrently.
	EstimateParallel(ctx context.Context, totalSamples int64, workerCount int, baseSeed int64) (EstimateRecord, error)

	GetEstimate(ctx context.Context, id string) (EstimateRecord, error)
	ListEstimates(ctx context.Context, offset, limit uint64) (EstimatePage, error)
	DeleteEstimate(ctx context.Context, id string) error
	Stats(ctx context.Context) (map[string]stats.Summary, error)

	// ExportEstimate uploads the record to the blob store and returns the
	// object key it was written under.
	ExportEstimate(ctx context.Context, id string) (string, error)
	ImportEstimate(ctx context.Context, key string) (EstimateRecord, error)

	SubmitJob(ctx context.Context, job Job) (JobAck, error)
	WordCount(ctx context.Context, text string) (wordcount.Result, error)
	Health(ctx context.Context) (HealthInfo, error)
}
