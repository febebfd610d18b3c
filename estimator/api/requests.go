package api

import (
	"fmt"

	"github.com/absmach/fastflow/estimator"
	"github.com/absmach/fastflow/pkg/api"
	pkgerrors "github.com/absmach/fastflow/pkg/errors"
	"github.com/absmach/fastflow/pkg/executor"
	apiutil "github.com/absmach/supermq/api/http/util"
)

type estimateReq struct {
	samples int64
}

func (e *estimateReq) validate() error {
	if e.samples < 1 {
		return fmt.Errorf("%w: n must be at least 1", pkgerrors.ErrInvalidInput)
	}

	return nil
}

type parallelReq struct {
	samples int64
	workers int64
	seed    int64
}

func (p *parallelReq) validate() error {
	if p.samples < 1 {
		return fmt.Errorf("%w: n must be at least 1", pkgerrors.ErrInvalidInput)
	}
	if p.workers < 1 || p.workers > executor.MaxWorkers {
		return fmt.Errorf("%w: workers must be in [1, %d]", pkgerrors.ErrInvalidInput, executor.MaxWorkers)
	}

	return nil
}

type entityReq struct {
	id string
}

func (e *entityReq) validate() error {
	if e.id == "" {
		return apiutil.ErrMissingID
	}

	return nil
}

type listEntityReq struct {
	offset, limit uint64
}

func (e *listEntityReq) validate() error {
	if e.limit > api.MaxLimitSize {
		return apiutil.ErrLimitSize
	}

	return nil
}

// jobReq tells an absent field apart from an empty one: both must be
// present, either may be "".
type jobReq struct {
	ID      *string `json:"id"`
	Payload *string `json:"payload"`
}

func (j *jobReq) validate() error {
	if j.ID == nil {
		return apiutil.ErrMissingID
	}
	if j.Payload == nil {
		return fmt.Errorf("%w: payload is required", pkgerrors.ErrInvalidInput)
	}

	return nil
}

func (j *jobReq) job() estimator.Job {
	return estimator.Job{ID: *j.ID, Payload: *j.Payload}
}

type wordCountReq struct {
	Text string `json:"text"`
}

func (w *wordCountReq) validate() error {
	return nil
}

type emptyReq struct{}
