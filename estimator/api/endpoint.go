package api

import (
	"context"
	"errors"

	"github.com/absmach/fastflow/estimator"
	pkgerrors "github.com/absmach/fastflow/pkg/errors"
	apiutil "github.com/absmach/supermq/api/http/util"
	"github.com/go-kit/kit/endpoint"
)

func estimateEndpoint(svc estimator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(estimateReq)
		if !ok {
			return estimateResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return estimateResponse{}, err
		}

		rec, err := svc.Estimate(ctx, req.samples)
		if err != nil {
			return estimateResponse{}, err
		}

		return estimateResponse{EstimateRecord: rec}, nil
	}
}

func estimateParallelEndpoint(svc estimator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(parallelReq)
		if !ok {
			return estimateResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return estimateResponse{}, err
		}

		rec, err := svc.EstimateParallel(ctx, req.samples, int(req.workers), req.seed)
		if err != nil {
			return estimateResponse{}, err
		}

		return estimateResponse{EstimateRecord: rec}, nil
	}
}

func getEstimateEndpoint(svc estimator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return estimateResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return estimateResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		rec, err := svc.GetEstimate(ctx, req.id)
		if err != nil {
			return estimateResponse{}, err
		}

		return estimateResponse{EstimateRecord: rec}, nil
	}
}

func listEstimatesEndpoint(svc estimator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listEntityReq)
		if !ok {
			return listEstimateResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return listEstimateResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		page, err := svc.ListEstimates(ctx, req.offset, req.limit)
		if err != nil {
			return listEstimateResponse{}, err
		}

		return listEstimateResponse{EstimatePage: page}, nil
	}
}

func deleteEstimateEndpoint(svc estimator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return estimateResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return estimateResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		if err := svc.DeleteEstimate(ctx, req.id); err != nil {
			return estimateResponse{}, err
		}

		return estimateResponse{deleted: true}, nil
	}
}

func exportEstimateEndpoint(svc estimator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return exportResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return exportResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		key, err := svc.ExportEstimate(ctx, req.id)
		if err != nil {
			return exportResponse{}, err
		}

		return exportResponse{ID: req.id, Key: key}, nil
	}
}

func importEstimateEndpoint(svc estimator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return estimateResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return estimateResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		rec, err := svc.ImportEstimate(ctx, req.id)
		if err != nil {
			return estimateResponse{}, err
		}

		return estimateResponse{EstimateRecord: rec}, nil
	}
}

func statsEndpoint(svc estimator.Service) endpoint.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		latency, err := svc.Stats(ctx)
		if err != nil {
			return statsResponse{}, err
		}

		return statsResponse{Latency: latency}, nil
	}
}

func submitJobEndpoint(svc estimator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(jobReq)
		if !ok {
			return jobResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return jobResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		ack, err := svc.SubmitJob(ctx, req.job())
		if err != nil {
			return jobResponse{}, err
		}

		return jobResponse{JobAck: ack}, nil
	}
}

func wordCountEndpoint(svc estimator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(wordCountReq)
		if !ok {
			return wordCountResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return wordCountResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		res, err := svc.WordCount(ctx, req.Text)
		if err != nil {
			return wordCountResponse{}, err
		}

		return wordCountResponse{Result: res}, nil
	}
}

func healthEndpoint(svc estimator.Service) endpoint.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		info, err := svc.Health(ctx)
		if err != nil {
			return healthResponse{}, err
		}

		return healthResponse{HealthInfo: info}, nil
	}
}
