package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime"
	"strings"

	"github.com/absmach/fastflow/estimator"
	"github.com/absmach/fastflow/pkg/api"
	"github.com/absmach/fastflow/pkg/executor"
	"github.com/absmach/supermq"
	apiutil "github.com/absmach/supermq/api/http/util"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	samplesKey = "n"
	workersKey = "workers"
	seedKey    = "seed"
	keyKey     = "key"

	defSingleSamples   = 100_000
	defParallelSamples = 2_000_000
)

func MakeHandler(svc estimator.Service, logger *slog.Logger, instanceID string) http.Handler {
	mux := chi.NewRouter()

	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	mux.Post("/submit", otelhttp.NewHandler(kithttp.NewServer(
		submitJobEndpoint(svc),
		decodeJobReq,
		api.EncodeResponse,
		opts...,
	), "submit-job").ServeHTTP)

	mux.Post("/wordcount", otelhttp.NewHandler(kithttp.NewServer(
		wordCountEndpoint(svc),
		decodeWordCountReq,
		api.EncodeResponse,
		opts...,
	), "word-count").ServeHTTP)

	mux.Route("/pi", func(r chi.Router) {
		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			estimateEndpoint(svc),
			decodeEstimateReq,
			api.EncodeResponse,
			opts...,
		), "estimate").ServeHTTP)
		r.Get("/parallel", otelhttp.NewHandler(kithttp.NewServer(
			estimateParallelEndpoint(svc),
			decodeParallelReq,
			api.EncodeResponse,
			opts...,
		), "estimate-parallel").ServeHTTP)
		r.Get("/stats", otelhttp.NewHandler(kithttp.NewServer(
			statsEndpoint(svc),
			decodeEmptyReq,
			api.EncodeResponse,
			opts...,
		), "stats").ServeHTTP)
	})

	mux.Route("/estimates", func(r chi.Router) {
		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			listEstimatesEndpoint(svc),
			decodeListEntityReq,
			api.EncodeResponse,
			opts...,
		), "list-estimates").ServeHTTP)
		r.Post("/import", otelhttp.NewHandler(kithttp.NewServer(
			importEstimateEndpoint(svc),
			decodeImportReq,
			api.EncodeResponse,
			opts...,
		), "import-estimate").ServeHTTP)
		r.Route("/{estimateID}", func(r chi.Router) {
			r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
				getEstimateEndpoint(svc),
				decodeEntityReq("estimateID"),
				api.EncodeResponse,
				opts...,
			), "get-estimate").ServeHTTP)
			r.Delete("/", otelhttp.NewHandler(kithttp.NewServer(
				deleteEstimateEndpoint(svc),
				decodeEntityReq("estimateID"),
				api.EncodeResponse,
				opts...,
			), "delete-estimate").ServeHTTP)
			r.Post("/export", otelhttp.NewHandler(kithttp.NewServer(
				exportEstimateEndpoint(svc),
				decodeEntityReq("estimateID"),
				api.EncodeResponse,
				opts...,
			), "export-estimate").ServeHTTP)
		})
	})

	mux.Get("/health", otelhttp.NewHandler(kithttp.NewServer(
		healthEndpoint(svc),
		decodeEmptyReq,
		api.EncodeResponse,
		opts...,
	), "health").ServeHTTP)
	mux.Get("/healthz", supermq.Health("fastflow", instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeEmptyReq(_ context.Context, _ *http.Request) (any, error) {
	return emptyReq{}, nil
}

func decodeEntityReq(key string) kithttp.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (any, error) {
		return entityReq{
			id: chi.URLParam(r, key),
		}, nil
	}
}

func decodeImportReq(_ context.Context, r *http.Request) (any, error) {
	return entityReq{
		id: r.URL.Query().Get(keyKey),
	}, nil
}

func decodeEstimateReq(_ context.Context, r *http.Request) (any, error) {
	n, err := apiutil.ReadNumQuery[int64](r, samplesKey, defSingleSamples)
	if err != nil {
		return nil, errors.Join(apiutil.ErrValidation, err)
	}

	return estimateReq{samples: n}, nil
}

func decodeParallelReq(_ context.Context, r *http.Request) (any, error) {
	n, err := apiutil.ReadNumQuery[int64](r, samplesKey, defParallelSamples)
	if err != nil {
		return nil, errors.Join(apiutil.ErrValidation, err)
	}

	w, err := apiutil.ReadNumQuery[int64](r, workersKey, defaultWorkers())
	if err != nil {
		return nil, errors.Join(apiutil.ErrValidation, err)
	}

	s, err := apiutil.ReadNumQuery[int64](r, seedKey, estimator.DefBaseSeed)
	if err != nil {
		return nil, errors.Join(apiutil.ErrValidation, err)
	}

	return parallelReq{
		samples: n,
		workers: w,
		seed:    s,
	}, nil
}

// defaultWorkers is the CPU count, clamped to the executor's worker cap.
func defaultWorkers() int64 {
	return int64(min(max(1, runtime.NumCPU()), executor.MaxWorkers))
}

func decodeListEntityReq(_ context.Context, r *http.Request) (any, error) {
	o, err := apiutil.ReadNumQuery[uint64](r, api.OffsetKey, api.DefOffset)
	if err != nil {
		return nil, errors.Join(apiutil.ErrValidation, err)
	}

	l, err := apiutil.ReadNumQuery[uint64](r, api.LimitKey, api.DefLimit)
	if err != nil {
		return nil, errors.Join(apiutil.ErrValidation, err)
	}

	return listEntityReq{
		offset: o,
		limit:  l,
	}, nil
}

func decodeJobReq(_ context.Context, r *http.Request) (any, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return nil, errors.Join(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	var req jobReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Join(err, apiutil.ErrValidation)
	}

	return req, nil
}

func decodeWordCountReq(_ context.Context, r *http.Request) (any, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return nil, errors.Join(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	var req wordCountReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Join(err, apiutil.ErrValidation)
	}

	return req, nil
}
