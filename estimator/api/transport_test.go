package api_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/absmach/fastflow/estimator"
	"github.com/absmach/fastflow/estimator/api"
	"github.com/absmach/fastflow/estimator/mocks"
	pkgerrors "github.com/absmach/fastflow/pkg/errors"
	"github.com/absmach/fastflow/pkg/stats"
	"github.com/absmach/fastflow/pkg/wordcount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	method      string
	path        string
	contentType string
	body        string
}

func newServer(t *testing.T) (*httptest.Server, *mocks.Service) {
	t.Helper()

	svc := mocks.NewService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(api.MakeHandler(svc, logger, "instance"))
	t.Cleanup(ts.Close)

	return ts, svc
}

func (tr testRequest) do(t *testing.T, ts *httptest.Server) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(tr.method, ts.URL+tr.path, strings.NewReader(tr.body))
	require.NoError(t, err)
	if tr.contentType != "" {
		req.Header.Set("Content-Type", tr.contentType)
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	body := map[string]any{}
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &body), string(data))
	}

	return res.StatusCode, body
}

func singleRecord(n uint64) estimator.EstimateRecord {
	return estimator.EstimateRecord{
		ID:           "3c4e8f5a-9b1d-4c2e-8a7f-6d5e4c3b2a10",
		Method:       estimator.Single,
		TotalSamples: n,
		Seed:         estimator.SingleSeed,
		Hits:         785,
		Estimate:     3.14,
		AbsError:     0.0015926535897929917,
		ElapsedTotal: 1500 * time.Microsecond,
	}
}

func parallelRecord(n uint64, workers int) estimator.EstimateRecord {
	per := make([]uint64, workers)
	for i := range per {
		per[i] = n / uint64(workers)
	}

	return estimator.EstimateRecord{
		ID:               "7f0b2a6e-1d3c-4b5a-9e8f-0a1b2c3d4e5f",
		Method:           estimator.Parallel,
		TotalSamples:     n,
		WorkerCount:      workers,
		Seed:             7,
		Estimate:         3.1416,
		ElapsedTotal:     2 * time.Millisecond,
		ElapsedCompute:   time.Millisecond,
		PerWorkerSamples: per,
	}
}

func TestEstimateEndpoint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc    string
		query   string
		samples int64
		call    bool
		err     error
		status  int
	}{
		{desc: "explicit samples", query: "?n=1000", samples: 1000, call: true, status: http.StatusOK},
		{desc: "default samples", query: "", samples: 100_000, call: true, status: http.StatusOK},
		{desc: "zero samples", query: "?n=0", status: http.StatusBadRequest},
		{desc: "negative samples", query: "?n=-3", status: http.StatusBadRequest},
		{desc: "malformed samples", query: "?n=lots", status: http.StatusBadRequest},
		{desc: "worker failure", query: "?n=10", samples: 10, call: true, err: fmt.Errorf("%w: partition 0", pkgerrors.ErrWorkerFailure), status: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			ts, svc := newServer(t)
			if tc.call {
				rec := estimator.EstimateRecord{}
				if tc.err == nil {
					rec = singleRecord(uint64(tc.samples))
				}
				svc.On("Estimate", mock.Anything, tc.samples).Return(rec, tc.err).Once()
			}

			status, body := testRequest{method: http.MethodGet, path: "/pi" + tc.query}.do(t, ts)
			assert.Equal(t, tc.status, status)

			if tc.status != http.StatusOK {
				assert.Contains(t, body, "error")

				return
			}
			assert.Equal(t, "monte_carlo_single", body["method"])
			assert.InDelta(t, float64(tc.samples), body["samples"], 0)
			assert.InDelta(t, 0.0015, body["elapsed_sec"], 1e-9)
			assert.NotContains(t, body, "workers")
		})
	}
}

func TestEstimateParallelEndpoint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc    string
		query   string
		samples int64
		workers int
		seed    int64
		call    bool
		err     error
		status  int
	}{
		{desc: "explicit params", query: "?n=100&workers=4&seed=7", samples: 100, workers: 4, seed: 7, call: true, status: http.StatusOK},
		{desc: "default seed", query: "?n=100&workers=2", samples: 100, workers: 2, seed: estimator.DefBaseSeed, call: true, status: http.StatusOK},
		{desc: "one worker", query: "?n=5&workers=1", samples: 5, workers: 1, seed: estimator.DefBaseSeed, call: true, status: http.StatusOK},
		{desc: "worker cap", query: "?n=1000&workers=128", samples: 1000, workers: 128, seed: estimator.DefBaseSeed, call: true, status: http.StatusOK},
		{desc: "too many workers", query: "?n=1000&workers=129", status: http.StatusBadRequest},
		{desc: "zero workers", query: "?n=1000&workers=0", status: http.StatusBadRequest},
		{desc: "zero samples", query: "?n=0&workers=2", status: http.StatusBadRequest},
		{desc: "malformed seed", query: "?n=10&workers=2&seed=x", status: http.StatusBadRequest},
		{desc: "more workers than samples", query: "?n=2&workers=3", samples: 2, workers: 3, seed: estimator.DefBaseSeed, call: true, status: http.StatusOK},
		{desc: "service rejects input", query: "?n=5&workers=2", samples: 5, workers: 2, seed: estimator.DefBaseSeed, call: true, err: pkgerrors.ErrInvalidInput, status: http.StatusBadRequest},
		{desc: "worker failure", query: "?n=10&workers=2", samples: 10, workers: 2, seed: estimator.DefBaseSeed, call: true, err: pkgerrors.ErrWorkerFailure, status: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			ts, svc := newServer(t)
			if tc.call {
				rec := estimator.EstimateRecord{}
				if tc.err == nil {
					rec = parallelRecord(uint64(tc.samples), tc.workers)
				}
				svc.On("EstimateParallel", mock.Anything, tc.samples, tc.workers, tc.seed).Return(rec, tc.err).Once()
			}

			status, body := testRequest{method: http.MethodGet, path: "/pi/parallel" + tc.query}.do(t, ts)
			assert.Equal(t, tc.status, status)

			if tc.status != http.StatusOK {
				assert.Contains(t, body, "error")

				return
			}
			assert.Equal(t, "monte_carlo_parallel", body["method"])
			assert.InDelta(t, float64(tc.workers), body["workers"], 0)
			assert.Len(t, body["per_worker_samples"], tc.workers)
			assert.InDelta(t, 0.002, body["elapsed_sec_total"], 1e-9)
			assert.InDelta(t, 0.001, body["elapsed_sec_compute"], 1e-9)
		})
	}
}

func TestEstimatesEndpoints(t *testing.T) {
	t.Parallel()

	rec := singleRecord(1000)

	t.Run("get", func(t *testing.T) {
		t.Parallel()

		ts, svc := newServer(t)
		svc.On("GetEstimate", mock.Anything, rec.ID).Return(rec, nil).Once()

		status, body := testRequest{method: http.MethodGet, path: "/estimates/" + rec.ID}.do(t, ts)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, rec.ID, body["id"])
	})

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()

		ts, svc := newServer(t)
		svc.On("GetEstimate", mock.Anything, "missing").Return(estimator.EstimateRecord{}, pkgerrors.ErrNotFound).Once()

		status, _ := testRequest{method: http.MethodGet, path: "/estimates/missing"}.do(t, ts)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()

		ts, svc := newServer(t)
		page := estimator.EstimatePage{Offset: 1, Limit: 5, Total: 2, Estimates: []estimator.EstimateRecord{rec}}
		svc.On("ListEstimates", mock.Anything, uint64(1), uint64(5)).Return(page, nil).Once()

		status, body := testRequest{method: http.MethodGet, path: "/estimates?offset=1&limit=5"}.do(t, ts)
		assert.Equal(t, http.StatusOK, status)
		assert.InDelta(t, 2, body["total"], 0)
		assert.Len(t, body["estimates"], 1)
	})

	t.Run("list limit too large", func(t *testing.T) {
		t.Parallel()

		ts, _ := newServer(t)

		status, _ := testRequest{method: http.MethodGet, path: "/estimates?limit=1000"}.do(t, ts)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		ts, svc := newServer(t)
		svc.On("DeleteEstimate", mock.Anything, rec.ID).Return(nil).Once()

		status, body := testRequest{method: http.MethodDelete, path: "/estimates/" + rec.ID}.do(t, ts)
		assert.Equal(t, http.StatusNoContent, status)
		assert.Empty(t, body)
	})

	t.Run("export", func(t *testing.T) {
		t.Parallel()

		ts, svc := newServer(t)
		svc.On("ExportEstimate", mock.Anything, rec.ID).Return(rec.ID+".json", nil).Once()

		status, body := testRequest{method: http.MethodPost, path: "/estimates/" + rec.ID + "/export"}.do(t, ts)
		assert.Equal(t, http.StatusCreated, status)
		assert.Equal(t, rec.ID+".json", body["key"])
	})

	t.Run("export without store", func(t *testing.T) {
		t.Parallel()

		ts, svc := newServer(t)
		svc.On("ExportEstimate", mock.Anything, rec.ID).Return("", pkgerrors.ErrNotConfigured).Once()

		status, _ := testRequest{method: http.MethodPost, path: "/estimates/" + rec.ID + "/export"}.do(t, ts)
		assert.Equal(t, http.StatusServiceUnavailable, status)
	})

	t.Run("import", func(t *testing.T) {
		t.Parallel()

		ts, svc := newServer(t)
		svc.On("ImportEstimate", mock.Anything, "runs/a.json").Return(rec, nil).Once()

		status, body := testRequest{method: http.MethodPost, path: "/estimates/import?key=runs/a.json"}.do(t, ts)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, rec.ID, body["id"])
	})

	t.Run("import without key", func(t *testing.T) {
		t.Parallel()

		ts, _ := newServer(t)

		status, _ := testRequest{method: http.MethodPost, path: "/estimates/import"}.do(t, ts)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()

	ts, svc := newServer(t)
	svc.On("Stats", mock.Anything).Return(map[string]stats.Summary{
		"parallel_compute": {Count: 3, Min: 0.1, Max: 0.3, P50: 0.2, P90: 0.3, P99: 0.3},
	}, nil).Once()

	status, body := testRequest{method: http.MethodGet, path: "/pi/stats"}.do(t, ts)
	assert.Equal(t, http.StatusOK, status)

	latency, ok := body["latency"].(map[string]any)
	require.True(t, ok)
	compute, ok := latency["parallel_compute"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 3, compute["count"], 0)
	assert.InDelta(t, 0.2, compute["p50_sec"], 1e-9)
}

func TestSubmitEndpoint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc        string
		contentType string
		body        string
		job         *estimator.Job
		status      int
	}{
		{desc: "queued", contentType: "application/json", body: `{"id":"job-1","payload":"x"}`, job: &estimator.Job{ID: "job-1", Payload: "x"}, status: http.StatusOK},
		{desc: "empty id and payload", contentType: "application/json", body: `{"id":"","payload":""}`, job: &estimator.Job{}, status: http.StatusOK},
		{desc: "missing id", contentType: "application/json", body: `{"payload":"x"}`, status: http.StatusBadRequest},
		{desc: "missing payload", contentType: "application/json", body: `{"id":"job-1"}`, status: http.StatusBadRequest},
		{desc: "malformed body", contentType: "application/json", body: `{`, status: http.StatusBadRequest},
		{desc: "wrong content type", contentType: "text/plain", body: `{"id":"job-1"}`, status: http.StatusUnsupportedMediaType},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			ts, svc := newServer(t)
			var msg string
			if tc.job != nil {
				msg = fmt.Sprintf("Job %s queued", tc.job.ID)
				svc.On("SubmitJob", mock.Anything, *tc.job).
					Return(estimator.JobAck{Accepted: true, Message: msg}, nil).Once()
			}

			status, body := testRequest{method: http.MethodPost, path: "/submit", contentType: tc.contentType, body: tc.body}.do(t, ts)
			assert.Equal(t, tc.status, status)
			if tc.job != nil {
				assert.Equal(t, true, body["accepted"])
				assert.Equal(t, msg, body["message"])
			}
		})
	}
}

func TestWordCountEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("counts", func(t *testing.T) {
		t.Parallel()

		ts, svc := newServer(t)
		svc.On("WordCount", mock.Anything, "a b a").Return(wordcount.Result{
			Unique: 2,
			Top:    []wordcount.Pair{{Word: "a", Count: 2}, {Word: "b", Count: 1}},
		}, nil).Once()

		status, body := testRequest{method: http.MethodPost, path: "/wordcount", contentType: "application/json", body: `{"text":"a b a"}`}.do(t, ts)
		assert.Equal(t, http.StatusOK, status)
		assert.InDelta(t, 2, body["unique"], 0)
		assert.Equal(t, []any{[]any{"a", float64(2)}, []any{"b", float64(1)}}, body["top"])
	})

	t.Run("wrong content type", func(t *testing.T) {
		t.Parallel()

		ts, _ := newServer(t)

		status, _ := testRequest{method: http.MethodPost, path: "/wordcount", contentType: "text/plain", body: "a b"}.do(t, ts)
		assert.Equal(t, http.StatusUnsupportedMediaType, status)
	})
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	ts, svc := newServer(t)
	svc.On("Health", mock.Anything).Return(estimator.HealthInfo{Status: "ok", UptimeSeconds: 12}, nil).Once()

	status, body := testRequest{method: http.MethodGet, path: "/health"}.do(t, ts)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.InDelta(t, 12, body["uptime_seconds"], 0)
}
