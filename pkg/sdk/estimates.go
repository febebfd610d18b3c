package sdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	piEndpoint        = "/pi"
	estimatesEndpoint = "/estimates"
)

type Estimate struct {
	ID                string    `json:"id"`
	Name              string    `json:"name,omitempty"`
	Method            string    `json:"method"`
	Samples           uint64    `json:"samples"`
	Workers           int       `json:"workers,omitempty"`
	Seed              int64     `json:"seed"`
	Hits              uint64    `json:"hits"`
	PiEstimate        float64   `json:"pi_estimate"`
	AbsError          float64   `json:"abs_error"`
	ElapsedSec        float64   `json:"elapsed_sec,omitempty"`
	ElapsedSecTotal   float64   `json:"elapsed_sec_total,omitempty"`
	ElapsedSecCompute float64   `json:"elapsed_sec_compute,omitempty"`
	PerWorkerSamples  []uint64  `json:"per_worker_samples,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type EstimatePage struct {
	Offset    uint64     `json:"offset"`
	Limit     uint64     `json:"limit"`
	Total     uint64     `json:"total"`
	Estimates []Estimate `json:"estimates"`
}

type exportRes struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

func (sdk *fastflowSDK) Estimate(n uint64) (Estimate, error) {
	reqURL := fmt.Sprintf("%s%s?n=%d", sdk.serverURL, piEndpoint, n)

	return sdk.estimate(http.MethodGet, reqURL, http.StatusOK)
}

func (sdk *fastflowSDK) EstimateParallel(n uint64, workers int, seed int64) (Estimate, error) {
	reqURL := fmt.Sprintf("%s%s/parallel?n=%d&workers=%d&seed=%d", sdk.serverURL, piEndpoint, n, workers, seed)

	return sdk.estimate(http.MethodGet, reqURL, http.StatusOK)
}

func (sdk *fastflowSDK) GetEstimate(id string) (Estimate, error) {
	reqURL := sdk.serverURL + estimatesEndpoint + "/" + id

	return sdk.estimate(http.MethodGet, reqURL, http.StatusOK)
}

func (sdk *fastflowSDK) ListEstimates(offset, limit uint64) (EstimatePage, error) {
	queries := make([]string, 0)
	if offset > 0 {
		queries = append(queries, fmt.Sprintf("offset=%d", offset))
	}
	if limit > 0 {
		queries = append(queries, fmt.Sprintf("limit=%d", limit))
	}
	query := ""
	if len(queries) > 0 {
		query = "?" + strings.Join(queries, "&")
	}
	reqURL := sdk.serverURL + estimatesEndpoint + query

	body, err := sdk.processRequest(http.MethodGet, reqURL, nil, http.StatusOK)
	if err != nil {
		return EstimatePage{}, err
	}

	var p EstimatePage
	if err := json.Unmarshal(body, &p); err != nil {
		return EstimatePage{}, err
	}

	return p, nil
}

func (sdk *fastflowSDK) DeleteEstimate(id string) error {
	reqURL := sdk.serverURL + estimatesEndpoint + "/" + id

	if _, err := sdk.processRequest(http.MethodDelete, reqURL, nil, http.StatusNoContent); err != nil {
		return err
	}

	return nil
}

func (sdk *fastflowSDK) ExportEstimate(id string) (string, error) {
	reqURL := sdk.serverURL + estimatesEndpoint + "/" + id + "/export"

	body, err := sdk.processRequest(http.MethodPost, reqURL, nil, http.StatusCreated)
	if err != nil {
		return "", err
	}

	var res exportRes
	if err := json.Unmarshal(body, &res); err != nil {
		return "", err
	}

	return res.Key, nil
}

func (sdk *fastflowSDK) ImportEstimate(key string) (Estimate, error) {
	reqURL := sdk.serverURL + estimatesEndpoint + "/import?key=" + url.QueryEscape(key)

	return sdk.estimate(http.MethodPost, reqURL, http.StatusOK)
}

func (sdk *fastflowSDK) estimate(method, reqURL string, expectedRespCode int) (Estimate, error) {
	body, err := sdk.processRequest(method, reqURL, nil, expectedRespCode)
	if err != nil {
		return Estimate{}, err
	}

	var e Estimate
	if err := json.Unmarshal(body, &e); err != nil {
		return Estimate{}, err
	}

	return e, nil
}
