package sdk

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const CTJSON string = "application/json"

var ErrUnexpectedStatus = errors.New("unexpected response code")

type PageMetadata struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type SDK interface {
	// Estimate runs a single-shot estimate with n samples.
	//
	// example:
	//  est, _ := sdk.Estimate(100000)
	//  fmt.Println(est.PiEstimate)
	Estimate(n uint64) (Estimate, error)

	// EstimateParallel runs a parallel estimate with n samples split
	// across workers partitions seeded from seed.
	//
	// example:
	//  est, _ := sdk.EstimateParallel(2000000, 8, 1234)
	//  fmt.Println(est.PerWorkerSamples)
	EstimateParallel(n uint64, workers int, seed int64) (Estimate, error)

	// GetEstimate gets a completed estimate by id.
	//
	// example:
	//  est, _ := sdk.GetEstimate("b1d10738-c5d7-4ff1-8f4d-b9328ce6f040")
	//  fmt.Println(est)
	GetEstimate(id string) (Estimate, error)

	// ListEstimates lists completed estimates, oldest first.
	//
	// example:
	//  page, _ := sdk.ListEstimates(0, 10)
	//  fmt.Println(page)
	ListEstimates(offset, limit uint64) (EstimatePage, error)

	// DeleteEstimate removes an estimate from the history.
	DeleteEstimate(id string) error

	// ExportEstimate uploads an estimate to the object store and returns
	// its key.
	//
	// example:
	//  key, _ := sdk.ExportEstimate("b1d10738-c5d7-4ff1-8f4d-b9328ce6f040")
	//  fmt.Println(key)
	ExportEstimate(id string) (string, error)

	// ImportEstimate downloads a previously exported estimate.
	ImportEstimate(key string) (Estimate, error)

	// Stats returns latency quantiles per method.
	Stats() (map[string]LatencySummary, error)

	// SubmitJob queues a job.
	//
	// example:
	//  ack, _ := sdk.SubmitJob(sdk.Job{ID: "job-1", Payload: "data"})
	//  fmt.Println(ack.Message)
	SubmitJob(job Job) (JobAck, error)

	// WordCount counts words in text and returns the ten most frequent.
	WordCount(text string) (WordCount, error)

	// Health reports service status and uptime.
	Health() (Health, error)
}

type fastflowSDK struct {
	serverURL string
	client    *http.Client
}

type Config struct {
	ServerURL       string
	TLSVerification bool
}

func NewSDK(cfg Config) SDK {
	return &fastflowSDK{
		serverURL: cfg.ServerURL,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !cfg.TLSVerification,
				},
			},
		},
	}
}

type errorRes struct {
	Err string `json:"error"`
}

func (sdk *fastflowSDK) processRequest(method, reqURL string, data []byte, expectedRespCode int) ([]byte, error) {
	req, err := http.NewRequest(method, reqURL, bytes.NewReader(data))
	if err != nil {
		return []byte{}, err
	}

	req.Header.Add("Content-Type", CTJSON)

	resp, err := sdk.client.Do(req)
	if err != nil {
		return []byte{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []byte{}, err
	}

	if resp.StatusCode != expectedRespCode {
		var e errorRes
		if jerr := json.Unmarshal(body, &e); jerr == nil && e.Err != "" {
			return []byte{}, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, e.Err)
		}

		return []byte{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return body, nil
}
