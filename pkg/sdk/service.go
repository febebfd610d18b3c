package sdk

import (
	"encoding/json"
	"net/http"
)

const (
	submitEndpoint    = "/submit"
	wordCountEndpoint = "/wordcount"
	healthEndpoint    = "/health"
	statsEndpoint     = "/pi/stats"
)

type Job struct {
	ID      string `json:"id"`
	Payload string `json:"payload"`
}

type JobAck struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

// WordCount holds the number of distinct words and the most frequent
// ones as [word, count] pairs.
type WordCount struct {
	Unique int     `json:"unique"`
	Top    [][]any `json:"top"`
}

type Health struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type LatencySummary struct {
	Count uint64  `json:"count"`
	Min   float64 `json:"min_sec"`
	Max   float64 `json:"max_sec"`
	P50   float64 `json:"p50_sec"`
	P90   float64 `json:"p90_sec"`
	P99   float64 `json:"p99_sec"`
}

type statsRes struct {
	Latency map[string]LatencySummary `json:"latency"`
}

func (sdk *fastflowSDK) SubmitJob(job Job) (JobAck, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return JobAck{}, err
	}

	body, err := sdk.processRequest(http.MethodPost, sdk.serverURL+submitEndpoint, data, http.StatusOK)
	if err != nil {
		return JobAck{}, err
	}

	var ack JobAck
	if err := json.Unmarshal(body, &ack); err != nil {
		return JobAck{}, err
	}

	return ack, nil
}

func (sdk *fastflowSDK) WordCount(text string) (WordCount, error) {
	data, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return WordCount{}, err
	}

	body, err := sdk.processRequest(http.MethodPost, sdk.serverURL+wordCountEndpoint, data, http.StatusOK)
	if err != nil {
		return WordCount{}, err
	}

	var wc WordCount
	if err := json.Unmarshal(body, &wc); err != nil {
		return WordCount{}, err
	}

	return wc, nil
}

func (sdk *fastflowSDK) Health() (Health, error) {
	body, err := sdk.processRequest(http.MethodGet, sdk.serverURL+healthEndpoint, nil, http.StatusOK)
	if err != nil {
		return Health{}, err
	}

	var h Health
	if err := json.Unmarshal(body, &h); err != nil {
		return Health{}, err
	}

	return h, nil
}

func (sdk *fastflowSDK) Stats() (map[string]LatencySummary, error) {
	body, err := sdk.processRequest(http.MethodGet, sdk.serverURL+statsEndpoint, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var s statsRes
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, err
	}

	return s.Latency, nil
}
