package estimator

import (
	"encoding/json"
	"math"
	"slices"
	"time"
)

type Method string

const (
	Single   Method = "monte_carlo_single"
	Parallel Method = "monte_carlo_parallel"
)

// EstimateRecord is the terminal result of one estimate call. It is never
// modified after the service builds it.
type EstimateRecord struct {
	ID               string
	Name             string
	Method           Method
	TotalSamples     uint64
	WorkerCount      int
	Seed             int64
	Hits             uint64
	Estimate         float64
	AbsError         float64
	ElapsedTotal     time.Duration
	ElapsedCompute   time.Duration
	PerWorkerSamples []uint64
	CreatedAt        time.Time
}

type EstimatePage struct {
	Offset    uint64           `json:"offset"`
	Limit     uint64           `json:"limit"`
	Total     uint64           `json:"total"`
	Estimates []EstimateRecord `json:"estimates"`
}

type recordJSON struct {
	ID                string    `json:"id"`
	Name              string    `json:"name,omitempty"`
	Method            Method    `json:"method"`
	Samples           uint64    `json:"samples"`
	Workers           int       `json:"workers,omitempty"`
	Seed              int64     `json:"seed"`
	Hits              uint64    `json:"hits"`
	PiEstimate        float64   `json:"pi_estimate"`
	AbsError          float64   `json:"abs_error"`
	ElapsedSec        *float64  `json:"elapsed_sec,omitempty"`
	ElapsedSecTotal   *float64  `json:"elapsed_sec_total,omitempty"`
	ElapsedSecCompute *float64  `json:"elapsed_sec_compute,omitempty"`
	PerWorkerSamples  []uint64  `json:"per_worker_samples,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// MarshalJSON writes the single-shot fields or the parallel breakdown
// depending on the method, with elapsed times in seconds rounded to
// microseconds.
func (r EstimateRecord) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		ID:         r.ID,
		Name:       r.Name,
		Method:     r.Method,
		Samples:    r.TotalSamples,
		Seed:       r.Seed,
		Hits:       r.Hits,
		PiEstimate: r.Estimate,
		AbsError:   r.AbsError,
		CreatedAt:  r.CreatedAt,
	}

	switch r.Method {
	case Parallel:
		total, compute := seconds(r.ElapsedTotal), seconds(r.ElapsedCompute)
		out.Workers = r.WorkerCount
		out.ElapsedSecTotal = &total
		out.ElapsedSecCompute = &compute
		out.PerWorkerSamples = r.PerWorkerSamples
	default:
		total := seconds(r.ElapsedTotal)
		out.ElapsedSec = &total
	}

	return json.Marshal(out)
}

func (r *EstimateRecord) UnmarshalJSON(data []byte) error {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*r = EstimateRecord{
		ID:               in.ID,
		Name:             in.Name,
		Method:           in.Method,
		TotalSamples:     in.Samples,
		WorkerCount:      in.Workers,
		Seed:             in.Seed,
		Hits:             in.Hits,
		Estimate:         in.PiEstimate,
		AbsError:         in.AbsError,
		PerWorkerSamples: in.PerWorkerSamples,
		CreatedAt:        in.CreatedAt,
	}
	switch {
	case in.ElapsedSecTotal != nil:
		r.ElapsedTotal = duration(*in.ElapsedSecTotal)
	case in.ElapsedSec != nil:
		r.ElapsedTotal = duration(*in.ElapsedSec)
	}
	if in.ElapsedSecCompute != nil {
		r.ElapsedCompute = duration(*in.ElapsedSecCompute)
	}

	return nil
}

func (r EstimateRecord) clone() EstimateRecord {
	r.PerWorkerSamples = slices.Clone(r.PerWorkerSamples)

	return r
}

func seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1e6) / 1e6
}

func duration(sec float64) time.Duration {
	return time.Duration(math.Round(sec * float64(time.Second)))
}
